package input

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCollect_ReplyBeforeDeadline(t *testing.T) {
	ch := NewScriptedChannel(Step{Text: "Alice", Delay: 50 * time.Millisecond})
	c := NewCollector(ch)

	got, err := c.Collect(context.Background(), Request{Prompt: "Who visited?", Deadline: 100 * time.Millisecond, MaxRetries: 2})
	require.NoError(t, err)
	assert.Equal(t, "Alice", got)
	assert.Equal(t, []string{"Who visited?"}, ch.Prompts())
	assert.Equal(t, 1, ch.Reads())
}

func TestCollect_TimeoutAfterAllWindows(t *testing.T) {
	ch := NewScriptedChannel()
	c := NewCollector(ch)
	deadline := 40 * time.Millisecond

	start := time.Now()
	_, err := c.Collect(context.Background(), Request{Deadline: deadline, MaxRetries: 2})
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrTimeout)
	assert.GreaterOrEqual(t, elapsed, 2*deadline)
	assert.Equal(t, 2, ch.Reads())
}

func TestCollect_EmptyRepliesConsumeWindows(t *testing.T) {
	ch := Replies("", "   ", "the park")
	c := NewCollector(ch)

	got, err := c.Collect(context.Background(), Request{Deadline: time.Second, MaxRetries: 3})
	require.NoError(t, err)
	assert.Equal(t, "the park", got)

	ch = Replies("", " ")
	_, err = NewCollector(ch).Collect(context.Background(), Request{Deadline: time.Second, MaxRetries: 2})
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 0, ch.Remaining())
}

func TestCollect_LateReplyDiscarded(t *testing.T) {
	ch := NewScriptedChannel(
		Step{Text: "too late", Delay: 200 * time.Millisecond},
		Step{Text: "on time"},
	)
	c := NewCollector(ch)

	got, err := c.Collect(context.Background(), Request{Deadline: 30 * time.Millisecond, MaxRetries: 2})
	require.NoError(t, err)
	assert.Equal(t, "on time", got)
}

func TestCollect_ZeroRetriesMeansOneWindow(t *testing.T) {
	ch := NewScriptedChannel()
	_, err := NewCollector(ch).Collect(context.Background(), Request{Deadline: 10 * time.Millisecond})
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 1, ch.Reads())
}

func TestCollect_NonPositiveDeadline(t *testing.T) {
	ch := Replies("unused")
	_, err := NewCollector(ch).Collect(context.Background(), Request{Deadline: 0, MaxRetries: 3})
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 0, ch.Reads())
}

func TestCollect_ParentCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewCollector(NewScriptedChannel()).Collect(ctx, Request{Deadline: time.Second, MaxRetries: 3})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestCollect_ChannelError(t *testing.T) {
	ch := NewScriptedChannel(Step{Err: ErrClosed})
	_, err := NewCollector(ch).Collect(context.Background(), Request{Deadline: time.Second, MaxRetries: 3})
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, 1, ch.Reads())
}

func TestReaderChannel(t *testing.T) {
	pr, pw := io.Pipe()
	var out bytes.Buffer
	ch := NewReaderChannel(pr, &out)
	c := NewCollector(ch)

	go func() {
		time.Sleep(20 * time.Millisecond)
		_, _ = io.WriteString(pw, "  Alice  \n")
	}()

	got, err := c.Collect(context.Background(), Request{Prompt: "Who visited?", Deadline: time.Second, MaxRetries: 1})
	require.NoError(t, err)
	assert.Equal(t, "Alice", got)
	assert.Equal(t, "Who visited?\n", out.String())

	require.NoError(t, pw.Close())
	_, err = c.Collect(context.Background(), Request{Deadline: time.Second, MaxRetries: 1})
	assert.ErrorIs(t, err, ErrClosed)

	_, err = ch.ReadLine(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestReaderChannel_DropsStaleLines(t *testing.T) {
	pr, pw := io.Pipe()
	ch := NewReaderChannel(pr, nil)
	defer pw.Close()

	_, err := io.WriteString(pw, "stale\n")
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)

	go func() {
		time.Sleep(20 * time.Millisecond)
		_, _ = io.WriteString(pw, "fresh\n")
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, err := ch.ReadLine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)
}
