package trainer

import (
	"context"
	"sync"
	"time"
)

// FakeClock is a manually driven Clock for tests.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock creates a clock stopped at t.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves the clock to t.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// MockPhraser returns fixed lines, or Err when set.
type MockPhraser struct {
	GreetingText string
	SummaryText  string
	Err          error
}

func (m *MockPhraser) Greeting(_ context.Context, _ string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.GreetingText, nil
}

func (m *MockPhraser) Summary(_ context.Context, _, _ int) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.SummaryText, nil
}

var (
	_ Clock   = (*FakeClock)(nil)
	_ Phraser = (*MockPhraser)(nil)
)
