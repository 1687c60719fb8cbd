package input

import (
	"context"
	"sync"
	"time"
)

// Step is one scripted reply.
type Step struct {
	Text  string
	Delay time.Duration
	Err   error
}

// ScriptedChannel replays steps in order. Once the script runs out it stays
// silent until the read context is done.
type ScriptedChannel struct {
	mu      sync.Mutex
	steps   []Step
	next    int
	prompts []string
	reads   int
}

// NewScriptedChannel creates a channel that replays steps.
func NewScriptedChannel(steps ...Step) *ScriptedChannel {
	return &ScriptedChannel{steps: steps}
}

// Replies builds a script of immediate replies.
func Replies(texts ...string) *ScriptedChannel {
	steps := make([]Step, len(texts))
	for i, t := range texts {
		steps[i] = Step{Text: t}
	}
	return NewScriptedChannel(steps...)
}

// Push appends steps to the script.
func (s *ScriptedChannel) Push(steps ...Step) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, steps...)
}

func (s *ScriptedChannel) ReadLine(ctx context.Context) (string, error) {
	s.mu.Lock()
	s.reads++
	if s.next >= len(s.steps) {
		s.mu.Unlock()
		<-ctx.Done()
		return "", ctx.Err()
	}
	step := s.steps[s.next]
	s.next++
	s.mu.Unlock()

	if step.Delay > 0 {
		timer := time.NewTimer(step.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	if step.Err != nil {
		return "", step.Err
	}
	return step.Text, nil
}

func (s *ScriptedChannel) Prompt(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, text)
	return nil
}

// Prompts returns the prompts shown so far.
func (s *ScriptedChannel) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}

// Reads returns how many reads were started.
func (s *ScriptedChannel) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// Remaining returns how many steps were not consumed.
func (s *ScriptedChannel) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.steps) - s.next
}

var (
	_ Channel  = (*ScriptedChannel)(nil)
	_ Prompter = (*ScriptedChannel)(nil)
)
