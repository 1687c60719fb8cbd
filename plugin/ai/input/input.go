// Package input collects a single line of human input within a deadline.
//
// The blocking read runs on its own goroutine and hands its result back
// through a one-slot buffer, so the caller regains control when the deadline
// fires even if the underlying channel is still waiting for the person.
package input

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

var (
	// ErrTimeout is returned when every read window elapsed or came back empty.
	ErrTimeout = errors.New("input timeout")
	// ErrClosed is returned when the channel can no longer produce input.
	ErrClosed = errors.New("input channel closed")
)

// Channel abstracts where replies come from: a console, a chat, speech-to-text.
// ReadLine should return when ctx is done.
type Channel interface {
	ReadLine(ctx context.Context) (string, error)
}

// Prompter is implemented by channels that can show text to the person.
type Prompter interface {
	Prompt(ctx context.Context, text string) error
}

// Request describes one bounded collection.
type Request struct {
	// Prompt is shown once before the first read window when the channel is a Prompter.
	Prompt string
	// Deadline is the length of each read window.
	Deadline time.Duration
	// MaxRetries is the total number of read windows. Values below 1 mean one window.
	MaxRetries int
}

// Collector runs bounded reads against a channel. Only one Collect may be
// outstanding at a time.
type Collector struct {
	ch Channel
}

// NewCollector creates a collector over ch.
func NewCollector(ch Channel) *Collector {
	return &Collector{ch: ch}
}

type readResult struct {
	text string
	err  error
}

// Collect returns the first non-empty reply. Empty replies and elapsed windows
// each consume one window; when none remain it returns ErrTimeout. A reply that
// arrives after its window closed is dropped.
func (c *Collector) Collect(ctx context.Context, req Request) (string, error) {
	windows := req.MaxRetries
	if windows < 1 {
		windows = 1
	}

	if p, ok := c.ch.(Prompter); ok && req.Prompt != "" {
		if err := p.Prompt(ctx, req.Prompt); err != nil {
			slog.Warn("failed to show prompt", "error", err)
		}
	}

	for window := 1; window <= windows; window++ {
		text, err := c.readWindow(ctx, req.Deadline)
		switch {
		case err == nil:
			if text = strings.TrimSpace(text); text != "" {
				return text, nil
			}
			slog.Debug("empty reply", "window", window, "windows", windows)
		case errors.Is(err, ErrTimeout):
			slog.Debug("read window elapsed", "window", window, "windows", windows)
		default:
			return "", err
		}
	}
	return "", ErrTimeout
}

func (c *Collector) readWindow(ctx context.Context, deadline time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if deadline <= 0 {
		return "", ErrTimeout
	}

	readCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	slot := make(chan readResult, 1)
	go func() {
		text, err := c.ch.ReadLine(readCtx)
		slot <- readResult{text: text, err: err}
	}()

	select {
	case r := <-slot:
		if r.err == nil {
			return r.text, nil
		}
		if readCtx.Err() != nil {
			return "", c.windowErr(ctx)
		}
		return "", r.err
	case <-readCtx.Done():
		return "", c.windowErr(ctx)
	}
}

// windowErr tells an elapsed window apart from the caller giving up.
func (c *Collector) windowErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrTimeout
}
