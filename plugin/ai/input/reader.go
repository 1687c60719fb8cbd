package input

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

type line struct {
	text string
	at   time.Time
	err  error
}

// ReaderChannel reads lines from an io.Reader such as stdin. A single pump
// goroutine owns the reader; lines that arrive while nobody is waiting are
// discarded by the next ReadLine.
type ReaderChannel struct {
	out   io.Writer
	lines chan line
	now   func() time.Time

	mu     sync.Mutex
	closed error
}

// NewReaderChannel starts pumping lines from r. Prompts are written to out
// when out is non-nil.
func NewReaderChannel(r io.Reader, out io.Writer) *ReaderChannel {
	c := &ReaderChannel{
		out:   out,
		lines: make(chan line, 16),
		now:   time.Now,
	}
	go c.pump(bufio.NewScanner(r))
	return c
}

func (c *ReaderChannel) pump(scanner *bufio.Scanner) {
	defer close(c.lines)
	for scanner.Scan() {
		c.lines <- line{text: scanner.Text(), at: c.now()}
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	c.lines <- line{err: err, at: c.now()}
}

// ReadLine returns the next line typed after the call started.
func (c *ReaderChannel) ReadLine(ctx context.Context) (string, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed != nil {
		return "", closed
	}

	started := c.now()
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case l, ok := <-c.lines:
			if !ok {
				return "", ErrClosed
			}
			if l.err != nil {
				err := fmt.Errorf("%w: %v", ErrClosed, l.err)
				c.mu.Lock()
				c.closed = err
				c.mu.Unlock()
				return "", err
			}
			if l.at.Before(started) {
				continue
			}
			return l.text, nil
		}
	}
}

// Prompt writes text followed by a newline.
func (c *ReaderChannel) Prompt(_ context.Context, text string) error {
	if c.out == nil {
		return nil
	}
	_, err := fmt.Fprintln(c.out, text)
	return err
}

var (
	_ Channel  = (*ReaderChannel)(nil)
	_ Prompter = (*ReaderChannel)(nil)
)
