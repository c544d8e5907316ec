// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package input turns a line-oriented reader (normally stdin) into the
// non-blocking skip poll of the ad phase and the blocking prompts of the CLI.
package input

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/ManuGH/rewardtv/internal/log"
)

// SkipCommand is the line that requests an ad skip.
const SkipCommand = "s"

// ErrClosed is returned by ReadLine once the reader reached EOF.
var ErrClosed = errors.New("input: closed")

const lineBuffer = 32

// Console reads lines in a background goroutine. Lines queue up until Poll
// or ReadLine consumes them, so a skip typed before the gate unlocks is
// honored at the first poll after unlock.
type Console struct {
	lines chan string
	done  chan struct{}

	errMu sync.Mutex
	err   error
}

// NewConsole starts reading r. The reader goroutine ends when r returns an
// error or EOF.
func NewConsole(r io.Reader) *Console {
	c := &Console{
		lines: make(chan string, lineBuffer),
		done:  make(chan struct{}),
	}
	go c.read(r)
	return c
}

func (c *Console) read(r io.Reader) {
	defer close(c.done)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		select {
		case c.lines <- line:
		default:
			logger := log.WithComponent("input")
			logger.Debug().Str("line", line).Msg("input buffer full, dropping line")
		}
	}
	if err := sc.Err(); err != nil {
		c.errMu.Lock()
		c.err = err
		c.errMu.Unlock()
	}
}

// Poll reports whether a skip was requested since the last call. It never
// blocks; other pending lines are discarded.
func (c *Console) Poll() bool {
	for {
		select {
		case line := <-c.lines:
			if strings.EqualFold(line, SkipCommand) {
				return true
			}
		default:
			return false
		}
	}
}

// Drain discards queued lines, e.g. before showing a prompt.
func (c *Console) Drain() {
	for {
		select {
		case <-c.lines:
		default:
			return
		}
	}
}

// ReadLine blocks until a line is available, the reader is exhausted or ctx
// is done.
func (c *Console) ReadLine(ctx context.Context) (string, error) {
	select {
	case line := <-c.lines:
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-c.done:
		// Lines queued before EOF are still delivered.
		select {
		case line := <-c.lines:
			return line, nil
		default:
		}
		c.errMu.Lock()
		defer c.errMu.Unlock()
		if c.err != nil {
			return "", c.err
		}
		return "", ErrClosed
	}
}
