// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package input

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPollConsumesQueuedSkip(t *testing.T) {
	pr, pw := io.Pipe()
	c := NewConsole(pr)
	defer pw.Close()

	assert.False(t, c.Poll())

	_, err := io.WriteString(pw, "x\nS\n")
	require.NoError(t, err)

	assert.Eventually(t, c.Poll, time.Second, 5*time.Millisecond)
	assert.False(t, c.Poll(), "a skip is consumed once")
}

func TestReadLine(t *testing.T) {
	c := NewConsole(strings.NewReader("  4 \ny\n"))

	line, err := c.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "4", line)

	line, err = c.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "y", line)

	_, err = c.ReadLine(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestReadLineHonorsContext(t *testing.T) {
	pr, pw := io.Pipe()
	c := NewConsole(pr)
	defer pw.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.ReadLine(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDrain(t *testing.T) {
	c := NewConsole(strings.NewReader("s\n"))
	<-c.done
	c.Drain()
	assert.False(t, c.Poll())
}
