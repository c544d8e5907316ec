// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package media

import (
	"strings"
	"sync"
)

const defaultOutputLines = 64

// OutputLog keeps the last N lines of a pipeline's combined output.
// Partial lines are buffered until their newline arrives.
type OutputLog struct {
	mu      sync.Mutex
	lines   []string
	head    int
	count   int
	partial strings.Builder
}

// NewOutputLog creates an OutputLog holding up to capacity lines.
func NewOutputLog(capacity int) *OutputLog {
	if capacity < 1 {
		capacity = defaultOutputLines
	}
	return &OutputLog{lines: make([]string, capacity)}
}

// Write implements io.Writer.
func (o *OutputLog) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := string(p)
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			o.partial.WriteString(s)
			break
		}
		o.partial.WriteString(s[:i])
		o.push(o.partial.String())
		o.partial.Reset()
		s = s[i+1:]
	}
	return len(p), nil
}

func (o *OutputLog) push(line string) {
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return
	}
	o.lines[o.head] = line
	o.head = (o.head + 1) % len(o.lines)
	if o.count < len(o.lines) {
		o.count++
	}
}

// Lines returns the buffered lines oldest first, including any unterminated tail.
func (o *OutputLog) Lines() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]string, 0, o.count+1)
	start := (o.head - o.count + len(o.lines)) % len(o.lines)
	for i := 0; i < o.count; i++ {
		out = append(out, o.lines[(start+i)%len(o.lines)])
	}
	if o.partial.Len() > 0 {
		out = append(out, o.partial.String())
	}
	return out
}

// Contains reports whether any buffered line contains marker.
func (o *OutputLog) Contains(marker string) bool {
	if marker == "" {
		return false
	}
	for _, l := range o.Lines() {
		if strings.Contains(l, marker) {
			return true
		}
	}
	return false
}
