// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputLog_KeepsLastLines(t *testing.T) {
	o := NewOutputLog(3)
	_, _ = o.Write([]byte("one\ntwo\nthree\nfour\n"))

	assert.Equal(t, []string{"two", "three", "four"}, o.Lines())
}

func TestOutputLog_JoinsPartialWrites(t *testing.T) {
	o := NewOutputLog(8)
	_, _ = o.Write([]byte("Got E"))
	_, _ = o.Write([]byte("OS from element \"pipeline0\".\r\nExecution ended\n"))

	assert.True(t, o.Contains(GStreamerEOS))
	assert.Equal(t, []string{`Got EOS from element "pipeline0".`, "Execution ended"}, o.Lines())
}

func TestOutputLog_UnterminatedTailVisible(t *testing.T) {
	o := NewOutputLog(2)
	_, _ = o.Write([]byte("Got EOS"))

	assert.True(t, o.Contains(GStreamerEOS))
}

func TestOutputLog_EmptyMarkerNeverMatches(t *testing.T) {
	o := NewOutputLog(0)
	_, _ = o.Write([]byte("anything\n"))

	assert.False(t, o.Contains(""))
}
