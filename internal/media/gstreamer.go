// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package media

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// GStreamerEOS is printed by gst-launch when the pipeline drains normally.
const GStreamerEOS = "Got EOS"

type gstreamer struct {
	opts Options
}

func newGStreamer(opts Options) *gstreamer {
	if opts.LaunchBin == "" {
		opts.LaunchBin = "gst-launch-1.0"
	}
	if opts.ProbeBin == "" {
		opts.ProbeBin = "gst-discoverer-1.0"
	}
	return &gstreamer{opts: opts}
}

func (g *gstreamer) ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, g.opts.ProbeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, g.opts.ProbeBin, path).Output()
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrProbeFailed, g.opts.ProbeBin, err)
	}
	return parseDiscovererDuration(string(out))
}

func (g *gstreamer) Launch(ctx context.Context, path string, mode SinkMode) (*Handle, error) {
	plan := launchPlan{
		bin:       g.opts.LaunchBin,
		args:      g.args(path, mode),
		eosMarker: GStreamerEOS,
		lines:     g.opts.OutputLines,
	}
	if mode == SinkDisplay {
		plan.env = g.opts.DisplayEnv
	}
	return start(ctx, plan)
}

// args builds the gst-launch description. gst-launch escapes each argv element,
// so paths with spaces need no quoting.
func (g *gstreamer) args(path string, mode SinkMode) []string {
	if mode == SinkDisplay {
		return []string{"playbin", "uri=" + fileURI(path)}
	}
	return []string{"filesrc", "location=" + path, "!", "decodebin", "!", "fakesink", "sync=true"}
}

func fileURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

// parseDiscovererDuration extracts "Duration: H:MM:SS.fffffffff" from gst-discoverer output.
func parseDiscovererDuration(out string) (time.Duration, error) {
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		_, val, ok := strings.Cut(line, "Duration:")
		if !ok {
			continue
		}
		parts := strings.Split(strings.TrimSpace(val), ":")
		if len(parts) < 3 {
			continue
		}
		h, err1 := strconv.Atoi(parts[0])
		m, err2 := strconv.Atoi(parts[1])
		s, err3 := strconv.ParseFloat(parts[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		total := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s*float64(time.Second))
		if total <= 0 {
			break
		}
		return total, nil
	}
	return 0, fmt.Errorf("%w: no duration in discoverer output", ErrProbeFailed)
}
