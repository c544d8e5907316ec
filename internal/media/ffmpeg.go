// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package media

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ffmpeg plays through ffplay (display) or ffmpeg into a null muxer (headless).
// Neither prints a reliable end-of-stream line, so completion relies on exit code 0.
type ffmpeg struct {
	opts Options
}

func newFFmpeg(opts Options) *ffmpeg {
	if opts.LaunchBin == "" {
		opts.LaunchBin = "ffmpeg"
	}
	if opts.PlayerBin == "" {
		opts.PlayerBin = "ffplay"
	}
	if opts.ProbeBin == "" {
		opts.ProbeBin = "ffprobe"
	}
	return &ffmpeg{opts: opts}
}

func (f *ffmpeg) ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, f.opts.ProbeTimeout)
	defer cancel()

	// ffprobe -v error -show_entries format=duration -of default=noprint_wrappers=1:nokey=1 <file>
	c := exec.CommandContext(ctx, f.opts.ProbeBin, "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := c.Output()
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrProbeFailed, f.opts.ProbeBin, err)
	}
	return parseFFprobeDuration(string(out))
}

func (f *ffmpeg) Launch(ctx context.Context, path string, mode SinkMode) (*Handle, error) {
	bin, args := f.command(path, mode)
	plan := launchPlan{bin: bin, args: args, lines: f.opts.OutputLines}
	if mode == SinkDisplay {
		plan.env = f.opts.DisplayEnv
	}
	return start(ctx, plan)
}

func (f *ffmpeg) command(path string, mode SinkMode) (string, []string) {
	if mode == SinkDisplay {
		return f.opts.PlayerBin, []string{"-autoexit", "-hide_banner", "-loglevel", "warning", path}
	}
	return f.opts.LaunchBin, []string{"-nostdin", "-hide_banner", "-loglevel", "warning", "-re", "-i", path, "-f", "null", "-"}
}

func parseFFprobeDuration(out string) (time.Duration, error) {
	val := strings.TrimSpace(out)
	if val == "" || val == "N/A" {
		return 0, fmt.Errorf("%w: no duration found", ErrProbeFailed)
	}
	secs, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrProbeFailed, err)
	}
	if secs <= 0 {
		return 0, fmt.Errorf("%w: non-positive duration %q", ErrProbeFailed, val)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
