package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

// TargetSampleRate is what the audio encoder downstream expects.
const TargetSampleRate = 16000

// commandRunner abstracts process execution for testability.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// execRunner executes commands via os/exec and returns combined stderr on failure.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stderr.String(), fmt.Errorf("%s: %w", name, err)
	}
	return stderr.String(), nil
}

// Resampler converts WAV audio to the target sample rate using ffmpeg.
type Resampler struct {
	FFmpegPath string // defaults to "ffmpeg" on PATH
	Rate       int    // defaults to TargetSampleRate
	runner     commandRunner
}

// NewResampler returns a Resampler with defaults suitable for production.
func NewResampler() *Resampler {
	return &Resampler{runner: execRunner{}}
}

func (r *Resampler) ffmpeg() string {
	if r.FFmpegPath != "" {
		return r.FFmpegPath
	}
	return "ffmpeg"
}

func (r *Resampler) rate() int {
	if r.Rate > 0 {
		return r.Rate
	}
	return TargetSampleRate
}

// Needed reports whether info requires conversion before generation.
func (r *Resampler) Needed(info WAVInfo) bool {
	return info.SampleRate != r.rate() || info.Channels != 1
}

// Resample converts src to a mono WAV at the target rate, writing to dst.
func (r *Resampler) Resample(ctx context.Context, src, dst string) error {
	if r.runner == nil {
		r.runner = execRunner{}
	}
	stderr, err := r.runner.Run(ctx, r.ffmpeg(),
		"-y", "-i", src,
		"-ar", strconv.Itoa(r.rate()),
		"-ac", "1",
		dst,
	)
	if err != nil {
		tail := stderr
		if len(tail) > 512 {
			tail = tail[len(tail)-512:]
		}
		return fmt.Errorf("resample audio to %dHz: %w: %s", r.rate(), err, tail)
	}
	return nil
}
