package generator

import (
	"context"
	"os"
	"sync/atomic"
	"time"
)

// Stub is a Generator for tests and smoke deployments: it writes canned MP4
// bytes to the output path after an optional delay.
type Stub struct {
	// Video bytes written on success. Defaults to a minimal ftyp box.
	Video []byte
	// Delay before completing, to exercise timeouts and queueing.
	Delay time.Duration
	// Err, when set, is returned instead of producing output.
	Err error

	calls atomic.Int64
}

var stubMP4 = []byte{0, 0, 0, 16, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm', 0, 0, 0, 0}

func (s *Stub) Generate(ctx context.Context, req Request) error {
	s.calls.Add(1)
	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if s.Err != nil {
		return s.Err
	}
	video := s.Video
	if video == nil {
		video = stubMP4
	}
	return os.WriteFile(req.OutputPath, video, 0o600)
}

func (s *Stub) Ready() bool { return true }

func (s *Stub) PID() int { return 0 }

func (s *Stub) Close() error { return nil }

// Calls returns how many times Generate was invoked.
func (s *Stub) Calls() int64 { return s.calls.Load() }
