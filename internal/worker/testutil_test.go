package worker

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"hallod/internal/generator"
	"hallod/internal/media"
)

func b64PNG() string {
	return base64.StdEncoding.EncodeToString([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0})
}

// b64WAV encodes a minimal RIFF/WAVE header with the given format.
func b64WAV(channels, sampleRate, bits int) string {
	fmtBody := make([]byte, 16)
	binary.LittleEndian.PutUint16(fmtBody[0:2], 1)
	binary.LittleEndian.PutUint16(fmtBody[2:4], uint16(channels))
	binary.LittleEndian.PutUint32(fmtBody[4:8], uint32(sampleRate))
	binary.LittleEndian.PutUint32(fmtBody[8:12], uint32(sampleRate*channels*bits/8))
	binary.LittleEndian.PutUint16(fmtBody[12:14], uint16(channels*bits/8))
	binary.LittleEndian.PutUint16(fmtBody[14:16], uint16(bits))

	var b []byte
	b = append(b, []byte("RIFF")...)
	b = append(b, make([]byte, 4)...)
	b = append(b, []byte("WAVE")...)
	b = append(b, []byte("fmt ")...)
	var sz [4]byte
	binary.LittleEndian.PutUint32(sz[:], uint32(len(fmtBody)))
	b = append(b, sz[:]...)
	b = append(b, fmtBody...)
	b = append(b, []byte("data")...)
	b = append(b, 0, 0, 0, 0)
	binary.LittleEndian.PutUint32(b[4:8], uint32(len(b)-8))
	return base64.StdEncoding.EncodeToString(b)
}

// captureGenerator records requests and tracks concurrent invocations.
type captureGenerator struct {
	mu         sync.Mutex
	reqs       []generator.Request
	inflight   int
	maxSeen    int
	underlying generator.Stub
}

func (c *captureGenerator) Generate(ctx context.Context, req generator.Request) error {
	c.mu.Lock()
	c.reqs = append(c.reqs, req)
	c.inflight++
	if c.inflight > c.maxSeen {
		c.maxSeen = c.inflight
	}
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.inflight--
		c.mu.Unlock()
	}()
	return c.underlying.Generate(ctx, req)
}

func (c *captureGenerator) Ready() bool  { return true }
func (c *captureGenerator) PID() int     { return 0 }
func (c *captureGenerator) Close() error { return nil }

// fakeFFmpeg writes a shell script that copies the input file to the last
// argument, standing in for a real resample.
func fakeFFmpeg(t *testing.T) *media.Resampler {
	t.Helper()
	p := filepath.Join(t.TempDir(), "ffmpeg")
	script := `#!/bin/sh
in=""
prev=""
for a in "$@"; do
  if [ "$prev" = "-i" ]; then in="$a"; fi
  prev="$a"
  out="$a"
done
cp "$in" "$out"
`
	if err := os.WriteFile(p, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake ffmpeg: %v", err)
	}
	r := media.NewResampler()
	r.FFmpegPath = p
	return r
}

func newTestWorker(t *testing.T, cfg Config) *Worker {
	t.Helper()
	if cfg.ScratchDir == "" {
		cfg.ScratchDir = t.TempDir()
	}
	w := New(cfg)
	t.Cleanup(func() { _ = w.Close() })
	return w
}
