// Package worker owns the job lifecycle: validation, media plumbing, and the
// single resident generator each process carries.
package worker

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"hallod/internal/generator"
	"hallod/internal/media"
	"hallod/internal/weights"
)

const (
	defaultMaxQueueDepth = 4
	defaultMaxWait       = 30 * time.Second
	defaultExecTimeout   = 15 * time.Minute
	defaultMaxImageBytes = 16 << 20
	defaultMaxAudioBytes = 32 << 20
	// DefaultPrompt matches the documented behavior when a job omits it.
	DefaultPrompt = "A person talking naturally"
)

// Config carries worker construction parameters. Zero values select the
// package defaults above.
type Config struct {
	Generator generator.Generator
	Weights   *weights.Downloader
	Resampler *media.Resampler
	// ScratchDir holds decoded media for the duration of one job.
	ScratchDir string
	// DefaultPrompt replaces an empty job prompt.
	DefaultPrompt string
	// ExecTimeout bounds one generation. Expiry kills the runtime.
	ExecTimeout time.Duration
	// MaxQueueDepth jobs may wait for the single in-flight slot.
	MaxQueueDepth int
	// MaxWait bounds how long a queued job waits before a busy error.
	MaxWait time.Duration
	// Decoded media size caps.
	MaxImageBytes int64
	MaxAudioBytes int64
	Log           zerolog.Logger
}

// Worker handles one job at a time against a resident generator. Concurrency
// across jobs is the platform's business: it runs more workers, each with its
// own process and model copy.
type Worker struct {
	cfg   Config
	start time.Time

	// Single in-flight generation plus a small bounded wait queue.
	genCh   chan struct{}
	queueCh chan struct{}

	mu        sync.Mutex
	lastErr   string
	lastUsed  time.Time
	completed uint64
	failed    uint64
}

// New constructs a Worker, applying defaults for unset config fields.
func New(cfg Config) *Worker {
	if cfg.DefaultPrompt == "" {
		cfg.DefaultPrompt = DefaultPrompt
	}
	if cfg.ExecTimeout <= 0 {
		cfg.ExecTimeout = defaultExecTimeout
	}
	if cfg.MaxQueueDepth <= 0 {
		cfg.MaxQueueDepth = defaultMaxQueueDepth
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = defaultMaxWait
	}
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = defaultMaxImageBytes
	}
	if cfg.MaxAudioBytes <= 0 {
		cfg.MaxAudioBytes = defaultMaxAudioBytes
	}
	if cfg.Resampler == nil {
		cfg.Resampler = media.NewResampler()
	}
	return &Worker{
		cfg:     cfg,
		start:   time.Now(),
		genCh:   make(chan struct{}, 1),
		queueCh: make(chan struct{}, cfg.MaxQueueDepth),
	}
}

// Ready reports whether the worker can serve a job without a cold start
// beyond generator warmup: weights are on disk (or no downloader configured).
func (w *Worker) Ready() bool {
	if w.cfg.Weights != nil && !w.cfg.Weights.Ready() {
		return false
	}
	return w.cfg.Generator != nil
}

// Close shuts down the resident generator.
func (w *Worker) Close() error {
	if w.cfg.Generator != nil {
		return w.cfg.Generator.Close()
	}
	return nil
}

func (w *Worker) recordFailure(err error) {
	w.mu.Lock()
	w.failed++
	w.lastErr = err.Error()
	w.mu.Unlock()
}

func (w *Worker) recordSuccess() {
	w.mu.Lock()
	w.completed++
	w.lastUsed = time.Now()
	w.mu.Unlock()
}
