// Package generator bridges jobs to the external video-generation runtime.
package generator

import "context"

// Request describes one generation invocation. All media has already been
// validated and written to disk by the caller.
type Request struct {
	ImagePath  string
	AudioPath  string
	Prompt     string
	OutputPath string
}

// Generator abstracts the model runtime. Implementations must write the
// resulting MP4 to Request.OutputPath before returning nil.
type Generator interface {
	// Generate runs one blocking generation. Implementations must return
	// promptly when the context is canceled; the in-flight work is abandoned.
	Generate(ctx context.Context, req Request) error
	// Ready reports whether the runtime has loaded its weights.
	Ready() bool
	// PID returns the runtime process id, or 0 when not running.
	PID() int
	// Close terminates the runtime and releases resources.
	Close() error
}
