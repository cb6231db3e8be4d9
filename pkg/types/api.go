package types

// JobRequest is the envelope submitted to POST /run.
type JobRequest struct {
	// Job payload.
	Input JobInput `json:"input"`
}

// JobInput carries the media for one generation job.
type JobInput struct {
	// Required source face image, base64-encoded PNG or JPEG.
	// example: iVBORw0KGgo...
	Image string `json:"image"`
	// Required driving audio, base64-encoded WAV.
	// example: UklGRiQAAABXQVZF...
	Audio string `json:"audio"`
	// Optional text prompt steering the generation. Defaults server-side.
	// example: A person talking naturally
	Prompt string `json:"prompt,omitempty"`
	// Optional base64-encoded MP4. Accepted for compatibility; motion is
	// derived from audio, so this field is ignored.
	DrivingVideo string `json:"driving_video,omitempty"`
}

// JobOutput is the success payload of a completed job.
type JobOutput struct {
	// Generated video, base64-encoded MP4.
	Video string `json:"video"`
}

// JobResponse wraps a job result: exactly one of Output or Error is set.
type JobResponse struct {
	Output *JobOutput `json:"output,omitempty"`
	// Error message when the job failed.
	// example: missing required input: audio
	Error string `json:"error,omitempty"`
	// HTTP status code accompanying Error.
	// example: 400
	Code int `json:"code,omitempty"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// GeneratorStatus summarizes the resident generator for /status.
type GeneratorStatus struct {
	// Current lifecycle state (idle, loading, ready, error).
	// example: ready
	State string `json:"state"`
	// Last time the generator served a job (unix seconds, 0 if never).
	// example: 1700000000
	LastUsed int64 `json:"last_used_unix"`
	// Process ID of the runtime subprocess while a job is running.
	// example: 12345
	PID int `json:"pid,omitempty"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Overall worker state (loading, ready, error).
	// example: ready
	State string `json:"state"`
	// Resident generator details.
	Generator GeneratorStatus `json:"generator"`
	// Whether model weights are present on disk.
	WeightsReady bool `json:"weights_ready"`
	// Jobs currently being processed (0 or 1).
	Inflight int `json:"inflight"`
	// Jobs waiting for the in-flight slot.
	QueueLen int `json:"queue_len"`
	// Maximum queued jobs before backpressure triggers.
	// example: 4
	MaxQueueDepth int `json:"max_queue_depth"`
	// Total jobs completed successfully since start.
	JobsCompleted uint64 `json:"jobs_completed"`
	// Total jobs failed since start.
	JobsFailed uint64 `json:"jobs_failed"`
	// Last error observed by the worker (if any).
	LastError string `json:"last_error,omitempty"`
	// Uptime of the worker in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix"`
}
