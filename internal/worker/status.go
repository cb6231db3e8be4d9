package worker

import (
	"time"

	"hallod/pkg/types"
)

// Status builds a detailed status response for /status.
func (w *Worker) Status() types.StatusResponse {
	w.mu.Lock()
	defer w.mu.Unlock()

	weightsReady := w.cfg.Weights == nil || w.cfg.Weights.Ready()
	genState := "idle"
	var pid int
	if w.cfg.Generator != nil {
		if w.cfg.Generator.Ready() {
			genState = "ready"
		}
		pid = w.cfg.Generator.PID()
	} else {
		genState = "error"
	}
	state := "ready"
	if !weightsReady || w.cfg.Generator == nil {
		state = "loading"
	}
	if w.cfg.Generator == nil {
		state = "error"
	}

	var lastUsed int64
	if !w.lastUsed.IsZero() {
		lastUsed = w.lastUsed.Unix()
	}
	return types.StatusResponse{
		State: state,
		Generator: types.GeneratorStatus{
			State:    genState,
			LastUsed: lastUsed,
			PID:      pid,
		},
		WeightsReady:   weightsReady,
		Inflight:       len(w.genCh),
		QueueLen:       len(w.queueCh),
		MaxQueueDepth:  cap(w.queueCh),
		JobsCompleted:  w.completed,
		JobsFailed:     w.failed,
		LastError:      w.lastErr,
		UptimeSeconds:  int64(time.Since(w.start).Seconds()),
		ServerTimeUnix: time.Now().Unix(),
	}
}
