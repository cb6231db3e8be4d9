package worker

import (
	"context"
	"time"
)

// acquire reserves a queue slot and then the single in-flight slot. Returns a
// release func to be deferred.
func (w *Worker) acquire(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}

	timer := time.NewTimer(w.cfg.MaxWait)
	defer timer.Stop()
	select {
	case w.queueCh <- struct{}{}:
		// reserved queue slot
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		return func() {}, busyError{}
	}

	acquired := false
	defer func() {
		if !acquired {
			<-w.queueCh
		}
	}()
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}
	timer2 := time.NewTimer(w.cfg.MaxWait)
	defer timer2.Stop()
	select {
	case w.genCh <- struct{}{}:
		acquired = true
		return func() { <-w.genCh; <-w.queueCh }, nil
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer2.C:
		return func() {}, busyError{}
	}
}
