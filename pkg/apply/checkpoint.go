package apply

import (
	"context"
	"time"

	"github.com/go-logr/logr"

	"github.com/nmstate/nmstate-go/pkg/backendapi"
	"github.com/nmstate/nmstate-go/pkg/metrics"
)

// checkpointGuard tracks a live checkpoint's deadline and extends it
// once more than half its timeout has elapsed, so a slow verify loop
// doesn't race the backend's own auto-rollback timer.
type checkpointGuard struct {
	backend   backendapi.Backend
	token     backendapi.CheckpointToken
	timeout   time.Duration
	createdAt time.Time
}

func newCheckpointGuard(backend backendapi.Backend, token backendapi.CheckpointToken, timeout time.Duration) *checkpointGuard {
	return &checkpointGuard{backend: backend, token: token, timeout: timeout, createdAt: time.Now()}
}

// extendIfHalfElapsed extends the checkpoint's deadline if more than
// half of `timeout` has already passed since it was created (or since
// the last extension), keeping a comfortable margin before the
// backend would auto-rollback underneath the orchestrator.
func (g *checkpointGuard) extendIfHalfElapsed(ctx context.Context) error {
	elapsed := time.Since(g.createdAt)
	if elapsed < g.timeout/2 {
		return nil
	}
	if err := g.backend.ExtendCheckpoint(ctx, g.token, g.timeout); err != nil {
		return err
	}
	metrics.RecordCheckpointExtend()
	g.createdAt = time.Now()
	return nil
}

// RunCheckpointReaper polls backend for expired checkpoints every
// interval and rolls each one back, until ctx is cancelled. Backends
// that don't implement backendapi.CheckpointReaper are a no-op: they
// either have no concept of an out-of-band deadline sweep or enforce
// it themselves. Intended to run as a background goroutine alongside
// whatever process hosts the Orchestrator.
func RunCheckpointReaper(ctx context.Context, backend backendapi.Backend, log logr.Logger, interval time.Duration) {
	reaper, ok := backend.(backendapi.CheckpointReaper)
	if !ok {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, token := range reaper.ExpiredCheckpoints(time.Now()) {
				if err := backend.Rollback(ctx, token); err != nil {
					log.Error(err, "failed to roll back expired checkpoint", "token", token)
					continue
				}
				log.Info("rolled back expired checkpoint", "token", token)
				metrics.RecordCheckpointExpired()
			}
		}
	}
}
