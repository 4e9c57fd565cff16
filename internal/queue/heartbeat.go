package queue

import (
	"context"
	"sync"
	"time"

	"hairworks/internal/infra"
)

// Heartbeat keeps one lease alive while the owning job runs. It renews on a
// fixed interval in its own goroutine; renewal failures are logged and
// otherwise ignored, so a persistently failing renewal simply lets the lease
// expire. Stop is safe to call more than once and waits for the goroutine to
// exit, guaranteeing no renewal fires after it returns.
type Heartbeat struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// StartHeartbeat begins renewing the lease every interval, extending it by
// visibility each time.
func StartHeartbeat(renewer Renewer, lease Lease, interval, visibility time.Duration, logger infra.Logger) *Heartbeat {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Heartbeat{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(h.done)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if err := renewer.Renew(ctx, lease, visibility); err != nil {
					logger.Warn().Err(err).Msg("heartbeat: lease renewal failed")
					continue
				}
				logger.Debug().Msg("heartbeat: lease extended")
			}
		}
	}()

	return h
}

// Stop cancels the renewal loop and blocks until it has exited.
func (h *Heartbeat) Stop() {
	h.once.Do(h.cancel)
	<-h.done
}
