package worker

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pratik-mahalle/missioncontrol/internal/pkg/logger"
)

// Poller runs a task immediately and then on a fixed interval until its
// context ends.
type Poller struct {
	name     string
	task     func(ctx context.Context)
	interval time.Duration
	clock    clockwork.Clock
	logger   *logger.Logger
}

// NewPoller creates a new poller worker
func NewPoller(name string, interval time.Duration, clock clockwork.Clock, task func(ctx context.Context), log *logger.Logger) *Poller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Poller{
		name:     name,
		task:     task,
		interval: interval,
		clock:    clock,
		logger:   log.With("worker", name),
	}
}

// Start blocks, running the task until ctx is cancelled. The interval is
// measured from the end of one run to the start of the next.
func (p *Poller) Start(ctx context.Context) {
	p.logger.Debug("Starting poller")

	if ctx.Err() != nil {
		return
	}
	p.task(ctx)

	for {
		select {
		case <-p.clock.After(p.interval):
			if ctx.Err() != nil {
				return
			}
			p.task(ctx)
		case <-ctx.Done():
			p.logger.Debug("Poller stopped")
			return
		}
	}
}

// Interval returns the delay between runs
func (p *Poller) Interval() time.Duration {
	return p.interval
}
