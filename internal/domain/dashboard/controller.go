package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/pratik-mahalle/missioncontrol/internal/pkg/errors"
	"github.com/pratik-mahalle/missioncontrol/internal/pkg/logger"
	"github.com/pratik-mahalle/missioncontrol/internal/pkg/metrics"
	"github.com/pratik-mahalle/missioncontrol/internal/worker"
	"github.com/pratik-mahalle/missioncontrol/pkg/client"
)

const (
	// PollInterval separates the end of one refresh from the start of the next
	PollInterval = 5 * time.Second
	// TriggerResetDelay is how long the trigger stays in flight, whatever the request does
	TriggerResetDelay = time.Second

	triggerLogFormat = "3:04:05 PM"
)

var (
	ErrAlreadyActive   = errors.New("dashboard already active")
	ErrLoading         = errors.New("dashboard is still loading")
	ErrTriggerInFlight = errors.New("a build trigger is already in flight")
)

// Gateway is the subset of the API client the dashboard uses
type Gateway interface {
	Stats(ctx context.Context) (*client.DashboardStats, error)
	Logs(ctx context.Context) ([]string, error)
	Trigger(ctx context.Context) error
}

// Controller owns the dashboard's snapshot, build log and trigger state
type Controller struct {
	mu              sync.Mutex
	snapshot        *Snapshot
	logs            []string
	triggerInFlight bool

	active bool
	ctx    context.Context
	cancel context.CancelFunc
	// wg tracks the poller. Trigger goroutines start independently of
	// activation, so they are joined through triggerWG.
	wg        sync.WaitGroup
	triggerWG sync.WaitGroup

	changes chan struct{}

	gateway Gateway
	clock   clockwork.Clock
	logger  *logger.Logger
}

// NewController creates an inactive dashboard
func NewController(gateway Gateway, clock clockwork.Clock, log *logger.Logger) *Controller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Controller{
		gateway: gateway,
		clock:   clock,
		logger:  log.With("component", "dashboard"),
		changes: make(chan struct{}, 1),
	}
}

// Changes signals after every visible state change. Signals coalesce.
func (c *Controller) Changes() <-chan struct{} { return c.changes }

// View returns the renderable state. Nothing but the loading flag is exposed
// until the first complete snapshot arrives.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot == nil {
		return View{Loading: true}
	}
	snap := *c.snapshot
	return View{
		Snapshot:        &snap,
		Logs:            append([]string(nil), c.logs...),
		TriggerInFlight: c.triggerInFlight,
	}
}

// Activate resets the dashboard and starts polling until Deactivate or ctx ends.
func (c *Controller) Activate(ctx context.Context) error {
	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		return ErrAlreadyActive
	}
	c.active = true
	c.snapshot = nil
	c.logs = nil
	c.triggerInFlight = false
	c.ctx, c.cancel = context.WithCancel(ctx)
	sessionCtx := c.ctx
	c.wg.Add(1)
	c.mu.Unlock()

	metrics.DashboardActivated()
	c.notify()

	poller := worker.NewPoller("dashboard-refresh", PollInterval, c.clock, c.Refresh, c.logger)
	go func() {
		defer c.wg.Done()
		poller.Start(sessionCtx)
	}()
	return nil
}

// Deactivate stops polling and waits for every background task to exit.
// Calling it on an inactive dashboard is a no-op.
func (c *Controller) Deactivate() {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	c.active = false
	cancel := c.cancel
	c.mu.Unlock()

	cancel()
	c.wg.Wait()
	c.triggerWG.Wait()
	metrics.DashboardDeactivated()
	c.logger.Debug("Dashboard deactivated")
}

// Wait blocks until background trigger work and any running poller have
// finished.
func (c *Controller) Wait() {
	c.triggerWG.Wait()
	c.wg.Wait()
}

// Refresh fetches stats and logs concurrently. Each part that arrives intact
// replaces the current one; failures leave the previous data in place.
func (c *Controller) Refresh(ctx context.Context) {
	var g errgroup.Group

	g.Go(func() error {
		stats, err := c.gateway.Stats(ctx)
		var snap *Snapshot
		if err == nil {
			snap, err = SnapshotFromStats(stats)
		}
		if err != nil {
			c.dropped("stats", err)
			return nil
		}
		c.apply(ctx, "stats", func() { c.snapshot = snap })
		return nil
	})

	g.Go(func() error {
		logs, err := c.gateway.Logs(ctx)
		if err != nil {
			c.dropped("logs", err)
			return nil
		}
		// Backend data supersedes any optimistic entry.
		c.apply(ctx, "logs", func() { c.logs = logs })
		return nil
	})

	_ = g.Wait()
}

// TriggerBuild appends a trigger line right away, sends the trigger request in
// the background and clears the in-flight flag after TriggerResetDelay.
func (c *Controller) TriggerBuild(ctx context.Context) error {
	c.mu.Lock()
	if c.snapshot == nil {
		c.mu.Unlock()
		return ErrLoading
	}
	if c.triggerInFlight {
		c.mu.Unlock()
		return ErrTriggerInFlight
	}
	c.triggerInFlight = true
	c.logs = append(c.logs, "["+c.clock.Now().Format(triggerLogFormat)+"] Manual build triggered...")
	if c.active {
		ctx = c.ctx
	}
	c.triggerWG.Add(2)
	c.mu.Unlock()
	c.notify()

	go func() {
		defer c.triggerWG.Done()
		if err := c.gateway.Trigger(ctx); err != nil {
			metrics.RecordTrigger("failure")
			c.logger.WarnWithErr(apperrors.Silent("build trigger failed", err), "Build trigger request failed")
			return
		}
		metrics.RecordTrigger("success")
		c.logger.Info("Build triggered")
	}()

	go func() {
		defer c.triggerWG.Done()
		select {
		case <-c.clock.After(TriggerResetDelay):
		case <-ctx.Done():
		}
		c.mu.Lock()
		c.triggerInFlight = false
		c.mu.Unlock()
		c.notify()
	}()

	return nil
}

func (c *Controller) apply(ctx context.Context, part string, fn func()) {
	c.mu.Lock()
	if ctx.Err() != nil {
		c.mu.Unlock()
		return
	}
	fn()
	c.mu.Unlock()

	metrics.RecordRefresh(part, "success")
	c.notify()
}

func (c *Controller) dropped(part string, err error) {
	metrics.RecordRefresh(part, "failure")
	c.logger.With("part", part).WarnWithErr(apperrors.Silent("dashboard refresh failed", err), "Keeping previous dashboard data")
}

func (c *Controller) notify() {
	select {
	case c.changes <- struct{}{}:
	default:
	}
}
