package oauthflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/pratik-mahalle/missioncontrol/internal/navigation"
	"github.com/pratik-mahalle/missioncontrol/internal/pkg/logger"
	"github.com/pratik-mahalle/missioncontrol/internal/pkg/metrics"
)

// Simulated identity-provider latency.
const (
	LoadDelay     = 800 * time.Millisecond
	RedirectDelay = 1500 * time.Millisecond
)

var (
	// ErrAlreadyStarted is returned by a second Start
	ErrAlreadyStarted = errors.New("flow already started")
	// ErrNotStarted is returned for user events before Start
	ErrNotStarted = errors.New("flow not started")
	// ErrTimerEvent is returned when a caller tries to deliver a timed event
	ErrTimerEvent = errors.New("event is delivered by the flow's timer")
)

// Flow is one consent screen invocation: the Machine plus its timers and the
// final handoff to the dashboard.
type Flow struct {
	id      string
	machine Machine
	theme   Theme

	mu      sync.Mutex
	state   State
	started bool
	handed  bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	changes chan struct{}
	done    chan struct{}

	nav    navigation.Navigator
	clock  clockwork.Clock
	logger *logger.Logger
}

// NewFlow creates a flow in Loading. Timers start with Start.
func NewFlow(provider string, nav navigation.Navigator, clock clockwork.Clock, log *logger.Logger) *Flow {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	id := uuid.New().String()
	return &Flow{
		id:      id,
		machine: NewMachine(provider),
		theme:   ThemeFor(provider),
		state:   Loading{},
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
		nav:     nav,
		clock:   clock,
		logger: log.WithFields(map[string]interface{}{
			"component": "oauthflow",
			"flow_id":   id,
			"provider":  provider,
		}),
	}
}

// ID identifies this invocation in logs
func (f *Flow) ID() string { return f.id }

// Provider returns the provider parameter
func (f *Flow) Provider() string { return f.machine.Provider }

// Theme is fixed for the flow's lifetime
func (f *Flow) Theme() Theme { return f.theme }

// State returns the current state
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Changes signals after every state change. Signals coalesce; read State.
func (f *Flow) Changes() <-chan struct{} { return f.changes }

// Done is closed after the dashboard handoff
func (f *Flow) Done() <-chan struct{} { return f.done }

// Start arms the loading timer. Cancelling ctx abandons the flow like Close.
func (f *Flow) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.started {
		return ErrAlreadyStarted
	}
	f.started = true
	f.ctx, f.cancel = context.WithCancel(ctx)

	f.logger.Debug("Mock consent flow started")
	f.after(LoadDelay, func() {
		if err := f.apply(LoadElapsed{}); err != nil {
			f.logger.WarnWithErr(err, "Loading timer fired out of order")
		}
	})
	return nil
}

// Dispatch applies a user event. A rejected event leaves the state unchanged.
func (f *Flow) Dispatch(e Event) error {
	if _, ok := e.(LoadElapsed); ok {
		return ErrTimerEvent
	}
	return f.apply(e)
}

// ChooseAccount selects a canned account
func (f *Flow) ChooseAccount(index int) error { return f.Dispatch(ChooseAccount{Index: index}) }

// UseAnotherAccount opens the custom email form
func (f *Flow) UseAnotherAccount() error { return f.Dispatch(UseAnotherAccount{}) }

// EditEmail updates the custom email input
func (f *Flow) EditEmail(v string) error { return f.Dispatch(EditEmail{Value: v}) }

// SubmitEmail confirms the custom email
func (f *Flow) SubmitEmail() error { return f.Dispatch(SubmitEmail{}) }

// Back returns to the account list
func (f *Flow) Back() error { return f.Dispatch(Back{}) }

// Close abandons pending timers without effect and waits for them to exit.
// It must not be called from within the Navigator's Navigate.
func (f *Flow) Close() {
	f.mu.Lock()
	cancel := f.cancel
	f.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	f.wg.Wait()
}

func (f *Flow) apply(e Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.started {
		return ErrNotStarted
	}
	if f.ctx.Err() != nil {
		return f.ctx.Err()
	}

	prev := f.state
	next, err := f.machine.Transition(prev, e)
	if err != nil {
		return err
	}
	f.state = next

	if prev.Phase() != next.Phase() {
		metrics.RecordOAuthTransition(string(prev.Phase()), string(next.Phase()))
		f.logger.With("to", next.Phase()).Debug("Mock consent flow transition")
	}
	f.notify()

	if r, ok := next.(Redirecting); ok {
		f.after(RedirectDelay, func() { f.handoff(r) })
	}
	return nil
}

// handoff holds the lock while navigating so Close cannot return mid-handoff.
func (f *Flow) handoff(r Redirecting) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.handed || f.ctx.Err() != nil {
		return
	}
	f.handed = true

	f.logger.With("user_email", r.Email).Info("Mock consent granted, redirecting to dashboard")
	f.nav.Navigate(navigation.Dashboard, navigation.State{UserEmail: r.Email, Provider: r.Provider})
	close(f.done)
}

// after runs fn once d elapses unless the flow is abandoned first. Callers hold f.mu.
func (f *Flow) after(d time.Duration, fn func()) {
	ctx := f.ctx
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		select {
		case <-f.clock.After(d):
			fn()
		case <-ctx.Done():
		}
	}()
}

func (f *Flow) notify() {
	select {
	case f.changes <- struct{}{}:
	default:
	}
}
