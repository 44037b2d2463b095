// Package tui hosts the auth form, the mock consent screen and the dashboard
// in one bubbletea program, switching views on navigation handoffs.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/pratik-mahalle/missioncontrol/internal/domain/authform"
	"github.com/pratik-mahalle/missioncontrol/internal/domain/dashboard"
	"github.com/pratik-mahalle/missioncontrol/internal/domain/oauthflow"
	"github.com/pratik-mahalle/missioncontrol/internal/navigation"
	"github.com/pratik-mahalle/missioncontrol/internal/pkg/logger"
	"github.com/pratik-mahalle/missioncontrol/pkg/client"
)

type screen int

const (
	screenAuth screen = iota
	screenOAuth
	screenDashboard
)

func (s screen) String() string {
	switch s {
	case screenAuth:
		return "auth"
	case screenOAuth:
		return "oauth"
	case screenDashboard:
		return "dashboard"
	default:
		return "unknown"
	}
}

type (
	routeChangedMsg struct{}
	flowChangedMsg  struct{ flow *oauthflow.Flow }
	dashChangedMsg  struct{}
	submitDoneMsg   struct{ outcome authform.Outcome }
	triggerDoneMsg  struct{ err error }
)

// Options wires the app to its collaborators
type Options struct {
	Client *client.Client
	Router *navigation.Router
	Clock  clockwork.Clock
	Logger *logger.Logger
}

// App is the bubbletea model
type App struct {
	ctx    context.Context
	router *navigation.Router
	client *client.Client
	clock  clockwork.Clock
	base   *logger.Logger
	logger *logger.Logger
	th     theme

	width  int
	height int

	screen       screen
	screenCtx    context.Context
	screenCancel context.CancelFunc

	form       *authform.Controller
	focus      int
	submitting bool

	flow   *oauthflow.Flow
	cursor int

	dash     *dashboard.Controller
	identity navigation.State
	notice   string
}

// New creates the app positioned at the router's current location
func New(ctx context.Context, opts Options) App {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return App{
		ctx:    ctx,
		router: opts.Router,
		client: opts.Client,
		clock:  clock,
		base:   log,
		logger: log.With("component", "tui"),
		th:     defaultTheme(),
		form:   authform.NewController(opts.Client, opts.Router, clock, log),
		dash:   dashboard.NewController(opts.Client.Dashboard(), clock, log),
		screen: screenAuth,

		screenCtx: ctx,
	}
}

// Run starts the program and blocks until the user quits
func Run(ctx context.Context, opts Options) error {
	app := New(ctx, opts)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if m, ok := final.(App); ok {
		m.leave()
	}
	return err
}

func (m App) Init() tea.Cmd {
	return tea.Batch(m.listenRoute(), func() tea.Msg { return routeChangedMsg{} })
}

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch t := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = t.Width
		m.height = t.Height
		return m, nil

	case routeChangedMsg:
		var cmd tea.Cmd
		m, cmd = m.enter(m.router.Current())
		return m, tea.Batch(cmd, m.listenRoute())

	case flowChangedMsg:
		if t.flow != m.flow {
			return m, nil
		}
		return m, m.listenFlow()

	case dashChangedMsg:
		if m.screen != screenDashboard {
			return m, nil
		}
		return m, m.listenDashboard()

	case submitDoneMsg:
		m.submitting = false
		return m, nil

	case triggerDoneMsg:
		if t.err != nil && t.err != dashboard.ErrLoading {
			m.notice = t.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		if t.String() == "ctrl+c" {
			m.leave()
			return m, tea.Quit
		}
		switch m.screen {
		case screenAuth:
			return m.updateAuth(t)
		case screenOAuth:
			return m.updateOAuth(t)
		case screenDashboard:
			return m.updateDashboard(t)
		}
	}
	return m, nil
}

// enter tears down the previous view's resources and mounts the one at loc
func (m App) enter(loc navigation.Location) (App, tea.Cmd) {
	next := screenAuth
	provider, isOAuth := loc.Path.MockOAuthProvider()
	switch {
	case isOAuth:
		next = screenOAuth
	case loc.Path == navigation.Dashboard:
		next = screenDashboard
	}

	// A repeated signal for the mounted view is not a remount.
	if next == m.screen && (next != screenOAuth || (m.flow != nil && m.flow.Provider() == provider)) {
		return m, nil
	}

	m.leave()
	ctx, cancel := context.WithCancel(m.ctx)
	m.screenCtx, m.screenCancel = ctx, cancel
	m.screen = next
	m.notice = ""
	m.logger.With("screen", next.String()).Debug("Entering view")

	switch next {
	case screenAuth:
		m.focus = 0
		m.submitting = false
		m.form = authform.NewController(m.client, m.router, m.clock, m.base)
		return m, nil

	case screenOAuth:
		m.cursor = 0
		m.flow = oauthflow.NewFlow(provider, m.router, m.clock, m.base)
		if err := m.flow.Start(ctx); err != nil {
			m.logger.WarnWithErr(err, "Failed to start consent flow")
		}
		return m, m.listenFlow()

	case screenDashboard:
		m.identity = loc.State
		if err := m.dash.Activate(ctx); err != nil {
			m.logger.WarnWithErr(err, "Failed to activate dashboard")
		}
		return m, m.listenDashboard()
	}
	return m, nil
}

// leave releases whatever the mounted view holds
func (m *App) leave() {
	if m.flow != nil {
		m.flow.Close()
		m.flow = nil
	}
	m.dash.Deactivate()
	if m.screenCancel != nil {
		m.screenCancel()
		m.screenCancel = nil
		m.screenCtx = m.ctx
	}
}

func (m App) listenRoute() tea.Cmd {
	return listen(m.ctx, m.router.Changes(), routeChangedMsg{})
}

func (m App) listenFlow() tea.Cmd {
	if m.flow == nil {
		return nil
	}
	return listen(m.screenCtx, m.flow.Changes(), flowChangedMsg{flow: m.flow})
}

func (m App) listenDashboard() tea.Cmd {
	return listen(m.screenCtx, m.dash.Changes(), dashChangedMsg{})
}

func listen(ctx context.Context, ch <-chan struct{}, msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ch:
			return msg
		case <-ctx.Done():
			return nil
		}
	}
}
