package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pratik-mahalle/missioncontrol/internal/domain/authform"
	"github.com/pratik-mahalle/missioncontrol/internal/domain/dashboard"
	"github.com/pratik-mahalle/missioncontrol/internal/domain/oauthflow"
)

const maxLogLines = 12

func (m App) View() string {
	var body string
	switch m.screen {
	case screenOAuth:
		body = m.viewOAuth()
	case screenDashboard:
		body = m.viewDashboard()
	default:
		body = m.viewAuth()
	}
	if m.notice != "" {
		body += "\n" + m.th.errorMsg.Render(m.notice)
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(body)
}

func (m App) viewAuth() string {
	v := m.form.View()
	var b strings.Builder

	heading, sub := "WELCOME !", "We are glad to see you again."
	if v.Mode == authform.SignUp {
		heading, sub = "CREATE ACCOUNT", "Join us and start your journey."
	}
	b.WriteString(m.th.title.Render(heading) + "\n")
	b.WriteString(m.th.subtitle.Render(sub) + "\n\n")

	focused := m.focusedField()
	for _, f := range fields(v.Mode) {
		label, value := "", ""
		switch f {
		case fieldEmail:
			label, value = "Email", v.Credentials.Email
		case fieldUsername:
			label, value = "Username", v.Credentials.Username
		case fieldPassword:
			label, value = "Password", strings.Repeat("•", len([]rune(v.Credentials.Password)))
		}
		style := m.th.input
		if f == focused {
			style = m.th.focused
		}
		b.WriteString(m.th.label.Render(label) + "\n" + style.Render(value) + "\n")
	}

	action := "Sign In"
	if v.Mode == authform.SignUp {
		action = "Sign Up"
	}
	if m.submitting {
		b.WriteString("\n" + m.th.disabled.Render(action+"...") + "\n")
	} else {
		b.WriteString("\n" + m.th.button.Render(action) + "\n")
	}

	if fb := v.Feedback; fb != nil {
		style := m.th.errorMsg
		if fb.Kind == authform.FeedbackSuccess {
			style = m.th.success
		}
		b.WriteString("\n" + style.Render(fb.Text) + "\n")
	}

	toggle := "Don't have an account? ctrl+t to sign up"
	if v.Mode == authform.SignUp {
		toggle = "Already have an account? ctrl+t to sign in"
	}
	b.WriteString("\n" + m.th.muted.Render(toggle))
	b.WriteString("\n" + m.th.muted.Render("ctrl+g Google · ctrl+b GitHub · tab next field · ctrl+c quit"))
	return b.String()
}

func (m App) viewOAuth() string {
	if m.flow == nil {
		return ""
	}
	provider := m.flow.Provider()
	accent := providerAccent(m.flow.Theme())
	var b strings.Builder

	switch st := m.flow.State().(type) {
	case oauthflow.Loading:
		b.WriteString(m.th.subtitle.Render(fmt.Sprintf("Connecting to %s...", provider)))

	case oauthflow.Consent:
		b.WriteString(accent.Render("Sign in with "+provider) + "\n")
		b.WriteString(m.th.subtitle.Render("Choose an account to continue to Modern Auth") + "\n\n")
		for i, a := range st.Accounts {
			line := fmt.Sprintf("(%s) %s\n    %s", a.Initial(), a.DisplayName, a.Email)
			b.WriteString(m.option(i == m.cursor, line) + "\n")
		}
		b.WriteString(m.option(m.cursor == len(st.Accounts), "Use another account") + "\n")
		b.WriteString("\n" + m.th.muted.Render("↑/↓ choose · enter continue · esc cancel"))

	case oauthflow.CustomInput:
		b.WriteString(accent.Render("Sign in with "+provider) + "\n")
		b.WriteString(m.th.subtitle.Render(fmt.Sprintf("Enter your %s account email", provider)) + "\n\n")
		b.WriteString(m.th.focused.Render(st.Email) + "\n\n")
		b.WriteString(m.th.button.Render("Next") + "\n")
		b.WriteString("\n" + m.th.muted.Render("enter continue · esc back"))

	case oauthflow.Redirecting:
		b.WriteString(m.th.success.Render("Redirecting to Mission Control..."))
	}
	return b.String()
}

func (m App) option(selected bool, text string) string {
	if selected {
		return m.th.selected.Render("› " + text)
	}
	return "  " + text
}

func (m App) viewDashboard() string {
	v := m.dash.View()
	if v.Loading {
		return m.th.subtitle.Render("Loading Mission Control...")
	}

	var b strings.Builder
	b.WriteString(m.th.title.Render("MISSION CONTROL") + "\n")
	b.WriteString(m.th.subtitle.Render("Welcome back, "+m.identity.DisplayName()) + "\n\n")

	snap := v.Snapshot
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.envCard("Production", snap.Production),
		m.envCard("Staging", snap.Staging),
		m.th.card.Render(fmt.Sprintf("Success Rate\n%s", m.th.title.Render(fmt.Sprintf("%.1f%%", snap.BuildSuccessRate)))),
	) + "\n\n")

	if v.TriggerInFlight {
		b.WriteString(m.th.disabled.Render("Triggering...") + "\n\n")
	} else {
		b.WriteString(m.th.button.Render("Trigger Build") + "\n\n")
	}

	b.WriteString(m.th.label.Render("Build Logs") + "\n")
	logs := v.Logs
	if len(logs) > maxLogLines {
		logs = logs[len(logs)-maxLogLines:]
	}
	for _, line := range logs {
		b.WriteString(m.th.logLine.Render(line) + "\n")
	}

	b.WriteString("\n" + m.th.muted.Render("t trigger build · r refresh · l sign out · q quit"))
	return b.String()
}

func (m App) envCard(name string, env dashboard.EnvStatus) string {
	body := fmt.Sprintf("%s\n%s\n%s · %s", name, statusStyle(env.Status).Render(env.Status), env.Version, env.Uptime)
	return m.th.card.Render(body)
}
