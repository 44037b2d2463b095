package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pratik-mahalle/missioncontrol/internal/domain/authform"
	"github.com/pratik-mahalle/missioncontrol/internal/domain/oauthflow"
	"github.com/pratik-mahalle/missioncontrol/internal/navigation"
)

type field int

const (
	fieldEmail field = iota
	fieldUsername
	fieldPassword
)

// fields lists the inputs shown in mode, top to bottom
func fields(mode authform.Mode) []field {
	if mode == authform.SignUp {
		return []field{fieldEmail, fieldUsername, fieldPassword}
	}
	return []field{fieldUsername, fieldPassword}
}

func (m App) focusedField() field {
	fs := fields(m.form.View().Mode)
	return fs[m.focus%len(fs)]
}

func (m App) updateAuth(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.form.View()

	switch k.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % len(fields(view.Mode))
		return m, nil
	case "shift+tab", "up":
		n := len(fields(view.Mode))
		m.focus = (m.focus + n - 1) % n
		return m, nil
	case "ctrl+t":
		m.form.ToggleMode()
		m.focus = 0
		return m, nil
	case "ctrl+g":
		return m, m.socialLogin("google")
	case "ctrl+b":
		return m, m.socialLogin("github")
	case "enter":
		if err := authform.ValidateCredentials(view.Mode, view.Credentials); err != nil {
			m.notice = err.Error()
			return m, nil
		}
		m.notice = ""
		m.submitting = true
		form, ctx := m.form, m.screenCtx
		return m, func() tea.Msg {
			return submitDoneMsg{outcome: form.Submit(ctx)}
		}
	case "backspace":
		m.editField(func(s string) string {
			if s == "" {
				return s
			}
			r := []rune(s)
			return string(r[:len(r)-1])
		})
		return m, nil
	}

	if k.Type == tea.KeyRunes || k.Type == tea.KeySpace {
		typed := string(k.Runes)
		m.editField(func(s string) string { return s + typed })
	}
	return m, nil
}

// socialLogin defers the redirect because the opener may block on HTTP
func (m App) socialLogin(provider string) tea.Cmd {
	form := m.form
	return func() tea.Msg {
		form.StartSocialLogin(provider)
		return nil
	}
}

func (m App) editField(fn func(string) string) {
	creds := m.form.View().Credentials
	switch m.focusedField() {
	case fieldEmail:
		m.form.SetEmail(fn(creds.Email))
	case fieldUsername:
		m.form.SetUsername(fn(creds.Username))
	case fieldPassword:
		m.form.SetPassword(fn(creds.Password))
	}
}

func (m App) updateOAuth(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.flow == nil {
		return m, nil
	}

	switch st := m.flow.State().(type) {
	case oauthflow.Consent:
		options := len(st.Accounts) + 1
		switch k.String() {
		case "up", "k":
			m.cursor = (m.cursor + options - 1) % options
		case "down", "j", "tab":
			m.cursor = (m.cursor + 1) % options
		case "enter":
			if m.cursor < len(st.Accounts) {
				m.dispatch(m.flow.ChooseAccount(m.cursor))
			} else {
				m.dispatch(m.flow.UseAnotherAccount())
			}
		case "esc":
			m.router.Navigate(navigation.Auth, navigation.State{})
		}

	case oauthflow.CustomInput:
		switch k.String() {
		case "enter":
			if err := m.flow.SubmitEmail(); err != nil {
				m.notice = "Please enter an email address."
				return m, nil
			}
			m.notice = ""
		case "esc":
			m.cursor = 0
			m.notice = ""
			m.dispatch(m.flow.Back())
		case "backspace":
			if r := []rune(st.Email); len(r) > 0 {
				m.dispatch(m.flow.EditEmail(string(r[:len(r)-1])))
			}
		default:
			if k.Type == tea.KeyRunes {
				m.dispatch(m.flow.EditEmail(st.Email + string(k.Runes)))
			}
		}
	}
	return m, nil
}

// dispatch logs events the flow refused; the view already shows the unchanged state
func (m App) dispatch(err error) {
	if err != nil {
		m.logger.WarnWithErr(err, "Consent screen event rejected")
	}
}

func (m App) updateDashboard(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "t", "enter":
		dash, ctx := m.dash, m.screenCtx
		return m, func() tea.Msg {
			return triggerDoneMsg{err: dash.TriggerBuild(ctx)}
		}
	case "r":
		dash, ctx := m.dash, m.screenCtx
		return m, func() tea.Msg {
			dash.Refresh(ctx)
			return nil
		}
	case "l":
		m.router.Navigate(navigation.Auth, navigation.State{})
		return m, nil
	case "q":
		m.leave()
		return m, tea.Quit
	}
	return m, nil
}
