package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tenderportal/models"
)

// Поля формы аутентификации
const (
	fieldEmail = iota
	fieldSecret
	fieldName
	fieldRole
)

// authModel - страница входа и регистрации
type authModel struct {
	register bool
	focus    int
	email    textinput.Model
	secret   textinput.Model
	name     textinput.Model
	role     models.Role
	loading  bool
}

func newAuthModel() authModel {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 100
	email.Width = 40
	email.Focus()

	secret := textinput.New()
	secret.Placeholder = "password"
	secret.CharLimit = 100
	secret.Width = 40
	secret.EchoMode = textinput.EchoPassword

	name := textinput.New()
	name.Placeholder = "display name"
	name.CharLimit = 100
	name.Width = 40

	return authModel{
		email:  email,
		secret: secret,
		name:   name,
		role:   models.RoleBidder,
	}
}

// lastField возвращает индекс последнего поля текущего режима
func (a authModel) lastField() int {
	if a.register {
		return fieldRole
	}
	return fieldSecret
}

func (m Model) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.auth.loading {
		// Пока попытка в полете, принимаем только выход
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.session.ClearError()
		return m, nil

	case "ctrl+r":
		m.auth.register = !m.auth.register
		m.auth.focus = fieldEmail
		m.session.ClearError()
		cmd := m.auth.applyFocus()
		return m, cmd

	case "tab", "down":
		m.auth.focus++
		if m.auth.focus > m.auth.lastField() {
			m.auth.focus = fieldEmail
		}
		cmd := m.auth.applyFocus()
		return m, cmd

	case "shift+tab", "up":
		m.auth.focus--
		if m.auth.focus < fieldEmail {
			m.auth.focus = m.auth.lastField()
		}
		cmd := m.auth.applyFocus()
		return m, cmd

	case "left", "right":
		if m.auth.register && m.auth.focus == fieldRole {
			if m.auth.role == models.RoleBidder {
				m.auth.role = models.RoleIssuer
			} else {
				m.auth.role = models.RoleBidder
			}
			return m, nil
		}

	case "enter":
		m.auth.loading = true
		return m, m.authCmd()
	}

	var cmd tea.Cmd
	switch m.auth.focus {
	case fieldEmail:
		m.auth.email, cmd = m.auth.email.Update(msg)
	case fieldSecret:
		m.auth.secret, cmd = m.auth.secret.Update(msg)
	case fieldName:
		m.auth.name, cmd = m.auth.name.Update(msg)
	}
	return m, cmd
}

// authCmd выполняет вход или регистрацию вне цикла сообщений,
// искусственная задержка не блокирует интерфейс
func (m Model) authCmd() tea.Cmd {
	email := strings.TrimSpace(m.auth.email.Value())
	secret := m.auth.secret.Value()
	name := strings.TrimSpace(m.auth.name.Value())
	role := m.auth.role
	register := m.auth.register

	return func() tea.Msg {
		var err error
		if register {
			err = m.session.SignUp(context.Background(), email, secret, name, role)
		} else {
			err = m.session.SignIn(context.Background(), email, secret)
		}
		return authResultMsg{err: err}
	}
}

func (m Model) viewAuth() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tender Portal"))
	b.WriteString("\n\n")

	if m.auth.register {
		b.WriteString(labelStyle.Render("Create account"))
	} else {
		b.WriteString(labelStyle.Render("Sign in"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.auth.email.View())
	b.WriteString("\n")
	b.WriteString(m.auth.secret.View())
	b.WriteString("\n")

	if m.auth.register {
		b.WriteString(m.auth.name.View())
		b.WriteString("\n")
		roleLine := "  role: "
		if m.auth.focus == fieldRole {
			roleLine = "> role: "
		}
		b.WriteString(roleLine + selectedRole(m.auth.role))
		b.WriteString("\n")
	}

	state := m.session.State()
	if m.auth.loading || state.IsLoading {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("Authenticating..."))
	}
	if state.Err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(state.Err))
	}

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter: submit • tab: next field • ctrl+r: toggle sign in/register • esc: clear error • ctrl+c: quit"))
	return b.String()
}

func selectedRole(r models.Role) string {
	bidder := "bidder"
	issuer := "issuer"
	if r == models.RoleBidder {
		bidder = selectedStyle.Render(" bidder ")
	} else {
		issuer = selectedStyle.Render(" issuer ")
	}
	return bidder + "  " + issuer
}

// applyFocus переводит фокус на активное поле
func (a *authModel) applyFocus() tea.Cmd {
	a.email.Blur()
	a.secret.Blur()
	a.name.Blur()
	switch a.focus {
	case fieldEmail:
		return a.email.Focus()
	case fieldSecret:
		return a.secret.Focus()
	case fieldName:
		return a.name.Focus()
	}
	return nil
}
