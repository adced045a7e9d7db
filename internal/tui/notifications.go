package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"tenderportal/models"
)

// userNotifications возвращает уведомления текущего пользователя,
// свежие первыми - так их хранит Store
func (m Model) userNotifications() []models.Notification {
	state := m.session.State()
	if state.User == nil {
		return nil
	}
	var out []models.Notification
	for _, n := range m.store.Notifications() {
		if n.UserID == state.User.ID {
			out = append(out, n)
		}
	}
	return out
}

func (m Model) updateNotifications(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.userNotifications()
	switch msg.String() {
	case "up", "k":
		if m.notifCursor > 0 {
			m.notifCursor--
		}
	case "down", "j":
		if m.notifCursor < len(items)-1 {
			m.notifCursor++
		}
	case "enter":
		if m.notifCursor < len(items) {
			m.store.MarkNotificationRead(items[m.notifCursor].ID)
		}
	}
	return m, nil
}

func (m Model) viewNotifications() string {
	items := m.userNotifications()
	if len(items) == 0 {
		return dimStyle.Render("No notifications")
	}

	var b strings.Builder
	for i, n := range items {
		marker := "  "
		if i == m.notifCursor {
			marker = "> "
		}
		flag := "*"
		if n.Read {
			flag = " "
		}
		line := fmt.Sprintf("%s%s [%s] %s - %s", marker, flag, n.Type, n.Title, n.Message)
		if i == m.notifCursor {
			b.WriteString(selectedStyle.Render(line))
		} else if n.Read {
			b.WriteString(dimStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return b.String()
}
