package tui

import (
	"context"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tenderportal/internal/session"
	"tenderportal/internal/store"
	"tenderportal/models"
)

// page определяет активную страницу интерфейса
type page int

const (
	pageAuth page = iota
	pageDashboard
	pageTenders
	pageNotifications
)

// authResultMsg доставляет итог асинхронной аутентификации в цикл
// сообщений, сама операция выполняется в tea.Cmd
type authResultMsg struct {
	err error
}

// refreshDoneMsg приходит после имитации обновления данных
type refreshDoneMsg struct{}

// Model - корневая модель: маршрутизация страниц по состоянию сессии
// и роли пользователя
type Model struct {
	session *session.Manager
	store   *store.Store

	page   page
	width  int
	height int
	status string

	auth        authModel
	tenders     tendersModel
	notifCursor int
}

// New собирает корневую модель поверх двух менеджеров состояния
func New(sess *session.Manager, st *store.Store) Model {
	m := Model{
		session: sess,
		store:   st,
		page:    pageAuth,
		auth:    newAuthModel(),
		tenders: newTendersModel(),
	}
	if sess.State().IsAuthenticated {
		m.page = pageDashboard
		m.recomputeStats()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case authResultMsg:
		m.auth.loading = false
		if msg.err == nil {
			m.page = pageDashboard
			m.auth = newAuthModel()
			m.recomputeStats()
		}
		return m, nil

	case refreshDoneMsg:
		m.recomputeStats()
		return m, nil

	case tea.KeyMsg:
		if m.page == pageAuth {
			return m.updateAuth(msg)
		}
		return m.updateMain(msg)
	}
	return m, nil
}

// updateMain обрабатывает клавиши на страницах после входа
func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Формы тендеров перехватывают ввод целиком
	if m.page == pageTenders && m.tenders.capturesInput() {
		return m.updateTenders(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "1":
		m.page = pageDashboard
		m.recomputeStats()
		return m, nil
	case "2":
		m.page = pageTenders
		return m, nil
	case "3":
		m.page = pageNotifications
		return m, nil
	case "r":
		return m, func() tea.Msg {
			m.store.Refresh(context.Background())
			return refreshDoneMsg{}
		}
	case "L":
		m.session.SignOut()
		m.page = pageAuth
		m.status = ""
		return m, nil
	}

	switch m.page {
	case pageTenders:
		return m.updateTenders(msg)
	case pageNotifications:
		return m.updateNotifications(msg)
	}
	return m, nil
}

func (m Model) View() string {
	if m.page == pageAuth {
		return m.viewAuth()
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")

	switch m.page {
	case pageDashboard:
		b.WriteString(m.viewDashboard())
	case pageTenders:
		b.WriteString(m.viewTenders())
	case pageNotifications:
		b.WriteString(m.viewNotifications())
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.helpLine()))
	return b.String()
}

// viewHeader рисует заголовок с вкладками и текущим пользователем
func (m Model) viewHeader() string {
	state := m.session.State()
	name := ""
	role := ""
	if state.User != nil {
		name = state.User.Name
		role = string(state.User.Role)
	}

	tabs := []struct {
		p     page
		label string
	}{
		{pageDashboard, "1 Dashboard"},
		{pageTenders, "2 Tenders"},
		{pageNotifications, "3 Notifications"},
	}
	parts := make([]string, 0, len(tabs)+2)
	parts = append(parts, titleStyle.Render("Tender Portal"))
	for _, t := range tabs {
		if t.p == m.page {
			parts = append(parts, activeTabStyle.Render(t.label))
		} else {
			parts = append(parts, tabStyle.Render(t.label))
		}
	}
	if state.User != nil {
		unread := m.store.UnreadCount(state.User.ID)
		if unread > 0 {
			parts = append(parts, badgeStyle.Render(strconv.Itoa(unread)+" new"))
		}
	}
	parts = append(parts, dimStyle.Render(name+" ("+role+")"))
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m Model) helpLine() string {
	switch m.page {
	case pageTenders:
		return m.tenders.helpLine(m.roleOf())
	case pageNotifications:
		return "up/down: select • enter: mark read • 1/2/3: pages • L: logout • q: quit"
	default:
		return "1/2/3: pages • r: refresh • L: logout • q: quit"
	}
}

func (m *Model) roleOf() models.Role {
	state := m.session.State()
	if state.User == nil {
		return ""
	}
	return state.User.Role
}

// recomputeStats освежает сводку дашборда по живым коллекциям
func (m *Model) recomputeStats() {
	total := m.session.DirectorySize()
	m.store.RecomputeStats(total, total)
}

// Run запускает цикл интерфейса до выхода пользователя
func Run(sess *session.Manager, st *store.Store) error {
	_, err := tea.NewProgram(New(sess, st), tea.WithAltScreen()).Run()
	return err
}
