package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tenderportal/models"
)

// Режим страницы тендеров
type tenderMode int

const (
	modeList tenderMode = iota
	modeFilter
	modeCreate
	modeBid
)

// Порядок сортировки списка, сортировка - забота вью
type sortMode int

const (
	sortCreated sortMode = iota
	sortDeadline
	sortBudget
)

func (s sortMode) String() string {
	switch s {
	case sortDeadline:
		return "deadline"
	case sortBudget:
		return "budget"
	default:
		return "created"
	}
}

// Поля формы создания тендера
const (
	tfTitle = iota
	tfDescription
	tfCategory
	tfBudget
	tfDeadline
	tfRequirements
	tfCount
)

// Поля формы предложения
const (
	bfAmount = iota
	bfProposal
	bfCount
)

// tendersModel - страница списка тендеров с формами создания и подачи
type tendersModel struct {
	mode      tenderMode
	cursor    int
	sort      sortMode
	filter    textinput.Model
	form      []textinput.Model
	formFocus int
	formErr   string
	bidForm   []textinput.Model
	bidFocus  int
	bidTarget models.Tender
}

func newTendersModel() tendersModel {
	filter := textinput.New()
	filter.Placeholder = "category filter"
	filter.CharLimit = 50
	filter.Width = 30

	return tendersModel{filter: filter}
}

// capturesInput сообщает, перехватывает ли страница весь ввод
func (t tendersModel) capturesInput() bool {
	return t.mode != modeList
}

// visible применяет фильтр по категории и выбранную сортировку
func (m Model) visibleTenders() []models.Tender {
	tenders := m.store.Tenders()

	needle := strings.ToLower(strings.TrimSpace(m.tenders.filter.Value()))
	if needle != "" {
		filtered := tenders[:0]
		for _, t := range tenders {
			if strings.Contains(strings.ToLower(t.Category), needle) {
				filtered = append(filtered, t)
			}
		}
		tenders = filtered
	}

	switch m.tenders.sort {
	case sortDeadline:
		sort.SliceStable(tenders, func(i, j int) bool {
			return tenders[i].Deadline.Before(tenders[j].Deadline)
		})
	case sortBudget:
		sort.SliceStable(tenders, func(i, j int) bool {
			return tenders[i].Budget > tenders[j].Budget
		})
	default:
		sort.SliceStable(tenders, func(i, j int) bool {
			return tenders[i].CreatedAt.After(tenders[j].CreatedAt)
		})
	}
	return tenders
}

func (m Model) updateTenders(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.tenders.mode {
	case modeFilter:
		return m.updateTenderFilter(msg)
	case modeCreate:
		return m.updateTenderForm(msg)
	case modeBid:
		return m.updateBidForm(msg)
	}
	return m.updateTenderList(msg)
}

func (m Model) updateTenderList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.visibleTenders()
	state := m.session.State()
	m.status = ""

	switch msg.String() {
	case "up", "k":
		if m.tenders.cursor > 0 {
			m.tenders.cursor--
		}
	case "down", "j":
		if m.tenders.cursor < len(items)-1 {
			m.tenders.cursor++
		}
	case "s":
		m.tenders.sort = (m.tenders.sort + 1) % 3
	case "/":
		m.tenders.mode = modeFilter
		cmd := m.tenders.filter.Focus()
		return m, cmd
	case "esc":
		m.tenders.filter.SetValue("")
		m.tenders.cursor = 0
	case "n":
		if state.User != nil && state.User.Role == models.RoleIssuer {
			m.tenders.mode = modeCreate
			m.tenders.form = newTenderForm()
			m.tenders.formFocus = 0
			m.tenders.formErr = ""
			return m, m.tenders.form[0].Focus()
		}
	case "b":
		if state.User != nil && state.User.Role == models.RoleBidder && m.tenders.cursor < len(items) {
			target := items[m.tenders.cursor]
			if target.Status != models.TenderPublished {
				m.status = "bids are accepted on published tenders only"
				return m, nil
			}
			m.tenders.mode = modeBid
			m.tenders.bidForm = newBidForm()
			m.tenders.bidFocus = 0
			m.tenders.bidTarget = target
			m.tenders.formErr = ""
			return m, m.tenders.bidForm[0].Focus()
		}
	case "p":
		return m.changeTenderStatus(items, models.TenderPublished)
	case "c":
		return m.changeTenderStatus(items, models.TenderClosed)
	case "a":
		return m.changeTenderStatus(items, models.TenderAwarded)
	case "d":
		if m.tenders.cursor < len(items) && m.canManage(items[m.tenders.cursor]) {
			m.store.DeleteTender(items[m.tenders.cursor].ID)
			if m.tenders.cursor > 0 {
				m.tenders.cursor--
			}
		}
	}
	return m, nil
}

// canManage - заказчик распоряжается своими тендерами, админ любыми
func (m Model) canManage(t models.Tender) bool {
	state := m.session.State()
	if state.User == nil {
		return false
	}
	return state.User.Role == models.RoleAdmin ||
		(state.User.Role == models.RoleIssuer && state.User.ID == t.IssuerID)
}

func (m Model) changeTenderStatus(items []models.Tender, next models.TenderStatus) (tea.Model, tea.Cmd) {
	if m.tenders.cursor >= len(items) {
		return m, nil
	}
	target := items[m.tenders.cursor]
	if !m.canManage(target) {
		return m, nil
	}
	state := m.session.State()
	if _, err := m.store.ChangeTenderStatus(target.ID, next, state.User); err != nil {
		m.status = err.Error()
	}
	return m, nil
}

func (m Model) updateTenderFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter", "esc":
		m.tenders.mode = modeList
		m.tenders.filter.Blur()
		m.tenders.cursor = 0
		return m, nil
	}
	var cmd tea.Cmd
	m.tenders.filter, cmd = m.tenders.filter.Update(msg)
	return m, cmd
}

func newTenderForm() []textinput.Model {
	labels := [tfCount]string{"title", "description", "category", "budget", "deadline (YYYY-MM-DD)", "requirements (comma separated)"}
	form := make([]textinput.Model, tfCount)
	for i := range form {
		ti := textinput.New()
		ti.Placeholder = labels[i]
		ti.CharLimit = 500
		ti.Width = 60
		form[i] = ti
	}
	return form
}

func newBidForm() []textinput.Model {
	form := make([]textinput.Model, bfCount)
	amount := textinput.New()
	amount.Placeholder = "amount"
	amount.CharLimit = 20
	amount.Width = 20
	form[bfAmount] = amount

	proposal := textinput.New()
	proposal.Placeholder = "proposal"
	proposal.CharLimit = 1000
	proposal.Width = 60
	form[bfProposal] = proposal
	return form
}

func (m Model) updateTenderForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.tenders.mode = modeList
		return m, nil
	case "tab", "down":
		cmd := m.cycleTenderForm(1)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.cycleTenderForm(-1)
		return m, cmd
	case "enter":
		return m.submitTenderForm()
	}
	var cmd tea.Cmd
	i := m.tenders.formFocus
	m.tenders.form[i], cmd = m.tenders.form[i].Update(msg)
	return m, cmd
}

func (m *Model) cycleTenderForm(delta int) tea.Cmd {
	form := m.tenders.form
	form[m.tenders.formFocus].Blur()
	m.tenders.formFocus = (m.tenders.formFocus + delta + len(form)) % len(form)
	return form[m.tenders.formFocus].Focus()
}

// submitTenderForm валидирует ввод и создает тендер черновиком.
// Валидация полей живет во вью, хранилище доверяет вызывающему
func (m Model) submitTenderForm() (tea.Model, tea.Cmd) {
	form := m.tenders.form
	title := strings.TrimSpace(form[tfTitle].Value())
	description := strings.TrimSpace(form[tfDescription].Value())
	category := strings.TrimSpace(form[tfCategory].Value())

	if title == "" || description == "" || category == "" {
		m.tenders.formErr = "title, description and category are required"
		return m, nil
	}
	budget, err := strconv.ParseFloat(strings.TrimSpace(form[tfBudget].Value()), 64)
	if err != nil || budget <= 0 {
		m.tenders.formErr = "budget must be a positive number"
		return m, nil
	}
	deadline, err := time.Parse("2006-01-02", strings.TrimSpace(form[tfDeadline].Value()))
	if err != nil {
		m.tenders.formErr = "deadline must be YYYY-MM-DD"
		return m, nil
	}

	var requirements []string
	for _, r := range strings.Split(form[tfRequirements].Value(), ",") {
		if r = strings.TrimSpace(r); r != "" {
			requirements = append(requirements, r)
		}
	}

	state := m.session.State()
	m.store.CreateTender(models.Tender{
		Title:        title,
		Description:  description,
		Category:     category,
		IssuerID:     state.User.ID,
		IssuerName:   state.User.Name,
		Deadline:     deadline,
		Budget:       budget,
		Status:       models.TenderDraft,
		Requirements: requirements,
		Attachments:  []models.FileAttachment{},
	})
	m.tenders.mode = modeList
	m.recomputeStats()
	return m, nil
}

func (m Model) updateBidForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.tenders.mode = modeList
		return m, nil
	case "tab", "down":
		form := m.tenders.bidForm
		form[m.tenders.bidFocus].Blur()
		m.tenders.bidFocus = (m.tenders.bidFocus + 1) % len(form)
		return m, form[m.tenders.bidFocus].Focus()
	case "shift+tab", "up":
		form := m.tenders.bidForm
		form[m.tenders.bidFocus].Blur()
		m.tenders.bidFocus = (m.tenders.bidFocus + len(form) - 1) % len(form)
		return m, form[m.tenders.bidFocus].Focus()
	case "enter":
		return m.submitBidForm()
	}
	var cmd tea.Cmd
	i := m.tenders.bidFocus
	m.tenders.bidForm[i], cmd = m.tenders.bidForm[i].Update(msg)
	return m, cmd
}

// submitBidForm подает предложение и уведомляет заказчика тендера
func (m Model) submitBidForm() (tea.Model, tea.Cmd) {
	form := m.tenders.bidForm
	amount, err := strconv.ParseFloat(strings.TrimSpace(form[bfAmount].Value()), 64)
	if err != nil || amount <= 0 {
		m.tenders.formErr = "amount must be a positive number"
		return m, nil
	}
	proposal := strings.TrimSpace(form[bfProposal].Value())
	if proposal == "" {
		m.tenders.formErr = "proposal is required"
		return m, nil
	}

	state := m.session.State()
	target := m.tenders.bidTarget
	m.store.SubmitBid(models.Bid{
		TenderID:    target.ID,
		BidderID:    state.User.ID,
		BidderName:  state.User.Name,
		Amount:      amount,
		Proposal:    proposal,
		Status:      models.BidSubmitted,
		Attachments: []models.FileAttachment{},
	})
	m.store.AddNotification(models.Notification{
		UserID:  target.IssuerID,
		Title:   "New bid received",
		Message: fmt.Sprintf("%s placed a bid on %s", state.User.Name, target.Title),
		Type:    models.SeveritySuccess,
	})
	m.tenders.mode = modeList
	m.recomputeStats()
	return m, nil
}

func (m Model) viewTenders() string {
	switch m.tenders.mode {
	case modeCreate:
		return m.viewTenderForm()
	case modeBid:
		return m.viewBidForm()
	}

	var b strings.Builder
	b.WriteString(dimStyle.Render("sort: " + m.tenders.sort.String()))
	if m.tenders.mode == modeFilter || m.tenders.filter.Value() != "" {
		b.WriteString("  ")
		b.WriteString(m.tenders.filter.View())
	}
	b.WriteString("\n\n")

	items := m.visibleTenders()
	if len(items) == 0 {
		b.WriteString(dimStyle.Render("No tenders match"))
		return b.String()
	}

	for i, t := range items {
		marker := "  "
		if i == m.tenders.cursor {
			marker = "> "
		}
		line := fmt.Sprintf("%s%-40s %-18s %10s  $%-9.0f %s  %d bids",
			marker,
			truncate(t.Title, 40),
			truncate(t.Category, 18),
			t.Deadline.Format("2006-01-02"),
			t.Budget,
			statusColor(string(t.Status)).Render(fmt.Sprintf("%-9s", t.Status)),
			m.store.BidCountFor(t.ID),
		)
		if i == m.tenders.cursor {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	if m.tenders.cursor < len(items) {
		b.WriteString("\n")
		b.WriteString(m.viewTenderDetail(items[m.tenders.cursor]))
	}
	return b.String()
}

func (m Model) viewTenderDetail(t models.Tender) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render(t.Title))
	b.WriteString("\n")
	b.WriteString(t.Description)
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("issuer: " + t.IssuerName))
	if len(t.Requirements) > 0 {
		b.WriteString("\n" + dimStyle.Render("requirements: "+strings.Join(t.Requirements, ", ")))
	}
	if len(t.Attachments) > 0 {
		names := make([]string, len(t.Attachments))
		for i, a := range t.Attachments {
			names[i] = a.Filename
		}
		b.WriteString("\n" + dimStyle.Render("attachments: "+strings.Join(names, ", ")))
	}
	return cardStyle.Render(b.String())
}

func (m Model) viewTenderForm() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("New tender"))
	b.WriteString("\n\n")
	for _, f := range m.tenders.form {
		b.WriteString(f.View())
		b.WriteString("\n")
	}
	if m.tenders.formErr != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.tenders.formErr))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: create draft • tab: next field • esc: cancel"))
	return b.String()
}

func (m Model) viewBidForm() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Bid on: " + m.tenders.bidTarget.Title))
	b.WriteString("\n\n")
	for _, f := range m.tenders.bidForm {
		b.WriteString(f.View())
		b.WriteString("\n")
	}
	if m.tenders.formErr != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.tenders.formErr))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: submit bid • tab: next field • esc: cancel"))
	return b.String()
}

func (t tendersModel) helpLine(role models.Role) string {
	base := "up/down: select • s: sort • /: filter • "
	switch role {
	case models.RoleIssuer:
		base += "n: new • p/c/a: publish/close/award • d: delete • "
	case models.RoleBidder:
		base += "b: bid • "
	case models.RoleAdmin:
		base += "p/c/a: publish/close/award • d: delete • "
	}
	return base + "1/2/3: pages • L: logout • q: quit"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
