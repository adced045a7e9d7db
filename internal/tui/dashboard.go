package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tenderportal/models"
)

// viewDashboard рисует сводку и последние события аудита,
// нижняя секция зависит от роли
func (m Model) viewDashboard() string {
	stats := m.store.Stats()
	state := m.session.State()

	tiles := []string{
		statTile("Tenders", stats.TotalTenders),
		statTile("Active", stats.ActiveTenders),
		statTile("Bids", stats.TotalBids),
		statTile("Pending", stats.PendingBids),
	}
	if state.User != nil && state.User.Role == models.RoleAdmin {
		tiles = append(tiles,
			statTile("Users", stats.TotalUsers),
			statTile("Online", stats.ActiveUsers),
		)
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Recent activity"))
	b.WriteString("\n")
	logs := m.store.AuditLogs()
	if len(logs) > 5 {
		logs = logs[:5]
	}
	if len(logs) == 0 {
		b.WriteString(dimStyle.Render("  no activity yet"))
		b.WriteString("\n")
	}
	for _, entry := range logs {
		line := fmt.Sprintf("  %s  %s - %s",
			entry.Timestamp.Format("Jan 02 15:04"),
			entry.UserName,
			entry.Details,
		)
		b.WriteString(dimStyle.Render(line))
		b.WriteString("\n")
	}

	if state.User != nil {
		b.WriteString("\n")
		switch state.User.Role {
		case models.RoleIssuer:
			own := m.store.TendersByIssuer(state.User.ID)
			b.WriteString(labelStyle.Render("Your tenders"))
			b.WriteString("\n")
			for _, t := range own {
				line := fmt.Sprintf("  %s [%s] - %d bids",
					t.Title, t.Status, m.store.BidCountFor(t.ID))
				b.WriteString(line + "\n")
			}
			if len(own) == 0 {
				b.WriteString(dimStyle.Render("  none yet, press 2 and n to create one") + "\n")
			}
		case models.RoleBidder:
			own := m.store.BidsByBidder(state.User.ID)
			b.WriteString(labelStyle.Render("Your bids"))
			b.WriteString("\n")
			for _, bid := range own {
				tenderTitle := bid.TenderID
				if t, ok := m.store.GetTender(bid.TenderID); ok {
					tenderTitle = t.Title
				}
				line := fmt.Sprintf("  %s - $%.0f [%s]", tenderTitle, bid.Amount, bid.Status)
				b.WriteString(line + "\n")
			}
			if len(own) == 0 {
				b.WriteString(dimStyle.Render("  none yet, press 2 and b on a tender") + "\n")
			}
		}
	}
	return b.String()
}

func statTile(label string, value int) string {
	return statTileStyle.Render(fmt.Sprintf("%d\n%s", value, label))
}
