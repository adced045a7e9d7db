package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tenderportal/internal/seed"
	"tenderportal/internal/store"
	"tenderportal/models"
)

var issuer = models.User{ID: "3", Name: "Sarah Issuer", Role: models.RoleIssuer}

func newStore() *store.Store {
	return store.New(0, zap.NewNop())
}

func seededStore() *store.Store {
	s := newStore()
	s.SetTenders(seed.Tenders())
	s.SetBids(seed.Bids())
	return s
}

func draftTender() models.Tender {
	return models.Tender{
		Title:       "Office Renovation",
		Description: "Full renovation of the ground floor",
		Category:    "Construction",
		IssuerID:    issuer.ID,
		IssuerName:  issuer.Name,
		Deadline:    time.Now().Add(30 * 24 * time.Hour),
		Budget:      50000,
		Status:      models.TenderDraft,
	}
}

func TestCreateTender(t *testing.T) {
	s := newStore()

	created := s.CreateTender(draftTender())
	require.NotEmpty(t, created.ID)
	require.Zero(t, created.BidCount)
	require.False(t, created.CreatedAt.IsZero())
	require.Equal(t, created.CreatedAt, created.UpdatedAt)

	tenders := s.Tenders()
	require.Len(t, tenders, 1)
	require.Equal(t, created.ID, tenders[0].ID)

	// Ровно одна запись аудита о создании
	logs := s.AuditLogs()
	require.Len(t, logs, 1)
	require.Equal(t, "Created tender", logs[0].Action)
	require.Equal(t, models.EntityTender, logs[0].Entity)
	require.Equal(t, created.ID, logs[0].EntityID)
	require.Equal(t, issuer.Name, logs[0].UserName)
}

func TestUpdateTenderAlwaysAudits(t *testing.T) {
	s := newStore()
	created := s.CreateTender(draftTender())

	created.Budget = 60000
	updated := s.UpdateTender(created)
	require.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	logs := s.AuditLogs()
	require.Len(t, logs, 2)
	// Журнал свежие-первыми
	require.Equal(t, "Updated tender", logs[0].Action)
	require.Equal(t, "Created tender", logs[1].Action)

	tenders := s.Tenders()
	require.Len(t, tenders, 1)
	require.Equal(t, float64(60000), tenders[0].Budget)
}

func TestDeleteTenderLeavesDanglingBids(t *testing.T) {
	s := seededStore()
	auditBefore := len(s.AuditLogs())

	s.DeleteTender("1")

	for _, tender := range s.Tenders() {
		require.NotEqual(t, "1", tender.ID)
	}

	// Предложения остаются и доступны с висячей ссылкой
	bids := s.BidsForTender("1")
	require.Len(t, bids, 1)
	require.Equal(t, "1", bids[0].TenderID)

	// Удаление не пишет аудит - асимметрия оригинала сохранена
	require.Len(t, s.AuditLogs(), auditBefore)
}

func TestSubmitBid(t *testing.T) {
	s := seededStore()
	bidsBefore := len(s.Bids())

	submitted := s.SubmitBid(models.Bid{
		TenderID:   "2",
		BidderID:   "2",
		BidderName: "John Bidder",
		Amount:     40000,
		Proposal:   "Flutter app in twelve weeks",
		Status:     models.BidSubmitted,
	})
	require.NotEmpty(t, submitted.ID)

	require.Len(t, s.Bids(), bidsBefore+1)

	logs := s.AuditLogs()
	require.Equal(t, "Submitted bid", logs[0].Action)
	require.Equal(t, models.EntityBid, logs[0].Entity)

	// Денормализованный счетчик родителя не трогается
	tender, ok := s.GetTender("2")
	require.True(t, ok)
	require.Equal(t, 1, tender.BidCount)
	// Живое значение считается по коллекции предложений
	require.Equal(t, 1, s.BidCountFor("2"))
}

func TestUpdateBidNoAudit(t *testing.T) {
	s := seededStore()
	auditBefore := len(s.AuditLogs())

	bids := s.Bids()
	require.NotEmpty(t, bids)
	b := bids[0]
	b.Amount = 21000
	updated := s.UpdateBid(b)
	require.Equal(t, float64(21000), updated.Amount)

	require.Len(t, s.AuditLogs(), auditBefore)
	require.Equal(t, float64(21000), s.Bids()[0].Amount)
}

func TestNotificationsNewestFirst(t *testing.T) {
	s := newStore()

	first := s.AddNotification(models.Notification{UserID: "3", Title: "first", Type: models.SeverityInfo})
	second := s.AddNotification(models.Notification{UserID: "3", Title: "second", Type: models.SeveritySuccess})

	items := s.Notifications()
	require.Len(t, items, 2)
	require.Equal(t, second.ID, items[0].ID)
	require.Equal(t, first.ID, items[1].ID)

	require.Equal(t, 2, s.UnreadCount("3"))
	s.MarkNotificationRead(first.ID)
	require.Equal(t, 1, s.UnreadCount("3"))

	// Повторная пометка ничего не меняет
	s.MarkNotificationRead(first.ID)
	require.Equal(t, 1, s.UnreadCount("3"))
}

func TestChangeTenderStatus(t *testing.T) {
	s := newStore()
	created := s.CreateTender(draftTender())

	published, err := s.ChangeTenderStatus(created.ID, models.TenderPublished, &issuer)
	require.NoError(t, err)
	require.Equal(t, models.TenderPublished, published.Status)

	logs := s.AuditLogs()
	require.Equal(t, "Changed tender status", logs[0].Action)

	awarded, err := s.ChangeTenderStatus(created.ID, models.TenderAwarded, &issuer)
	require.NoError(t, err)
	require.Equal(t, models.TenderAwarded, awarded.Status)

	// Терминальный статус дальше не переводится
	_, err = s.ChangeTenderStatus(created.ID, models.TenderClosed, &issuer)
	require.ErrorIs(t, err, store.ErrInvalidTransition)
}

func TestChangeTenderStatusInvalid(t *testing.T) {
	s := newStore()
	created := s.CreateTender(draftTender())

	_, err := s.ChangeTenderStatus(created.ID, models.TenderClosed, &issuer)
	require.ErrorIs(t, err, store.ErrInvalidTransition)

	_, err = s.ChangeTenderStatus("missing", models.TenderPublished, &issuer)
	require.ErrorIs(t, err, store.ErrUnknownTender)

	// Неудачный перевод не меняет тендер
	current, ok := s.GetTender(created.ID)
	require.True(t, ok)
	require.Equal(t, models.TenderDraft, current.Status)
}

func TestChangeBidStatus(t *testing.T) {
	s := seededStore()

	reviewed, err := s.ChangeBidStatus("1", models.BidUnderReview, &issuer)
	require.NoError(t, err)
	require.Equal(t, models.BidUnderReview, reviewed.Status)

	accepted, err := s.ChangeBidStatus("1", models.BidAccepted, &issuer)
	require.NoError(t, err)
	require.Equal(t, models.BidAccepted, accepted.Status)

	_, err = s.ChangeBidStatus("1", models.BidRejected, &issuer)
	require.ErrorIs(t, err, store.ErrInvalidTransition)

	_, err = s.ChangeBidStatus("missing", models.BidUnderReview, &issuer)
	require.ErrorIs(t, err, store.ErrUnknownBid)
}

func TestRecomputeStats(t *testing.T) {
	s := seededStore()

	stats := s.RecomputeStats(3, 3)
	require.Equal(t, 2, stats.TotalTenders)
	require.Equal(t, 2, stats.ActiveTenders)
	require.Equal(t, 1, stats.TotalBids)
	require.Equal(t, 1, stats.PendingBids)
	require.Equal(t, 3, stats.TotalUsers)
	require.Equal(t, stats, s.Stats())
}

func TestRecentActivityCapped(t *testing.T) {
	s := newStore()
	for i := 0; i < 7; i++ {
		s.CreateTender(draftTender())
	}

	stats := s.RecomputeStats(3, 3)
	require.Len(t, stats.RecentActivity, 5)
	require.Len(t, s.AuditLogs(), 7)
}

func TestAddAuditLog(t *testing.T) {
	s := newStore()

	entry := s.AddAuditLog(models.AuditLog{
		UserID:   "1",
		UserName: "System Administrator",
		Action:   "Approved user",
		Entity:   models.EntityUser,
		EntityID: "42",
		Details:  "Approved user registration",
	})
	require.NotEmpty(t, entry.ID)
	require.False(t, entry.Timestamp.IsZero())

	logs := s.AuditLogs()
	require.Len(t, logs, 1)
	require.Equal(t, models.EntityUser, logs[0].Entity)
}

func TestSnapshotsAreCopies(t *testing.T) {
	s := seededStore()

	tenders := s.Tenders()
	tenders[0].Title = "mutated"
	require.NotEqual(t, "mutated", s.Tenders()[0].Title)

	bids := s.Bids()
	bids[0].Amount = 1
	require.NotEqual(t, float64(1), s.Bids()[0].Amount)
}

func TestRefresh(t *testing.T) {
	s := newStore()

	require.NoError(t, s.Refresh(context.Background()))
	require.False(t, s.Loading())
}

func TestSubscribe(t *testing.T) {
	s := newStore()

	calls := 0
	s.Subscribe(func() { calls++ })

	s.CreateTender(draftTender())
	// addTender плюс запись аудита - два перехода
	require.Equal(t, 2, calls)
}
