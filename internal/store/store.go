package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tenderportal/models"
)

var (
	ErrUnknownTender     = errors.New("unknown tender")
	ErrUnknownBid        = errors.New("unknown bid")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Store владеет коллекциями тендеров, предложений, уведомлений и
// журнала аудита. Вся мутация - под одним мьютексом, наружу уходят
// только копии
type Store struct {
	mu      sync.Mutex
	state   State
	latency time.Duration
	log     *zap.Logger
	subs    []func()
}

func New(latency time.Duration, log *zap.Logger) *Store {
	return &Store{latency: latency, log: log}
}

// Subscribe регистрирует наблюдателя, он вызывается после каждой мутации
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// CreateTender назначает свежий id, метки времени и нулевой счетчик
// предложений, добавляет тендер и пишет запись аудита. Валидация
// полей - забота вызывающего
func (s *Store) CreateTender(draft models.Tender) models.Tender {
	now := time.Now()
	t := draft
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now
	t.BidCount = 0

	s.dispatch(addTender{tender: t})
	s.audit(models.AuditLog{
		UserID:   t.IssuerID,
		UserName: t.IssuerName,
		Action:   "Created tender",
		Entity:   models.EntityTender,
		EntityID: t.ID,
		Details:  fmt.Sprintf("Created tender: %s", t.Title),
	})
	s.log.Info("tender created", zap.String("id", t.ID), zap.String("title", t.Title))
	return t
}

// UpdateTender заменяет тендер с тем же id и обновляет метку времени.
// Запись аудита одна и та же независимо от изменившихся полей
func (s *Store) UpdateTender(t models.Tender) models.Tender {
	t.UpdatedAt = time.Now()
	s.dispatch(updateTender{tender: t})
	s.audit(models.AuditLog{
		UserID:   t.IssuerID,
		UserName: t.IssuerName,
		Action:   "Updated tender",
		Entity:   models.EntityTender,
		EntityID: t.ID,
		Details:  fmt.Sprintf("Updated tender: %s", t.Title),
	})
	return t
}

// DeleteTender убирает тендер. Предложения, ссылающиеся на него,
// остаются висячими, записи аудита нет - так ведет себя оригинал
func (s *Store) DeleteTender(id string) {
	s.dispatch(deleteTender{id: id})
}

// SubmitBid назначает свежий id и метки времени, добавляет предложение
// и пишет запись аудита. Счетчик BidCount родительского тендера не
// трогается, живое значение отдает BidCountFor
func (s *Store) SubmitBid(draft models.Bid) models.Bid {
	now := time.Now()
	b := draft
	b.ID = uuid.NewString()
	b.SubmittedAt = now
	b.UpdatedAt = now

	s.dispatch(addBid{bid: b})
	s.audit(models.AuditLog{
		UserID:   b.BidderID,
		UserName: b.BidderName,
		Action:   "Submitted bid",
		Entity:   models.EntityBid,
		EntityID: b.ID,
		Details:  fmt.Sprintf("Submitted bid for tender: %s", b.TenderID),
	})
	s.log.Info("bid submitted", zap.String("id", b.ID), zap.String("tender", b.TenderID))
	return b
}

// UpdateBid заменяет предложение с тем же id, без записи аудита
func (s *Store) UpdateBid(b models.Bid) models.Bid {
	b.UpdatedAt = time.Now()
	s.dispatch(updateBid{bid: b})
	return b
}

// ChangeTenderStatus переводит тендер по формальной машине статусов:
// draft -> published -> closed|awarded
func (s *Store) ChangeTenderStatus(id string, next models.TenderStatus, actor *models.User) (models.Tender, error) {
	s.mu.Lock()
	var current *models.Tender
	for i := range s.state.Tenders {
		if s.state.Tenders[i].ID == id {
			current = &s.state.Tenders[i]
			break
		}
	}
	if current == nil {
		s.mu.Unlock()
		return models.Tender{}, ErrUnknownTender
	}
	if !current.Status.CanTransition(next) {
		s.mu.Unlock()
		return models.Tender{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, next)
	}
	from := current.Status
	t := *current
	s.mu.Unlock()

	t.Status = next
	t.UpdatedAt = time.Now()
	s.dispatch(updateTender{tender: t})
	s.audit(models.AuditLog{
		UserID:   actor.ID,
		UserName: actor.Name,
		Action:   "Changed tender status",
		Entity:   models.EntityTender,
		EntityID: t.ID,
		Details:  fmt.Sprintf("Changed tender status: %s -> %s", from, next),
	})
	return t, nil
}

// ChangeBidStatus переводит предложение по машине статусов:
// submitted -> under_review -> accepted|rejected
func (s *Store) ChangeBidStatus(id string, next models.BidStatus, actor *models.User) (models.Bid, error) {
	s.mu.Lock()
	var current *models.Bid
	for i := range s.state.Bids {
		if s.state.Bids[i].ID == id {
			current = &s.state.Bids[i]
			break
		}
	}
	if current == nil {
		s.mu.Unlock()
		return models.Bid{}, ErrUnknownBid
	}
	if !current.Status.CanTransition(next) {
		s.mu.Unlock()
		return models.Bid{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, next)
	}
	from := current.Status
	b := *current
	s.mu.Unlock()

	b.Status = next
	b.UpdatedAt = time.Now()
	s.dispatch(updateBid{bid: b})
	s.audit(models.AuditLog{
		UserID:   actor.ID,
		UserName: actor.Name,
		Action:   "Changed bid status",
		Entity:   models.EntityBid,
		EntityID: b.ID,
		Details:  fmt.Sprintf("Changed bid status: %s -> %s", from, next),
	})
	return b, nil
}

// AddNotification добавляет уведомление в начало списка
func (s *Store) AddNotification(draft models.Notification) models.Notification {
	n := draft
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now()
	s.dispatch(addNotification{notification: n})
	return n
}

// MarkNotificationRead поднимает флаг прочтения
func (s *Store) MarkNotificationRead(id string) {
	s.dispatch(markNotificationRead{id: id})
}

// AddAuditLog - общий способ дописать запись аудита извне
func (s *Store) AddAuditLog(entry models.AuditLog) models.AuditLog {
	return s.audit(entry)
}

// SetTenders загружает коллекцию тендеров целиком, для затравки
func (s *Store) SetTenders(tenders []models.Tender) {
	s.dispatch(setTenders{tenders: append([]models.Tender{}, tenders...)})
}

// SetBids загружает коллекцию предложений целиком
func (s *Store) SetBids(bids []models.Bid) {
	s.dispatch(setBids{bids: append([]models.Bid{}, bids...)})
}

// SetNotifications загружает уведомления целиком
func (s *Store) SetNotifications(notifications []models.Notification) {
	s.dispatch(setNotifications{notifications: append([]models.Notification{}, notifications...)})
}

// SetStats подменяет сводку дашборда
func (s *Store) SetStats(stats models.DashboardStats) {
	s.dispatch(setStats{stats: stats})
}

// RecomputeStats пересчитывает сводку по живым коллекциям. Числа
// пользователей приходят от менеджера сессий, хранилище каталога не знает
func (s *Store) RecomputeStats(totalUsers, activeUsers int) models.DashboardStats {
	s.mu.Lock()
	stats := models.DashboardStats{
		TotalTenders: len(s.state.Tenders),
		TotalBids:    len(s.state.Bids),
		TotalUsers:   totalUsers,
		ActiveUsers:  activeUsers,
	}
	for _, t := range s.state.Tenders {
		if t.Status == models.TenderPublished {
			stats.ActiveTenders++
		}
	}
	for _, b := range s.state.Bids {
		if b.Status == models.BidSubmitted {
			stats.PendingBids++
		}
	}
	recent := s.state.AuditLogs
	if len(recent) > 5 {
		recent = recent[:5]
	}
	stats.RecentActivity = append([]models.AuditLog{}, recent...)
	s.mu.Unlock()

	s.dispatch(setStats{stats: stats})
	return stats
}

// Refresh имитирует обновление данных: флаг загрузки на время задержки
func (s *Store) Refresh(ctx context.Context) error {
	s.dispatch(setLoading{loading: true})
	defer s.dispatch(setLoading{loading: false})
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Снимки для чтения, всегда копии

func (s *Store) Tenders() []models.Tender {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Tender{}, s.state.Tenders...)
}

func (s *Store) Bids() []models.Bid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Bid{}, s.state.Bids...)
}

func (s *Store) Notifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Notification{}, s.state.Notifications...)
}

func (s *Store) AuditLogs() []models.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AuditLog{}, s.state.AuditLogs...)
}

func (s *Store) Stats() models.DashboardStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Stats
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Loading
}

// GetTender возвращает тендер по id
func (s *Store) GetTender(id string) (models.Tender, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.state.Tenders {
		if t.ID == id {
			return t, true
		}
	}
	return models.Tender{}, false
}

// BidCountFor выводит живое число предложений тендера, в обход
// денормализованного счетчика
func (s *Store) BidCountFor(tenderID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, b := range s.state.Bids {
		if b.TenderID == tenderID {
			count++
		}
	}
	return count
}

// BidsForTender возвращает предложения по тендеру в порядке вставки
func (s *Store) BidsForTender(tenderID string) []models.Bid {
	s.mu.Lock()
	defer s.mu.Unlock()
	var bids []models.Bid
	for _, b := range s.state.Bids {
		if b.TenderID == tenderID {
			bids = append(bids, b)
		}
	}
	return bids
}

// TendersByIssuer возвращает тендеры заказчика
func (s *Store) TendersByIssuer(issuerID string) []models.Tender {
	s.mu.Lock()
	defer s.mu.Unlock()
	var tenders []models.Tender
	for _, t := range s.state.Tenders {
		if t.IssuerID == issuerID {
			tenders = append(tenders, t)
		}
	}
	return tenders
}

// BidsByBidder возвращает предложения участника
func (s *Store) BidsByBidder(bidderID string) []models.Bid {
	s.mu.Lock()
	defer s.mu.Unlock()
	var bids []models.Bid
	for _, b := range s.state.Bids {
		if b.BidderID == bidderID {
			bids = append(bids, b)
		}
	}
	return bids
}

// UnreadCount считает непрочитанные уведомления получателя
func (s *Store) UnreadCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.state.Notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count
}

func (s *Store) audit(entry models.AuditLog) models.AuditLog {
	entry.ID = uuid.NewString()
	entry.Timestamp = time.Now()
	s.dispatch(addAuditLog{entry: entry})
	return entry
}

func (s *Store) dispatch(a action) {
	s.mu.Lock()
	s.state = reduce(s.state, a)
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}
