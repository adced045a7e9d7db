package store

import "tenderportal/models"

// State - снимок коллекций предметной области. Тендеры и предложения
// в порядке вставки, уведомления и журнал аудита свежие-первыми
type State struct {
	Tenders       []models.Tender
	Bids          []models.Bid
	Notifications []models.Notification
	AuditLogs     []models.AuditLog
	Stats         models.DashboardStats
	Loading       bool
}

// action - закрытое множество переходов, зеркало диспетчера оригинала
type action interface {
	isAction()
}

type setLoading struct{ loading bool }

type setTenders struct{ tenders []models.Tender }

type addTender struct{ tender models.Tender }

type updateTender struct{ tender models.Tender }

type deleteTender struct{ id string }

type setBids struct{ bids []models.Bid }

type addBid struct{ bid models.Bid }

type updateBid struct{ bid models.Bid }

type setNotifications struct{ notifications []models.Notification }

type addNotification struct{ notification models.Notification }

type markNotificationRead struct{ id string }

type addAuditLog struct{ entry models.AuditLog }

type setStats struct{ stats models.DashboardStats }

func (setLoading) isAction()           {}
func (setTenders) isAction()           {}
func (addTender) isAction()            {}
func (updateTender) isAction()         {}
func (deleteTender) isAction()         {}
func (setBids) isAction()              {}
func (addBid) isAction()               {}
func (updateBid) isAction()            {}
func (setNotifications) isAction()     {}
func (addNotification) isAction()      {}
func (markNotificationRead) isAction() {}
func (addAuditLog) isAction()          {}
func (setStats) isAction()             {}

// reduce применяет переход, аргумент не мутируется: срезы, которые
// меняются, пересобираются заново
func reduce(s State, a action) State {
	switch a := a.(type) {
	case setLoading:
		s.Loading = a.loading
		return s
	case setTenders:
		s.Tenders = a.tenders
		return s
	case addTender:
		s.Tenders = append(append([]models.Tender{}, s.Tenders...), a.tender)
		return s
	case updateTender:
		next := make([]models.Tender, len(s.Tenders))
		for i, t := range s.Tenders {
			if t.ID == a.tender.ID {
				next[i] = a.tender
			} else {
				next[i] = t
			}
		}
		s.Tenders = next
		return s
	case deleteTender:
		next := make([]models.Tender, 0, len(s.Tenders))
		for _, t := range s.Tenders {
			if t.ID != a.id {
				next = append(next, t)
			}
		}
		s.Tenders = next
		return s
	case setBids:
		s.Bids = a.bids
		return s
	case addBid:
		s.Bids = append(append([]models.Bid{}, s.Bids...), a.bid)
		return s
	case updateBid:
		next := make([]models.Bid, len(s.Bids))
		for i, b := range s.Bids {
			if b.ID == a.bid.ID {
				next[i] = a.bid
			} else {
				next[i] = b
			}
		}
		s.Bids = next
		return s
	case setNotifications:
		s.Notifications = a.notifications
		return s
	case addNotification:
		s.Notifications = append([]models.Notification{a.notification}, s.Notifications...)
		return s
	case markNotificationRead:
		next := make([]models.Notification, len(s.Notifications))
		for i, n := range s.Notifications {
			if n.ID == a.id {
				n.Read = true
			}
			next[i] = n
		}
		s.Notifications = next
		return s
	case addAuditLog:
		s.AuditLogs = append([]models.AuditLog{a.entry}, s.AuditLogs...)
		return s
	case setStats:
		s.Stats = a.stats
		return s
	}
	return s
}
