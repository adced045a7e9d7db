package models

import "time"

// Роль пользователя
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleBidder Role = "bidder"
	RoleIssuer Role = "issuer"
)

// Valid проверяет, что роль из допустимого набора
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleBidder, RoleIssuer:
		return true
	default:
		return false
	}
}

// Статус учетной записи
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserPending  UserStatus = "pending"
	UserRejected UserStatus = "rejected"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserActive, UserPending, UserRejected:
		return true
	default:
		return false
	}
}

// Статус тендера
type TenderStatus string

const (
	TenderDraft     TenderStatus = "draft"
	TenderPublished TenderStatus = "published"
	TenderClosed    TenderStatus = "closed"
	TenderAwarded   TenderStatus = "awarded"
)

func (s TenderStatus) Valid() bool {
	switch s {
	case TenderDraft, TenderPublished, TenderClosed, TenderAwarded:
		return true
	default:
		return false
	}
}

// CanTransition проверяет допустимость перехода статуса тендера:
// draft -> published -> closed|awarded, терминальные статусы не меняются
func (s TenderStatus) CanTransition(next TenderStatus) bool {
	switch s {
	case TenderDraft:
		return next == TenderPublished
	case TenderPublished:
		return next == TenderClosed || next == TenderAwarded
	default:
		return false
	}
}

// Статус предложения
type BidStatus string

const (
	BidSubmitted   BidStatus = "submitted"
	BidUnderReview BidStatus = "under_review"
	BidAccepted    BidStatus = "accepted"
	BidRejected    BidStatus = "rejected"
)

func (s BidStatus) Valid() bool {
	switch s {
	case BidSubmitted, BidUnderReview, BidAccepted, BidRejected:
		return true
	default:
		return false
	}
}

// CanTransition проверяет допустимость перехода статуса предложения:
// submitted -> under_review -> accepted|rejected
func (s BidStatus) CanTransition(next BidStatus) bool {
	switch s {
	case BidSubmitted:
		return next == BidUnderReview
	case BidUnderReview:
		return next == BidAccepted || next == BidRejected
	default:
		return false
	}
}

// Важность уведомления
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Вид сущности в журнале аудита
type EntityKind string

const (
	EntityTender EntityKind = "tender"
	EntityBid    EntityKind = "bid"
	EntityUser   EntityKind = "user"
)

// Сущность Пользователя
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email" validate:"required,email"`
	Name      string     `json:"name" validate:"required,max=100"`
	Role      Role       `json:"role" validate:"required,oneof=admin bidder issuer"`
	Status    UserStatus `json:"status" validate:"required,oneof=active pending rejected"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// Сущность Тендера
type Tender struct {
	ID           string           `json:"id"`
	Title        string           `json:"title" validate:"required,max=100"`
	Description  string           `json:"description" validate:"required,max=500"`
	Category     string           `json:"category" validate:"required"`
	IssuerID     string           `json:"issuerId" validate:"required"`
	IssuerName   string           `json:"issuerName"`
	Deadline     time.Time        `json:"deadline"`
	Budget       float64          `json:"budget" validate:"gt=0"`
	Status       TenderStatus     `json:"status" validate:"required,oneof=draft published closed awarded"`
	Requirements []string         `json:"requirements"`
	Attachments  []FileAttachment `json:"attachments"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
	BidCount     int              `json:"bidCount"`
}

// Сущность Предложения
type Bid struct {
	ID          string           `json:"id"`
	TenderID    string           `json:"tenderId" validate:"required"`
	BidderID    string           `json:"bidderId" validate:"required"`
	BidderName  string           `json:"bidderName"`
	Amount      float64          `json:"amount" validate:"gt=0"`
	Proposal    string           `json:"proposal" validate:"required,max=1000"`
	Status      BidStatus        `json:"status" validate:"required,oneof=submitted under_review accepted rejected"`
	Attachments []FileAttachment `json:"attachments"`
	SubmittedAt time.Time        `json:"submittedAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// Вложение, живет только вместе с тендером или предложением
type FileAttachment struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Filesize   int64     `json:"filesize"`
	Mimetype   string    `json:"mimetype"`
	UploadedAt time.Time `json:"uploadedAt"`
	UploadedBy string    `json:"uploadedBy"`
	URL        string    `json:"url"`
}

// Запись журнала аудита, только добавляется
type AuditLog struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	UserName  string     `json:"userName"`
	Action    string     `json:"action"`
	Entity    EntityKind `json:"entity"`
	EntityID  string     `json:"entityId"`
	Details   string     `json:"details"`
	Timestamp time.Time  `json:"timestamp"`
}

// Уведомление пользователю
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      Severity  `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
	Data      any       `json:"data,omitempty"`
}

// Производная сводка для дашборда, не хранится отдельно
type DashboardStats struct {
	TotalTenders   int        `json:"totalTenders"`
	ActiveTenders  int        `json:"activeTenders"`
	TotalBids      int        `json:"totalBids"`
	PendingBids    int        `json:"pendingBids"`
	TotalUsers     int        `json:"totalUsers"`
	ActiveUsers    int        `json:"activeUsers"`
	RecentActivity []AuditLog `json:"recentActivity"`
}
