package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tenderportal/db"
	"tenderportal/models"
)

// Причины отказа аутентификации, одновременно попадают в State.Err
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidRole        = errors.New("role must be bidder or issuer")
)

// Тексты для отображения во вью, как в исходном приложении
const (
	reasonInvalidCredentials = "Invalid email or password"
	reasonDuplicateEmail     = "Email already exists"
	reasonNetwork            = "Network error occurred"
)

// Manager владеет нулем-или-одной аутентифицированной личностью.
// Каталог пользователей и состояние меняются только под mu
type Manager struct {
	mu        sync.Mutex
	state     State
	directory map[string]models.User // email -> пользователь
	store     *db.Storage
	latency   time.Duration
	secret    string
	log       *zap.Logger
	subs      []func(State)
}

// New создает менеджер с каталогом известных пользователей
func New(store *db.Storage, directory []models.User, latency time.Duration, secret string, log *zap.Logger) *Manager {
	dir := make(map[string]models.User, len(directory))
	for _, u := range directory {
		dir[u.Email] = u
	}
	return &Manager{
		state:     State{},
		directory: dir,
		store:     store,
		latency:   latency,
		secret:    secret,
		log:       log,
	}
}

// State возвращает снимок состояния, пользователь копируется
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneState(m.state)
}

// Subscribe регистрирует наблюдателя, он вызывается после каждого перехода
func (m *Manager) Subscribe(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// DirectorySize сообщает число известных пользователей, для сводки
func (m *Manager) DirectorySize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.directory)
}

// Restore восстанавливает сессию из хранилища при старте процесса.
// Битая запись уже отброшена на уровне db, ошибок наружу нет
func (m *Manager) Restore() {
	u, err := m.store.LoadUser()
	if err != nil {
		m.log.Debug("session restore skipped", zap.Error(err))
		return
	}
	if u == nil {
		return
	}
	m.dispatch(loginSuccess{user: *u})
}

// SignIn выполняет вход: поиск по точному совпадению email и проверка
// общего секрета. Искусственная задержка отменяема через ctx
func (m *Manager) SignIn(ctx context.Context, email, secret string) error {
	m.dispatch(loginStart{})

	if err := m.wait(ctx); err != nil {
		m.dispatch(loginFailure{reason: reasonNetwork})
		return err
	}

	m.mu.Lock()
	u, ok := m.directory[email]
	m.mu.Unlock()

	if !ok || secret != m.secret {
		m.dispatch(loginFailure{reason: reasonInvalidCredentials})
		return ErrInvalidCredentials
	}

	now := time.Now()
	u.LastLogin = &now
	m.persist(&u)
	m.dispatch(loginSuccess{user: u})
	m.log.Info("user signed in", zap.String("email", u.Email), zap.String("role", string(u.Role)))
	return nil
}

// SignUp регистрирует нового пользователя. Роль ограничена bidder и
// issuer, статус всегда pending. Новый пользователь добавляется в
// каталог, повторная регистрация того же email падает с ErrDuplicateEmail
func (m *Manager) SignUp(ctx context.Context, email, secret, name string, role models.Role) error {
	if role != models.RoleBidder && role != models.RoleIssuer {
		return ErrInvalidRole
	}

	m.dispatch(loginStart{})

	if err := m.wait(ctx); err != nil {
		m.dispatch(loginFailure{reason: reasonNetwork})
		return err
	}

	m.mu.Lock()
	if _, exists := m.directory[email]; exists {
		m.mu.Unlock()
		m.dispatch(loginFailure{reason: reasonDuplicateEmail})
		return ErrDuplicateEmail
	}
	u := models.User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      name,
		Role:      role,
		Status:    models.UserPending,
		CreatedAt: time.Now(),
	}
	m.directory[email] = u
	m.mu.Unlock()

	m.persist(&u)
	m.dispatch(loginSuccess{user: u})
	m.log.Info("user registered", zap.String("email", u.Email), zap.String("role", string(u.Role)))
	return nil
}

// SignOut сбрасывает сессию и стирает сохраненную запись, идемпотентно
func (m *Manager) SignOut() {
	if err := m.store.DeleteUser(); err != nil {
		m.log.Debug("session erase failed", zap.Error(err))
	}
	m.dispatch(logout{})
}

// ClearError убирает причину отказа без повторной попытки
func (m *Manager) ClearError() {
	m.dispatch(clearError{})
}

// wait моделирует сетевую задержку, прерывается отменой контекста
func (m *Manager) wait(ctx context.Context) error {
	if m.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(m.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) persist(u *models.User) {
	if err := m.store.SaveUser(u); err != nil {
		m.log.Warn("session persist failed", zap.Error(err))
	}
}

func (m *Manager) dispatch(a action) {
	m.mu.Lock()
	m.state = reduce(m.state, a)
	snapshot := cloneState(m.state)
	subs := make([]func(State), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

func cloneState(s State) State {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
