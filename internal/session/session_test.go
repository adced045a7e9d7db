package session_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tenderportal/db"
	"tenderportal/internal/seed"
	"tenderportal/internal/session"
	"tenderportal/models"
)

const secret = "password"

func newManager(t *testing.T, latency time.Duration) (*session.Manager, *db.Storage) {
	t.Helper()
	storage, err := db.Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })
	return session.New(storage, seed.Users(), latency, secret, zap.NewNop()), storage
}

func TestSignInSuccess(t *testing.T) {
	m, storage := newManager(t, 0)

	before := time.Now()
	err := m.SignIn(context.Background(), "bidder@company.com", secret)
	require.NoError(t, err)

	state := m.State()
	require.True(t, state.IsAuthenticated)
	require.False(t, state.IsLoading)
	require.Empty(t, state.Err)
	require.NotNil(t, state.User)
	require.Equal(t, models.RoleBidder, state.User.Role)
	require.NotNil(t, state.User.LastLogin)
	require.False(t, state.User.LastLogin.Before(before))

	// Успешный вход зеркалируется в хранилище
	stored, err := storage.LoadUser()
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, "bidder@company.com", stored.Email)
}

func TestSignInWrongSecret(t *testing.T) {
	m, storage := newManager(t, 0)

	err := m.SignIn(context.Background(), "bidder@company.com", "wrong")
	require.ErrorIs(t, err, session.ErrInvalidCredentials)

	state := m.State()
	require.False(t, state.IsAuthenticated)
	require.Nil(t, state.User)
	require.Equal(t, "Invalid email or password", state.Err)

	// Запись в хранилище не появляется
	stored, err := storage.LoadUser()
	require.NoError(t, err)
	require.Nil(t, stored)
}

func TestSignInUnknownEmail(t *testing.T) {
	m, storage := newManager(t, 0)

	err := m.SignIn(context.Background(), "nobody@nowhere.com", secret)
	require.ErrorIs(t, err, session.ErrInvalidCredentials)

	state := m.State()
	require.False(t, state.IsAuthenticated)
	require.Equal(t, "Invalid email or password", state.Err)

	stored, err := storage.LoadUser()
	require.NoError(t, err)
	require.Nil(t, stored)
}

func TestSignUp(t *testing.T) {
	m, storage := newManager(t, 0)

	err := m.SignUp(context.Background(), "new@x.com", "pw", "Alice", models.RoleBidder)
	require.NoError(t, err)

	state := m.State()
	require.True(t, state.IsAuthenticated)
	require.Equal(t, models.RoleBidder, state.User.Role)
	require.Equal(t, models.UserPending, state.User.Status)
	require.NotEmpty(t, state.User.ID)

	stored, err := storage.LoadUser()
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, "new@x.com", stored.Email)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	m, _ := newManager(t, 0)

	require.NoError(t, m.SignUp(context.Background(), "new@x.com", "pw", "Alice", models.RoleBidder))

	// Повторная регистрация того же email падает: каталог пополняется
	// при регистрации (в оригинале не пополнялся, это был дефект)
	err := m.SignUp(context.Background(), "new@x.com", "pw", "Alice Again", models.RoleIssuer)
	require.ErrorIs(t, err, session.ErrDuplicateEmail)

	state := m.State()
	require.Equal(t, "Email already exists", state.Err)
}

func TestSignUpSeededEmail(t *testing.T) {
	m, _ := newManager(t, 0)

	err := m.SignUp(context.Background(), "admin@tender.com", "pw", "Imposter", models.RoleBidder)
	require.ErrorIs(t, err, session.ErrDuplicateEmail)
}

func TestSignUpRejectsRole(t *testing.T) {
	m, _ := newManager(t, 0)

	err := m.SignUp(context.Background(), "boss@x.com", "pw", "Boss", models.RoleAdmin)
	require.ErrorIs(t, err, session.ErrInvalidRole)

	// Отклоненная роль не трогает состояние
	state := m.State()
	require.False(t, state.IsAuthenticated)
	require.Empty(t, state.Err)
}

func TestSignOutIdempotent(t *testing.T) {
	m, storage := newManager(t, 0)

	require.NoError(t, m.SignIn(context.Background(), "issuer@gov.org", secret))

	m.SignOut()
	state := m.State()
	require.False(t, state.IsAuthenticated)
	require.Nil(t, state.User)

	stored, err := storage.LoadUser()
	require.NoError(t, err)
	require.Nil(t, stored)

	// Повторный выход ничего не меняет
	m.SignOut()
	require.False(t, m.State().IsAuthenticated)
}

func TestClearError(t *testing.T) {
	m, _ := newManager(t, 0)

	_ = m.SignIn(context.Background(), "bidder@company.com", "wrong")
	require.NotEmpty(t, m.State().Err)

	m.ClearError()
	state := m.State()
	require.Empty(t, state.Err)
	require.False(t, state.IsAuthenticated)
}

func TestRestore(t *testing.T) {
	storage, err := db.Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	defer storage.Close()

	require.NoError(t, storage.SaveUser(&models.User{
		ID:     "2",
		Email:  "bidder@company.com",
		Name:   "John Bidder",
		Role:   models.RoleBidder,
		Status: models.UserActive,
	}))

	m := session.New(storage, seed.Users(), 0, secret, zap.NewNop())
	m.Restore()

	state := m.State()
	require.True(t, state.IsAuthenticated)
	require.Equal(t, "bidder@company.com", state.User.Email)
}

func TestRestoreEmpty(t *testing.T) {
	m, _ := newManager(t, 0)
	m.Restore()
	require.False(t, m.State().IsAuthenticated)
}

func TestSignInCancelled(t *testing.T) {
	m, storage := newManager(t, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.SignIn(ctx, "bidder@company.com", secret)
	require.ErrorIs(t, err, context.Canceled)

	state := m.State()
	require.False(t, state.IsAuthenticated)
	require.Equal(t, "Network error occurred", state.Err)

	stored, err := storage.LoadUser()
	require.NoError(t, err)
	require.Nil(t, stored)
}

func TestSubscribe(t *testing.T) {
	m, _ := newManager(t, 0)

	var transitions []session.State
	m.Subscribe(func(s session.State) {
		transitions = append(transitions, s)
	})

	require.NoError(t, m.SignIn(context.Background(), "admin@tender.com", secret))

	// loginStart и loginSuccess, по одному вызову на переход
	require.Len(t, transitions, 2)
	require.True(t, transitions[0].IsLoading)
	require.True(t, transitions[1].IsAuthenticated)
}
