package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"tenderportal/models"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoadUser(t *testing.T) {
	s := openTestStorage(t)

	last := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	u := &models.User{
		ID:        "1",
		Email:     "admin@tender.com",
		Name:      "System Administrator",
		Role:      models.RoleAdmin,
		Status:    models.UserActive,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		LastLogin: &last,
	}
	require.NoError(t, s.SaveUser(u))

	got, err := s.LoadUser()
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, u.Email, got.Email)
	require.Equal(t, u.Role, got.Role)
	require.NotNil(t, got.LastLogin)
	require.True(t, got.LastLogin.Equal(last))
}

func TestLoadUserAbsent(t *testing.T) {
	s := openTestStorage(t)

	got, err := s.LoadUser()
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestLoadUserMalformed(t *testing.T) {
	s := openTestStorage(t)

	// Битая запись читается как отсутствие и удаляется
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Put([]byte(sessionKey), []byte("{not json"))
	})
	require.NoError(t, err)

	got, err := s.LoadUser()
	require.NoError(t, err)
	require.Nil(t, got)

	err = s.db.View(func(tx *bbolt.Tx) error {
		require.Nil(t, tx.Bucket([]byte(sessionBucket)).Get([]byte(sessionKey)))
		return nil
	})
	require.NoError(t, err)
}

func TestDeleteUserIdempotent(t *testing.T) {
	s := openTestStorage(t)

	require.NoError(t, s.SaveUser(&models.User{ID: "1", Email: "a@b.c"}))
	require.NoError(t, s.DeleteUser())
	require.NoError(t, s.DeleteUser())

	got, err := s.LoadUser()
	require.NoError(t, err)
	require.Nil(t, got)
}
