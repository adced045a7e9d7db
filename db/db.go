package db

import (
	"encoding/json"
	"time"

	"go.etcd.io/bbolt"

	"tenderportal/models"
)

// Бакет и фиксированный ключ сохраненной сессии
const (
	sessionBucket = "session"
	sessionKey    = "tender_user"
)

// Storage хранит единственную запись сессии в bbolt-файле
type Storage struct {
	db *bbolt.DB
}

// Open открывает файл и создает бакет сессии
func Open(path string) (*Storage, error) {
	b, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	err = b.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sessionBucket))
		return err
	})
	if err != nil {
		b.Close()
		return nil, err
	}
	return &Storage{db: b}, nil
}

// SaveUser записывает пользователя сессии под фиксированным ключом
func (s *Storage) SaveUser(u *models.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Put([]byte(sessionKey), data)
	})
}

// LoadUser читает сохраненную сессию. Отсутствие записи и битые
// данные неразличимы для вызывающего: возвращается nil, nil, битая
// запись при этом удаляется
func (s *Storage) LoadUser() (*models.User, error) {
	var u *models.User
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		data := bucket.Get([]byte(sessionKey))
		if data == nil {
			return nil
		}
		var stored models.User
		if err := json.Unmarshal(data, &stored); err != nil {
			return bucket.Delete([]byte(sessionKey))
		}
		u = &stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteUser стирает сохраненную сессию, идемпотентно
func (s *Storage) DeleteUser() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Delete([]byte(sessionKey))
	})
}

func (s *Storage) Close() error {
	return s.db.Close()
}
