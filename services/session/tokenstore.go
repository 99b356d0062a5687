package session

import (
	"context"
	"database/sql"
	"errors"
	"salamyar/services/session/db"
	"sync"
	"time"
)

// TokenKey is the key the bearer token is persisted under.
const TokenKey = "authToken"

// TokenStore persists the bearer token between runs. Get returns "" when
// nothing is stored.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Put(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}

type SqlTokenStore struct {
	db  *sql.DB
	qry *db.Queries
}

// NewSqlTokenStore creates the kv table if it is missing.
func NewSqlTokenStore(ctx context.Context, database *sql.DB) (SqlTokenStore, error) {
	_, err := database.ExecContext(ctx, db.Schema)
	if err != nil {
		return SqlTokenStore{}, err
	}
	return SqlTokenStore{
		db:  database,
		qry: db.New(database),
	}, nil
}

func (s SqlTokenStore) Get(ctx context.Context) (string, error) {
	token, err := s.qry.GetValue(ctx, TokenKey)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return token, err
}

func (s SqlTokenStore) Put(ctx context.Context, token string) error {
	return s.qry.PutValue(ctx, db.PutValueParams{
		Key:       TokenKey,
		Value:     token,
		UpdatedAt: time.Now().Unix(),
	})
}

func (s SqlTokenStore) Delete(ctx context.Context) error {
	return s.qry.DeleteValue(ctx, TokenKey)
}

// MemoryTokenStore keeps the token for the lifetime of the process.
type MemoryTokenStore struct {
	mutex sync.Mutex
	token string
}

func (s *MemoryTokenStore) Get(ctx context.Context) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Put(ctx context.Context, token string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Delete(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.token = ""
	return nil
}
