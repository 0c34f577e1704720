package storage

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	authTokenKey   = "auth_token"
	defaultKVTable = "kv_store"
	keyInfo        = "sportlink/token-store/v1"
	nonceSize      = 24
)

var (
	ErrTokenCorrupted   = errors.New("stored token cannot be decrypted")
	ErrSecretRequired   = errors.New("token store secret is required")
	ErrUnsupportedStore = errors.New("unsupported token store driver")
)

// TokenStore — постоянное хранилище токена авторизации.
// Отсутствие токена — это ("", nil), а не ошибка.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}

// SQLTokenStore хранит токен в таблице key/value, зашифрованным secretbox.
type SQLTokenStore struct {
	db     *sql.DB
	driver string
	table  string
	key    [32]byte
}

func NewSQLTokenStore(ctx context.Context, db *sql.DB, driver, secret string) (*SQLTokenStore, error) {
	if secret == "" {
		return nil, ErrSecretRequired
	}
	if driver != "sqlite3" && driver != "postgres" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStore, driver)
	}

	s := &SQLTokenStore{db: db, driver: driver, table: defaultKVTable}
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo))
	if _, err := io.ReadFull(kdf, s.key[:]); err != nil {
		return nil, fmt.Errorf("failed to derive token store key: %w", err)
	}

	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLTokenStore) ensureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`, s.quotedTable())

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create %s table: %w", s.table, err)
	}
	return nil
}

func (s *SQLTokenStore) Get(ctx context.Context) (string, error) {
	query := fmt.Sprintf(`SELECT value FROM %s WHERE key = %s`, s.quotedTable(), s.placeholder(1))

	var sealed string
	err := s.db.QueryRowContext(ctx, query, authTokenKey).Scan(&sealed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	return s.open(sealed)
}

func (s *SQLTokenStore) Set(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return s.Delete(ctx)
	}

	sealed, err := s.seal(token)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (key, value, updated_at) VALUES (%s, %s, %s)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.quotedTable(), s.placeholder(1), s.placeholder(2), s.placeholder(3))

	if _, err := s.db.ExecContext(ctx, query, authTokenKey, sealed, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// Delete идемпотентен: удаление отсутствующего токена не ошибка.
func (s *SQLTokenStore) Delete(ctx context.Context) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE key = %s`, s.quotedTable(), s.placeholder(1))
	if _, err := s.db.ExecContext(ctx, query, authTokenKey); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

func (s *SQLTokenStore) seal(plain string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(plain), &nonce, &s.key)
	return base64.StdEncoding.EncodeToString(box), nil
}

func (s *SQLTokenStore) open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrTokenCorrupted
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrTokenCorrupted
	}
	return string(plain), nil
}

func (s *SQLTokenStore) placeholder(n int) string {
	if s.driver == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (s *SQLTokenStore) quotedTable() string {
	if s.driver == "postgres" {
		return pq.QuoteIdentifier(s.table)
	}
	return `"` + strings.ReplaceAll(s.table, `"`, `""`) + `"`
}

// MemoryTokenStore держит токен в памяти процесса (тесты, временные сессии).
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

func (m *MemoryTokenStore) Get(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *MemoryTokenStore) Set(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = strings.TrimSpace(token)
	return nil
}

func (m *MemoryTokenStore) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
