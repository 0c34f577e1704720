package storage

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"path/filepath"
	"regexp"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", "file:"+filepath.Join(t.TempDir(), "tokens.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLTokenStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	s, err := NewSQLTokenStore(ctx, db, "sqlite3", "device-secret")
	if err != nil {
		t.Fatalf("NewSQLTokenStore: %v", err)
	}

	if tok, err := s.Get(ctx); err != nil || tok != "" {
		t.Fatalf("empty store: Get = %q, %v", tok, err)
	}

	if err := s.Set(ctx, "first.token.value"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "second.token.value"); err != nil {
		t.Fatalf("Set (upsert): %v", err)
	}
	if tok, err := s.Get(ctx); err != nil || tok != "second.token.value" {
		t.Fatalf("Get = %q, %v", tok, err)
	}

	// В базе лежит шифротекст, а не сам токен.
	var stored string
	if err := db.QueryRow(`SELECT value FROM kv_store WHERE key = ?`, authTokenKey).Scan(&stored); err != nil {
		t.Fatalf("select: %v", err)
	}
	if stored == "second.token.value" {
		t.Error("token stored in plain text")
	}

	if err := s.Delete(ctx); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if tok, err := s.Get(ctx); err != nil || tok != "" {
		t.Fatalf("after Delete: Get = %q, %v", tok, err)
	}
}

func TestSQLTokenStoreBlankSetDeletes(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLTokenStore(ctx, openSQLite(t), "sqlite3", "secret")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "tok"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "   "); err != nil {
		t.Fatal(err)
	}
	if tok, _ := s.Get(ctx); tok != "" {
		t.Errorf("Get = %q, want empty", tok)
	}
}

func TestSQLTokenStoreWrongSecret(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	s, err := NewSQLTokenStore(ctx, db, "sqlite3", "secret-a")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "tok"); err != nil {
		t.Fatal(err)
	}

	other, err := NewSQLTokenStore(ctx, db, "sqlite3", "secret-b")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := other.Get(ctx); !errors.Is(err, ErrTokenCorrupted) {
		t.Errorf("Get with other secret = %v, want ErrTokenCorrupted", err)
	}

	if _, err := db.Exec(`UPDATE kv_store SET value = 'not-base64!' WHERE key = ?`, authTokenKey); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx); !errors.Is(err, ErrTokenCorrupted) {
		t.Errorf("Get of garbage = %v, want ErrTokenCorrupted", err)
	}
}

func TestNewSQLTokenStoreValidation(t *testing.T) {
	ctx := context.Background()
	if _, err := NewSQLTokenStore(ctx, nil, "sqlite3", ""); !errors.Is(err, ErrSecretRequired) {
		t.Errorf("empty secret: %v", err)
	}
	if _, err := NewSQLTokenStore(ctx, nil, "mysql", "s"); !errors.Is(err, ErrUnsupportedStore) {
		t.Errorf("mysql: %v", err)
	}
}

func TestPostgresDialect(t *testing.T) {
	s := &SQLTokenStore{driver: "postgres", table: "kv_store"}
	if got := s.placeholder(2); got != "$2" {
		t.Errorf("placeholder = %q", got)
	}
	if got := s.quotedTable(); got != `"kv_store"` {
		t.Errorf("quotedTable = %q", got)
	}

	s = &SQLTokenStore{driver: "sqlite3", table: "kv_store"}
	if got := s.placeholder(2); got != "?" {
		t.Errorf("sqlite placeholder = %q", got)
	}
}

func TestMemoryTokenStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryTokenStore("a")
	if tok, _ := m.Get(ctx); tok != "a" {
		t.Errorf("Get = %q", tok)
	}
	_ = m.Set(ctx, " b ")
	if tok, _ := m.Get(ctx); tok != "b" {
		t.Errorf("Get = %q", tok)
	}
	_ = m.Delete(ctx)
	if tok, _ := m.Get(ctx); tok != "" {
		t.Errorf("Get = %q", tok)
	}
}

func TestObjectKey(t *testing.T) {
	re := regexp.MustCompile(`^events/covers/[0-9a-f-]{36}\.jpg$`)
	if key := ObjectKey("/events/covers/", "Photo.JPG"); !re.MatchString(key) {
		t.Errorf("ObjectKey = %q", key)
	}

	re = regexp.MustCompile(`^events/covers/[0-9a-f-]{36}$`)
	if key := ObjectKey("events/covers", "script.exe"); !re.MatchString(key) {
		t.Errorf("ObjectKey with unknown ext = %q", key)
	}

	if ObjectKey("p", "a.png") == ObjectKey("p", "a.png") {
		t.Error("keys must be unique")
	}
}

func TestJoinPublicURL(t *testing.T) {
	base, _ := url.Parse("https://pub.example.com/assets/")
	if got := JoinPublicURL(base, "/categories/futbol.jpg"); got != "https://pub.example.com/assets/categories/futbol.jpg" {
		t.Errorf("JoinPublicURL = %q", got)
	}
	if got := JoinPublicURL(nil, "x.jpg"); got != "" {
		t.Errorf("nil base: %q", got)
	}
	if got := JoinPublicURL(base, ""); got != "" {
		t.Errorf("empty key: %q", got)
	}
}

func TestNewCloudflareR2Uploader(t *testing.T) {
	ctx := context.Background()
	if _, err := NewCloudflareR2Uploader(ctx, CloudflareR2UploaderConfig{AccountID: "acc"}, nil); err == nil {
		t.Error("incomplete config must fail")
	}

	cfg := CloudflareR2UploaderConfig{
		AccountID:       "acc",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "sportlink",
		PublicBaseURL:   "https://cdn.example.com",
	}
	u, err := NewCloudflareR2Uploader(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("NewCloudflareR2Uploader: %v", err)
	}
	if got := u.GetPublicURL("categories/futbol.jpg"); got != "https://cdn.example.com/categories/futbol.jpg" {
		t.Errorf("GetPublicURL = %q", got)
	}

	cfg.PublicBaseURL = "cdn.example.com"
	if _, err := NewCloudflareR2Uploader(ctx, cfg, nil); err == nil {
		t.Error("base URL without scheme must fail")
	}
}
