package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/models"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/storage"
	"github.com/golang-jwt/jwt/v4"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func newManager(store storage.TokenStore) *Manager {
	return NewManager(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCurrentUserID(t *testing.T) {
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name    string
		claims  jwt.MapClaims
		want    models.ID
		wantErr error
	}{
		{"numeric user_id", jwt.MapClaims{"user_id": 42, "exp": future}, "42", nil},
		{"string user_id", jwt.MapClaims{"user_id": "a1b2-uuid"}, "a1b2-uuid", nil},
		{"sub fallback", jwt.MapClaims{"sub": "77"}, "77", nil},
		{"user_id wins over sub", jwt.MapClaims{"user_id": 5, "sub": "77"}, "5", nil},
		{"fractional id", jwt.MapClaims{"user_id": 4.5}, "", ErrInvalidToken},
		{"negative id", jwt.MapClaims{"user_id": -3}, "", ErrInvalidToken},
		{"blank id", jwt.MapClaims{"user_id": "  "}, "", ErrInvalidToken},
		{"missing id", jwt.MapClaims{"role": "player"}, "", ErrInvalidToken},
		{"bool id", jwt.MapClaims{"user_id": true}, "", ErrInvalidToken},
		{"expired", jwt.MapClaims{"user_id": 42, "exp": time.Now().Add(-time.Minute).Unix()}, "", ErrSessionExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newManager(storage.NewMemoryTokenStore(signed(t, tt.claims)))
			got, err := m.CurrentUserID(context.Background())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("CurrentUserID = %q, %v, want %q", got, err, tt.want)
			}
		})
	}
}

func TestCurrentUserIDWithoutToken(t *testing.T) {
	m := newManager(storage.NewMemoryTokenStore(""))
	if _, err := m.CurrentUserID(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Errorf("err = %v, want ErrNoSession", err)
	}
}

func TestCurrentUserIDUsesInjectedClock(t *testing.T) {
	exp := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m := newManager(storage.NewMemoryTokenStore(signed(t, jwt.MapClaims{"user_id": 1, "exp": exp.Unix()})))

	m.now = func() time.Time { return exp.Add(-time.Second) }
	if _, err := m.CurrentUserID(context.Background()); err != nil {
		t.Errorf("before exp: %v", err)
	}

	m.now = func() time.Time { return exp.Add(time.Second) }
	if _, err := m.CurrentUserID(context.Background()); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("after exp: %v", err)
	}
}

func TestSetToken(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryTokenStore("")
	m := newManager(store)

	tok := signed(t, jwt.MapClaims{"user_id": 9})
	if err := m.SetToken(ctx, "Bearer "+tok); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if got, _ := m.Token(ctx); got != tok {
		t.Errorf("stored token = %q, want without Bearer prefix", got)
	}

	for _, bad := range []string{"", "   ", "not-a-jwt", "Bearer "} {
		if err := m.SetToken(ctx, bad); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("SetToken(%q) = %v, want ErrInvalidToken", bad, err)
		}
	}
	if got, _ := m.Token(ctx); got != tok {
		t.Error("invalid token must not replace the stored one")
	}
}

func TestHandleUnauthorizedClearsToken(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryTokenStore(signed(t, jwt.MapClaims{"user_id": 9}))
	m := newManager(store)

	m.HandleUnauthorized(ctx)

	if tok, _ := store.Get(ctx); tok != "" {
		t.Errorf("token = %q after 401", tok)
	}
	if _, err := m.CurrentUserID(ctx); !errors.Is(err, ErrNoSession) {
		t.Errorf("err = %v, want ErrNoSession", err)
	}
}

func TestClearToken(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryTokenStore("x")
	if err := newManager(store).ClearToken(ctx); err != nil {
		t.Fatal(err)
	}
	if tok, _ := store.Get(ctx); tok != "" {
		t.Errorf("token = %q", tok)
	}
}
