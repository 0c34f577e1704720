package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		raw  string
		want Kind
	}{
		{"Bu etkinliğe zaten katıldınız", AlreadyJoined},
		{"BU ETKİNLİĞE ZATEN KATILDINIZ", AlreadyJoined},
		{"User is already a participant of this event", AlreadyJoined},
		{"Bu etkinliğe zaten katılmıyorsunuz", NotAJoiner},
		{"Bu etkinliğin katılımcısı değilsiniz", NotAJoiner},
		{"Etkinliğe katılmadınız", NotAJoiner},
		{"You are not a participant", NotAJoiner},
		{"Event participant limit reached", AtCapacity},
		{"Etkinlik dolu", AtCapacity},
		{"Kontenjan doldu", AtCapacity},
		{"Bu işlem için yetkiniz yok", PermissionDenied},
		{"Forbidden", PermissionDenied},
		{"Network request failed", NetworkUnreachable},
		{"request timeout: context deadline exceeded", NetworkUnreachable},
		{"İnternet bağlantısı yok", NetworkUnreachable},
		{"Something odd happened", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := Classify(tt.raw); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestClassifyError(t *testing.T) {
	if got := ClassifyError(nil); got != Unknown {
		t.Errorf("nil error: got %v", got)
	}

	plain := errors.New("already joined")
	if got := ClassifyError(plain); got != AlreadyJoined {
		t.Errorf("plain error: got %v", got)
	}

	wrapped := fmt.Errorf("join: %w", &models.APIError{StatusCode: 400, Message: "Etkinlik dolu"})
	if got := ClassifyError(wrapped); got != AtCapacity {
		t.Errorf("wrapped APIError: got %v", got)
	}

	// Текст только в теле ответа.
	body := json.RawMessage(`{"details":{"reason":"Bu etkinliğe zaten katıldınız"}}`)
	deep := &models.APIError{StatusCode: 400, Message: "Bad Request", Body: body}
	if got := ClassifyError(deep); got != AlreadyJoined {
		t.Errorf("body fallback: got %v", got)
	}
}

func TestMessage(t *testing.T) {
	apiErr := &models.APIError{StatusCode: 409, Message: "zaten katıldınız"}
	if got := Message(fmt.Errorf("wrap: %w", apiErr)); got != "zaten katıldınız" {
		t.Errorf("Message(APIError) = %q", got)
	}
	if got := Message(errors.New("boom")); got != "boom" {
		t.Errorf("Message(plain) = %q", got)
	}
	if got := Message(nil); got != "" {
		t.Errorf("Message(nil) = %q", got)
	}
}

func TestIsNetwork(t *testing.T) {
	if !IsNetwork("Network Error") {
		t.Error("IsNetwork(\"Network Error\") = false")
	}
	if !IsNetwork("no connectivity") {
		t.Error("IsNetwork(\"no connectivity\") = false")
	}
	if IsNetwork("Etkinlik dolu") {
		t.Error("IsNetwork(\"Etkinlik dolu\") = true")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{AlreadyJoined, MsgAlreadyJoined},
		{NotAJoiner, MsgNotJoined},
		{AtCapacity, MsgAtCapacity},
		{PermissionDenied, MsgPermissionDenied},
		{NetworkUnreachable, MsgNetwork},
		{Unknown, MsgJoinFailed},
	}
	for _, tt := range tests {
		if got := UserMessage(tt.kind, MsgJoinFailed); got != tt.want {
			t.Errorf("UserMessage(%v) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
