package notify

import (
	"testing"
	"time"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/bus"
)

type recorder struct{ calls []string }

func (r *recorder) Toast(level, message string) {
	r.calls = append(r.calls, "toast:"+level+":"+message)
}

func (r *recorder) Alert(title, message string) {
	r.calls = append(r.calls, "alert:"+title+":"+message)
}

func (r *recorder) NetworkBanner(visible bool, message string) {
	state := "off"
	if visible {
		state = "on"
	}
	r.calls = append(r.calls, "banner:"+state+":"+message)
}

func TestMultiFansOutInOrder(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := Multi{a, Nop{}, b}

	m.Toast(LevelError, "İnternet bağlantısı yok")
	m.Alert("Başarılı", "ok")
	m.NetworkBanner(true, "net")

	want := []string{"toast:error:İnternet bağlantısı yok", "alert:Başarılı:ok", "banner:on:net"}
	for _, r := range []*recorder{a, b} {
		if len(r.calls) != len(want) {
			t.Fatalf("calls = %v", r.calls)
		}
		for i := range want {
			if r.calls[i] != want[i] {
				t.Errorf("call %d = %q, want %q", i, r.calls[i], want[i])
			}
		}
	}
}

func TestBusNotifierPublishes(t *testing.T) {
	b := bus.New(nil)
	toasts, unsubscribeToasts := bus.Subscribe(b, bus.Toast)
	defer unsubscribeToasts()
	banners, unsubscribeBanners := bus.Subscribe(b, bus.NetworkBanner)
	defer unsubscribeBanners()

	n := NewBusNotifier(b)
	n.Toast(LevelSuccess, "Kaydedildi")
	n.NetworkBanner(true, "İnternet bağlantınızı kontrol edin.")

	select {
	case msg := <-toasts:
		if msg.Level != LevelSuccess || msg.Message != "Kaydedildi" {
			t.Errorf("toast = %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("toast not published")
	}
	select {
	case msg := <-banners:
		if !msg.Visible {
			t.Errorf("banner = %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("banner not published")
	}
}

func TestNilBusNotifierIsSafe(t *testing.T) {
	n := NewBusNotifier(nil)
	n.Toast(LevelInfo, "x")
	n.Alert("t", "m")
	n.NetworkBanner(false, "")
}
