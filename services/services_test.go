package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/client"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/connectivity"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/models"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/retry"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type backend struct {
	client  *client.Client
	online  *connectivity.Guard
	offline *connectivity.Guard
	retrier *retry.Retrier
}

func newBackend(t *testing.T, mux *http.ServeMux) *backend {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	logger := discardLogger()
	return &backend{
		client:  client.New(client.Options{BaseURL: srv.URL}, nil, logger),
		online:  connectivity.NewGuard(connectivity.Static(true), nil, logger),
		offline: connectivity.NewGuard(connectivity.Static(false), nil, logger),
		retrier: retry.New(retry.Options{Attempts: 3, BaseDelay: time.Millisecond}, nil, logger).
			WithSleep(func(context.Context, time.Duration) error { return nil }),
	}
}

func writeBody(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestGetEvent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /events/{id}", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("id") {
		case "1":
			writeBody(w, 200, `{"status":"success","data":{"event":{"id":1,"title":"Halı saha","max_participants":10}}}`)
		case "2":
			writeBody(w, 200, `{"id":"2","title":"Yoga"}`)
		case "3":
			writeBody(w, 200, `{"status":"success","data":null}`)
		default:
			writeBody(w, 404, `{"message":"Etkinlik bulunamadı"}`)
		}
	})
	b := newBackend(t, mux)
	svc := NewEventService(b.client, b.online, nil, discardLogger())
	ctx := context.Background()

	res := svc.GetEvent(ctx, "1")
	if !res.OK() || res.Data.ID != "1" || res.Data.MaxParticipants != 10 {
		t.Errorf("wrapped: %+v", res)
	}

	res = svc.GetEvent(ctx, "2")
	if !res.OK() || res.Data.Title != "Yoga" {
		t.Errorf("bare: %+v", res)
	}

	res = svc.GetEvent(ctx, "3")
	if res.OK() || res.Data != nil {
		t.Errorf("empty data must be an error: %+v", res)
	}

	res = svc.GetEvent(ctx, "404")
	if res.OK() || res.Message != "Etkinlik bulunamadı" || res.Data != nil {
		t.Errorf("not found: %+v", res)
	}

	res = svc.GetEvent(ctx, "")
	if res.OK() || res.Message != ErrInvalidID.Error() {
		t.Errorf("empty id: %+v", res)
	}
}

func TestReadsAreSkippedOffline(t *testing.T) {
	var hits int32
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeBody(w, 200, `[]`)
	})
	b := newBackend(t, mux)
	ctx := context.Background()

	events := NewEventService(b.client, b.offline, nil, discardLogger())
	if res := events.Participants(ctx, "1"); res.OK() || res.Message != connectivity.OfflineMessage || res.Data == nil {
		t.Errorf("Participants offline: %+v", res)
	}
	if res := events.Participated(ctx); res.OK() || len(res.Data) != 0 {
		t.Errorf("Participated offline: %+v", res)
	}
	if res := NewRatingService(b.client, b.offline, b.retrier, nil).Average(ctx, "1"); res.OK() || res.Data != 0 {
		t.Errorf("Average offline: %+v", res)
	}
	if _, err := events.Join(ctx, "1"); !errors.Is(err, connectivity.ErrNoConnectivity) {
		t.Errorf("Join offline: %v", err)
	}
	if err := NewFriendshipService(b.client, b.offline, nil).Accept(ctx, "1"); !errors.Is(err, connectivity.ErrNoConnectivity) {
		t.Errorf("Accept offline: %v", err)
	}

	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Errorf("backend hit %d times while offline", n)
	}
}

func TestParticipantsShapes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /events/1/participants", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, 200, `{"status":"success","data":{"participants":[{"user_id":7},{"user_id":"8"}]}}`)
	})
	mux.HandleFunc("GET /events/2/participants", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, 200, `[{"user_id":9}]`)
	})
	mux.HandleFunc("GET /events/3/participants", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, 200, `{"status":"success","data":{"total":0}}`)
	})
	b := newBackend(t, mux)
	svc := NewEventService(b.client, b.online, nil, nil)
	ctx := context.Background()

	if res := svc.Participants(ctx, "1"); !res.OK() || len(res.Data) != 2 || res.Data[1].UserID != "8" {
		t.Errorf("wrapped: %+v", res)
	}
	if res := svc.Participants(ctx, "2"); !res.OK() || len(res.Data) != 1 || res.Data[0].UserID != "9" {
		t.Errorf("bare: %+v", res)
	}
	if res := svc.Participants(ctx, "3"); !res.OK() || res.Data == nil || len(res.Data) != 0 {
		t.Errorf("missing key: %+v", res)
	}
}

func TestJoinAndLeave(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /events/{id}/join", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("id") {
		case "1":
			writeBody(w, 200, `{"status":"success","message":"Etkinliğe başarıyla katıldınız"}`)
		case "2":
			writeBody(w, 200, `{"status":"error","message":"Bu etkinliğe zaten katıldınız"}`)
		default:
			writeBody(w, 400, `{"message":"Etkinlik dolu"}`)
		}
	})
	mux.HandleFunc("POST /events/{id}/leave", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, 204, ``)
	})
	b := newBackend(t, mux)
	svc := NewEventService(b.client, b.online, nil, discardLogger())
	ctx := context.Background()

	env, err := svc.Join(ctx, "1")
	if err != nil || !env.OK() {
		t.Errorf("join success: %+v, %v", env, err)
	}

	// 2xx с status "error" не считается ошибкой транспорта: решает вызывающий.
	env, err = svc.Join(ctx, "2")
	if err != nil || env.OK() || env.Message != "Bu etkinliğe zaten katıldınız" {
		t.Errorf("join 2xx error body: %+v, %v", env, err)
	}

	env, err = svc.Join(ctx, "3")
	var apiErr *models.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 400 || apiErr.Message != "Etkinlik dolu" || env.OK() {
		t.Errorf("join 400: %+v, %v", env, err)
	}

	env, err = svc.Leave(ctx, "1")
	if err != nil || !env.OK() {
		t.Errorf("leave: %+v, %v", env, err)
	}

	if _, err := svc.Leave(ctx, " "); !errors.Is(err, ErrInvalidID) {
		t.Errorf("leave blank id: %v", err)
	}
}

type fakeUploader struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
	fail     error
}

func (f *fakeUploader) Upload(_ context.Context, key, _ string, r io.Reader) (*storage.UploadResult, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	_, _ = io.Copy(io.Discard, r)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = append(f.uploaded, key)
	return &storage.UploadResult{Key: key, Location: "https://cdn.example.com/" + key}, nil
}

func (f *fakeUploader) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeUploader) GetPublicURL(key string) string { return "https://cdn.example.com/" + key }

func validEventInput() models.CreateEventInput {
	return models.CreateEventInput{
		Title:           "  Akşam maçı ",
		SportCategory:   "halı saha",
		EventDate:       "2024-06-01",
		StartTime:       "18:00",
		EndTime:         "20:00",
		LocationName:    "Kadıköy",
		MaxParticipants: 10,
	}
}

func TestCreateEvent(t *testing.T) {
	var sent models.CreateEventInput
	mux := http.NewServeMux()
	mux.HandleFunc("POST /events", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&sent)
		writeBody(w, 201, `{"status":"success","data":{"event":{"id":99,"title":"Akşam maçı"}}}`)
	})
	b := newBackend(t, mux)
	up := &fakeUploader{}
	svc := NewEventService(b.client, b.online, up, discardLogger())

	cover := &storage.File{Name: "cover.PNG", ContentType: "image/png", Reader: strings.NewReader("png")}
	event, err := svc.Create(context.Background(), validEventInput(), cover)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if event.ID != "99" {
		t.Errorf("event = %+v", event)
	}
	if sent.SportCategory != "Futbol" || sent.Title != "Akşam maçı" {
		t.Errorf("sent = %+v", sent)
	}
	if len(up.uploaded) != 1 || !strings.HasPrefix(up.uploaded[0], "events/covers/") || !strings.HasSuffix(up.uploaded[0], ".png") {
		t.Errorf("uploaded = %v", up.uploaded)
	}
	if sent.ImageURL != "https://cdn.example.com/"+up.uploaded[0] {
		t.Errorf("image_url = %q", sent.ImageURL)
	}
}

func TestCreateEventValidation(t *testing.T) {
	var hits int32
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { atomic.AddInt32(&hits, 1) })
	b := newBackend(t, mux)
	svc := NewEventService(b.client, b.online, nil, discardLogger())

	input := validEventInput()
	input.Title = "   "
	input.EventDate = "01.06.2024"
	input.MaxParticipants = 1

	_, err := svc.Create(context.Background(), input, nil)
	var verr *ValidationError
	if !errors.As(err, &verr) || !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("err = %v", err)
	}
	for _, field := range []string{"title", "event_date", "max_participants"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Errorf("missing field error %q in %v", field, verr.Fields)
		}
	}

	cover := &storage.File{Name: "a.jpg", Reader: strings.NewReader("x")}
	if _, err := svc.Create(context.Background(), validEventInput(), cover); !errors.Is(err, storage.ErrUploadsDisabled) {
		t.Errorf("cover without uploader: %v", err)
	}

	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Errorf("backend hit %d times", n)
	}
}

func TestCreateEventDiscardsCoverOnFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /events", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, 403, `{"message":"Bu işlem için yetkiniz yok"}`)
	})
	b := newBackend(t, mux)
	up := &fakeUploader{}
	svc := NewEventService(b.client, b.online, up, discardLogger())

	cover := &storage.File{Name: "a.jpg", Reader: strings.NewReader("x")}
	_, err := svc.Create(context.Background(), validEventInput(), cover)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if len(up.deleted) != 1 || up.deleted[0] != up.uploaded[0] {
		t.Errorf("uploaded = %v, deleted = %v", up.uploaded, up.deleted)
	}

	up.fail = errors.New("r2 down")
	if _, err := svc.Create(context.Background(), validEventInput(), cover); !errors.Is(err, ErrCoverUpload) {
		t.Errorf("upload failure: %v", err)
	}
}

func TestParseAverage(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{`4.5`, 4.5},
		{`"3.25"`, 3.25},
		{`{"average_rating":"4"}`, 4},
		{`{"average":2.5,"count":3}`, 2.5},
		{`{"avg":1}`, 1},
		{`{"count":0}`, 0},
		{`null`, 0},
		{``, 0},
		{`""`, 0},
	}
	for _, tt := range tests {
		got, err := parseAverage(json.RawMessage(tt.raw))
		if err != nil || got != tt.want {
			t.Errorf("parseAverage(%s) = %v, %v, want %v", tt.raw, got, err, tt.want)
		}
	}

	if _, err := parseAverage(json.RawMessage(`"abc"`)); err == nil {
		t.Error("parseAverage(\"abc\") must fail")
	}
}

func TestRatingWritesRetry(t *testing.T) {
	var attempts int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /event-ratings/{id}/ratings", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			writeBody(w, 503, `{"message":"Service Unavailable"}`)
			return
		}
		writeBody(w, 201, `{"status":"success","data":{"rating":{"id":5,"event_id":1,"rating":4,"review":"Güzeldi"}}}`)
	})
	mux.HandleFunc("DELETE /event-ratings/rating/{id}", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		writeBody(w, 500, `{"message":"boom"}`)
	})
	b := newBackend(t, mux)
	svc := NewRatingService(b.client, b.online, b.retrier, discardLogger())
	ctx := context.Background()

	four := 4
	rating, err := svc.Create(ctx, "1", models.RatingInput{Rating: &four, Review: " Güzeldi "})
	if err != nil || rating.ID != "5" || *rating.Rating != 4 {
		t.Fatalf("Create = %+v, %v", rating, err)
	}
	if n := atomic.LoadInt32(&attempts); n != 3 {
		t.Errorf("attempts = %d, want 3", n)
	}

	atomic.StoreInt32(&attempts, 0)
	err = svc.Delete(ctx, "5")
	if !errors.Is(err, retry.ErrExhausted) {
		t.Errorf("Delete err = %v, want ErrExhausted", err)
	}
	if n := atomic.LoadInt32(&attempts); n != 3 {
		t.Errorf("delete attempts = %d, want 3", n)
	}

	atomic.StoreInt32(&attempts, 0)
	six := 6
	if _, err := svc.Create(ctx, "1", models.RatingInput{Rating: &six, Review: "x"}); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("rating 6: %v", err)
	}
	if _, err := svc.Create(ctx, "1", models.RatingInput{Review: "   "}); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("blank review: %v", err)
	}
	if n := atomic.LoadInt32(&attempts); n != 0 {
		t.Errorf("invalid input reached the backend %d times", n)
	}
}

func TestFriendshipAndNotificationPaths(t *testing.T) {
	var mu sync.Mutex
	var calls []string
	record := func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		mu.Unlock()
		writeBody(w, 200, `{"status":"success"}`)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("PUT /mobile/friendships/requests/{id}/{action}", record)
	mux.HandleFunc("DELETE /mobile/friendships/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, 404, `{"message":"Arkadaşlık bulunamadı"}`)
	})
	mux.HandleFunc("PUT /mobile/notifications/{id}/read", record)
	mux.HandleFunc("PUT /mobile/notifications/mark-all-read", record)
	mux.HandleFunc("GET /mobile/notifications", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, 200, `{"status":"success","data":{"notifications":[{"id":1,"content":"x","is_read":false}]}}`)
	})
	b := newBackend(t, mux)
	ctx := context.Background()

	friends := NewFriendshipService(b.client, b.online, nil)
	if err := friends.Accept(ctx, "10"); err != nil {
		t.Errorf("Accept: %v", err)
	}
	if err := friends.Reject(ctx, "11"); err != nil {
		t.Errorf("Reject: %v", err)
	}
	if err := friends.Remove(ctx, "12"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove 404: %v", err)
	}

	notifications := NewNotificationService(b.client, b.online, nil)
	if err := notifications.MarkRead(ctx, "3"); err != nil {
		t.Errorf("MarkRead: %v", err)
	}
	if err := notifications.MarkAllRead(ctx); err != nil {
		t.Errorf("MarkAllRead: %v", err)
	}
	if res := notifications.List(ctx); !res.OK() || len(res.Data) != 1 || res.Data[0].IsRead {
		t.Errorf("List = %+v", res)
	}

	want := []string{
		"PUT /mobile/friendships/requests/10/accept",
		"PUT /mobile/friendships/requests/11/reject",
		"PUT /mobile/notifications/3/read",
		"PUT /mobile/notifications/mark-all-read",
	}
	if strings.Join(calls, "\n") != strings.Join(want, "\n") {
		t.Errorf("calls = %v", calls)
	}
}

func TestMessages(t *testing.T) {
	var sent map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /mobile/messages/{userID}", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&sent)
		writeBody(w, 201, `{"status":"success"}`)
	})
	mux.HandleFunc("GET /mobile/messages/conversations", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, 200, `[{"user":{"id":2,"first_name":"Ayşe"},"unread_count":3}]`)
	})
	b := newBackend(t, mux)
	svc := NewMessageService(b.client, b.online, nil)
	ctx := context.Background()

	msg, err := svc.Send(ctx, "2", models.SendMessageInput{Content: " Merhaba "})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if sent["content"] != "Merhaba" || msg.Content != "Merhaba" || msg.ReceiverID != "2" {
		t.Errorf("sent = %v, msg = %+v", sent, msg)
	}

	if _, err := svc.Send(ctx, "2", models.SendMessageInput{Content: "  "}); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("blank message: %v", err)
	}

	res := svc.Conversations(ctx)
	if !res.OK() || len(res.Data) != 1 || res.Data[0].UnreadCount != 3 || res.Data[0].User.DisplayName() != "Ayşe" {
		t.Errorf("Conversations = %+v", res)
	}
}

func TestReportUserSwallowsFinalFailure(t *testing.T) {
	var attempts int32
	var body map[string]interface{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /mobile/reports", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeBody(w, 500, `{"message":"Internal Server Error"}`)
	})
	b := newBackend(t, mux)
	svc := NewReportService(b.client, b.retrier, discardLogger())

	env, err := svc.ReportUser(context.Background(), "8", models.ReportInput{Reason: "spam"})
	if err != nil || !env.OK() || env.Message != reportAcceptedMessage {
		t.Fatalf("ReportUser = %+v, %v", env, err)
	}
	if n := atomic.LoadInt32(&attempts); n != 3 {
		t.Errorf("attempts = %d, want 3", n)
	}
	if body["reported_user_id"] != "8" || body["reason"] != "spam" {
		t.Errorf("body = %v", body)
	}

	if _, err := svc.ReportUser(context.Background(), "8", models.ReportInput{}); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("empty reason: %v", err)
	}
}

func TestResourcePathEscapes(t *testing.T) {
	got, err := resourcePath("/events/%s/join", "a/b c")
	if err != nil || got != "/events/a%2Fb%20c/join" {
		t.Errorf("resourcePath = %q, %v", got, err)
	}
	if _, err := resourcePath("/events/%s", ""); !errors.Is(err, ErrInvalidID) {
		t.Errorf("empty id: %v", err)
	}
}
