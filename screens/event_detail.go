package screens

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/apierr"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/bus"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/category"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/connectivity"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/models"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/notify"
	"golang.org/x/sync/errgroup"
)

const (
	MsgOwnEventJoin  = "Kendi oluşturduğunuz etkinliğe katılamazsınız."
	MsgOwnEventLeave = "Kendi etkinliğinizden ayrılamazsınız."
	MsgCompleted     = "Bu etkinlik tamamlandı."
	MsgCancelled     = "Bu etkinlik iptal edildi."
	MsgRejected      = "Bu etkinlik reddedildi."
	MsgNotReady      = "Etkinlik bilgileri henüz yüklenmedi."
	MsgBusy          = "İşleminiz devam ediyor, lütfen bekleyin."
	MsgLeaveNotArmed = "Ayrılmak için önce onay vermelisiniz."
)

// EventsAPI — то, что экрану события нужно от EventService.
type EventsAPI interface {
	GetEvent(ctx context.Context, eventID models.ID) models.Result[*models.Event]
	Participants(ctx context.Context, eventID models.ID) models.Result[[]models.Participant]
	Join(ctx context.Context, eventID models.ID) (models.Envelope, error)
	Leave(ctx context.Context, eventID models.ID) (models.Envelope, error)
}

type RatingsAPI interface {
	Average(ctx context.Context, eventID models.ID) models.Result[float64]
}

// CurrentUser отдаёт id вошедшего пользователя (session.Manager).
type CurrentUser interface {
	CurrentUserID(ctx context.Context) (models.ID, error)
}

type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseError   Phase = "error"
)

// EventDetailState — модель представления экрана события.
type EventDetailState struct {
	Phase Phase  `json:"phase"`
	Error string `json:"error,omitempty"`

	Event            *models.Event        `json:"event,omitempty"`
	Category         string               `json:"category,omitempty"`
	CategoryIcon     string               `json:"category_icon,omitempty"`
	ImageURL         string               `json:"image_url,omitempty"`
	FormattedDate    string               `json:"formatted_date,omitempty"`
	FormattedTime    string               `json:"formatted_time,omitempty"`
	Participants     []models.Participant `json:"participants"`
	ParticipantCount int                  `json:"participant_count"`
	AverageRating    float64              `json:"average_rating"`

	IsJoined   bool `json:"is_joined"`
	IsOwnEvent bool `json:"is_own_event"`

	Refreshing   bool `json:"refreshing"`
	Mutating     bool `json:"mutating"`
	LeavePending bool `json:"leave_pending"`
	// Stale — локальный патч после join/leave ещё не сверен с бэкендом.
	Stale bool `json:"stale"`
}

// EventDetail — state machine экрана события:
// Loading → Ready → (focus) refresh → Ready | Error. Завершается только Unmount.
//
// Каждая загрузка берёт новый seq, join/leave тоже сдвигают seq; результат
// загрузки применяется, только если его seq всё ещё последний.
type EventDetail struct {
	eventID  models.ID
	events   EventsAPI
	ratings  RatingsAPI
	users    CurrentUser
	images   *category.Images
	bus      *bus.Bus
	notifier notify.Notifier
	logger   *slog.Logger

	mu         sync.Mutex
	state      EventDetailState
	seq        uint64
	unmounted  bool
	leaveArmed bool
}

type EventDetailDeps struct {
	Events   EventsAPI
	Ratings  RatingsAPI
	Users    CurrentUser
	Images   *category.Images
	Bus      *bus.Bus
	Notifier notify.Notifier
	Logger   *slog.Logger
}

func NewEventDetail(eventID models.ID, deps EventDetailDeps) *EventDetail {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Nop{}
	}
	return &EventDetail{
		eventID:  eventID,
		events:   deps.Events,
		ratings:  deps.Ratings,
		users:    deps.Users,
		images:   deps.Images,
		bus:      deps.Bus,
		notifier: deps.Notifier,
		logger:   deps.Logger.With(slog.String("screen", "event_detail"), slog.String("event_id", eventID.String())),
		state:    EventDetailState{Phase: PhaseLoading, Participants: []models.Participant{}},
	}
}

func (d *EventDetail) EventID() models.ID { return d.eventID }

// Mount — первая загрузка экрана.
func (d *EventDetail) Mount(ctx context.Context) EventDetailState {
	d.load(ctx)
	return d.Snapshot()
}

// Focus всегда перечитывает данные: устаревшее состояние после возврата на экран недопустимо.
func (d *EventDetail) Focus(ctx context.Context) EventDetailState {
	d.load(ctx)
	return d.Snapshot()
}

// Retry повторяет загрузку из состояния ошибки.
func (d *EventDetail) Retry(ctx context.Context) EventDetailState {
	d.load(ctx)
	return d.Snapshot()
}

// Unmount отбрасывает все незавершённые результаты. Вызовы в полёте
// доходят до бэкенда, но их итог экран уже не применяет.
func (d *EventDetail) Unmount() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.unmounted = true
	d.leaveArmed = false
}

func (d *EventDetail) Snapshot() EventDetailState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *EventDetail) snapshotLocked() EventDetailState {
	s := d.state
	s.LeavePending = d.leaveArmed
	if d.state.Event != nil {
		ev := *d.state.Event
		s.Event = &ev
	}
	s.Participants = append([]models.Participant{}, d.state.Participants...)
	return s
}

func (d *EventDetail) load(ctx context.Context) {
	d.mu.Lock()
	if d.unmounted {
		d.mu.Unlock()
		return
	}
	d.seq++
	seq := d.seq
	if d.state.Event == nil || d.state.Phase == PhaseError {
		d.state.Phase = PhaseLoading
		d.state.Error = ""
	} else {
		d.state.Refreshing = true
	}
	d.mu.Unlock()

	userID, err := d.users.CurrentUserID(ctx)
	if err != nil {
		d.logger.Warn("current user is unknown, ownership checks are disabled", slog.Any("error", err))
		userID = ""
	}

	res := d.events.GetEvent(ctx, d.eventID)
	if !res.OK() || res.Data == nil {
		msg := res.Message
		if msg == "" {
			msg = models.DefaultErrorMessage
		}
		d.apply(seq, func(s *EventDetailState) {
			s.Phase = PhaseError
			s.Error = msg
			s.Refreshing = false
		})
		return
	}
	event := res.Data

	canonical := category.Normalize(event.RawCategory())

	// Участники и рейтинг не зависят друг от друга и не должны ронять экран.
	participants := []models.Participant{}
	var average float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r := d.events.Participants(gctx, d.eventID)
		if !r.OK() {
			d.logger.Warn("participants fetch failed, using empty list", slog.String("message", r.Message))
			return nil
		}
		if r.Data != nil {
			participants = r.Data
		}
		return nil
	})
	g.Go(func() error {
		r := d.ratings.Average(gctx, d.eventID)
		if !r.OK() {
			d.logger.Warn("average rating fetch failed, using 0", slog.String("message", r.Message))
			return nil
		}
		average = r.Data
		return nil
	})
	_ = g.Wait()

	// Список участников главнее флага только в одну сторону:
	// user_joined=false исправляется, user_joined=true — никогда.
	joined := event.UserJoined || models.ContainsUser(participants, userID)

	count := event.ParticipantTotal()
	if count < 0 {
		count = 0
	}

	applied := d.apply(seq, func(s *EventDetailState) {
		*s = EventDetailState{
			Phase:            PhaseReady,
			Event:            event,
			Category:         canonical,
			CategoryIcon:     category.Icon(canonical),
			ImageURL:         d.images.ForEvent(event, canonical),
			FormattedDate:    FormatDate(event.EventDate),
			FormattedTime:    FormatTimeRange(event.StartTime, event.EndTime),
			Participants:     participants,
			ParticipantCount: count,
			AverageRating:    average,
			IsJoined:         joined,
			IsOwnEvent:       !userID.IsZero() && event.CreatorID.Equal(userID),
		}
	})
	if applied && joined != event.UserJoined {
		d.logger.Debug("user_joined flag overridden by participant list")
	}
}

// apply применяет результат загрузки, если он не устарел и экран ещё смонтирован.
// Пока идёт join/leave, загрузки тоже не применяются: иначе патч мутации
// ляжет поверх уже учтённого бэкендом счётчика.
func (d *EventDetail) apply(seq uint64, fn func(s *EventDetailState)) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.unmounted || seq != d.seq || d.state.Mutating {
		d.logger.Debug("stale fetch result discarded", slog.Uint64("seq", seq), slog.Uint64("current_seq", d.seq))
		return false
	}
	fn(&d.state)
	return true
}

// Join — переход «вступить». Защитные условия проверяются до сети,
// в порядке: своё событие, статус, заполненность.
func (d *EventDetail) Join(ctx context.Context) Outcome {
	d.mu.Lock()
	if out, blocked := d.precheckLocked(); blocked {
		d.mu.Unlock()
		return d.present(out)
	}
	if msg, blocked := joinGuard(&d.state); blocked {
		d.mu.Unlock()
		return d.present(Outcome{Kind: OutcomeBlocked, Message: msg})
	}
	d.beginMutationLocked()
	d.mu.Unlock()

	env, err := d.events.Join(ctx, d.eventID)
	out, patch := joinOutcome(env, err)
	return d.finishMutation(out, patch)
}

// RequestLeave — первый шаг выхода: проверка и запрос подтверждения.
func (d *EventDetail) RequestLeave() Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()
	if out, blocked := d.precheckLocked(); blocked {
		return d.presentLocked(out)
	}
	if msg, blocked := leaveGuard(&d.state); blocked {
		return d.presentLocked(Outcome{Kind: OutcomeBlocked, Message: msg})
	}
	d.leaveArmed = true
	return Outcome{Kind: OutcomeNeedsConfirmation, Message: apierr.MsgLeaveConfirm}
}

// CancelLeave снимает запрос подтверждения.
func (d *EventDetail) CancelLeave() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.leaveArmed = false
}

// ConfirmLeave выполняет выход, только если RequestLeave был подтверждён.
func (d *EventDetail) ConfirmLeave(ctx context.Context) Outcome {
	d.mu.Lock()
	if !d.leaveArmed {
		d.mu.Unlock()
		return Outcome{Kind: OutcomeBlocked, Message: MsgLeaveNotArmed}
	}
	d.leaveArmed = false
	if out, blocked := d.precheckLocked(); blocked {
		d.mu.Unlock()
		return d.present(out)
	}
	if msg, blocked := leaveGuard(&d.state); blocked {
		d.mu.Unlock()
		return d.present(Outcome{Kind: OutcomeBlocked, Message: msg})
	}
	d.beginMutationLocked()
	d.mu.Unlock()

	env, err := d.events.Leave(ctx, d.eventID)
	out, patch := leaveOutcome(env, err)
	return d.finishMutation(out, patch)
}

func (d *EventDetail) precheckLocked() (Outcome, bool) {
	switch {
	case d.unmounted, d.state.Event == nil:
		return Outcome{Kind: OutcomeBlocked, Message: MsgNotReady}, true
	case d.state.Mutating:
		return Outcome{Kind: OutcomeBlocked, Message: MsgBusy}, true
	default:
		return Outcome{}, false
	}
}

// beginMutationLocked сдвигает seq, чтобы загрузка, начатая до мутации,
// не затёрла её результат.
func (d *EventDetail) beginMutationLocked() {
	d.seq++
	d.state.Mutating = true
}

func (d *EventDetail) finishMutation(out Outcome, patch *participationPatch) Outcome {
	if patch != nil {
		bus.Publish(d.bus, bus.EventParticipationChanged, bus.ParticipationChanged{EventID: d.eventID, Joined: patch.joined})
	}

	d.mu.Lock()
	if d.unmounted {
		d.mu.Unlock()
		d.logger.Debug("participation result discarded after unmount", slog.String("outcome", string(out.Kind)))
		return out
	}
	// загрузки, начатые во время мутации, тоже устарели
	d.seq++
	d.state.Mutating = false
	d.state.Refreshing = false
	if patch != nil {
		d.state.IsJoined = patch.joined
		d.state.ParticipantCount += patch.delta
		if d.state.ParticipantCount < 0 {
			d.state.ParticipantCount = 0
		}
		d.state.Stale = true
	}
	d.mu.Unlock()

	return d.present(out)
}

func (d *EventDetail) present(out Outcome) Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.presentLocked(out)
}

func (d *EventDetail) presentLocked(out Outcome) Outcome {
	if d.unmounted || out.Message == "" {
		return out
	}
	d.notifier.Alert(out.Kind.Title(), out.Message)
	return out
}

func joinGuard(s *EventDetailState) (string, bool) {
	if s.IsOwnEvent {
		return MsgOwnEventJoin, true
	}
	if msg, blocked := statusGuard(s.Event.Status); blocked {
		return msg, true
	}
	if s.Event.IsFull(s.ParticipantCount) {
		return apierr.MsgAtCapacity, true
	}
	return "", false
}

func leaveGuard(s *EventDetailState) (string, bool) {
	if s.IsOwnEvent {
		return MsgOwnEventLeave, true
	}
	return statusGuard(s.Event.Status)
}

func statusGuard(status models.EventStatus) (string, bool) {
	switch status.Normalized() {
	case models.EventStatusCompleted:
		return MsgCompleted, true
	case models.EventStatusCancelled:
		return MsgCancelled, true
	case models.EventStatusRejected:
		return MsgRejected, true
	default:
		return "", false
	}
}

type participationPatch struct {
	joined bool
	delta  int
}

// joinOutcome разбирает три исхода: успех, «уже участвуете» в любой форме
// (успешный конверт с текстом ошибки, 2xx со status "error", ошибка транспорта)
// и прочие ошибки.
func joinOutcome(env models.Envelope, err error) (Outcome, *participationPatch) {
	if err == nil && env.OK() {
		if apierr.Classify(env.Message) == apierr.AlreadyJoined {
			return Outcome{Kind: OutcomeInfo, Message: apierr.MsgAlreadyJoined}, &participationPatch{joined: true}
		}
		return Outcome{Kind: OutcomeSuccess, Message: apierr.MsgJoinSuccess}, &participationPatch{joined: true, delta: 1}
	}

	kind := classifyFailure(env, err)
	if kind == apierr.AlreadyJoined {
		return Outcome{Kind: OutcomeInfo, Message: apierr.MsgAlreadyJoined}, &participationPatch{joined: true}
	}
	return Outcome{Kind: OutcomeError, Message: apierr.UserMessage(kind, apierr.MsgJoinFailed)}, nil
}

// leaveOutcome — зеркально: «не участник» означает, что состояние уже согласовано.
func leaveOutcome(env models.Envelope, err error) (Outcome, *participationPatch) {
	if err == nil && env.OK() {
		if apierr.Classify(env.Message) == apierr.NotAJoiner {
			return Outcome{Kind: OutcomeInfo, Message: apierr.MsgNotJoined}, &participationPatch{joined: false}
		}
		return Outcome{Kind: OutcomeSuccess, Message: apierr.MsgLeaveSuccess}, &participationPatch{joined: false, delta: -1}
	}

	kind := classifyFailure(env, err)
	if kind == apierr.NotAJoiner {
		return Outcome{Kind: OutcomeInfo, Message: apierr.MsgNotJoined}, &participationPatch{joined: false}
	}
	return Outcome{Kind: OutcomeError, Message: apierr.UserMessage(kind, apierr.MsgLeaveFailed)}, nil
}

func classifyFailure(env models.Envelope, err error) apierr.Kind {
	if errors.Is(err, connectivity.ErrNoConnectivity) {
		return apierr.NetworkUnreachable
	}
	if err != nil {
		return apierr.ClassifyError(err)
	}
	// 2xx со status "error" в теле
	return apierr.ClassifyError(env.Err())
}
