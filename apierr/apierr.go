package apierr

import (
	"errors"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/models"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/utils"
)

// Kind — категория ошибки бэкенда. Бэкенд сообщает о бизнес-ошибках только
// текстом, поэтому вся подстрочная эвристика живёт здесь и больше нигде.
type Kind int

const (
	Unknown Kind = iota
	AlreadyJoined
	NotAJoiner
	AtCapacity
	PermissionDenied
	NetworkUnreachable
)

func (k Kind) String() string {
	switch k {
	case AlreadyJoined:
		return "already_joined"
	case NotAJoiner:
		return "not_a_joiner"
	case AtCapacity:
		return "at_capacity"
	case PermissionDenied:
		return "permission_denied"
	case NetworkUnreachable:
		return "network_unreachable"
	default:
		return "unknown"
	}
}

// Тексты для пользователя.
const (
	MsgJoinSuccess      = "Etkinliğe başarıyla katıldınız."
	MsgAlreadyJoined    = "Bu etkinliğe zaten katıldınız."
	MsgLeaveSuccess     = "Etkinlikten ayrıldınız."
	MsgNotJoined        = "Bu etkinliğe zaten katılmıyorsunuz."
	MsgLeaveConfirm     = "Etkinlikten ayrılmak istediğinize emin misiniz?"
	MsgAtCapacity       = "Bu etkinlik maksimum katılımcı sayısına ulaştı."
	MsgPermissionDenied = "Bu işlem için yetkiniz yok."
	MsgNetwork          = "İnternet bağlantınızı kontrol edin."
	MsgJoinFailed       = "Etkinliğe katılırken bir hata oluştu."
	MsgLeaveFailed      = "Etkinlikten ayrılırken bir hata oluştu."
	MsgOffline          = "İnternet bağlantısı yok"
)

type rule struct {
	kind    Kind
	needles []string
}

// Порядок важен: отрицание проверяется первым, иначе "zaten katılmıyorsunuz"
// попадёт в AlreadyJoined по подстроке "zaten katıl".
var rules = []rule{
	{NotAJoiner, []string{"katılmıyor", "katılmadınız", "katılımcı değil", "katilimcisi degil", "not joined", "not a participant", "not participating"}},
	{AlreadyJoined, []string{"zaten katıl", "already joined", "already a participant", "already participating", "zaten katilimci"}},
	{AtCapacity, []string{"limit", "full", "dolu", "maksimum", "capacity", "kontenjan"}},
	{PermissionDenied, []string{"permission", "yetki", "forbidden", "unauthorized", "izin"}},
	{NetworkUnreachable, []string{"network", "internet", "timeout", "bağlantı", "connection", "connectivity", "no connectivity"}},
}

// Classify сопоставляет сырой текст ошибки с Kind. Регистр, турецкие
// буквы и диакритика не важны.
func Classify(raw string) Kind {
	if raw == "" {
		return Unknown
	}
	for _, r := range rules {
		if utils.ContainsAny(raw, r.needles...) {
			return r.kind
		}
	}
	return Unknown
}

// ClassifyError достаёт текст из *models.APIError (или любой ошибки) и классифицирует.
// Если message ничего не дал, смотрит в сырое тело ответа: бэкенд иногда
// кладёт текст глубже, чем {message} или {error: {message}}.
func ClassifyError(err error) Kind {
	if err == nil {
		return Unknown
	}
	if kind := Classify(Message(err)); kind != Unknown {
		return kind
	}
	var apiErr *models.APIError
	if errors.As(err, &apiErr) && len(apiErr.Body) > 0 {
		return Classify(string(apiErr.Body))
	}
	return Unknown
}

// Message возвращает текст ошибки без служебного префикса APIError.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *models.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// IsNetwork — эвристика сетевой ошибки для ретраера.
func IsNetwork(msg string) bool {
	return utils.ContainsAny(msg, rules[len(rules)-1].needles...)
}

// UserMessage переводит ошибку join/leave в текст для пользователя.
func UserMessage(kind Kind, fallback string) string {
	switch kind {
	case AlreadyJoined:
		return MsgAlreadyJoined
	case NotAJoiner:
		return MsgNotJoined
	case AtCapacity:
		return MsgAtCapacity
	case PermissionDenied:
		return MsgPermissionDenied
	case NetworkUnreachable:
		return MsgNetwork
	default:
		return fallback
	}
}
