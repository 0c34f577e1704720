package screens

type OutcomeKind string

const (
	OutcomeSuccess           OutcomeKind = "success"
	OutcomeInfo              OutcomeKind = "info"
	OutcomeError             OutcomeKind = "error"
	OutcomeBlocked           OutcomeKind = "blocked"
	OutcomeNeedsConfirmation OutcomeKind = "needs_confirmation"
)

// Title — заголовок диалога для данного исхода.
func (k OutcomeKind) Title() string {
	switch k {
	case OutcomeSuccess:
		return "Başarılı"
	case OutcomeInfo:
		return "Bilgi"
	case OutcomeError:
		return "Hata"
	case OutcomeNeedsConfirmation:
		return "Onay"
	default:
		return "Uyarı"
	}
}

// Outcome — итог join/leave, который видит пользователь.
type Outcome struct {
	Kind    OutcomeKind `json:"kind"`
	Message string      `json:"message"`
}
