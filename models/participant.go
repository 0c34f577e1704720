package models

// Participant — запись об участии пользователя в событии.
// Используется только для сверки флага user_joined.
type Participant struct {
	UserID    ID     `json:"user_id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ContainsUser сообщает, есть ли пользователь в списке участников.
func ContainsUser(participants []Participant, userID ID) bool {
	if userID.IsZero() {
		return false
	}
	for _, p := range participants {
		if p.UserID.Equal(userID) {
			return true
		}
	}
	return false
}
