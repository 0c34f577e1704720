package models

import "strings"

const UnknownUserName = "Bilinmeyen Kullanıcı"

// UserSummary — урезанное представление пользователя, все поля необязательны.
type UserSummary struct {
	ID        ID     `json:"id,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// DisplayName возвращает "Имя Фамилия", затем username, затем заглушку.
func (u *UserSummary) DisplayName() string {
	if u == nil {
		return UnknownUserName
	}
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name != "" {
		return name
	}
	if v := strings.TrimSpace(u.Username); v != "" {
		return v
	}
	return UnknownUserName
}
