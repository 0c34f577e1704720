package models

import "time"

type FriendshipStatus string

const (
	FriendshipStatusPending   FriendshipStatus = "pending"
	FriendshipStatusAccepted  FriendshipStatus = "accepted"
	FriendshipStatusRejected  FriendshipStatus = "rejected"
	FriendshipStatusCancelled FriendshipStatus = "cancelled"
	FriendshipStatusDeleted   FriendshipStatus = "deleted"
)

type FriendshipRequest struct {
	ID        ID               `json:"id"`
	Requester *UserSummary     `json:"requester,omitempty"`
	Status    FriendshipStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

// DisplayName имени отправителя заявки с заглушкой для неполных данных.
func (r *FriendshipRequest) DisplayName() string {
	return r.Requester.DisplayName()
}

type Friend struct {
	ID           ID           `json:"id"`
	FriendshipID ID           `json:"friendship_id,omitempty"`
	User         *UserSummary `json:"user,omitempty"`
	Since        *time.Time   `json:"since,omitempty"`
}
