package models

import "time"

type Message struct {
	ID         ID        `json:"id"`
	SenderID   ID        `json:"sender_id"`
	ReceiverID ID        `json:"receiver_id"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

type Conversation struct {
	User        *UserSummary `json:"user"`
	LastMessage *Message     `json:"last_message,omitempty"`
	UnreadCount int          `json:"unread_count"`
}

type SendMessageInput struct {
	Content string `json:"content" validate:"required,notblank,max=2000"`
}

type ReportInput struct {
	Reason      string `json:"reason" validate:"required,notblank,max=500"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}
