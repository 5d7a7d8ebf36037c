package chat

import (
	"context"
	"time"
)

const (
	MaxMessageLength = 4000
	DefaultPageSize  = 50
	MaxPageSize      = 200
)

type Conversation struct {
	ID            string         `json:"id" db:"id"`
	Title         string         `json:"title" db:"title"`
	CreatedBy     string         `json:"created_by" db:"created_by"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
	LastMessage   *string        `json:"last_message" db:"last_message"`
	LastMessageAt *time.Time     `json:"last_message_at" db:"last_message_at"`
	UnreadCount   int            `json:"unread_count" db:"unread_count"`
	Participants  []*Participant `json:"participants,omitempty" db:"-"`
}

type Participant struct {
	ConversationID string     `json:"-" db:"conversation_id"`
	UserID         string     `json:"user_id" db:"user_id"`
	Name           string     `json:"name" db:"name"`
	LastReadAt     *time.Time `json:"last_read_at" db:"last_read_at"`
	JoinedAt       time.Time  `json:"joined_at" db:"joined_at"`
}

type Message struct {
	ID             string    `json:"id" db:"id"`
	ConversationID string    `json:"conversation_id" db:"conversation_id"`
	SenderID       string    `json:"sender_id" db:"sender_id"`
	SenderName     string    `json:"sender_name" db:"sender_name"`
	Content        string    `json:"content" db:"content"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// DirectoryUser is an active user that can be added to a conversation.
type DirectoryUser struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
	Role  string `json:"role" db:"role"`
}

type RepositoryAPI interface {
	ListForUser(ctx context.Context, userID string) ([]*Conversation, error)
	GetConversation(ctx context.Context, id string) (*Conversation, error)
	Participants(ctx context.Context, conversationID string) ([]*Participant, error)
	IsParticipant(ctx context.Context, conversationID, userID string) (bool, error)
	CreateConversation(ctx context.Context, c *Conversation, participantIDs []string) error
	ListMessages(ctx context.Context, conversationID string, before *time.Time, limit int) ([]*Message, error)
	CreateMessage(ctx context.Context, m *Message) error
	MarkRead(ctx context.Context, conversationID, userID string, at time.Time) error
	ActiveUsers(ctx context.Context, excludeID string) ([]*DirectoryUser, error)
	CountActiveUsers(ctx context.Context, ids []string) (int, error)
}
