package interaction

import (
	"context"
	"time"
)

const (
	TypeCall    = "call"
	TypeEmail   = "email"
	TypeMeeting = "meeting"
	TypeSMS     = "sms"
	TypeChat    = "chat"
	TypeTicket  = "ticket"
	TypeNote    = "note"

	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

var Types = []string{TypeCall, TypeEmail, TypeMeeting, TypeSMS, TypeChat, TypeTicket, TypeNote}

type Interaction struct {
	ID              string    `json:"id" db:"id"`
	CustomerID      string    `json:"customer_id" db:"customer_id"`
	UserID          string    `json:"user_id" db:"user_id"`
	Type            string    `json:"type" db:"type"`
	Direction       string    `json:"direction" db:"direction"`
	Subject         string    `json:"subject" db:"subject"`
	Description     string    `json:"description" db:"description"`
	Outcome         string    `json:"outcome" db:"outcome"`
	DurationSeconds *int      `json:"duration_seconds" db:"duration_seconds"`
	OccurredAt      time.Time `json:"occurred_at" db:"occurred_at"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

type Filter struct {
	CustomerID string
	Type       string
	UserID     string
	Limit      int
	Offset     int
}

type RepositoryAPI interface {
	List(ctx context.Context, f Filter) ([]*Interaction, error)
	GetByID(ctx context.Context, id string) (*Interaction, error)
	// Create stores the interaction and advances the customer's last_interaction_at atomically.
	Create(ctx context.Context, i *Interaction) error
	Delete(ctx context.Context, id string) (bool, error)
	CustomerExists(ctx context.Context, customerID string) (bool, error)
}
