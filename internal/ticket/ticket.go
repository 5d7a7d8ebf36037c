package ticket

import (
	"context"
	"time"

	"github.com/frahmantamala/cxm/internal/core/events"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"

	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusWaiting    = "waiting"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

var (
	Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
	Statuses   = []string{StatusOpen, StatusInProgress, StatusWaiting, StatusResolved, StatusClosed}
)

type Ticket struct {
	ID          string     `json:"id" db:"id"`
	CustomerID  string     `json:"customer_id" db:"customer_id"`
	Subject     string     `json:"subject" db:"subject"`
	Description string     `json:"description" db:"description"`
	Priority    string     `json:"priority" db:"priority"`
	Status      string     `json:"status" db:"status"`
	Category    string     `json:"category" db:"category"`
	AssignedTo  *string    `json:"assigned_to" db:"assigned_to"`
	CreatedBy   string     `json:"created_by" db:"created_by"`
	ResolvedAt  *time.Time `json:"resolved_at" db:"resolved_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

func (t *Ticket) OwnedBy(userID string) bool {
	if t.CreatedBy == userID {
		return true
	}
	return t.AssignedTo != nil && *t.AssignedTo == userID
}

func IsTerminal(status string) bool {
	return status == StatusResolved || status == StatusClosed
}

type Filter struct {
	CustomerID string
	Status     string
	Priority   string
	OwnerID    string
	Limit      int
	Offset     int
}

type RepositoryAPI interface {
	List(ctx context.Context, f Filter) ([]*Ticket, error)
	GetByID(ctx context.Context, id string) (*Ticket, error)
	Create(ctx context.Context, t *Ticket) error
	Update(ctx context.Context, t *Ticket) error
	Delete(ctx context.Context, id string) (bool, error)
	CustomerExists(ctx context.Context, customerID string) (bool, error)
}

// Publisher is the part of the event bus the ticket service needs.
type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}
