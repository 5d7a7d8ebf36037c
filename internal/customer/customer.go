package customer

import (
	"context"
	"time"
)

const (
	TypeIndividual = "individual"
	TypeBusiness   = "business"

	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusProspect = "prospect"
	StatusLead     = "lead"
)

type Customer struct {
	ID                string     `json:"id" db:"id"`
	Name              string     `json:"name" db:"name"`
	Email             string     `json:"email" db:"email"`
	Phone             string     `json:"phone" db:"phone"`
	Company           string     `json:"company" db:"company"`
	Type              string     `json:"type" db:"type"`
	Status            string     `json:"status" db:"status"`
	Segment           string     `json:"segment" db:"segment"`
	City              string     `json:"city" db:"city"`
	Address           string     `json:"address" db:"address"`
	Notes             string     `json:"notes" db:"notes"`
	AssignedTo        *string    `json:"assigned_to" db:"assigned_to"`
	CreatedBy         string     `json:"created_by" db:"created_by"`
	LastInteractionAt *time.Time `json:"last_interaction_at" db:"last_interaction_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// OwnedBy reports whether the user created the customer or is assigned to it.
func (c *Customer) OwnedBy(userID string) bool {
	if c.CreatedBy == userID {
		return true
	}
	return c.AssignedTo != nil && *c.AssignedTo == userID
}

// Filter narrows List. OwnerID, when set, restricts rows to those created by or assigned to it.
type Filter struct {
	Search  string
	Status  string
	Type    string
	OwnerID string
	Limit   int
	Offset  int
}

type Summary struct {
	Customer        *Customer `json:"customer" db:"-"`
	DealsCount      int       `json:"deals_count" db:"deals_count"`
	OpenDealsValue  int64     `json:"open_deals_value" db:"open_deals_value"`
	OpenTickets     int       `json:"open_tickets" db:"open_tickets"`
	InteractionsCnt int       `json:"interactions_count" db:"interactions_count"`
	FeedbackAverage *float64  `json:"feedback_average" db:"feedback_average"`
}

type RepositoryAPI interface {
	List(ctx context.Context, f Filter) ([]*Customer, error)
	GetByID(ctx context.Context, id string) (*Customer, error)
	Create(ctx context.Context, c *Customer) error
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id string) (bool, error)
	Summary(ctx context.Context, id string) (*Summary, error)
}
