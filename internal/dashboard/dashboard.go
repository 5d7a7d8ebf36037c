package dashboard

import (
	"context"
	"time"
)

// Stats is the headline panel of the dashboard.
type Stats struct {
	Customers          int      `json:"customers" db:"customers"`
	OpenDeals          int      `json:"open_deals" db:"open_deals"`
	OpenDealsValue     int64    `json:"open_deals_value" db:"open_deals_value"`
	WonDeals           int      `json:"won_deals" db:"won_deals"`
	OpenTickets        int      `json:"open_tickets" db:"open_tickets"`
	FeedbackCount      int      `json:"feedback_count" db:"feedback_count"`
	FeedbackAverage    *float64 `json:"feedback_average" db:"feedback_average"`
	RecentInteractions int      `json:"recent_interactions" db:"recent_interactions"`
	Scoped             bool     `json:"scoped" db:"-"`
}

// Scope limits the counts to one user's records when OwnerID is set.
type Scope struct {
	OwnerID string
	Since   time.Time
}

type RepositoryAPI interface {
	Stats(ctx context.Context, scope Scope) (*Stats, error)
}
