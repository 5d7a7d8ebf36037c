package feedback

import (
	"context"
	"time"
)

const (
	TypeCSAT       = "csat"
	TypeNPS        = "nps"
	TypeCES        = "ces"
	TypeComplaint  = "complaint"
	TypeSuggestion = "suggestion"
	TypePraise     = "praise"

	ChannelWeb      = "web"
	ChannelPhone    = "phone"
	ChannelEmail    = "email"
	ChannelSMS      = "sms"
	ChannelInPerson = "in_person"
	ChannelChat     = "chat"

	StatusNew      = "new"
	StatusReviewed = "reviewed"
	StatusActioned = "actioned"
)

var (
	Types    = []string{TypeCSAT, TypeNPS, TypeCES, TypeComplaint, TypeSuggestion, TypePraise}
	Channels = []string{ChannelWeb, ChannelPhone, ChannelEmail, ChannelSMS, ChannelInPerson, ChannelChat}
	Statuses = []string{StatusNew, StatusReviewed, StatusActioned}
)

// scoreRange is the accepted score interval per survey type. Types without an entry take no
// mandatory score.
var scoreRange = map[string][2]int{
	TypeCSAT: {1, 5},
	TypeCES:  {1, 7},
	TypeNPS:  {0, 10},
}

// ScoreRange reports the bounds for a survey type and whether a score is mandatory for it.
func ScoreRange(feedbackType string) (min, max int, required bool) {
	r, ok := scoreRange[feedbackType]
	if !ok {
		return 0, 10, false
	}
	return r[0], r[1], true
}

type Feedback struct {
	ID         string    `json:"id" db:"id"`
	CustomerID string    `json:"customer_id" db:"customer_id"`
	Type       string    `json:"type" db:"type"`
	Score      *int      `json:"score" db:"score"`
	Comment    string    `json:"comment" db:"comment"`
	Channel    string    `json:"channel" db:"channel"`
	Status     string    `json:"status" db:"status"`
	CreatedBy  string    `json:"created_by" db:"created_by"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

type Filter struct {
	CustomerID string
	Type       string
	Status     string
	CreatedBy  string
	Limit      int
	Offset     int
}

// Counts is the raw aggregate the store returns for Stats.
type Counts struct {
	Total        int      `db:"total"`
	CSATAverage  *float64 `db:"csat_average"`
	CESAverage   *float64 `db:"ces_average"`
	NPSResponses int      `db:"nps_responses"`
	Promoters    int      `db:"promoters"`
	Detractors   int      `db:"detractors"`
}

type Stats struct {
	Total        int      `json:"total"`
	CSATAverage  *float64 `json:"csat_average"`
	CESAverage   *float64 `json:"ces_average"`
	NPS          *float64 `json:"nps"`
	NPSResponses int      `json:"nps_responses"`
	Promoters    int      `json:"promoters"`
	Detractors   int      `json:"detractors"`
}

// NPS is the percentage of promoters (9-10) minus the percentage of detractors (0-6).
// It is nil when there are no NPS responses.
func (c Counts) NPS() *float64 {
	if c.NPSResponses == 0 {
		return nil
	}
	v := float64(c.Promoters-c.Detractors) * 100 / float64(c.NPSResponses)
	return &v
}

type RepositoryAPI interface {
	List(ctx context.Context, f Filter) ([]*Feedback, error)
	GetByID(ctx context.Context, id string) (*Feedback, error)
	Create(ctx context.Context, fb *Feedback) error
	UpdateStatus(ctx context.Context, id, status string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Counts(ctx context.Context, customerID string) (*Counts, error)
	CustomerExists(ctx context.Context, customerID string) (bool, error)
}
