package deal

import (
	"context"
	"time"
)

const (
	StageNew         = "new"
	StageQualified   = "qualified"
	StageProposal    = "proposal"
	StageNegotiation = "negotiation"
	StageWon         = "won"
	StageLost        = "lost"
)

// Stages is the pipeline in display order.
var Stages = []string{StageNew, StageQualified, StageProposal, StageNegotiation, StageWon, StageLost}

var StageLabels = map[string]string{
	StageNew:         "جدید",
	StageQualified:   "واجد شرایط",
	StageProposal:    "پیشنهاد",
	StageNegotiation: "مذاکره",
	StageWon:         "موفق",
	StageLost:        "ناموفق",
}

type Deal struct {
	ID                string     `json:"id" db:"id"`
	CustomerID        string     `json:"customer_id" db:"customer_id"`
	Title             string     `json:"title" db:"title"`
	Value             int64      `json:"value" db:"value"`
	Stage             string     `json:"stage" db:"stage"`
	Probability       int        `json:"probability" db:"probability"`
	ExpectedCloseDate *time.Time `json:"expected_close_date" db:"expected_close_date"`
	Notes             string     `json:"notes" db:"notes"`
	AssignedTo        *string    `json:"assigned_to" db:"assigned_to"`
	CreatedBy         string     `json:"created_by" db:"created_by"`
	ClosedAt          *time.Time `json:"closed_at" db:"closed_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

func (d *Deal) OwnedBy(userID string) bool {
	if d.CreatedBy == userID {
		return true
	}
	return d.AssignedTo != nil && *d.AssignedTo == userID
}

func IsClosedStage(stage string) bool {
	return stage == StageWon || stage == StageLost
}

type Filter struct {
	CustomerID string
	Stage      string
	Search     string
	OwnerID    string
	Limit      int
	Offset     int
}

// StageTotal is one row of the pipeline report.
type StageTotal struct {
	Stage string `json:"stage" db:"stage"`
	Label string `json:"label" db:"-"`
	Count int    `json:"count" db:"count"`
	Value int64  `json:"value" db:"value"`
}

type RepositoryAPI interface {
	List(ctx context.Context, f Filter) ([]*Deal, error)
	GetByID(ctx context.Context, id string) (*Deal, error)
	Create(ctx context.Context, d *Deal) error
	Update(ctx context.Context, d *Deal) error
	Delete(ctx context.Context, id string) (bool, error)
	Pipeline(ctx context.Context, ownerID string) ([]StageTotal, error)
	CustomerExists(ctx context.Context, customerID string) (bool, error)
}
