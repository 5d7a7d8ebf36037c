package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/cxm/internal/core/store"
	"github.com/frahmantamala/cxm/internal/feedback"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const feedbackColumns = `id, customer_id, type, score, comment, channel, status, created_by, created_at, updated_at`

type FeedbackRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db, now: time.Now}
}

func (r *FeedbackRepository) List(ctx context.Context, f feedback.Filter) ([]*feedback.Feedback, error) {
	var w store.Where
	if f.CreatedBy != "" {
		w.Add("created_by = ?", f.CreatedBy)
	}
	if f.CustomerID != "" {
		w.Add("customer_id = ?", f.CustomerID)
	}
	if f.Type != "" {
		w.Add("type = ?", f.Type)
	}
	if f.Status != "" {
		w.Add("status = ?", f.Status)
	}

	query := "SELECT " + feedbackColumns + " FROM feedback" + w.SQL() + " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args := append(w.Args(), f.Limit, f.Offset)

	var out []*feedback.Feedback
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *FeedbackRepository) GetByID(ctx context.Context, id string) (*feedback.Feedback, error) {
	var fb feedback.Feedback
	err := r.db.GetContext(ctx, &fb, "SELECT "+feedbackColumns+" FROM feedback WHERE id = $1", id)
	if miss, err := store.NoRows(err); miss || err != nil {
		return nil, err
	}
	return &fb, nil
}

func (r *FeedbackRepository) Create(ctx context.Context, fb *feedback.Feedback) error {
	if fb.ID == "" {
		fb.ID = uuid.NewString()
	}
	now := r.now()
	fb.CreatedAt, fb.UpdatedAt = now, now

	_, err := r.db.NamedExecContext(ctx, `
INSERT INTO feedback (id, customer_id, type, score, comment, channel, status, created_by, created_at, updated_at)
VALUES (:id, :customer_id, :type, :score, :comment, :channel, :status, :created_by, :created_at, :updated_at)`, fb)
	return err
}

func (r *FeedbackRepository) UpdateStatus(ctx context.Context, id, status string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE feedback SET status = $1, updated_at = $2 WHERE id = $3", status, r.now(), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *FeedbackRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM feedback WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Counts aggregates scores, optionally for a single customer.
func (r *FeedbackRepository) Counts(ctx context.Context, customerID string) (*feedback.Counts, error) {
	var w store.Where
	if customerID != "" {
		w.Add("customer_id = ?", customerID)
	}
	query := `SELECT
	COUNT(*) AS total,
	AVG(score) FILTER (WHERE type = 'csat')::float8 AS csat_average,
	AVG(score) FILTER (WHERE type = 'ces')::float8 AS ces_average,
	COUNT(*) FILTER (WHERE type = 'nps' AND score IS NOT NULL) AS nps_responses,
	COUNT(*) FILTER (WHERE type = 'nps' AND score >= 9) AS promoters,
	COUNT(*) FILTER (WHERE type = 'nps' AND score <= 6) AS detractors
FROM feedback` + w.SQL()

	var c feedback.Counts
	if err := r.db.GetContext(ctx, &c, r.db.Rebind(query), w.Args()...); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *FeedbackRepository) CustomerExists(ctx context.Context, customerID string) (bool, error) {
	return store.Exists(ctx, r.db, "customers", customerID)
}
