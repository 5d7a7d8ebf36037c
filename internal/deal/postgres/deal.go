package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/cxm/internal/core/store"
	"github.com/frahmantamala/cxm/internal/deal"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const dealColumns = `id, customer_id, title, value, stage, probability, expected_close_date, notes,
	assigned_to, created_by, closed_at, created_at, updated_at`

type DealRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewDealRepository(db *sqlx.DB) *DealRepository {
	return &DealRepository{db: db, now: time.Now}
}

func ownerClause(w *store.Where, ownerID string) {
	if ownerID != "" {
		w.Add("(assigned_to = ? OR created_by = ?)", ownerID, ownerID)
	}
}

func (r *DealRepository) List(ctx context.Context, f deal.Filter) ([]*deal.Deal, error) {
	var w store.Where
	ownerClause(&w, f.OwnerID)
	if f.CustomerID != "" {
		w.Add("customer_id = ?", f.CustomerID)
	}
	if f.Stage != "" {
		w.Add("stage = ?", f.Stage)
	}
	if f.Search != "" {
		w.Add("title ILIKE ?", store.LikePattern(f.Search))
	}

	query := "SELECT " + dealColumns + " FROM deals" + w.SQL() + " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args := append(w.Args(), f.Limit, f.Offset)

	var out []*deal.Deal
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *DealRepository) GetByID(ctx context.Context, id string) (*deal.Deal, error) {
	var d deal.Deal
	err := r.db.GetContext(ctx, &d, "SELECT "+dealColumns+" FROM deals WHERE id = $1", id)
	if miss, err := store.NoRows(err); miss || err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DealRepository) Create(ctx context.Context, d *deal.Deal) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := r.now()
	d.CreatedAt, d.UpdatedAt = now, now

	_, err := r.db.NamedExecContext(ctx, `
INSERT INTO deals (id, customer_id, title, value, stage, probability, expected_close_date, notes,
	assigned_to, created_by, closed_at, created_at, updated_at)
VALUES (:id, :customer_id, :title, :value, :stage, :probability, :expected_close_date, :notes,
	:assigned_to, :created_by, :closed_at, :created_at, :updated_at)`, d)
	return err
}

func (r *DealRepository) Update(ctx context.Context, d *deal.Deal) error {
	d.UpdatedAt = r.now()
	_, err := r.db.NamedExecContext(ctx, `
UPDATE deals SET title = :title, value = :value, stage = :stage, probability = :probability,
	expected_close_date = :expected_close_date, notes = :notes, assigned_to = :assigned_to,
	closed_at = :closed_at, updated_at = :updated_at
WHERE id = :id`, d)
	return err
}

func (r *DealRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM deals WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Pipeline groups deals by stage. Stages with no deals are absent from the result.
func (r *DealRepository) Pipeline(ctx context.Context, ownerID string) ([]deal.StageTotal, error) {
	var w store.Where
	ownerClause(&w, ownerID)
	query := "SELECT stage, COUNT(*) AS count, COALESCE(SUM(value), 0) AS value FROM deals" + w.SQL() + " GROUP BY stage"

	var out []deal.StageTotal
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(query), w.Args()...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *DealRepository) CustomerExists(ctx context.Context, customerID string) (bool, error) {
	return store.Exists(ctx, r.db, "customers", customerID)
}
