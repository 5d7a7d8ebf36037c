package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/cxm/internal/core/store"
	"github.com/frahmantamala/cxm/internal/interaction"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const interactionColumns = `id, customer_id, user_id, type, direction, subject, description, outcome,
	duration_seconds, occurred_at, created_at`

type InteractionRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewInteractionRepository(db *sqlx.DB) *InteractionRepository {
	return &InteractionRepository{db: db, now: time.Now}
}

func (r *InteractionRepository) List(ctx context.Context, f interaction.Filter) ([]*interaction.Interaction, error) {
	var w store.Where
	if f.UserID != "" {
		w.Add("user_id = ?", f.UserID)
	}
	if f.CustomerID != "" {
		w.Add("customer_id = ?", f.CustomerID)
	}
	if f.Type != "" {
		w.Add("type = ?", f.Type)
	}

	query := "SELECT " + interactionColumns + " FROM interactions" + w.SQL() + " ORDER BY occurred_at DESC LIMIT ? OFFSET ?"
	args := append(w.Args(), f.Limit, f.Offset)

	var out []*interaction.Interaction
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *InteractionRepository) GetByID(ctx context.Context, id string) (*interaction.Interaction, error) {
	var i interaction.Interaction
	err := r.db.GetContext(ctx, &i, "SELECT "+interactionColumns+" FROM interactions WHERE id = $1", id)
	if miss, err := store.NoRows(err); miss || err != nil {
		return nil, err
	}
	return &i, nil
}

// Create inserts the interaction and moves customers.last_interaction_at forward in one transaction.
func (r *InteractionRepository) Create(ctx context.Context, i *interaction.Interaction) (err error) {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	i.CreatedAt = r.now()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.NamedExecContext(ctx, `
INSERT INTO interactions (id, customer_id, user_id, type, direction, subject, description, outcome,
	duration_seconds, occurred_at, created_at)
VALUES (:id, :customer_id, :user_id, :type, :direction, :subject, :description, :outcome,
	:duration_seconds, :occurred_at, :created_at)`, i); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `
UPDATE customers SET last_interaction_at = $1
WHERE id = $2 AND (last_interaction_at IS NULL OR last_interaction_at < $1)`, i.OccurredAt, i.CustomerID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *InteractionRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM interactions WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *InteractionRepository) CustomerExists(ctx context.Context, customerID string) (bool, error) {
	return store.Exists(ctx, r.db, "customers", customerID)
}
