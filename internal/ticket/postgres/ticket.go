package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/cxm/internal/core/store"
	"github.com/frahmantamala/cxm/internal/ticket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const ticketColumns = `id, customer_id, subject, description, priority, status, category, assigned_to,
	created_by, resolved_at, created_at, updated_at`

type TicketRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewTicketRepository(db *sqlx.DB) *TicketRepository {
	return &TicketRepository{db: db, now: time.Now}
}

// List orders urgent work first, then newest.
func (r *TicketRepository) List(ctx context.Context, f ticket.Filter) ([]*ticket.Ticket, error) {
	var w store.Where
	if f.OwnerID != "" {
		w.Add("(assigned_to = ? OR created_by = ?)", f.OwnerID, f.OwnerID)
	}
	if f.CustomerID != "" {
		w.Add("customer_id = ?", f.CustomerID)
	}
	if f.Status != "" {
		w.Add("status = ?", f.Status)
	}
	if f.Priority != "" {
		w.Add("priority = ?", f.Priority)
	}

	query := "SELECT " + ticketColumns + " FROM tickets" + w.SQL() +
		" ORDER BY CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END, created_at DESC LIMIT ? OFFSET ?"
	args := append(w.Args(), f.Limit, f.Offset)

	var out []*ticket.Ticket
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id string) (*ticket.Ticket, error) {
	var t ticket.Ticket
	err := r.db.GetContext(ctx, &t, "SELECT "+ticketColumns+" FROM tickets WHERE id = $1", id)
	if miss, err := store.NoRows(err); miss || err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := r.now()
	t.CreatedAt, t.UpdatedAt = now, now

	_, err := r.db.NamedExecContext(ctx, `
INSERT INTO tickets (id, customer_id, subject, description, priority, status, category, assigned_to,
	created_by, resolved_at, created_at, updated_at)
VALUES (:id, :customer_id, :subject, :description, :priority, :status, :category, :assigned_to,
	:created_by, :resolved_at, :created_at, :updated_at)`, t)
	return err
}

func (r *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	t.UpdatedAt = r.now()
	_, err := r.db.NamedExecContext(ctx, `
UPDATE tickets SET subject = :subject, description = :description, priority = :priority, status = :status,
	category = :category, assigned_to = :assigned_to, resolved_at = :resolved_at, updated_at = :updated_at
WHERE id = :id`, t)
	return err
}

func (r *TicketRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tickets WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *TicketRepository) CustomerExists(ctx context.Context, customerID string) (bool, error) {
	return store.Exists(ctx, r.db, "customers", customerID)
}
