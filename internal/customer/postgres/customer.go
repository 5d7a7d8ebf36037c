package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/cxm/internal/core/store"
	"github.com/frahmantamala/cxm/internal/customer"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const customerColumns = `id, name, email, phone, company, type, status, segment, city, address, notes,
	assigned_to, created_by, last_interaction_at, created_at, updated_at`

// CustomerRepository implements customer.RepositoryAPI with sqlx.
type CustomerRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewCustomerRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{db: db, now: time.Now}
}

func (r *CustomerRepository) List(ctx context.Context, f customer.Filter) ([]*customer.Customer, error) {
	var w store.Where
	if f.OwnerID != "" {
		w.Add("(assigned_to = ? OR created_by = ?)", f.OwnerID, f.OwnerID)
	}
	if f.Status != "" {
		w.Add("status = ?", f.Status)
	}
	if f.Type != "" {
		w.Add("type = ?", f.Type)
	}
	if f.Search != "" {
		p := store.LikePattern(f.Search)
		w.Add("(name ILIKE ? OR email ILIKE ? OR phone ILIKE ? OR company ILIKE ?)", p, p, p, p)
	}

	query := "SELECT " + customerColumns + " FROM customers" + w.SQL() + " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args := append(w.Args(), f.Limit, f.Offset)

	var out []*customer.Customer
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*customer.Customer, error) {
	var c customer.Customer
	err := r.db.GetContext(ctx, &c, "SELECT "+customerColumns+" FROM customers WHERE id = $1", id)
	if miss, err := store.NoRows(err); miss || err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := r.now()
	c.CreatedAt, c.UpdatedAt = now, now

	_, err := r.db.NamedExecContext(ctx, `
INSERT INTO customers (id, name, email, phone, company, type, status, segment, city, address, notes,
	assigned_to, created_by, created_at, updated_at)
VALUES (:id, :name, :email, :phone, :company, :type, :status, :segment, :city, :address, :notes,
	:assigned_to, :created_by, :created_at, :updated_at)`, c)
	return err
}

func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	c.UpdatedAt = r.now()
	_, err := r.db.NamedExecContext(ctx, `
UPDATE customers SET name = :name, email = :email, phone = :phone, company = :company, type = :type,
	status = :status, segment = :segment, city = :city, address = :address, notes = :notes,
	assigned_to = :assigned_to, updated_at = :updated_at
WHERE id = :id`, c)
	return err
}

func (r *CustomerRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Summary aggregates related records; feedback_average is the mean CSAT score.
func (r *CustomerRepository) Summary(ctx context.Context, id string) (*customer.Summary, error) {
	var s customer.Summary
	err := r.db.GetContext(ctx, &s, `
SELECT
	(SELECT COUNT(*) FROM deals WHERE customer_id = $1) AS deals_count,
	(SELECT COALESCE(SUM(value), 0) FROM deals WHERE customer_id = $1 AND stage NOT IN ('won', 'lost')) AS open_deals_value,
	(SELECT COUNT(*) FROM tickets WHERE customer_id = $1 AND status NOT IN ('resolved', 'closed')) AS open_tickets,
	(SELECT COUNT(*) FROM interactions WHERE customer_id = $1) AS interactions_count,
	(SELECT AVG(score)::float8 FROM feedback WHERE customer_id = $1 AND type = 'csat' AND score IS NOT NULL) AS feedback_average`, id)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
