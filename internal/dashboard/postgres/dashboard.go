package postgres

import (
	"context"

	"github.com/frahmantamala/cxm/internal/core/store"
	"github.com/frahmantamala/cxm/internal/dashboard"
	"github.com/jmoiron/sqlx"
)

type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func ownedBy(w *store.Where, ownerID string) {
	if ownerID != "" {
		w.Add("(assigned_to = ? OR created_by = ?)", ownerID, ownerID)
	}
}

func (r *StatsRepository) Stats(ctx context.Context, scope dashboard.Scope) (*dashboard.Stats, error) {
	var st dashboard.Stats

	var cw store.Where
	ownedBy(&cw, scope.OwnerID)
	if err := r.db.GetContext(ctx, &st.Customers, r.db.Rebind("SELECT COUNT(*) FROM customers"+cw.SQL()), cw.Args()...); err != nil {
		return nil, err
	}

	var dw store.Where
	ownedBy(&dw, scope.OwnerID)
	deals := struct {
		Open  int   `db:"open_deals"`
		Value int64 `db:"open_deals_value"`
		Won   int   `db:"won_deals"`
	}{}
	if err := r.db.GetContext(ctx, &deals, r.db.Rebind(`
SELECT COUNT(*) FILTER (WHERE stage NOT IN ('won', 'lost')) AS open_deals,
	COALESCE(SUM(value) FILTER (WHERE stage NOT IN ('won', 'lost')), 0) AS open_deals_value,
	COUNT(*) FILTER (WHERE stage = 'won') AS won_deals
FROM deals`+dw.SQL()), dw.Args()...); err != nil {
		return nil, err
	}
	st.OpenDeals, st.OpenDealsValue, st.WonDeals = deals.Open, deals.Value, deals.Won

	var tw store.Where
	ownedBy(&tw, scope.OwnerID)
	tw.Add("status NOT IN ('resolved', 'closed')")
	if err := r.db.GetContext(ctx, &st.OpenTickets, r.db.Rebind("SELECT COUNT(*) FROM tickets"+tw.SQL()), tw.Args()...); err != nil {
		return nil, err
	}

	var fw store.Where
	if scope.OwnerID != "" {
		fw.Add("created_by = ?", scope.OwnerID)
	}
	fb := struct {
		Count   int      `db:"feedback_count"`
		Average *float64 `db:"feedback_average"`
	}{}
	if err := r.db.GetContext(ctx, &fb, r.db.Rebind(`
SELECT COUNT(*) AS feedback_count,
	AVG(score) FILTER (WHERE type = 'csat')::float8 AS feedback_average
FROM feedback`+fw.SQL()), fw.Args()...); err != nil {
		return nil, err
	}
	st.FeedbackCount, st.FeedbackAverage = fb.Count, fb.Average

	var iw store.Where
	if scope.OwnerID != "" {
		iw.Add("user_id = ?", scope.OwnerID)
	}
	iw.Add("occurred_at >= ?", scope.Since)
	if err := r.db.GetContext(ctx, &st.RecentInteractions, r.db.Rebind("SELECT COUNT(*) FROM interactions"+iw.SQL()), iw.Args()...); err != nil {
		return nil, err
	}

	return &st, nil
}
