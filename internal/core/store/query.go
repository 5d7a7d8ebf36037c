// Package store holds small helpers shared by the sqlx repositories.
package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Where accumulates AND-ed conditions written with `?` placeholders; callers Rebind the
// final query for the driver.
type Where struct {
	clauses []string
	args    []interface{}
}

func (w *Where) Add(clause string, args ...interface{}) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

func (w *Where) SQL() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func (w *Where) Args() []interface{} {
	out := make([]interface{}, len(w.args))
	copy(out, w.args)
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern wraps a search term for a contains-match with LIKE wildcards escaped.
func LikePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// NoRows maps sql.ErrNoRows to a nil error so repositories can return (nil, nil) for a miss.
func NoRows(err error) (bool, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	return false, err
}

// Exists reports whether a row with the given id is present in table. table is always a
// constant supplied by the calling repository.
func Exists(ctx context.Context, db *sqlx.DB, table, id string) (bool, error) {
	var ok bool
	if err := db.GetContext(ctx, &ok, "SELECT EXISTS(SELECT 1 FROM "+table+" WHERE id = $1)", id); err != nil {
		return false, err
	}
	return ok, nil
}
