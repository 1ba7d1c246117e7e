package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/RIT-ITS/DCVTool-sub002/internal/domain"
)

type TermsRepo struct {
	db *sql.DB
}

func NewTermsRepo(db *sql.DB) *TermsRepo {
	return &TermsRepo{db: db}
}

func (r *TermsRepo) GetTerm(ctx context.Context, strm int) (*domain.Term, error) {
	var t domain.Term
	err := r.db.QueryRowContext(ctx,
		`SELECT strm, term_name, term_start, term_end FROM terms WHERE strm = $1`, strm).
		Scan(&t.Strm, &t.TermName, &t.TermStart, &t.TermEnd)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("term %d: %w", strm, ErrNotFound)
		}
		return nil, err
	}
	return &t, nil
}

func (r *TermsRepo) ListTerms(ctx context.Context) ([]*domain.Term, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT strm, term_name, term_start, term_end FROM terms ORDER BY term_start`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Term{}
	for rows.Next() {
		var t domain.Term
		if err := rows.Scan(&t.Strm, &t.TermName, &t.TermStart, &t.TermEnd); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// ActiveTerm resolves "the currently running term": the term whose boundary
// dates contain the given date. When term records overlap the latest start
// wins.
func (r *TermsRepo) ActiveTerm(ctx context.Context, now time.Time) (int, error) {
	var strm int
	err := r.db.QueryRowContext(ctx,
		`SELECT strm FROM terms
		 WHERE $1::date >= term_start AND $1::date <= term_end
		 ORDER BY term_start DESC
		 LIMIT 1`, now).Scan(&strm)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("no active term for %s: %w", now.Format("2006-01-02"), ErrNotFound)
		}
		return 0, err
	}
	return strm, nil
}
