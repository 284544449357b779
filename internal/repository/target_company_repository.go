package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rekindle/backend/internal/model"
)

// TargetCompanyRepository persists the target company list. The segmenter
// and ranker consume names read-only; management is a thin CRUD surface.
type TargetCompanyRepository interface {
	List(ctx context.Context) ([]*model.TargetCompany, error)
	// ListNames returns all company names lowercased for matching.
	ListNames(ctx context.Context) ([]string, error)
	Create(ctx context.Context, tc *model.TargetCompany) error
	Delete(ctx context.Context, id string) error
}

// PgTargetCompanyRepository is the PostgreSQL implementation of TargetCompanyRepository.
type PgTargetCompanyRepository struct {
	pool *pgxpool.Pool
}

// NewPgTargetCompanyRepository creates a PgTargetCompanyRepository backed by the given pool.
func NewPgTargetCompanyRepository(pool *pgxpool.Pool) *PgTargetCompanyRepository {
	return &PgTargetCompanyRepository{pool: pool}
}

var _ TargetCompanyRepository = (*PgTargetCompanyRepository)(nil)

func (r *PgTargetCompanyRepository) List(ctx context.Context) ([]*model.TargetCompany, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, COALESCE(notes, ''), created_at
		FROM target_companies ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*model.TargetCompany
	for rows.Next() {
		var tc model.TargetCompany
		if err := rows.Scan(&tc.ID, &tc.Name, &tc.Notes, &tc.CreatedAt); err != nil {
			return nil, err
		}
		companies = append(companies, &tc)
	}
	return companies, rows.Err()
}

func (r *PgTargetCompanyRepository) ListNames(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT LOWER(name) FROM target_companies`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *PgTargetCompanyRepository) Create(ctx context.Context, tc *model.TargetCompany) error {
	return r.pool.QueryRow(ctx, `INSERT INTO target_companies (name, notes)
		VALUES ($1, NULLIF($2, '')) RETURNING id, created_at`,
		tc.Name, tc.Notes).Scan(&tc.ID, &tc.CreatedAt)
}

func (r *PgTargetCompanyRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM target_companies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
