package repository

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rekindle/backend/internal/model"
)

// ResurrectionRepository persists resurrection opportunities. The table
// carries a unique key on (contact_id, hook_type); writes go through
// conditional upserts so a rescan never duplicates a hook.
type ResurrectionRepository interface {
	// UpsertBatch applies all upserts in a single transaction and reports,
	// per input position, whether a new row was inserted (true) or an
	// existing one updated (false).
	UpsertBatch(ctx context.Context, ups []model.OpportunityUpsert) ([]bool, error)
	// ListActive returns all active opportunities in stable (contact,
	// detection time) order.
	ListActive(ctx context.Context) ([]*model.ResurrectionOpportunity, error)
	// ListActiveByContact returns a contact's active opportunities oldest
	// detection first.
	ListActiveByContact(ctx context.Context, contactID string) ([]*model.ResurrectionOpportunity, error)
	// ListActiveWithContact returns active opportunities joined with contact
	// info, warmest contact first. hookType "" matches all hooks.
	ListActiveWithContact(ctx context.Context, hookType model.Hook, limit int) ([]*model.OpportunityWithContact, error)
	// HasActive reports whether the contact has an active opportunity of the
	// given hook type.
	HasActive(ctx context.Context, contactID string, hookType model.Hook) (bool, error)
	// Dismiss deactivates an opportunity, or returns ErrNotFound.
	Dismiss(ctx context.Context, id string) error
}

// PgResurrectionRepository is the PostgreSQL implementation of ResurrectionRepository.
type PgResurrectionRepository struct {
	pool *pgxpool.Pool
}

// NewPgResurrectionRepository creates a PgResurrectionRepository backed by the given pool.
func NewPgResurrectionRepository(pool *pgxpool.Pool) *PgResurrectionRepository {
	return &PgResurrectionRepository{pool: pool}
}

var _ ResurrectionRepository = (*PgResurrectionRepository)(nil)

const opportunityColumns = `id, contact_id, hook_type, COALESCE(hook_detail, ''),
	COALESCE(source_message_id::text, ''), detected_at, is_active`

func scanOpportunity(row pgx.Row) (*model.ResurrectionOpportunity, error) {
	var o model.ResurrectionOpportunity
	var hook string
	err := row.Scan(&o.ID, &o.ContactID, &hook, &o.HookDetail,
		&o.SourceMessageID, &o.DetectedAt, &o.IsActive)
	if err != nil {
		return nil, err
	}
	o.HookType = model.Hook(hook)
	return &o, nil
}

func (r *PgResurrectionRepository) UpsertBatch(ctx context.Context, ups []model.OpportunityUpsert) ([]bool, error) {
	inserted := make([]bool, len(ups))
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for i, u := range ups {
			// xmax = 0 only on freshly inserted rows, which distinguishes
			// the insert arm of the upsert from the update arm.
			err := tx.QueryRow(ctx, `INSERT INTO resurrection_opportunities
					(id, contact_id, hook_type, hook_detail, source_message_id, detected_at, is_active)
				VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid, $6, TRUE)
				ON CONFLICT (contact_id, hook_type) DO UPDATE
				SET hook_detail = EXCLUDED.hook_detail,
					source_message_id = EXCLUDED.source_message_id,
					detected_at = EXCLUDED.detected_at,
					is_active = TRUE
				RETURNING (xmax = 0)`,
				uuid.NewString(), u.ContactID, string(u.HookType), u.HookDetail,
				u.SourceMessageID, u.DetectedAt,
			).Scan(&inserted[i])
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inserted, nil
}

func (r *PgResurrectionRepository) listActive(ctx context.Context, where, order string, args ...any) ([]*model.ResurrectionOpportunity, error) {
	query := `SELECT ` + opportunityColumns + ` FROM resurrection_opportunities
		WHERE is_active` + where + ` ORDER BY ` + order

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opps []*model.ResurrectionOpportunity
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		opps = append(opps, o)
	}
	return opps, rows.Err()
}

func (r *PgResurrectionRepository) ListActive(ctx context.Context) ([]*model.ResurrectionOpportunity, error) {
	return r.listActive(ctx, ``, `contact_id, detected_at, id`)
}

func (r *PgResurrectionRepository) ListActiveByContact(ctx context.Context, contactID string) ([]*model.ResurrectionOpportunity, error) {
	return r.listActive(ctx, ` AND contact_id = $1`, `detected_at, id`, contactID)
}

func (r *PgResurrectionRepository) ListActiveWithContact(ctx context.Context, hookType model.Hook, limit int) ([]*model.OpportunityWithContact, error) {
	query := `SELECT o.id, o.contact_id, o.hook_type, COALESCE(o.hook_detail, ''),
			COALESCE(o.source_message_id::text, ''), o.detected_at, o.is_active,
			c.name, COALESCE(c.company, ''), COALESCE(c.headline, ''),
			COALESCE(c.linkedin_url, ''), c.warmth_score
		FROM resurrection_opportunities o
		JOIN contacts c ON c.id = o.contact_id
		WHERE o.is_active`
	var args []any
	if hookType != "" {
		args = append(args, string(hookType))
		query += ` AND o.hook_type = $1`
	}
	args = append(args, limit)
	query += ` ORDER BY c.warmth_score DESC, o.detected_at LIMIT $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opps []*model.OpportunityWithContact
	for rows.Next() {
		var o model.OpportunityWithContact
		var hook string
		err := rows.Scan(&o.ID, &o.ContactID, &hook, &o.HookDetail,
			&o.SourceMessageID, &o.DetectedAt, &o.IsActive,
			&o.ContactName, &o.ContactCompany, &o.ContactHeadline,
			&o.LinkedInURL, &o.WarmthScore)
		if err != nil {
			return nil, err
		}
		o.HookType = model.Hook(hook)
		opps = append(opps, &o)
	}
	return opps, rows.Err()
}

func (r *PgResurrectionRepository) HasActive(ctx context.Context, contactID string, hookType model.Hook) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(
		SELECT 1 FROM resurrection_opportunities
		WHERE contact_id = $1 AND hook_type = $2 AND is_active)`,
		contactID, string(hookType)).Scan(&exists)
	return exists, err
}

func (r *PgResurrectionRepository) Dismiss(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE resurrection_opportunities SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
