package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rekindle/backend/internal/model"
)

// ContactRepository defines the persistence interface for contacts. The core
// never creates contacts; ingestion owns row creation, and the warmth scorer
// and segmenter own their respective columns.
type ContactRepository interface {
	GetByID(ctx context.Context, id string) (*model.Contact, error)
	ListAll(ctx context.Context) ([]*model.Contact, error)
	// ListUnsegmented returns contacts whose segment tags have never been set.
	ListUnsegmented(ctx context.Context) ([]*model.Contact, error)
	// ListWithWarmth returns contacts with warmth_score > 0.
	ListWithWarmth(ctx context.Context) ([]*model.Contact, error)
	// ListDormant returns contacts at or above minWarmth whose last message
	// is older than before.
	ListDormant(ctx context.Context, minWarmth int, before time.Time) ([]*model.Contact, error)
	// ListLastReceived returns contacts whose most recent message was received.
	ListLastReceived(ctx context.Context) ([]*model.Contact, error)
	// ListAwaitingReply returns contacts whose most recent message was
	// received no earlier than since, with warmth at or above minWarmth.
	ListAwaitingReply(ctx context.Context, minWarmth int, since time.Time) ([]*model.Contact, error)

	UpdateWarmth(ctx context.Context, u model.WarmthUpdate) error
	// UpdateWarmthBatch applies all updates in a single transaction.
	UpdateWarmthBatch(ctx context.Context, updates []model.WarmthUpdate) error
	// UpdateSegmentsBatch applies all updates in a single transaction.
	// An empty tag set stores NULL.
	UpdateSegmentsBatch(ctx context.Context, updates []model.SegmentUpdate) error
}

const contactColumns = `id, COALESCE(linkedin_url, ''), name, COALESCE(headline, ''),
	COALESCE(location, ''), COALESCE(company, ''), COALESCE(position, ''),
	COALESCE(about, ''), COALESCE(email, ''),
	warmth_score, COALESCE(warmth_breakdown, '{}'::jsonb), warmth_calculated_at,
	COALESCE(segment_tags, '{}'), COALESCE(manual_tags, '{}'),
	total_messages, last_message_date, COALESCE(last_message_direction, ''),
	created_at, updated_at`

// PgContactRepository is the PostgreSQL implementation of ContactRepository.
type PgContactRepository struct {
	pool *pgxpool.Pool
}

// NewPgContactRepository creates a PgContactRepository backed by the given pool.
func NewPgContactRepository(pool *pgxpool.Pool) *PgContactRepository {
	return &PgContactRepository{pool: pool}
}

var _ ContactRepository = (*PgContactRepository)(nil)

func scanContact(row pgx.Row) (*model.Contact, error) {
	var c model.Contact
	var segmentTags []string
	var direction string
	err := row.Scan(
		&c.ID, &c.LinkedInURL, &c.Name, &c.Headline,
		&c.Location, &c.Company, &c.Position,
		&c.About, &c.Email,
		&c.WarmthScore, &c.WarmthBreakdown, &c.WarmthCalculatedAt,
		&segmentTags, &c.ManualTags,
		&c.TotalMessages, &c.LastMessageDate, &direction,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	for _, tag := range segmentTags {
		c.SegmentTags = append(c.SegmentTags, model.Segment(tag))
	}
	c.LastMessageDirection = model.Direction(direction)
	return &c, nil
}

func (r *PgContactRepository) GetByID(ctx context.Context, id string) (*model.Contact, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)
	c, err := scanContact(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return c, err
}

func (r *PgContactRepository) list(ctx context.Context, where string, args ...any) ([]*model.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []*model.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *PgContactRepository) ListAll(ctx context.Context) ([]*model.Contact, error) {
	return r.list(ctx, "")
}

func (r *PgContactRepository) ListUnsegmented(ctx context.Context) ([]*model.Contact, error) {
	return r.list(ctx, `segment_tags IS NULL`)
}

func (r *PgContactRepository) ListWithWarmth(ctx context.Context) ([]*model.Contact, error) {
	return r.list(ctx, `warmth_score > 0`)
}

func (r *PgContactRepository) ListDormant(ctx context.Context, minWarmth int, before time.Time) ([]*model.Contact, error) {
	return r.list(ctx, `warmth_score >= $1 AND last_message_date < $2`, minWarmth, before)
}

func (r *PgContactRepository) ListLastReceived(ctx context.Context) ([]*model.Contact, error) {
	return r.list(ctx, `last_message_direction = 'received'`)
}

func (r *PgContactRepository) ListAwaitingReply(ctx context.Context, minWarmth int, since time.Time) ([]*model.Contact, error) {
	return r.list(ctx, `last_message_direction = 'received' AND warmth_score >= $1 AND last_message_date >= $2`, minWarmth, since)
}

const updateWarmthSQL = `UPDATE contacts
	SET warmth_score = $2, warmth_breakdown = $3, warmth_calculated_at = $4, updated_at = NOW()
	WHERE id = $1`

func (r *PgContactRepository) UpdateWarmth(ctx context.Context, u model.WarmthUpdate) error {
	tag, err := r.pool.Exec(ctx, updateWarmthSQL, u.ContactID, u.Score, u.Breakdown, u.CalculatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgContactRepository) UpdateWarmthBatch(ctx context.Context, updates []model.WarmthUpdate) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for _, u := range updates {
			if _, err := tx.Exec(ctx, updateWarmthSQL, u.ContactID, u.Score, u.Breakdown, u.CalculatedAt); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PgContactRepository) UpdateSegmentsBatch(ctx context.Context, updates []model.SegmentUpdate) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for _, u := range updates {
			tags := make([]string, 0, len(u.Tags))
			for _, t := range u.Tags {
				tags = append(tags, string(t))
			}
			_, err := tx.Exec(ctx, `UPDATE contacts
				SET segment_tags = NULLIF($2::text[], '{}'::text[]), updated_at = NOW()
				WHERE id = $1`, u.ContactID, tags)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
