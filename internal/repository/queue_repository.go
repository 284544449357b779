package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rekindle/backend/internal/model"
)

// QueueRepository persists outreach queue items. Creation enforces the
// one-active-item-per-contact invariant inside a single transaction, backed
// by a partial unique index on (contact_id) over active statuses so a racing
// insert cannot slip through between check and write.
type QueueRepository interface {
	// CreateDraft inserts the item, or returns *DuplicateActiveOutreachError
	// if the contact already has a draft or approved item.
	CreateDraft(ctx context.Context, item *model.QueueItem) error
	GetByID(ctx context.Context, id string) (*model.QueueItem, error)
	// List returns items joined with contact info, newest first, plus the
	// total count matching the filters.
	List(ctx context.Context, opts model.QueueListOptions) ([]*model.QueueItemWithContact, int, error)
	// Update writes the item's status, message and lifecycle timestamps.
	Update(ctx context.Context, item *model.QueueItem) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*model.QueueStats, error)
	// ActiveContactIDs returns the set of contacts with a draft or approved item.
	ActiveContactIDs(ctx context.Context) (map[string]bool, error)
	// HasActive reports whether the contact has a draft or approved item.
	HasActive(ctx context.Context, contactID string) (bool, error)
}

const queueColumns = `id, contact_id, use_case, outreach_type, purpose,
	COALESCE(generated_message, ''), status, created_at, approved_at, sent_at, replied_at`

// PgQueueRepository is the PostgreSQL implementation of QueueRepository.
type PgQueueRepository struct {
	pool *pgxpool.Pool
}

// NewPgQueueRepository creates a PgQueueRepository backed by the given pool.
func NewPgQueueRepository(pool *pgxpool.Pool) *PgQueueRepository {
	return &PgQueueRepository{pool: pool}
}

var _ QueueRepository = (*PgQueueRepository)(nil)

func scanQueueItem(row pgx.Row, extra ...any) (*model.QueueItem, []any, error) {
	var item model.QueueItem
	var status string
	dest := []any{&item.ID, &item.ContactID, &item.UseCase, &item.OutreachType,
		&item.Purpose, &item.GeneratedMessage, &status,
		&item.CreatedAt, &item.ApprovedAt, &item.SentAt, &item.RepliedAt}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, nil, err
	}
	item.Status = model.QueueStatus(status)
	return &item, extra, nil
}

func activeStatusStrings() []string {
	out := make([]string, 0, len(model.ActiveStatuses))
	for _, s := range model.ActiveStatuses {
		out = append(out, string(s))
	}
	return out
}

func (r *PgQueueRepository) CreateDraft(ctx context.Context, item *model.QueueItem) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var existingID, existingStatus string
		err := tx.QueryRow(ctx, `SELECT id, status FROM outreach_queue
			WHERE contact_id = $1 AND status = ANY($2)
			FOR UPDATE`,
			item.ContactID, activeStatusStrings()).Scan(&existingID, &existingStatus)
		switch {
		case err == nil:
			return &DuplicateActiveOutreachError{
				ExistingID: existingID,
				Status:     model.QueueStatus(existingStatus),
			}
		case !errors.Is(err, pgx.ErrNoRows):
			return err
		}

		err = tx.QueryRow(ctx, `INSERT INTO outreach_queue
				(id, contact_id, use_case, outreach_type, purpose, generated_message, status)
			VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
			RETURNING created_at`,
			item.ID, item.ContactID, item.UseCase, item.OutreachType,
			item.Purpose, item.GeneratedMessage, string(item.Status),
		).Scan(&item.CreatedAt)
		if err != nil {
			// Unique violation on the active-contact partial index means a
			// concurrent insert won the race; report it as the same conflict.
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return &DuplicateActiveOutreachError{Status: model.StatusDraft}
			}
		}
		return err
	})
}

func (r *PgQueueRepository) GetByID(ctx context.Context, id string) (*model.QueueItem, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+queueColumns+` FROM outreach_queue WHERE id = $1`, id)
	item, _, err := scanQueueItem(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return item, err
}

func (r *PgQueueRepository) List(ctx context.Context, opts model.QueueListOptions) ([]*model.QueueItemWithContact, int, error) {
	var conditions []string
	var args []any

	if opts.Status != "" {
		args = append(args, string(opts.Status))
		conditions = append(conditions, "q.status = $"+strconv.Itoa(len(args)))
	}
	if opts.UseCase != "" {
		args = append(args, opts.UseCase)
		conditions = append(conditions, "q.use_case = $"+strconv.Itoa(len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM outreach_queue q`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, opts.Limit)
	limitArg := strconv.Itoa(len(args))
	args = append(args, opts.Offset)
	offsetArg := strconv.Itoa(len(args))

	query := `SELECT q.id, q.contact_id, q.use_case, q.outreach_type, q.purpose,
			COALESCE(q.generated_message, ''), q.status,
			q.created_at, q.approved_at, q.sent_at, q.replied_at,
			c.name, COALESCE(c.headline, ''), COALESCE(c.company, '')
		FROM outreach_queue q
		JOIN contacts c ON c.id = q.contact_id` + where + `
		ORDER BY q.created_at DESC, q.id
		LIMIT $` + limitArg + ` OFFSET $` + offsetArg

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*model.QueueItemWithContact
	for rows.Next() {
		var out model.QueueItemWithContact
		item, _, err := scanQueueItem(rows, &out.ContactName, &out.ContactHeadline, &out.ContactCompany)
		if err != nil {
			return nil, 0, err
		}
		out.QueueItem = *item
		items = append(items, &out)
	}
	return items, total, rows.Err()
}

func (r *PgQueueRepository) Update(ctx context.Context, item *model.QueueItem) error {
	tag, err := r.pool.Exec(ctx, `UPDATE outreach_queue
		SET status = $2, generated_message = NULLIF($3, ''),
			approved_at = $4, sent_at = $5, replied_at = $6
		WHERE id = $1`,
		item.ID, string(item.Status), item.GeneratedMessage,
		item.ApprovedAt, item.SentAt, item.RepliedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgQueueRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM outreach_queue WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgQueueRepository) Stats(ctx context.Context) (*model.QueueStats, error) {
	stats := &model.QueueStats{
		ByStatus:  make(map[model.QueueStatus]int),
		ByUseCase: make(map[string]int),
	}

	rows, err := r.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM outreach_queue GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[model.QueueStatus(status)] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx,
		`SELECT use_case, COUNT(*) FROM outreach_queue GROUP BY use_case`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var useCase string
		var count int
		if err := rows.Scan(&useCase, &count); err != nil {
			return nil, err
		}
		stats.ByUseCase[useCase] = count
	}
	return stats, rows.Err()
}

func (r *PgQueueRepository) ActiveContactIDs(ctx context.Context) (map[string]bool, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT contact_id FROM outreach_queue WHERE status = ANY($1)`,
		activeStatusStrings())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

func (r *PgQueueRepository) HasActive(ctx context.Context, contactID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(
		SELECT 1 FROM outreach_queue WHERE contact_id = $1 AND status = ANY($2))`,
		contactID, activeStatusStrings()).Scan(&exists)
	return exists, err
}
