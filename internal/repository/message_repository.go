package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rekindle/backend/internal/model"
)

// MessageRepository defines the read side of the message store plus the
// substantive-flag backfill. Message rows themselves are owned by ingestion.
type MessageRepository interface {
	// ListByContact returns a contact's messages ordered oldest first.
	ListByContact(ctx context.Context, contactID string) ([]*model.Message, error)
	// ListSentSince returns sent messages with content dated at or after
	// since, ordered by contact then date ascending.
	ListSentSince(ctx context.Context, since time.Time) ([]*model.Message, error)
	// LatestReceived returns the contact's most recent received message
	// dated at or after since, or ErrNotFound.
	LatestReceived(ctx context.Context, contactID string, since time.Time) (*model.Message, error)
	// ListUnflagged returns messages whose substantive flag has never been set.
	ListUnflagged(ctx context.Context) ([]*model.Message, error)
	// SetSubstantiveBatch applies all flag updates in a single transaction.
	SetSubstantiveBatch(ctx context.Context, updates []model.SubstantiveUpdate) error
}

const messageColumns = `id, contact_id, direction, date,
	COALESCE(subject, ''), COALESCE(content, ''), is_substantive, created_at`

// PgMessageRepository is the PostgreSQL implementation of MessageRepository.
type PgMessageRepository struct {
	pool *pgxpool.Pool
}

// NewPgMessageRepository creates a PgMessageRepository backed by the given pool.
func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

var _ MessageRepository = (*PgMessageRepository)(nil)

func scanMessage(row pgx.Row) (*model.Message, error) {
	var m model.Message
	var direction string
	err := row.Scan(&m.ID, &m.ContactID, &direction, &m.Date,
		&m.Subject, &m.Content, &m.IsSubstantive, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.Direction = model.Direction(direction)
	return &m, nil
}

func (r *PgMessageRepository) query(ctx context.Context, query string, args ...any) ([]*model.Message, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *PgMessageRepository) ListByContact(ctx context.Context, contactID string) ([]*model.Message, error) {
	return r.query(ctx, `SELECT `+messageColumns+` FROM messages
		WHERE contact_id = $1 ORDER BY date, id`, contactID)
}

func (r *PgMessageRepository) ListSentSince(ctx context.Context, since time.Time) ([]*model.Message, error) {
	return r.query(ctx, `SELECT `+messageColumns+` FROM messages
		WHERE direction = 'sent' AND date >= $1 AND content IS NOT NULL AND content <> ''
		ORDER BY contact_id, date, id`, since)
}

func (r *PgMessageRepository) LatestReceived(ctx context.Context, contactID string, since time.Time) (*model.Message, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+messageColumns+` FROM messages
		WHERE contact_id = $1 AND direction = 'received' AND date >= $2
		ORDER BY date DESC, id DESC LIMIT 1`, contactID, since)
	m, err := scanMessage(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return m, err
}

func (r *PgMessageRepository) ListUnflagged(ctx context.Context) ([]*model.Message, error) {
	return r.query(ctx, `SELECT `+messageColumns+` FROM messages
		WHERE is_substantive IS NULL ORDER BY contact_id, date, id`)
}

func (r *PgMessageRepository) SetSubstantiveBatch(ctx context.Context, updates []model.SubstantiveUpdate) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for _, u := range updates {
			_, err := tx.Exec(ctx, `UPDATE messages SET is_substantive = $2 WHERE id = $1`,
				u.MessageID, u.IsSubstantive)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
