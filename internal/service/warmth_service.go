package service

import (
	"context"
	"time"

	"github.com/rekindle/backend/internal/model"
	"github.com/rekindle/backend/internal/repository"
)

// RecalcResult holds the stats of a warmth recalculation run.
type RecalcResult struct {
	Processed       int `json:"processed"`
	WithMessages    int `json:"with_messages"`
	WithoutMessages int `json:"without_messages"`
}

// WarmthService recomputes warmth fields from current message history.
// Recomputation is idempotent and overwrites the score, breakdown and
// calculation timestamp unconditionally, including the zero-message case.
type WarmthService interface {
	// Recalculate rescores a single contact, or returns ErrNotFound.
	Recalculate(ctx context.Context, contactID string) error
	// RecalculateAll rescores every contact; all writes commit in one
	// transaction so a storage failure leaves no partial run.
	RecalculateAll(ctx context.Context) (*RecalcResult, error)
	// FlagSubstantive backfills the substantive flag on messages that have
	// never been classified. Returns the number of messages flagged.
	FlagSubstantive(ctx context.Context) (int, error)
}

type warmthService struct {
	contacts repository.ContactRepository
	messages repository.MessageRepository
	scorer   *WarmthScorer
	now      func() time.Time
}

// NewWarmthService creates a WarmthService using the given scorer.
func NewWarmthService(contacts repository.ContactRepository, messages repository.MessageRepository, scorer *WarmthScorer) WarmthService {
	return &warmthService{contacts: contacts, messages: messages, scorer: scorer, now: time.Now}
}

func (s *warmthService) Recalculate(ctx context.Context, contactID string) error {
	contact, err := s.contacts.GetByID(ctx, contactID)
	if err != nil {
		return err
	}
	update, err := s.rescore(ctx, contact)
	if err != nil {
		return err
	}
	return s.contacts.UpdateWarmth(ctx, update)
}

func (s *warmthService) RecalculateAll(ctx context.Context) (*RecalcResult, error) {
	contacts, err := s.contacts.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	result := &RecalcResult{}
	updates := make([]model.WarmthUpdate, 0, len(contacts))
	for _, c := range contacts {
		update, err := s.rescore(ctx, c)
		if err != nil {
			return nil, err
		}
		updates = append(updates, update)
		result.Processed++
		if update.Score > 0 {
			result.WithMessages++
		} else {
			result.WithoutMessages++
		}
	}

	if err := s.contacts.UpdateWarmthBatch(ctx, updates); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *warmthService) rescore(ctx context.Context, contact *model.Contact) (model.WarmthUpdate, error) {
	messages, err := s.messages.ListByContact(ctx, contact.ID)
	if err != nil {
		return model.WarmthUpdate{}, err
	}
	score, breakdown := s.scorer.Score(messages, s.now())
	return model.WarmthUpdate{
		ContactID:    contact.ID,
		Score:        score,
		Breakdown:    breakdown,
		CalculatedAt: s.now(),
	}, nil
}

func (s *warmthService) FlagSubstantive(ctx context.Context) (int, error) {
	messages, err := s.messages.ListUnflagged(ctx)
	if err != nil {
		return 0, err
	}
	updates := make([]model.SubstantiveUpdate, 0, len(messages))
	for _, m := range messages {
		updates = append(updates, model.SubstantiveUpdate{
			MessageID:     m.ID,
			IsSubstantive: s.scorer.IsSubstantive(m.Content),
		})
	}
	if err := s.messages.SetSubstantiveBatch(ctx, updates); err != nil {
		return 0, err
	}
	return len(updates), nil
}
