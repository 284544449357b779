package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rekindle/backend/internal/model"
	"github.com/rekindle/backend/internal/repository"
)

// queueTransitions is the status machine: draft → approved → sent →
// responded, with approved → draft as the only backward edge.
var queueTransitions = map[model.QueueStatus][]model.QueueStatus{
	model.StatusDraft:     {model.StatusApproved},
	model.StatusApproved:  {model.StatusSent, model.StatusDraft},
	model.StatusSent:      {model.StatusResponded},
	model.StatusResponded: {},
}

// InvalidTransitionError reports a queue operation not permitted in the
// item's current status, naming the attempted and allowed states.
type InvalidTransitionError struct {
	Op      string
	From    model.QueueStatus
	To      model.QueueStatus
	Allowed []model.QueueStatus
}

func (e *InvalidTransitionError) Error() string {
	if e.To != "" {
		return fmt.Sprintf("cannot transition from %q to %q; allowed: %v", e.From, e.To, e.Allowed)
	}
	return fmt.Sprintf("cannot %s an item in status %q; allowed: %v", e.Op, e.From, e.Allowed)
}

// AddQueueRequest carries the fields for a new queue item.
type AddQueueRequest struct {
	ContactID    string
	UseCase      string
	OutreachType string
	Purpose      string
	Message      string
}

// QueueService manages the outreach workflow. At most one item per contact
// may be in an active status (draft or approved) at any time.
type QueueService interface {
	// Add creates a draft item, or returns *repository.
	// DuplicateActiveOutreachError when the contact already has an active one.
	Add(ctx context.Context, req AddQueueRequest) (*model.QueueItem, error)
	Get(ctx context.Context, id string) (*model.QueueItem, error)
	List(ctx context.Context, opts model.QueueListOptions) ([]*model.QueueItemWithContact, int, error)
	// UpdateStatus advances the item through the state machine, stamping the
	// timestamp of the state being entered.
	UpdateStatus(ctx context.Context, id string, status model.QueueStatus) (*model.QueueItem, error)
	// UpdateMessage rewrites the draft text; only drafts are editable.
	UpdateMessage(ctx context.Context, id, text string) (*model.QueueItem, error)
	// Delete removes a draft or approved item; sent and responded items are
	// retained permanently.
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*model.QueueStats, error)
}

type queueService struct {
	queue    repository.QueueRepository
	contacts repository.ContactRepository
	now      func() time.Time
	newID    func() string
}

// NewQueueService creates a QueueService.
func NewQueueService(queue repository.QueueRepository, contacts repository.ContactRepository) QueueService {
	return &queueService{queue: queue, contacts: contacts, now: time.Now, newID: uuid.NewString}
}

func (s *queueService) Add(ctx context.Context, req AddQueueRequest) (*model.QueueItem, error) {
	if _, err := s.contacts.GetByID(ctx, req.ContactID); err != nil {
		return nil, err
	}

	purpose := req.Purpose
	if purpose == "" {
		purpose = "reconnect"
	}
	item := &model.QueueItem{
		ID:               s.newID(),
		ContactID:        req.ContactID,
		UseCase:          req.UseCase,
		OutreachType:     req.OutreachType,
		Purpose:          purpose,
		GeneratedMessage: req.Message,
		Status:           model.StatusDraft,
	}
	if err := s.queue.CreateDraft(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *queueService) Get(ctx context.Context, id string) (*model.QueueItem, error) {
	return s.queue.GetByID(ctx, id)
}

func (s *queueService) List(ctx context.Context, opts model.QueueListOptions) ([]*model.QueueItemWithContact, int, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	return s.queue.List(ctx, opts)
}

func (s *queueService) UpdateStatus(ctx context.Context, id string, status model.QueueStatus) (*model.QueueItem, error) {
	item, err := s.queue.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := queueTransitions[item.Status]
	if !containsStatus(allowed, status) {
		return nil, &InvalidTransitionError{
			Op:      "update_status",
			From:    item.Status,
			To:      status,
			Allowed: allowed,
		}
	}

	item.Status = status
	now := s.now()
	switch status {
	case model.StatusApproved:
		item.ApprovedAt = &now
	case model.StatusSent:
		item.SentAt = &now
	case model.StatusResponded:
		item.RepliedAt = &now
	}

	if err := s.queue.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *queueService) UpdateMessage(ctx context.Context, id, text string) (*model.QueueItem, error) {
	item, err := s.queue.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Status != model.StatusDraft {
		return nil, &InvalidTransitionError{
			Op:      "update_message",
			From:    item.Status,
			Allowed: []model.QueueStatus{model.StatusDraft},
		}
	}

	item.GeneratedMessage = text
	if err := s.queue.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *queueService) Delete(ctx context.Context, id string) error {
	item, err := s.queue.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !containsStatus(model.ActiveStatuses, item.Status) {
		return &InvalidTransitionError{
			Op:      "delete",
			From:    item.Status,
			Allowed: model.ActiveStatuses,
		}
	}
	return s.queue.Delete(ctx, id)
}

func (s *queueService) Stats(ctx context.Context) (*model.QueueStats, error) {
	return s.queue.Stats(ctx)
}

func containsStatus(statuses []model.QueueStatus, status model.QueueStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
