package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rekindle/backend/internal/model"
	"github.com/rekindle/backend/internal/repository"
)

var queueNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestQueueService(queue *mockQueueRepository, contacts *mockContactRepository) *queueService {
	return &queueService{
		queue:    queue,
		contacts: contacts,
		now:      func() time.Time { return queueNow },
		newID:    func() string { return "q-test" },
	}
}

func knownContactRepo() *mockContactRepository {
	return &mockContactRepository{
		getByIDFunc: func(ctx context.Context, id string) (*model.Contact, error) {
			return &model.Contact{ID: id, Name: "Ana"}, nil
		},
	}
}

// ---------------------------------------------------------------------------
// QueueService.Add tests
// ---------------------------------------------------------------------------

func TestQueueService_Add_CreatesDraft(t *testing.T) {
	var captured *model.QueueItem
	queue := &mockQueueRepository{
		createDraftFunc: func(ctx context.Context, item *model.QueueItem) error {
			captured = item
			return nil
		},
	}
	svc := newTestQueueService(queue, knownContactRepo())

	item, err := svc.Add(context.Background(), AddQueueRequest{
		ContactID:    "c1",
		UseCase:      "job_search",
		OutreachType: "resurrection",
		Message:      "Hey Ana, been a while!",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured == nil {
		t.Fatal("expected CreateDraft to be called")
	}
	if item.ID != "q-test" {
		t.Errorf("expected generated id q-test, got %q", item.ID)
	}
	if item.Status != model.StatusDraft {
		t.Errorf("expected status draft, got %q", item.Status)
	}
	if item.Purpose != "reconnect" {
		t.Errorf("expected default purpose reconnect, got %q", item.Purpose)
	}
}

func TestQueueService_Add_KeepsExplicitPurpose(t *testing.T) {
	svc := newTestQueueService(&mockQueueRepository{}, knownContactRepo())

	item, err := svc.Add(context.Background(), AddQueueRequest{
		ContactID: "c1", UseCase: "mujertech", OutreachType: "warm", Purpose: "event_invite",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Purpose != "event_invite" {
		t.Errorf("expected purpose event_invite, got %q", item.Purpose)
	}
}

func TestQueueService_Add_UnknownContact(t *testing.T) {
	svc := newTestQueueService(&mockQueueRepository{}, &mockContactRepository{})

	_, err := svc.Add(context.Background(), AddQueueRequest{ContactID: "missing", UseCase: "x", OutreachType: "y"})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestQueueService_Add_RejectsSecondActiveItem(t *testing.T) {
	queue := &mockQueueRepository{
		createDraftFunc: func(ctx context.Context, item *model.QueueItem) error {
			return &repository.DuplicateActiveOutreachError{ExistingID: "q-first", Status: model.StatusDraft}
		},
	}
	svc := newTestQueueService(queue, knownContactRepo())

	_, err := svc.Add(context.Background(), AddQueueRequest{ContactID: "c1", UseCase: "x", OutreachType: "y"})
	var dup *repository.DuplicateActiveOutreachError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateActiveOutreachError, got %v", err)
	}
	if dup.ExistingID != "q-first" {
		t.Errorf("expected the existing item named, got %q", dup.ExistingID)
	}
}

// ---------------------------------------------------------------------------
// QueueService.UpdateStatus tests
// ---------------------------------------------------------------------------

func itemInStatus(status model.QueueStatus) *mockQueueRepository {
	return &mockQueueRepository{
		getByIDFunc: func(ctx context.Context, id string) (*model.QueueItem, error) {
			return &model.QueueItem{ID: id, ContactID: "c1", Status: status}, nil
		},
	}
}

func TestQueueService_UpdateStatus_ApproveStampsTimestamp(t *testing.T) {
	svc := newTestQueueService(itemInStatus(model.StatusDraft), knownContactRepo())

	item, err := svc.UpdateStatus(context.Background(), "q1", model.StatusApproved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Status != model.StatusApproved {
		t.Errorf("expected status approved, got %q", item.Status)
	}
	if item.ApprovedAt == nil || !item.ApprovedAt.Equal(queueNow) {
		t.Errorf("expected ApprovedAt=%v, got %v", queueNow, item.ApprovedAt)
	}
}

func TestQueueService_UpdateStatus_SendAndRespondStampTimestamps(t *testing.T) {
	svc := newTestQueueService(itemInStatus(model.StatusApproved), knownContactRepo())
	item, err := svc.UpdateStatus(context.Background(), "q1", model.StatusSent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.SentAt == nil || !item.SentAt.Equal(queueNow) {
		t.Errorf("expected SentAt stamped, got %v", item.SentAt)
	}

	svc = newTestQueueService(itemInStatus(model.StatusSent), knownContactRepo())
	item, err = svc.UpdateStatus(context.Background(), "q1", model.StatusResponded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.RepliedAt == nil || !item.RepliedAt.Equal(queueNow) {
		t.Errorf("expected RepliedAt stamped, got %v", item.RepliedAt)
	}
}

func TestQueueService_UpdateStatus_RevertApprovedToDraft(t *testing.T) {
	svc := newTestQueueService(itemInStatus(model.StatusApproved), knownContactRepo())

	item, err := svc.UpdateStatus(context.Background(), "q1", model.StatusDraft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Status != model.StatusDraft {
		t.Errorf("expected status draft, got %q", item.Status)
	}
}

func TestQueueService_UpdateStatus_SentCannotGoBack(t *testing.T) {
	svc := newTestQueueService(itemInStatus(model.StatusSent), knownContactRepo())

	_, err := svc.UpdateStatus(context.Background(), "q1", model.StatusDraft)
	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if invalid.From != model.StatusSent || invalid.To != model.StatusDraft {
		t.Errorf("unexpected transition in error: %+v", invalid)
	}
}

func TestQueueService_UpdateStatus_RespondedIsTerminal(t *testing.T) {
	svc := newTestQueueService(itemInStatus(model.StatusResponded), knownContactRepo())

	for _, to := range []model.QueueStatus{model.StatusDraft, model.StatusApproved, model.StatusSent} {
		if _, err := svc.UpdateStatus(context.Background(), "q1", to); err == nil {
			t.Errorf("expected responded → %s rejected", to)
		}
	}
}

func TestQueueService_UpdateStatus_NoSkippingStates(t *testing.T) {
	svc := newTestQueueService(itemInStatus(model.StatusDraft), knownContactRepo())

	if _, err := svc.UpdateStatus(context.Background(), "q1", model.StatusSent); err == nil {
		t.Error("expected draft → sent rejected")
	}
	if _, err := svc.UpdateStatus(context.Background(), "q1", model.StatusResponded); err == nil {
		t.Error("expected draft → responded rejected")
	}
}

// ---------------------------------------------------------------------------
// QueueService.UpdateMessage tests
// ---------------------------------------------------------------------------

func TestQueueService_UpdateMessage_DraftOnly(t *testing.T) {
	var updated *model.QueueItem
	queue := itemInStatus(model.StatusDraft)
	queue.updateFunc = func(ctx context.Context, item *model.QueueItem) error {
		updated = item
		return nil
	}
	svc := newTestQueueService(queue, knownContactRepo())

	item, err := svc.UpdateMessage(context.Background(), "q1", "new text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.GeneratedMessage != "new text" {
		t.Errorf("expected message replaced, got %q", item.GeneratedMessage)
	}
	if updated == nil {
		t.Error("expected Update to be called")
	}
}

func TestQueueService_UpdateMessage_RejectsNonDraft(t *testing.T) {
	for _, status := range []model.QueueStatus{model.StatusApproved, model.StatusSent, model.StatusResponded} {
		svc := newTestQueueService(itemInStatus(status), knownContactRepo())
		_, err := svc.UpdateMessage(context.Background(), "q1", "new text")
		var invalid *InvalidTransitionError
		if !errors.As(err, &invalid) {
			t.Errorf("status %s: expected InvalidTransitionError, got %v", status, err)
		}
	}
}

// ---------------------------------------------------------------------------
// QueueService.Delete tests
// ---------------------------------------------------------------------------

func TestQueueService_Delete_ActiveOnly(t *testing.T) {
	for _, status := range model.ActiveStatuses {
		deleted := false
		queue := itemInStatus(status)
		queue.deleteFunc = func(ctx context.Context, id string) error {
			deleted = true
			return nil
		}
		svc := newTestQueueService(queue, knownContactRepo())

		if err := svc.Delete(context.Background(), "q1"); err != nil {
			t.Errorf("status %s: unexpected error: %v", status, err)
		}
		if !deleted {
			t.Errorf("status %s: expected Delete to be called", status)
		}
	}
}

func TestQueueService_Delete_RetainsSentHistory(t *testing.T) {
	for _, status := range []model.QueueStatus{model.StatusSent, model.StatusResponded} {
		queue := itemInStatus(status)
		queue.deleteFunc = func(ctx context.Context, id string) error {
			t.Errorf("status %s: Delete must not reach the repository", status)
			return nil
		}
		svc := newTestQueueService(queue, knownContactRepo())

		if err := svc.Delete(context.Background(), "q1"); err == nil {
			t.Errorf("status %s: expected delete rejected", status)
		}
	}
}

// ---------------------------------------------------------------------------
// QueueService.List and Stats tests
// ---------------------------------------------------------------------------

func TestQueueService_List_DefaultsLimit(t *testing.T) {
	var captured model.QueueListOptions
	queue := &mockQueueRepository{
		listFunc: func(ctx context.Context, opts model.QueueListOptions) ([]*model.QueueItemWithContact, int, error) {
			captured = opts
			return nil, 0, nil
		},
	}
	svc := newTestQueueService(queue, knownContactRepo())

	if _, _, err := svc.List(context.Background(), model.QueueListOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.Limit != 50 {
		t.Errorf("expected default limit 50, got %d", captured.Limit)
	}
}

func TestQueueService_Stats_Passthrough(t *testing.T) {
	queue := &mockQueueRepository{
		statsFunc: func(ctx context.Context) (*model.QueueStats, error) {
			return &model.QueueStats{
				Total:    3,
				ByStatus: map[model.QueueStatus]int{model.StatusDraft: 2, model.StatusSent: 1},
			}, nil
		},
	}
	svc := newTestQueueService(queue, knownContactRepo())

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Total != 3 || stats.ByStatus[model.StatusDraft] != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
