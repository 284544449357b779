package service

import (
	"context"
	"time"

	"github.com/rekindle/backend/internal/model"
	"github.com/rekindle/backend/internal/repository"
)

// ---------------------------------------------------------------------------
// Mock ContactRepository
// ---------------------------------------------------------------------------

type mockContactRepository struct {
	getByIDFunc             func(ctx context.Context, id string) (*model.Contact, error)
	listAllFunc             func(ctx context.Context) ([]*model.Contact, error)
	listUnsegmentedFunc     func(ctx context.Context) ([]*model.Contact, error)
	listWithWarmthFunc      func(ctx context.Context) ([]*model.Contact, error)
	listDormantFunc         func(ctx context.Context, minWarmth int, before time.Time) ([]*model.Contact, error)
	listLastReceivedFunc    func(ctx context.Context) ([]*model.Contact, error)
	listAwaitingReplyFunc   func(ctx context.Context, minWarmth int, since time.Time) ([]*model.Contact, error)
	updateWarmthFunc        func(ctx context.Context, u model.WarmthUpdate) error
	updateWarmthBatchFunc   func(ctx context.Context, updates []model.WarmthUpdate) error
	updateSegmentsBatchFunc func(ctx context.Context, updates []model.SegmentUpdate) error
}

func (m *mockContactRepository) GetByID(ctx context.Context, id string) (*model.Contact, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (m *mockContactRepository) ListAll(ctx context.Context) ([]*model.Contact, error) {
	if m.listAllFunc != nil {
		return m.listAllFunc(ctx)
	}
	return nil, nil
}
func (m *mockContactRepository) ListUnsegmented(ctx context.Context) ([]*model.Contact, error) {
	if m.listUnsegmentedFunc != nil {
		return m.listUnsegmentedFunc(ctx)
	}
	return nil, nil
}
func (m *mockContactRepository) ListWithWarmth(ctx context.Context) ([]*model.Contact, error) {
	if m.listWithWarmthFunc != nil {
		return m.listWithWarmthFunc(ctx)
	}
	return nil, nil
}
func (m *mockContactRepository) ListDormant(ctx context.Context, minWarmth int, before time.Time) ([]*model.Contact, error) {
	if m.listDormantFunc != nil {
		return m.listDormantFunc(ctx, minWarmth, before)
	}
	return nil, nil
}
func (m *mockContactRepository) ListLastReceived(ctx context.Context) ([]*model.Contact, error) {
	if m.listLastReceivedFunc != nil {
		return m.listLastReceivedFunc(ctx)
	}
	return nil, nil
}
func (m *mockContactRepository) ListAwaitingReply(ctx context.Context, minWarmth int, since time.Time) ([]*model.Contact, error) {
	if m.listAwaitingReplyFunc != nil {
		return m.listAwaitingReplyFunc(ctx, minWarmth, since)
	}
	return nil, nil
}
func (m *mockContactRepository) UpdateWarmth(ctx context.Context, u model.WarmthUpdate) error {
	if m.updateWarmthFunc != nil {
		return m.updateWarmthFunc(ctx, u)
	}
	return nil
}
func (m *mockContactRepository) UpdateWarmthBatch(ctx context.Context, updates []model.WarmthUpdate) error {
	if m.updateWarmthBatchFunc != nil {
		return m.updateWarmthBatchFunc(ctx, updates)
	}
	return nil
}
func (m *mockContactRepository) UpdateSegmentsBatch(ctx context.Context, updates []model.SegmentUpdate) error {
	if m.updateSegmentsBatchFunc != nil {
		return m.updateSegmentsBatchFunc(ctx, updates)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mock MessageRepository
// ---------------------------------------------------------------------------

type mockMessageRepository struct {
	listByContactFunc       func(ctx context.Context, contactID string) ([]*model.Message, error)
	listSentSinceFunc       func(ctx context.Context, since time.Time) ([]*model.Message, error)
	latestReceivedFunc      func(ctx context.Context, contactID string, since time.Time) (*model.Message, error)
	listUnflaggedFunc       func(ctx context.Context) ([]*model.Message, error)
	setSubstantiveBatchFunc func(ctx context.Context, updates []model.SubstantiveUpdate) error
}

func (m *mockMessageRepository) ListByContact(ctx context.Context, contactID string) ([]*model.Message, error) {
	if m.listByContactFunc != nil {
		return m.listByContactFunc(ctx, contactID)
	}
	return nil, nil
}
func (m *mockMessageRepository) ListSentSince(ctx context.Context, since time.Time) ([]*model.Message, error) {
	if m.listSentSinceFunc != nil {
		return m.listSentSinceFunc(ctx, since)
	}
	return nil, nil
}
func (m *mockMessageRepository) LatestReceived(ctx context.Context, contactID string, since time.Time) (*model.Message, error) {
	if m.latestReceivedFunc != nil {
		return m.latestReceivedFunc(ctx, contactID, since)
	}
	return nil, repository.ErrNotFound
}
func (m *mockMessageRepository) ListUnflagged(ctx context.Context) ([]*model.Message, error) {
	if m.listUnflaggedFunc != nil {
		return m.listUnflaggedFunc(ctx)
	}
	return nil, nil
}
func (m *mockMessageRepository) SetSubstantiveBatch(ctx context.Context, updates []model.SubstantiveUpdate) error {
	if m.setSubstantiveBatchFunc != nil {
		return m.setSubstantiveBatchFunc(ctx, updates)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mock ResurrectionRepository
// ---------------------------------------------------------------------------

type mockResurrectionRepository struct {
	upsertBatchFunc           func(ctx context.Context, ups []model.OpportunityUpsert) ([]bool, error)
	listActiveFunc            func(ctx context.Context) ([]*model.ResurrectionOpportunity, error)
	listActiveByContactFunc   func(ctx context.Context, contactID string) ([]*model.ResurrectionOpportunity, error)
	listActiveWithContactFunc func(ctx context.Context, hookType model.Hook, limit int) ([]*model.OpportunityWithContact, error)
	hasActiveFunc             func(ctx context.Context, contactID string, hookType model.Hook) (bool, error)
	dismissFunc               func(ctx context.Context, id string) error
}

func (m *mockResurrectionRepository) UpsertBatch(ctx context.Context, ups []model.OpportunityUpsert) ([]bool, error) {
	if m.upsertBatchFunc != nil {
		return m.upsertBatchFunc(ctx, ups)
	}
	inserted := make([]bool, len(ups))
	for i := range inserted {
		inserted[i] = true
	}
	return inserted, nil
}
func (m *mockResurrectionRepository) ListActive(ctx context.Context) ([]*model.ResurrectionOpportunity, error) {
	if m.listActiveFunc != nil {
		return m.listActiveFunc(ctx)
	}
	return nil, nil
}
func (m *mockResurrectionRepository) ListActiveByContact(ctx context.Context, contactID string) ([]*model.ResurrectionOpportunity, error) {
	if m.listActiveByContactFunc != nil {
		return m.listActiveByContactFunc(ctx, contactID)
	}
	return nil, nil
}
func (m *mockResurrectionRepository) ListActiveWithContact(ctx context.Context, hookType model.Hook, limit int) ([]*model.OpportunityWithContact, error) {
	if m.listActiveWithContactFunc != nil {
		return m.listActiveWithContactFunc(ctx, hookType, limit)
	}
	return nil, nil
}
func (m *mockResurrectionRepository) HasActive(ctx context.Context, contactID string, hookType model.Hook) (bool, error) {
	if m.hasActiveFunc != nil {
		return m.hasActiveFunc(ctx, contactID, hookType)
	}
	return false, nil
}
func (m *mockResurrectionRepository) Dismiss(ctx context.Context, id string) error {
	if m.dismissFunc != nil {
		return m.dismissFunc(ctx, id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mock QueueRepository
// ---------------------------------------------------------------------------

type mockQueueRepository struct {
	createDraftFunc      func(ctx context.Context, item *model.QueueItem) error
	getByIDFunc          func(ctx context.Context, id string) (*model.QueueItem, error)
	listFunc             func(ctx context.Context, opts model.QueueListOptions) ([]*model.QueueItemWithContact, int, error)
	updateFunc           func(ctx context.Context, item *model.QueueItem) error
	deleteFunc           func(ctx context.Context, id string) error
	statsFunc            func(ctx context.Context) (*model.QueueStats, error)
	activeContactIDsFunc func(ctx context.Context) (map[string]bool, error)
	hasActiveFunc        func(ctx context.Context, contactID string) (bool, error)
}

func (m *mockQueueRepository) CreateDraft(ctx context.Context, item *model.QueueItem) error {
	if m.createDraftFunc != nil {
		return m.createDraftFunc(ctx, item)
	}
	return nil
}
func (m *mockQueueRepository) GetByID(ctx context.Context, id string) (*model.QueueItem, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (m *mockQueueRepository) List(ctx context.Context, opts model.QueueListOptions) ([]*model.QueueItemWithContact, int, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return nil, 0, nil
}
func (m *mockQueueRepository) Update(ctx context.Context, item *model.QueueItem) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, item)
	}
	return nil
}
func (m *mockQueueRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}
func (m *mockQueueRepository) Stats(ctx context.Context) (*model.QueueStats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx)
	}
	return &model.QueueStats{}, nil
}
func (m *mockQueueRepository) ActiveContactIDs(ctx context.Context) (map[string]bool, error) {
	if m.activeContactIDsFunc != nil {
		return m.activeContactIDsFunc(ctx)
	}
	return map[string]bool{}, nil
}
func (m *mockQueueRepository) HasActive(ctx context.Context, contactID string) (bool, error) {
	if m.hasActiveFunc != nil {
		return m.hasActiveFunc(ctx, contactID)
	}
	return false, nil
}

// ---------------------------------------------------------------------------
// Mock TargetCompanyRepository
// ---------------------------------------------------------------------------

type mockTargetCompanyRepository struct {
	listFunc      func(ctx context.Context) ([]*model.TargetCompany, error)
	listNamesFunc func(ctx context.Context) ([]string, error)
	createFunc    func(ctx context.Context, tc *model.TargetCompany) error
	deleteFunc    func(ctx context.Context, id string) error
}

func (m *mockTargetCompanyRepository) List(ctx context.Context) ([]*model.TargetCompany, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}
func (m *mockTargetCompanyRepository) ListNames(ctx context.Context) ([]string, error) {
	if m.listNamesFunc != nil {
		return m.listNamesFunc(ctx)
	}
	return nil, nil
}
func (m *mockTargetCompanyRepository) Create(ctx context.Context, tc *model.TargetCompany) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, tc)
	}
	return nil
}
func (m *mockTargetCompanyRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}
