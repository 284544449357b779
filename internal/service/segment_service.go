package service

import (
	"context"

	"github.com/rekindle/backend/internal/model"
	"github.com/rekindle/backend/internal/repository"
)

// SegmentResult holds the stats of a segmentation run.
type SegmentResult struct {
	Processed int `json:"processed"`
	MujerTech int `json:"mujertech"`
	Cascadia  int `json:"cascadia"`
	JobTarget int `json:"job_target"`
	None      int `json:"none"`
}

// SegmentService drives the segmenter over the contact table. Segment tags
// are overwritten wholesale on every run; manual tags are never touched.
type SegmentService interface {
	// SegmentAll reclassifies every contact.
	SegmentAll(ctx context.Context) (*SegmentResult, error)
	// SegmentUntagged classifies only contacts that have never been tagged.
	SegmentUntagged(ctx context.Context) (*SegmentResult, error)
}

type segmentService struct {
	contacts  repository.ContactRepository
	targets   repository.TargetCompanyRepository
	segmenter *Segmenter
}

// NewSegmentService creates a SegmentService using the given segmenter.
func NewSegmentService(contacts repository.ContactRepository, targets repository.TargetCompanyRepository, segmenter *Segmenter) SegmentService {
	return &segmentService{contacts: contacts, targets: targets, segmenter: segmenter}
}

func (s *segmentService) SegmentAll(ctx context.Context) (*SegmentResult, error) {
	contacts, err := s.contacts.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, contacts)
}

func (s *segmentService) SegmentUntagged(ctx context.Context) (*SegmentResult, error) {
	contacts, err := s.contacts.ListUnsegmented(ctx)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, contacts)
}

// run classifies the given contacts and commits all tag updates in one
// transaction.
func (s *segmentService) run(ctx context.Context, contacts []*model.Contact) (*SegmentResult, error) {
	targetNames, err := s.targets.ListNames(ctx)
	if err != nil {
		return nil, err
	}

	result := &SegmentResult{}
	updates := make([]model.SegmentUpdate, 0, len(contacts))
	for _, c := range contacts {
		tags := s.segmenter.Classify(c, targetNames)
		updates = append(updates, model.SegmentUpdate{ContactID: c.ID, Tags: tags})

		result.Processed++
		if len(tags) == 0 {
			result.None++
		}
		for _, tag := range tags {
			switch tag {
			case model.SegmentMujerTech:
				result.MujerTech++
			case model.SegmentCascadia:
				result.Cascadia++
			case model.SegmentJobTarget:
				result.JobTarget++
			}
		}
	}

	if err := s.contacts.UpdateSegmentsBatch(ctx, updates); err != nil {
		return nil, err
	}
	return result, nil
}
