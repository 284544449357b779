package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rekindle/backend/internal/config"
	"github.com/rekindle/backend/internal/model"
	"github.com/rekindle/backend/internal/repository"
)

// PriorityBreakdown shows each weighted component of a priority score.
type PriorityBreakdown struct {
	WarmthComponent  float64 `json:"warmth_component"`
	SegmentComponent float64 `json:"segment_component"`
	UrgencyComponent float64 `json:"urgency_component"`
}

// HookRef is an active opportunity summarized for ranking output.
type HookRef struct {
	HookType   model.Hook `json:"hook_type"`
	HookDetail string     `json:"hook_detail,omitempty"`
}

// Recommendation is one ranked outreach suggestion.
type Recommendation struct {
	ContactID         string            `json:"contact_id"`
	ContactName       string            `json:"contact_name"`
	ContactCompany    string            `json:"contact_company,omitempty"`
	ContactHeadline   string            `json:"contact_headline,omitempty"`
	LinkedInURL       string            `json:"contact_linkedin_url,omitempty"`
	WarmthScore       int               `json:"warmth_score"`
	SegmentTags       []model.Segment   `json:"segment_tags,omitempty"`
	PriorityScore     float64           `json:"priority_score"`
	PriorityBreakdown PriorityBreakdown `json:"priority_breakdown"`
	Reasons           []string          `json:"reasons"`
	ResurrectionHooks []HookRef         `json:"resurrection_hooks,omitempty"`
}

// RecommendationsResult is a ranked recommendation list.
type RecommendationsResult struct {
	Recommendations []*Recommendation `json:"recommendations"`
	TotalEligible   int               `json:"total_eligible"`
	GeneratedAt     time.Time         `json:"generated_at"`
}

// ContactPriority is the priority computation for a single contact.
type ContactPriority struct {
	ContactID         string            `json:"contact_id"`
	ContactName       string            `json:"contact_name"`
	PriorityScore     float64           `json:"priority_score"`
	PriorityBreakdown PriorityBreakdown `json:"priority_breakdown"`
	Reasons           []string          `json:"reasons"`
	ResurrectionHooks []HookRef         `json:"resurrection_hooks,omitempty"`
	InQueue           bool              `json:"in_queue"`
}

// RankingService combines warmth, segment relevance and opportunity urgency
// into a single composite priority per contact.
type RankingService interface {
	// DailyRecommendations ranks contacts with warmth > 0 that are not in
	// the active queue, highest priority first. segment "" matches all.
	DailyRecommendations(ctx context.Context, limit int, segment model.Segment) (*RecommendationsResult, error)
	// ContactPriority computes the breakdown for one contact, or returns
	// ErrNotFound.
	ContactPriority(ctx context.Context, contactID string) (*ContactPriority, error)
}

type rankingService struct {
	contacts repository.ContactRepository
	opps     repository.ResurrectionRepository
	queue    repository.QueueRepository
	cfg      config.RankingConfig
	now      func() time.Time
}

// NewRankingService creates a RankingService with the given weights.
func NewRankingService(
	contacts repository.ContactRepository,
	opps repository.ResurrectionRepository,
	queue repository.QueueRepository,
	cfg config.RankingConfig,
) RankingService {
	return &rankingService{contacts: contacts, opps: opps, queue: queue, cfg: cfg, now: time.Now}
}

// segmentScore awards points per distinct tag across segment and manual
// tags, capped, plus a bonus when job_target is present. Never exceeds 100.
func (s *rankingService) segmentScore(segmentTags []model.Segment, manualTags []string) int {
	if len(segmentTags) == 0 && len(manualTags) == 0 {
		return 0
	}

	all := make(map[string]bool)
	for _, t := range segmentTags {
		all[string(t)] = true
	}
	for _, t := range manualTags {
		all[t] = true
	}

	score := len(all) * s.cfg.SegmentPoints
	if score > s.cfg.SegmentCap {
		score = s.cfg.SegmentCap
	}
	if all[string(model.SegmentJobTarget)] {
		score += s.cfg.JobTargetBonus
	}
	if score > 100 {
		score = 100
	}
	return score
}

// urgencyScore is the highest severity among the contact's active hooks.
func (s *rankingService) urgencyScore(hooks []HookRef) int {
	max := 0
	for _, h := range hooks {
		if severity := s.cfg.Urgency[h.HookType]; severity > max {
			max = severity
		}
	}
	return max
}

func (s *rankingService) priorityScore(warmth, segmentScore, urgencyScore int) float64 {
	raw := float64(warmth)*s.cfg.WarmthWeight +
		float64(segmentScore)*s.cfg.SegmentWeight +
		float64(urgencyScore)*s.cfg.UrgencyWeight
	return round1(raw)
}

// reasons lists why to reach out: active hooks first in retrieval order,
// then segment memberships, then a warmth tier when warm enough.
func (s *rankingService) reasons(warmth int, segmentTags []model.Segment, hooks []HookRef) []string {
	reasons := []string{}
	for _, h := range hooks {
		if desc, ok := s.cfg.HookDescriptions[h.HookType]; ok {
			reasons = append(reasons, desc)
		}
	}
	for _, tag := range segmentTags {
		if desc, ok := s.cfg.SegmentDescriptions[tag]; ok {
			reasons = append(reasons, desc)
		}
	}
	switch {
	case warmth >= s.cfg.StrongWarmth:
		reasons = append(reasons, "Strong relationship")
	case warmth >= s.cfg.WarmWarmth:
		reasons = append(reasons, "Warm relationship")
	}
	return reasons
}

func (s *rankingService) score(c *model.Contact, hooks []HookRef) (float64, PriorityBreakdown, []string) {
	segmentScore := s.segmentScore(c.SegmentTags, c.ManualTags)
	urgencyScore := s.urgencyScore(hooks)
	priority := s.priorityScore(c.WarmthScore, segmentScore, urgencyScore)
	breakdown := PriorityBreakdown{
		WarmthComponent:  round1(float64(c.WarmthScore) * s.cfg.WarmthWeight),
		SegmentComponent: round1(float64(segmentScore) * s.cfg.SegmentWeight),
		UrgencyComponent: round1(float64(urgencyScore) * s.cfg.UrgencyWeight),
	}
	return priority, breakdown, s.reasons(c.WarmthScore, c.SegmentTags, hooks)
}

func (s *rankingService) DailyRecommendations(ctx context.Context, limit int, segment model.Segment) (*RecommendationsResult, error) {
	queued, err := s.queue.ActiveContactIDs(ctx)
	if err != nil {
		return nil, err
	}
	contacts, err := s.contacts.ListWithWarmth(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.opps.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	hooksByContact := make(map[string][]HookRef)
	for _, o := range active {
		hooksByContact[o.ContactID] = append(hooksByContact[o.ContactID],
			HookRef{HookType: o.HookType, HookDetail: o.HookDetail})
	}

	result := &RecommendationsResult{
		Recommendations: []*Recommendation{},
		GeneratedAt:     s.now(),
	}
	for _, c := range contacts {
		if segment != "" && !c.HasSegment(segment) {
			continue
		}
		if queued[c.ID] {
			continue
		}
		result.TotalEligible++

		hooks := hooksByContact[c.ID]
		priority, breakdown, reasons := s.score(c, hooks)
		result.Recommendations = append(result.Recommendations, &Recommendation{
			ContactID:         c.ID,
			ContactName:       c.Name,
			ContactCompany:    c.Company,
			ContactHeadline:   c.Headline,
			LinkedInURL:       c.LinkedInURL,
			WarmthScore:       c.WarmthScore,
			SegmentTags:       c.SegmentTags,
			PriorityScore:     priority,
			PriorityBreakdown: breakdown,
			Reasons:           reasons,
			ResurrectionHooks: hooks,
		})
	}

	sort.SliceStable(result.Recommendations, func(i, j int) bool {
		return result.Recommendations[i].PriorityScore > result.Recommendations[j].PriorityScore
	})
	if limit > 0 && len(result.Recommendations) > limit {
		result.Recommendations = result.Recommendations[:limit]
	}
	return result, nil
}

func (s *rankingService) ContactPriority(ctx context.Context, contactID string) (*ContactPriority, error) {
	c, err := s.contacts.GetByID(ctx, contactID)
	if err != nil {
		return nil, err
	}
	active, err := s.opps.ListActiveByContact(ctx, contactID)
	if err != nil {
		return nil, err
	}
	inQueue, err := s.queue.HasActive(ctx, contactID)
	if err != nil {
		return nil, err
	}

	hooks := make([]HookRef, 0, len(active))
	for _, o := range active {
		hooks = append(hooks, HookRef{HookType: o.HookType, HookDetail: o.HookDetail})
	}

	priority, breakdown, reasons := s.score(c, hooks)
	return &ContactPriority{
		ContactID:         c.ID,
		ContactName:       c.Name,
		PriorityScore:     priority,
		PriorityBreakdown: breakdown,
		Reasons:           reasons,
		ResurrectionHooks: hooks,
		InQueue:           inQueue,
	}, nil
}

// round1 rounds to one decimal place.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
