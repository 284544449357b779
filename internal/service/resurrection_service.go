package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rekindle/backend/internal/config"
	"github.com/rekindle/backend/internal/model"
	"github.com/rekindle/backend/internal/repository"
)

// ScanStats counts one detector's findings.
type ScanStats struct {
	Found   int `json:"found"`
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// ScanResult aggregates a full scan across all four detectors.
type ScanResult struct {
	Found   int                       `json:"found"`
	Created int                       `json:"created"`
	Updated int                       `json:"updated"`
	ByType  map[model.Hook]*ScanStats `json:"by_type"`
}

// ResurrectionService detects re-engagement opportunities from message
// patterns: dormant warm contacts, unfulfilled promises, unanswered
// questions, and contacts waiting on a reply.
type ResurrectionService interface {
	// RunFullScan runs all four detectors and commits their upserts as one
	// atomic batch; a failure leaves no partial writes.
	RunFullScan(ctx context.Context) (*ScanResult, error)
	// Dismiss deactivates an opportunity. Returns false for an unknown id;
	// dismissing an already-dismissed opportunity is a no-op success.
	Dismiss(ctx context.Context, id string) (bool, error)
	// ListActive returns active opportunities with contact info, warmest
	// first. hookType "" matches all hooks.
	ListActive(ctx context.Context, hookType model.Hook, limit int) ([]*model.OpportunityWithContact, error)
}

type resurrectionService struct {
	contacts repository.ContactRepository
	messages repository.MessageRepository
	opps     repository.ResurrectionRepository
	cfg      config.ScanConfig

	promiseRe  *regexp.Regexp
	questionRe *regexp.Regexp
	shallowQs  []*regexp.Regexp

	now func() time.Time
}

// NewResurrectionService compiles the scan phrase lists from the config.
func NewResurrectionService(
	contacts repository.ContactRepository,
	messages repository.MessageRepository,
	opps repository.ResurrectionRepository,
	cfg config.ScanConfig,
) (ResurrectionService, error) {
	promiseRe, err := regexp.Compile("(?i)" + strings.Join(cfg.PromisePatterns, "|"))
	if err != nil {
		return nil, fmt.Errorf("promise patterns: %w", err)
	}
	s := &resurrectionService{
		contacts:   contacts,
		messages:   messages,
		opps:       opps,
		cfg:        cfg,
		promiseRe:  promiseRe,
		questionRe: regexp.MustCompile(`[^.!?]*\?`),
		now:        time.Now,
	}
	for _, p := range cfg.ShallowQuestions {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("shallow question pattern %q: %w", p, err)
		}
		s.shallowQs = append(s.shallowQs, re)
	}
	return s, nil
}

func (s *resurrectionService) RunFullScan(ctx context.Context) (*ScanResult, error) {
	now := s.now()

	dormant, err := s.scanDormant(ctx, now)
	if err != nil {
		return nil, err
	}
	promises, err := s.scanPromises(ctx, now)
	if err != nil {
		return nil, err
	}
	questions, questionContacts, err := s.scanQuestions(ctx, now)
	if err != nil {
		return nil, err
	}
	// The more specific unanswered-question hook suppresses they_waiting,
	// including questions found in this same scan.
	waiting, err := s.scanWaiting(ctx, now, questionContacts)
	if err != nil {
		return nil, err
	}

	var all []model.OpportunityUpsert
	all = append(all, dormant...)
	all = append(all, promises...)
	all = append(all, questions...)
	all = append(all, waiting...)

	inserted, err := s.opps.UpsertBatch(ctx, all)
	if err != nil {
		return nil, err
	}

	result := &ScanResult{ByType: map[model.Hook]*ScanStats{
		model.HookDormant:            {},
		model.HookPromiseMade:        {},
		model.HookQuestionUnanswered: {},
		model.HookTheyWaiting:        {},
	}}
	for i, u := range all {
		stats := result.ByType[u.HookType]
		stats.Found++
		result.Found++
		if inserted[i] {
			stats.Created++
			result.Created++
		} else {
			stats.Updated++
			result.Updated++
		}
	}
	return result, nil
}

// scanDormant flags warm contacts whose last message is older than the
// dormancy window.
func (s *resurrectionService) scanDormant(ctx context.Context, now time.Time) ([]model.OpportunityUpsert, error) {
	cutoff := now.AddDate(0, 0, -s.cfg.DormantDays)
	contacts, err := s.contacts.ListDormant(ctx, s.cfg.DormantMinWarmth, cutoff)
	if err != nil {
		return nil, err
	}

	var ups []model.OpportunityUpsert
	for _, c := range contacts {
		if c.LastMessageDate == nil {
			continue
		}
		days := daysBetween(*c.LastMessageDate, now)
		ups = append(ups, model.OpportunityUpsert{
			ContactID:  c.ID,
			HookType:   model.HookDormant,
			HookDetail: fmt.Sprintf("Last message was %d days ago. Warmth score: %d", days, c.WarmthScore),
			DetectedAt: now,
		})
	}
	return ups, nil
}

// scanPromises flags, per contact, the earliest sent message in the
// lookback window that contains a commitment phrase and has no later sent
// message to that contact.
func (s *resurrectionService) scanPromises(ctx context.Context, now time.Time) ([]model.OpportunityUpsert, error) {
	cutoff := now.AddDate(0, 0, -s.cfg.PromiseLookbackDays)
	messages, err := s.messages.ListSentSince(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	// Group per contact, preserving the oldest-first retrieval order.
	byContact := make(map[string][]*model.Message)
	var order []string
	for _, m := range messages {
		if _, seen := byContact[m.ContactID]; !seen {
			order = append(order, m.ContactID)
		}
		byContact[m.ContactID] = append(byContact[m.ContactID], m)
	}

	var ups []model.OpportunityUpsert
	for _, contactID := range order {
		msgs := byContact[contactID]
		for i, m := range msgs {
			if !s.promiseRe.MatchString(m.Content) {
				continue
			}
			followedUp := false
			for _, later := range msgs[i+1:] {
				if later.Date.After(m.Date) {
					followedUp = true
					break
				}
			}
			if followedUp {
				continue
			}

			sentence := s.extractPromise(m.Content)
			days := daysBetween(m.Date, now)
			ups = append(ups, model.OpportunityUpsert{
				ContactID:       contactID,
				HookType:        model.HookPromiseMade,
				HookDetail:      fmt.Sprintf("You said: \"%s\" (%d days ago)", sentence, days),
				SourceMessageID: m.ID,
				DetectedAt:      now,
			})
			break // one promise per contact, the earliest unfollowed one
		}
	}
	return ups, nil
}

// extractPromise returns the sentence containing the first promise phrase,
// bounded by the nearest periods and truncated for the hook detail.
func (s *resurrectionService) extractPromise(content string) string {
	loc := s.promiseRe.FindStringIndex(content)
	if loc == nil {
		return ""
	}

	start := strings.LastIndex(content[:loc[0]], ".")
	start++ // -1 (not found) becomes 0, otherwise skip the period

	end := strings.Index(content[loc[1]:], ".")
	if end >= 0 {
		end += loc[1] + 1
	} else {
		end = len(content)
	}

	return truncateRunes(strings.TrimSpace(content[start:end]), s.cfg.DetailMaxLen)
}

// scanQuestions flags contacts whose most recent message is a received one
// within the lookback window containing a substantive question. Returns the
// set of flagged contact IDs alongside the upserts.
func (s *resurrectionService) scanQuestions(ctx context.Context, now time.Time) ([]model.OpportunityUpsert, map[string]bool, error) {
	contacts, err := s.contacts.ListLastReceived(ctx)
	if err != nil {
		return nil, nil, err
	}
	cutoff := now.AddDate(0, 0, -s.cfg.QuestionLookbackDays)

	var ups []model.OpportunityUpsert
	flagged := make(map[string]bool)
	for _, c := range contacts {
		msg, err := s.messages.LatestReceived(ctx, c.ID, cutoff)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		if msg.Content == "" {
			continue
		}

		question := s.lastQualifyingQuestion(msg.Content)
		if question == "" {
			continue
		}

		days := daysBetween(msg.Date, now)
		ups = append(ups, model.OpportunityUpsert{
			ContactID:       c.ID,
			HookType:        model.HookQuestionUnanswered,
			HookDetail:      fmt.Sprintf("They asked: \"%s\" (%d days ago)", truncateRunes(question, s.cfg.DetailMaxLen), days),
			SourceMessageID: msg.ID,
			DetectedAt:      now,
		})
		flagged[c.ID] = true
	}
	return ups, flagged, nil
}

// lastQualifyingQuestion returns the last sentence ending in "?" that is
// neither a shallow question nor too short to mean anything, trimmed.
func (s *resurrectionService) lastQualifyingQuestion(content string) string {
	if !strings.Contains(content, "?") {
		return ""
	}

	var last string
	for _, q := range s.questionRe.FindAllString(content, -1) {
		if utf8.RuneCountInString(q) <= s.cfg.MinQuestionLen {
			continue
		}
		shallow := false
		for _, re := range s.shallowQs {
			if re.MatchString(q) {
				shallow = true
				break
			}
		}
		if !shallow {
			last = q
		}
	}
	return strings.TrimSpace(last)
}

// scanWaiting flags engaged contacts whose most recent message is a recent
// received one, unless the unanswered-question hook already covers them.
func (s *resurrectionService) scanWaiting(ctx context.Context, now time.Time, questionContacts map[string]bool) ([]model.OpportunityUpsert, error) {
	cutoff := now.AddDate(0, 0, -s.cfg.QuestionLookbackDays)
	contacts, err := s.contacts.ListAwaitingReply(ctx, s.cfg.WaitingMinWarmth, cutoff)
	if err != nil {
		return nil, err
	}

	var ups []model.OpportunityUpsert
	for _, c := range contacts {
		if c.LastMessageDate == nil || questionContacts[c.ID] {
			continue
		}
		if active, err := s.opps.HasActive(ctx, c.ID, model.HookQuestionUnanswered); err != nil {
			return nil, err
		} else if active {
			continue
		}

		days := daysBetween(*c.LastMessageDate, now)
		ups = append(ups, model.OpportunityUpsert{
			ContactID:  c.ID,
			HookType:   model.HookTheyWaiting,
			HookDetail: fmt.Sprintf("Their last message was %d days ago. Ball is in your court.", days),
			DetectedAt: now,
		})
	}
	return ups, nil
}

func (s *resurrectionService) Dismiss(ctx context.Context, id string) (bool, error) {
	err := s.opps.Dismiss(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *resurrectionService) ListActive(ctx context.Context, hookType model.Hook, limit int) ([]*model.OpportunityWithContact, error) {
	return s.opps.ListActiveWithContact(ctx, hookType, limit)
}

// truncateRunes shortens s to max runes, marking the cut with an ellipsis.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
