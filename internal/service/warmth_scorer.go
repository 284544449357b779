package service

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rekindle/backend/internal/config"
	"github.com/rekindle/backend/internal/model"
)

// WarmthScorer derives the 0-100 relationship score and its five-component
// breakdown from a contact's message history. Pure: the same messages and
// clock always produce the same score.
type WarmthScorer struct {
	cfg     config.WarmthConfig
	shallow []*regexp.Regexp
}

// NewWarmthScorer compiles the shallow-reply patterns from the config.
func NewWarmthScorer(cfg config.WarmthConfig) (*WarmthScorer, error) {
	s := &WarmthScorer{cfg: cfg}
	for _, p := range cfg.ShallowReplies {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("shallow reply pattern %q: %w", p, err)
		}
		s.shallow = append(s.shallow, re)
	}
	return s, nil
}

// IsSubstantive reports whether a message carries meaningful content: at
// least the minimum trimmed length and not a throwaway reply.
func (s *WarmthScorer) IsSubstantive(content string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(content))
	if utf8.RuneCountInString(trimmed) < s.cfg.MinSubstantiveLength {
		return false
	}
	for _, re := range s.shallow {
		if re.MatchString(trimmed) {
			return false
		}
	}
	return true
}

// Score computes the warmth score and breakdown for the given message
// history. Zero messages score zero across the board.
func (s *WarmthScorer) Score(messages []*model.Message, now time.Time) (int, model.WarmthBreakdown) {
	var b model.WarmthBreakdown
	if len(messages) == 0 {
		return 0, b
	}

	var last time.Time
	var sent, received int
	var withContent, totalRunes, substantive int
	for _, m := range messages {
		if m.Date.After(last) {
			last = m.Date
		}
		switch m.Direction {
		case model.DirectionSent:
			sent++
		case model.DirectionReceived:
			received++
		}
		if m.Content != "" {
			withContent++
			totalRunes += utf8.RuneCountInString(m.Content)
		}
		if s.IsSubstantive(m.Content) {
			substantive++
		}
	}

	var avgLength float64
	if withContent > 0 {
		avgLength = float64(totalRunes) / float64(withContent)
	}
	substantiveRatio := float64(substantive) / float64(len(messages))

	b.Recency = s.recencyScore(daysBetween(last, now))
	b.Frequency = s.frequencyScore(len(messages))
	b.Depth = s.depthScore(avgLength, substantiveRatio)
	b.Responsiveness = s.responsivenessScore(received, sent)
	b.Initiation = s.initiationScore(sent, received)
	return b.Total(), b
}

// recencyScore gives full points under the fresh window, zero at the stale
// horizon, and a linear decay between.
func (s *WarmthScorer) recencyScore(days int) int {
	cfg := s.cfg
	switch {
	case days < cfg.RecencyFullDays:
		return cfg.RecencyMax
	case days >= cfg.RecencyZeroDays:
		return 0
	}
	score := cfg.RecencyMax - (days-cfg.RecencyFullDays)*cfg.RecencyMax/(cfg.RecencyZeroDays-cfg.RecencyFullDays)
	if score < 0 {
		return 0
	}
	return score
}

func (s *WarmthScorer) frequencyScore(totalMessages int) int {
	if totalMessages >= s.cfg.FrequencyCeiling {
		return s.cfg.FrequencyMax
	}
	return totalMessages * s.cfg.FrequencyMax / s.cfg.FrequencyCeiling
}

// depthScore combines an average-length component with a substantive-ratio
// component.
func (s *WarmthScorer) depthScore(avgLength, substantiveRatio float64) int {
	cfg := s.cfg

	lengthScore := cfg.DepthLengthMax
	if avgLength < float64(cfg.DepthLengthCeiling) {
		lengthScore = int(avgLength * float64(cfg.DepthLengthMax) / float64(cfg.DepthLengthCeiling))
	}

	ratioScore := cfg.DepthRatioMax
	if substantiveRatio < cfg.DepthRatioCeiling {
		ratioScore = int(substantiveRatio * float64(cfg.DepthRatioMax) / cfg.DepthRatioCeiling)
	}

	return lengthScore + ratioScore
}

// responsivenessScore rewards contacts who reply: received over sent,
// capped at an even exchange.
func (s *WarmthScorer) responsivenessScore(received, sent int) int {
	if sent == 0 {
		return 0
	}
	rate := math.Min(float64(received)/float64(sent), 1.0)
	return int(rate * float64(s.cfg.ResponsivenessMax))
}

// initiationScore rewards balanced conversations: full points at 50/50,
// zero when one side does all the talking.
func (s *WarmthScorer) initiationScore(sent, received int) int {
	total := sent + received
	if total == 0 {
		return 0
	}
	sentRatio := float64(sent) / float64(total)
	balance := 1 - math.Abs(sentRatio-0.5)*2
	return int(balance * float64(s.cfg.InitiationMax))
}

// daysBetween returns whole days from t to now.
func daysBetween(t, now time.Time) int {
	return int(now.Sub(t).Hours() / 24)
}
