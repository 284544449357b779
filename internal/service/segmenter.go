package service

import (
	"strings"

	"github.com/rekindle/backend/internal/config"
	"github.com/rekindle/backend/internal/model"
)

// Segmenter classifies contacts into the fixed audience segments. Pure
// function of the contact's current attributes and the target company list;
// repeated classification of unchanged input yields the same tag set.
type Segmenter struct {
	cfg config.SegmentConfig
}

// NewSegmenter creates a Segmenter with the given gazetteers and keywords.
func NewSegmenter(cfg config.SegmentConfig) *Segmenter {
	return &Segmenter{cfg: cfg}
}

// Classify returns the segment tags for a contact. targetNames must be
// lowercased company names.
func (s *Segmenter) Classify(c *model.Contact, targetNames []string) []model.Segment {
	var tags []model.Segment
	if s.isMujerTech(c) {
		tags = append(tags, model.SegmentMujerTech)
	}
	if s.isCascadia(c) {
		tags = append(tags, model.SegmentCascadia)
	}
	if s.isJobTarget(c, targetNames) {
		tags = append(tags, model.SegmentJobTarget)
	}
	return tags
}

// isMujerTech matches on the LATAM location gazetteer.
func (s *Segmenter) isMujerTech(c *model.Contact) bool {
	return containsAny(strings.ToLower(c.Location), s.cfg.LatamLocations)
}

// isCascadia requires a Pacific Northwest location and an AI/ML keyword in
// the contact's headline, position, company or about text.
func (s *Segmenter) isCascadia(c *model.Contact) bool {
	if !containsAny(strings.ToLower(c.Location), s.cfg.PNWLocations) {
		return false
	}
	text := strings.ToLower(c.Headline + " " + c.Position + " " + c.Company + " " + c.About)
	return containsAny(text, s.cfg.AIKeywords)
}

// isJobTarget matches the contact's company against each target name:
// equal, or either string contains the other (so "Google" matches
// "Google Cloud" and "Stripe" matches "Stripe, Inc.").
func (s *Segmenter) isJobTarget(c *model.Contact, targetNames []string) bool {
	company := strings.ToLower(c.Company)
	if company == "" {
		return false
	}
	for _, target := range targetNames {
		if company == target || strings.Contains(company, target) || strings.Contains(target, company) {
			return true
		}
	}
	return false
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
