package model

import "time"

// Segment is one of the fixed audience segments the segmenter can assign.
// Segment tags are owned by the segmenter and overwritten wholesale on each
// run; user-owned labels live in Contact.ManualTags instead.
type Segment string

const (
	SegmentMujerTech Segment = "mujertech"
	SegmentCascadia  Segment = "cascadia"
	SegmentJobTarget Segment = "job_target"
)

// Direction of a message relative to the account owner.
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

// WarmthBreakdown holds the five component scores that sum to the warmth score.
type WarmthBreakdown struct {
	Recency        int `json:"recency"`
	Frequency      int `json:"frequency"`
	Depth          int `json:"depth"`
	Responsiveness int `json:"responsiveness"`
	Initiation     int `json:"initiation"`
}

// Total returns the sum of the five components.
func (b WarmthBreakdown) Total() int {
	return b.Recency + b.Frequency + b.Depth + b.Responsiveness + b.Initiation
}

// Contact is a person in the relationship database. Profile fields come from
// ingestion; warmth fields are written only by the warmth scorer and segment
// tags only by the segmenter.
type Contact struct {
	ID          string `json:"id"`
	LinkedInURL string `json:"linkedin_url"`
	Name        string `json:"name"`
	Headline    string `json:"headline,omitempty"`
	Location    string `json:"location,omitempty"`
	Company     string `json:"company,omitempty"`
	Position    string `json:"position,omitempty"`
	About       string `json:"about,omitempty"`
	Email       string `json:"email,omitempty"`

	WarmthScore        int             `json:"warmth_score"`
	WarmthBreakdown    WarmthBreakdown `json:"warmth_breakdown"`
	WarmthCalculatedAt *time.Time      `json:"warmth_calculated_at,omitempty"`

	SegmentTags []Segment `json:"segment_tags,omitempty"`
	ManualTags  []string  `json:"manual_tags,omitempty"`

	// Derived from the messages table by ingestion.
	TotalMessages        int        `json:"total_messages"`
	LastMessageDate      *time.Time `json:"last_message_date,omitempty"`
	LastMessageDirection Direction  `json:"last_message_direction,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasSegment reports whether the contact carries the given segment tag.
func (c *Contact) HasSegment(s Segment) bool {
	for _, tag := range c.SegmentTags {
		if tag == s {
			return true
		}
	}
	return false
}

// WarmthUpdate carries one contact's recomputed warmth fields for a batch write.
type WarmthUpdate struct {
	ContactID    string
	Score        int
	Breakdown    WarmthBreakdown
	CalculatedAt time.Time
}

// SegmentUpdate carries one contact's recomputed segment tags for a batch write.
// An empty Tags slice clears the column.
type SegmentUpdate struct {
	ContactID string
	Tags      []Segment
}
