package model

import "time"

// Hook is the category of a resurrection opportunity.
type Hook string

const (
	HookDormant            Hook = "dormant"
	HookPromiseMade        Hook = "promise_made"
	HookQuestionUnanswered Hook = "question_unanswered"
	HookTheyWaiting        Hook = "they_waiting"
)

// ResurrectionOpportunity is a detected reason to re-engage a contact.
// At most one row exists per (contact, hook type); rescans update in place.
// Dismissing sets IsActive false, rows are never hard-deleted.
type ResurrectionOpportunity struct {
	ID              string    `json:"id"`
	ContactID       string    `json:"contact_id"`
	HookType        Hook      `json:"hook_type"`
	HookDetail      string    `json:"hook_detail,omitempty"`
	SourceMessageID string    `json:"source_message_id,omitempty"`
	DetectedAt      time.Time `json:"detected_at"`
	IsActive        bool      `json:"is_active"`
}

// OpportunityUpsert is one detector finding, keyed by (ContactID, HookType).
// Applying it either inserts a new active row or overwrites the detail,
// source reference and detection time of the existing one, forcing it active.
type OpportunityUpsert struct {
	ContactID       string
	HookType        Hook
	HookDetail      string
	SourceMessageID string
	DetectedAt      time.Time
}

// OpportunityWithContact is an active opportunity joined with contact info
// for listing.
type OpportunityWithContact struct {
	ResurrectionOpportunity
	ContactName     string `json:"contact_name"`
	ContactCompany  string `json:"contact_company,omitempty"`
	ContactHeadline string `json:"contact_headline,omitempty"`
	LinkedInURL     string `json:"contact_linkedin_url,omitempty"`
	WarmthScore     int    `json:"warmth_score"`
}
