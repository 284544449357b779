package model

import "time"

// QueueStatus is the workflow state of an outreach queue item.
// Legal transitions: draft → approved → sent → responded, plus
// approved → draft (revert). Responded is terminal.
type QueueStatus string

const (
	StatusDraft     QueueStatus = "draft"
	StatusApproved  QueueStatus = "approved"
	StatusSent      QueueStatus = "sent"
	StatusResponded QueueStatus = "responded"
)

// ActiveStatuses are the statuses that count toward the one-active-item-per-
// contact invariant.
var ActiveStatuses = []QueueStatus{StatusDraft, StatusApproved}

// QueueItem is one planned outreach message for a contact.
type QueueItem struct {
	ID               string      `json:"id"`
	ContactID        string      `json:"contact_id"`
	UseCase          string      `json:"use_case"`
	OutreachType     string      `json:"outreach_type"`
	Purpose          string      `json:"purpose"`
	GeneratedMessage string      `json:"generated_message,omitempty"`
	Status           QueueStatus `json:"status"`

	CreatedAt  time.Time  `json:"created_at"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	SentAt     *time.Time `json:"sent_at,omitempty"`
	RepliedAt  *time.Time `json:"replied_at,omitempty"`
}

// QueueItemWithContact is a queue item joined with contact info for listing.
type QueueItemWithContact struct {
	QueueItem
	ContactName     string `json:"contact_name"`
	ContactHeadline string `json:"contact_headline,omitempty"`
	ContactCompany  string `json:"contact_company,omitempty"`
}

// QueueListOptions carries filter and pagination parameters for listing
// queue items. Empty Status/UseCase match everything.
type QueueListOptions struct {
	Status  QueueStatus
	UseCase string
	Limit   int
	Offset  int
}

// QueueStats aggregates queue item counts.
type QueueStats struct {
	Total     int                 `json:"total"`
	ByStatus  map[QueueStatus]int `json:"by_status"`
	ByUseCase map[string]int      `json:"by_use_case"`
}
