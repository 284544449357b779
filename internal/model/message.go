package model

import "time"

// Message is a single direct message exchanged with a contact. Rows are
// created by ingestion; the core only reads them and backfills IsSubstantive.
type Message struct {
	ID        string    `json:"id"`
	ContactID string    `json:"contact_id"`
	Direction Direction `json:"direction"`
	Date      time.Time `json:"date"`
	Subject   string    `json:"subject,omitempty"`
	Content   string    `json:"content,omitempty"`

	// IsSubstantive is nil until the backfill has classified the message.
	IsSubstantive *bool `json:"is_substantive,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// SubstantiveUpdate carries one message's computed substantive flag for a
// batch write.
type SubstantiveUpdate struct {
	MessageID     string
	IsSubstantive bool
}
