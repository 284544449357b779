package model

import "time"

// TargetCompany is a company the user wants warm paths into. The segmenter
// and ranker consult the name list read-only.
type TargetCompany struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
