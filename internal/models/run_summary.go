package models

import "time"

// RunSummary aggregates all solves seen so far.
type RunSummary struct {
	Total     int            `json:"total"`
	Failed    int            `json:"failed"`
	ByKind    map[string]int `json:"by_kind,omitempty"` // failure kind -> count
	LastRunID string         `json:"last_run_id,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}
