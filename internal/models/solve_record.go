package models

import (
	"encoding/json"
	"time"
)

// Solve statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// SolveRecord is one persisted exchanger solve.
type SolveRecord struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Mode      string          `json:"mode"`                 // Toh_Toc, R_Tic, ...
	Status    string          `json:"status"`               // ok | failed
	ErrorKind string          `json:"error_kind,omitempty"` // exchanger.Kind of the failure
	Error     string          `json:"error,omitempty"`
	MassRatio *float64        `json:"mass_ratio,omitempty"`  // cold/hot
	MinDeltaT *float64        `json:"min_delta_t,omitempty"` // K
	Duty      *float64        `json:"duty,omitempty"`        // W
	UA        *float64        `json:"ua,omitempty"`          // W/K
	Area      *float64        `json:"area,omitempty"`        // m²
	Request   json.RawMessage `json:"request,omitempty"`
	Profile   json.RawMessage `json:"profile,omitempty"`
}
