package ports

import "context"

// SafetyUpdate is the payload pushed to every connected dashboard session as
// a "safety_update" event. Field names are part of the dashboard contract.
type SafetyUpdate struct {
	RiskLevel         string   `json:"risk_level"`
	Score             float64  `json:"score"`
	MissingPPE        []string `json:"missing_ppe"`
	PostureDeviation  float64  `json:"posture_deviation"`
	InactivitySeconds float64  `json:"inactivity_seconds"`
	CameraID          string   `json:"camera_id"`
	Timestamp         string   `json:"timestamp"`
	Message           string   `json:"message,omitempty"`
}

// Broadcaster fans one update out to all connected sessions, best effort.
// Delivery failures stay inside the implementation; ingestion never sees them.
type Broadcaster interface {
	Broadcast(ctx context.Context, update SafetyUpdate)
}
