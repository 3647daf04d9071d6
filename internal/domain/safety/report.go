package safety

// Report is one JSON submission from the AI detection layer describing one
// detection cycle. Every field is optional on the wire; Classify applies the
// defaults.
type Report struct {
	RiskLevel         string         `json:"risk_level"`
	Score             float64        `json:"score"`
	Breakdown         ScoreBreakdown `json:"breakdown"`
	MissingPPE        []string       `json:"missing_ppe"`
	PostureDeviation  float64        `json:"posture_deviation"`
	InactivitySeconds float64        `json:"inactivity_seconds"`
	CameraID          string         `json:"camera_id"`
}

// ScoreBreakdown carries the per-signal sub-scores of a report.
type ScoreBreakdown struct {
	PPEScore        float64 `json:"ppe_score"`
	PostureScore    float64 `json:"posture_score"`
	InactivityScore float64 `json:"inactivity_score"`
}

// Violation is the normalized audit record derived from one report. It is
// immutable once persisted; id and timestamp are assigned by the store.
type Violation struct {
	RiskLevel         string
	Score             float64
	MissingPPE        string
	PostureDeviation  float64
	InactivitySeconds float64
	PPEScore          float64
	PostureScore      float64
	InactivityScore   float64
	CameraID          string
}

// Alert is the actionable record derived from a MEDIUM or HIGH report.
// It starts unresolved; resolution is the only mutation the store allows.
type Alert struct {
	RiskLevel  string
	Score      float64
	MissingPPE string
	CameraID   string
}
