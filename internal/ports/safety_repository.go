package ports

import (
	"context"
	"errors"
)

var ErrAlertNotFound = errors.New("alert not found")

// ViolationRecord is the persisted audit record of one detection cycle.
// Timestamps are UTC text in "2006-01-02 15:04:05" form; the fixed width
// makes lexicographic comparison chronological.
type ViolationRecord struct {
	ViolationID       uint64
	Timestamp         string
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

type ViolationCreate struct {
	Timestamp         string
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

// AlertRecord is the persisted actionable record. Resolved is the only field
// any store operation mutates, and only false -> true.
type AlertRecord struct {
	AlertID    uint64
	Timestamp  string
	RiskLevel  string
	Score      float64
	MissingPPE string
	CameraID   string
	Resolved   bool
}

type AlertCreate struct {
	Timestamp  string
	RiskLevel  string
	Score      float64
	MissingPPE string
	CameraID   string
}

// RiskLevelCount is one row of the all-time risk distribution.
type RiskLevelCount struct {
	RiskLevel string
	Count     int64
}

type SafetyReadRepository interface {
	// ListViolations returns up to limit violations, newest first; equal
	// timestamps order by descending id.
	ListViolations(ctx context.Context, limit int) ([]ViolationRecord, error)
	// ListViolationsSince returns every violation with timestamp >= since
	// (inclusive), oldest first.
	ListViolationsSince(ctx context.Context, since string) ([]ViolationRecord, error)
	// CountViolations counts violations, optionally bounded by an inclusive
	// since timestamp and/or an exact risk level (empty string = no filter).
	CountViolations(ctx context.Context, since string, riskLevel string) (int64, error)
	// CountViolationsByRiskLevel returns the all-time per-level counts.
	CountViolationsByRiskLevel(ctx context.Context) ([]RiskLevelCount, error)
	// AverageScore averages violation scores with timestamp >= since;
	// zero when no rows match.
	AverageScore(ctx context.Context, since string) (float64, error)
	ListAlerts(ctx context.Context, limit int) ([]AlertRecord, error)
	CountUnresolvedAlerts(ctx context.Context) (int64, error)
}

type SafetyRepository interface {
	SafetyReadRepository
	CreateViolation(ctx context.Context, input ViolationCreate) (ViolationRecord, error)
	CreateAlert(ctx context.Context, input AlertCreate) (AlertRecord, error)
	// ResolveAlert marks an alert resolved. Resolving an already-resolved
	// alert succeeds; an unknown id returns ErrAlertNotFound.
	ResolveAlert(ctx context.Context, alertID uint64) error
}
