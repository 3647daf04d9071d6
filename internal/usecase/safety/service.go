package safety

import (
	"time"

	"industriguard/internal/ports"
)

// Service implements the ingestion and read-side usecases around the safety
// record store.
type Service struct {
	repo ports.SafetyRepository
	uow  ports.UnitOfWork
	hub  ports.Broadcaster
	now  func() time.Time
}

// NewService wires the safety usecases with the repository, the transaction
// boundary, and the broadcast hub. The hub is fixed at construction and is
// the only push path out of ingestion.
func NewService(repo ports.SafetyRepository, uow ports.UnitOfWork, hub ports.Broadcaster) *Service {
	return &Service{
		repo: repo,
		uow:  uow,
		hub:  hub,
		now:  time.Now,
	}
}

// WithClock replaces the store-wide clock. Tests use it to pin timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// ViolationItem is one row of the logs table response.
type ViolationItem struct {
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

// AlertItem is one row of the dashboard alert panel.
type AlertItem struct {
	AlertID    uint64
	Timestamp  string
	RiskLevel  string
	Score      float64
	MissingPPE string
	CameraID   string
	Resolved   bool
}
