package safety

import (
	"context"
	"errors"
	"log/slog"

	"industriguard/internal/bootstrap/logging"
	domainsafety "industriguard/internal/domain/safety"
	"industriguard/internal/errs"
	"industriguard/internal/ports"
)

// IngestResult reports the outcome of one accepted detection report.
type IngestResult struct {
	ViolationID uint64
	AlertRaised bool
}

// IngestReport classifies one detection report, persists the violation and
// the conditional alert as a single transaction, then hands the update to
// the broadcast hub. Ordering is strict persist-then-broadcast: a dashboard
// never sees a pushed record before it is queryable.
func (s *Service) IngestReport(ctx context.Context, report domainsafety.Report) (IngestResult, error) {
	if ctx == nil {
		return IngestResult{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return IngestResult{}, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return IngestResult{}, errors.New("safety repository is required")
	}
	if s.uow == nil {
		return IngestResult{}, errors.New("safety unit of work is required")
	}

	violation, alert := domainsafety.Classify(report)
	timestamp := formatTimestamp(s.now())

	var created ports.ViolationRecord
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		var createErr error
		created, createErr = s.repo.CreateViolation(txCtx, ports.ViolationCreate{
			Timestamp:         timestamp,
			RiskLevel:         violation.RiskLevel,
			Score:             violation.Score,
			MissingPPE:        violation.MissingPPE,
			PostureDeviation:  violation.PostureDeviation,
			InactivitySeconds: violation.InactivitySeconds,
			PPEScore:          violation.PPEScore,
			PostureScore:      violation.PostureScore,
			InactivityScore:   violation.InactivityScore,
			CameraID:          violation.CameraID,
		})
		if createErr != nil {
			return createErr
		}

		if alert == nil {
			return nil
		}
		if _, createErr = s.repo.CreateAlert(txCtx, ports.AlertCreate{
			Timestamp:  timestamp,
			RiskLevel:  alert.RiskLevel,
			Score:      alert.Score,
			MissingPPE: alert.MissingPPE,
			CameraID:   alert.CameraID,
		}); createErr != nil {
			return createErr
		}
		return nil
	}); err != nil {
		return IngestResult{}, errs.Wrap(err, "persist report")
	}

	if s.hub != nil {
		missingPPE := report.MissingPPE
		if missingPPE == nil {
			missingPPE = []string{}
		}
		s.hub.Broadcast(ctx, ports.SafetyUpdate{
			RiskLevel:         violation.RiskLevel,
			Score:             violation.Score,
			MissingPPE:        missingPPE,
			PostureDeviation:  violation.PostureDeviation,
			InactivitySeconds: violation.InactivitySeconds,
			CameraID:          violation.CameraID,
			Timestamp:         timestamp,
		})
	}

	logging.Info(ctx, "report ingested",
		slog.Uint64("violation_id", created.ViolationID),
		slog.String("risk_level", violation.RiskLevel),
		slog.Bool("alert", alert != nil),
	)

	return IngestResult{
		ViolationID: created.ViolationID,
		AlertRaised: alert != nil,
	}, nil
}
