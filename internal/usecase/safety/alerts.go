package safety

import (
	"context"
	"errors"

	"industriguard/internal/errs"
)

const defaultAlertLimit = 20

// ListAlerts returns recent alerts for the dashboard alert panel, newest
// first. A non-positive limit falls back to the default of 20.
func (s *Service) ListAlerts(ctx context.Context, limit int) ([]AlertItem, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return nil, errors.New("safety repository is required")
	}

	if limit <= 0 {
		limit = defaultAlertLimit
	}

	rows, err := s.repo.ListAlerts(ctx, limit)
	if err != nil {
		return nil, err
	}

	items := make([]AlertItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, AlertItem{
			AlertID:    row.AlertID,
			Timestamp:  row.Timestamp,
			RiskLevel:  row.RiskLevel,
			Score:      row.Score,
			MissingPPE: row.MissingPPE,
			CameraID:   row.CameraID,
			Resolved:   row.Resolved,
		})
	}
	return items, nil
}

// ResolveAlert marks one alert resolved. Resolving twice succeeds silently;
// an unknown id surfaces ports.ErrAlertNotFound for the HTTP 404 mapping.
func (s *Service) ResolveAlert(ctx context.Context, alertID uint64) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return errors.New("safety repository is required")
	}

	return s.repo.ResolveAlert(ctx, alertID)
}
