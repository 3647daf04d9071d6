package safety

import (
	"context"
	"errors"

	"industriguard/internal/errs"
)

const defaultLogLimit = 50

// ListViolations returns recent violation logs, newest first. A non-positive
// limit falls back to the default of 50.
func (s *Service) ListViolations(ctx context.Context, limit int) ([]ViolationItem, error) {
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
		limit = defaultLogLimit
	}

	rows, err := s.repo.ListViolations(ctx, limit)
	if err != nil {
		return nil, err
	}

	items := make([]ViolationItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, ViolationItem{
			ViolationID:       row.ViolationID,
			Timestamp:         row.Timestamp,
			RiskLevel:         row.RiskLevel,
			Score:             row.Score,
			MissingPPE:        row.MissingPPE,
			PostureDeviation:  row.PostureDeviation,
			InactivitySeconds: row.InactivitySeconds,
			PPEScore:          row.PPEScore,
			PostureScore:      row.PostureScore,
			InactivityScore:   row.InactivityScore,
			CameraID:          row.CameraID,
		})
	}
	return items, nil
}
