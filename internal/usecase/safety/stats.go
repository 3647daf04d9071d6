package safety

import (
	"context"
	"errors"
	"sort"
	"time"

	domainsafety "industriguard/internal/domain/safety"
	"industriguard/internal/errs"
)

const defaultTrendWindowHours = 24

// Stats is the dashboard summary card payload. "Today" means the store-clock
// date boundary at UTC midnight; Distribution is all-time.
type Stats struct {
	TotalToday       int64
	HighToday        int64
	AvgScore         float64
	UnresolvedAlerts int64
	Distribution     Distribution
}

// Distribution is the all-time violation count per known risk level.
type Distribution struct {
	Low    int64
	Medium int64
	High   int64
}

// TrendBucket is one hour-of-day bucket of the trend chart.
type TrendBucket struct {
	Hour   string
	Low    int64
	Medium int64
	High   int64
}

// Stats computes the dashboard summary on demand; no caching, query volume
// is dashboard-refresh-rate.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	if ctx == nil {
		return Stats{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Stats{}, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return Stats{}, errors.New("safety repository is required")
	}

	todayStart := startOfDay(s.now())

	totalToday, err := s.repo.CountViolations(ctx, todayStart, "")
	if err != nil {
		return Stats{}, err
	}
	highToday, err := s.repo.CountViolations(ctx, todayStart, domainsafety.RiskHigh)
	if err != nil {
		return Stats{}, err
	}
	avgScore, err := s.repo.AverageScore(ctx, todayStart)
	if err != nil {
		return Stats{}, err
	}
	unresolved, err := s.repo.CountUnresolvedAlerts(ctx)
	if err != nil {
		return Stats{}, err
	}
	levelCounts, err := s.repo.CountViolationsByRiskLevel(ctx)
	if err != nil {
		return Stats{}, err
	}

	var distribution Distribution
	for _, row := range levelCounts {
		switch row.RiskLevel {
		case domainsafety.RiskLow:
			distribution.Low = row.Count
		case domainsafety.RiskMedium:
			distribution.Medium = row.Count
		case domainsafety.RiskHigh:
			distribution.High = row.Count
		}
	}

	return Stats{
		TotalToday:       totalToday,
		HighToday:        highToday,
		AvgScore:         round1(avgScore),
		UnresolvedAlerts: unresolved,
		Distribution:     distribution,
	}, nil
}

// Trend buckets every violation of the trailing window by the hour-of-day
// component of its timestamp. Records from different days sharing an hour
// label land in the same bucket; dashboards depend on that shape, so it is
// kept as-is. Empty buckets are omitted; output sorts by hour label.
func (s *Service) Trend(ctx context.Context, windowHours int) ([]TrendBucket, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return nil, errors.New("safety repository is required")
	}

	if windowHours <= 0 {
		windowHours = defaultTrendWindowHours
	}
	since := formatTimestamp(s.now().UTC().Add(-time.Duration(windowHours) * time.Hour))

	rows, err := s.repo.ListViolationsSince(ctx, since)
	if err != nil {
		return nil, err
	}

	hourly := make(map[string]*TrendBucket)
	for _, row := range rows {
		hour, ok := hourLabel(row.Timestamp)
		if !ok {
			continue
		}
		bucket, exists := hourly[hour]
		if !exists {
			bucket = &TrendBucket{Hour: hour}
			hourly[hour] = bucket
		}
		switch row.RiskLevel {
		case domainsafety.RiskLow:
			bucket.Low++
		case domainsafety.RiskMedium:
			bucket.Medium++
		case domainsafety.RiskHigh:
			bucket.High++
		}
	}

	buckets := make([]TrendBucket, 0, len(hourly))
	for _, bucket := range hourly {
		buckets = append(buckets, *bucket)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Hour < buckets[j].Hour
	})
	return buckets, nil
}
