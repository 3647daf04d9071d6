package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"industriguard/internal/errs"
	"industriguard/internal/infrastructure/persistence/sqlite/model"
	"industriguard/internal/ports"
)

type SafetyRepository struct {
	db *gorm.DB
}

func NewSafetyRepository(db *gorm.DB) *SafetyRepository {
	return &SafetyRepository{db: db}
}

func (r *SafetyRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func (r *SafetyRepository) CreateViolation(ctx context.Context, input ports.ViolationCreate) (ports.ViolationRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.ViolationRecord{}, err
	}

	row := model.Violation{
		Timestamp:         input.Timestamp,
		RiskLevel:         input.RiskLevel,
		Score:             input.Score,
		MissingPPE:        input.MissingPPE,
		PostureDeviation:  input.PostureDeviation,
		InactivitySeconds: input.InactivitySeconds,
		PPEScore:          input.PPEScore,
		PostureScore:      input.PostureScore,
		InactivityScore:   input.InactivityScore,
		CameraID:          input.CameraID,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.ViolationRecord{}, errs.Wrap(err, "insert violation")
	}
	return mapViolation(row), nil
}

func (r *SafetyRepository) CreateAlert(ctx context.Context, input ports.AlertCreate) (ports.AlertRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.AlertRecord{}, err
	}

	row := model.Alert{
		Timestamp:  input.Timestamp,
		RiskLevel:  input.RiskLevel,
		Score:      input.Score,
		MissingPPE: input.MissingPPE,
		CameraID:   input.CameraID,
		Resolved:   false,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.AlertRecord{}, errs.Wrap(err, "insert alert")
	}
	return mapAlert(row), nil
}

func (r *SafetyRepository) ResolveAlert(ctx context.Context, alertID uint64) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	var row model.Alert
	if err := db.First(&row, "alert_id = ?", alertID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ErrAlertNotFound
		}
		return errs.Wrap(err, "query alert")
	}
	if row.Resolved {
		// Idempotent: resolving twice is not an error.
		return nil
	}

	if err := db.Model(&model.Alert{}).
		Where("alert_id = ?", alertID).
		Update("resolved", true).Error; err != nil {
		return errs.Wrap(err, "update alert resolved")
	}
	return nil
}

func (r *SafetyRepository) ListViolations(ctx context.Context, limit int) ([]ports.ViolationRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.Violation{}).Order("timestamp desc, violation_id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []model.Violation
	if err := query.Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query violations")
	}

	items := make([]ports.ViolationRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapViolation(row))
	}
	return items, nil
}

func (r *SafetyRepository) ListViolationsSince(ctx context.Context, since string) ([]ports.ViolationRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Violation
	if err := db.Model(&model.Violation{}).
		Where("timestamp >= ?", since).
		Order("timestamp asc, violation_id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query violations since")
	}

	items := make([]ports.ViolationRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapViolation(row))
	}
	return items, nil
}

func (r *SafetyRepository) CountViolations(ctx context.Context, since string, riskLevel string) (int64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return 0, err
	}

	query := db.Model(&model.Violation{})
	if since != "" {
		query = query.Where("timestamp >= ?", since)
	}
	if level := strings.TrimSpace(riskLevel); level != "" {
		query = query.Where("risk_level = ?", level)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, errs.Wrap(err, "count violations")
	}
	return count, nil
}

func (r *SafetyRepository) CountViolationsByRiskLevel(ctx context.Context) ([]ports.RiskLevelCount, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		RiskLevel string
		Count     int64
	}
	if err := db.Model(&model.Violation{}).
		Select("risk_level, count(violation_id) as count").
		Group("risk_level").
		Scan(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "group violations by risk level")
	}

	items := make([]ports.RiskLevelCount, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.RiskLevelCount{
			RiskLevel: row.RiskLevel,
			Count:     row.Count,
		})
	}
	return items, nil
}

func (r *SafetyRepository) AverageScore(ctx context.Context, since string) (float64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return 0, err
	}

	query := db.Model(&model.Violation{})
	if since != "" {
		query = query.Where("timestamp >= ?", since)
	}

	// avg() over zero rows yields NULL; an empty day reads as 0, not an error.
	var avg sql.NullFloat64
	if err := query.Select("avg(score)").Row().Scan(&avg); err != nil {
		return 0, errs.Wrap(err, "average violation score")
	}
	if !avg.Valid {
		return 0, nil
	}
	return avg.Float64, nil
}

func (r *SafetyRepository) ListAlerts(ctx context.Context, limit int) ([]ports.AlertRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.Alert{}).Order("timestamp desc, alert_id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []model.Alert
	if err := query.Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query alerts")
	}

	items := make([]ports.AlertRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapAlert(row))
	}
	return items, nil
}

func (r *SafetyRepository) CountUnresolvedAlerts(ctx context.Context) (int64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := db.Model(&model.Alert{}).
		Where("resolved = ?", false).
		Count(&count).Error; err != nil {
		return 0, errs.Wrap(err, "count unresolved alerts")
	}
	return count, nil
}

func mapViolation(row model.Violation) ports.ViolationRecord {
	return ports.ViolationRecord{
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
	}
}

func mapAlert(row model.Alert) ports.AlertRecord {
	return ports.AlertRecord{
		AlertID:    row.AlertID,
		Timestamp:  row.Timestamp,
		RiskLevel:  row.RiskLevel,
		Score:      row.Score,
		MissingPPE: row.MissingPPE,
		CameraID:   row.CameraID,
		Resolved:   row.Resolved,
	}
}
