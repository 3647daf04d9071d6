package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"industriguard/internal/bootstrap/logging"
	domainsafety "industriguard/internal/domain/safety"
	"industriguard/internal/errs"
	"industriguard/internal/ports"
	usecasesafety "industriguard/internal/usecase/safety"
)

const serviceName = "IndustriGuard AI Backend"

// Handler serves the REST side of the dashboard API.
type Handler struct {
	svc *usecasesafety.Service
}

func NewHandler(svc *usecasesafety.Service) *Handler {
	return &Handler{svc: svc}
}

type reportResponse struct {
	Status string `json:"status"`
	ID     uint64 `json:"id"`
}

type resolveResponse struct {
	Status string `json:"status"`
	ID     uint64 `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type violationResponse struct {
	ID                uint64  `json:"id"`
	Timestamp         string  `json:"timestamp"`
	RiskLevel         string  `json:"risk_level"`
	Score             float64 `json:"score"`
	MissingPPE        string  `json:"missing_ppe"`
	PostureDeviation  float64 `json:"posture_deviation"`
	InactivitySeconds float64 `json:"inactivity_seconds"`
	PPEScore          float64 `json:"ppe_score"`
	PostureScore      float64 `json:"posture_score"`
	InactivityScore   float64 `json:"inactivity_score"`
	CameraID          string  `json:"camera_id"`
}

type alertResponse struct {
	ID         uint64  `json:"id"`
	Timestamp  string  `json:"timestamp"`
	RiskLevel  string  `json:"risk_level"`
	Score      float64 `json:"score"`
	MissingPPE string  `json:"missing_ppe"`
	CameraID   string  `json:"camera_id"`
	Resolved   bool    `json:"resolved"`
}

type statsResponse struct {
	TotalToday       int64                `json:"total_today"`
	HighToday        int64                `json:"high_today"`
	AvgScore         float64              `json:"avg_score"`
	UnresolvedAlerts int64                `json:"unresolved_alerts"`
	Distribution     distributionResponse `json:"distribution"`
}

type distributionResponse struct {
	Low    int64 `json:"LOW"`
	Medium int64 `json:"MEDIUM"`
	High   int64 `json:"HIGH"`
}

type trendBucketResponse struct {
	Hour   string `json:"hour"`
	Low    int64  `json:"LOW"`
	Medium int64  `json:"MEDIUM"`
	High   int64  `json:"HIGH"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
}

// handleReport accepts one detection cycle from the AI layer. A missing or
// unparseable body is the caller's problem (400, no retry); storage failures
// surface as 500 and nothing is broadcast.
func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No data received"})
		return
	}

	var report domainsafety.Report
	if err := json.Unmarshal(body, &report); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No data received"})
		return
	}

	result, err := h.svc.IngestReport(ctx, report)
	if err != nil {
		logging.Error(ctx, "report ingestion failed", slog.Any("err", errs.Loggable(err)))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to store report"})
		return
	}

	writeJSON(w, http.StatusOK, reportResponse{Status: "received", ID: result.ViolationID})
}

func (h *Handler) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.svc.ListAlerts(ctx, limitParam(r, 20))
	if err != nil {
		logging.Error(ctx, "list alerts failed", slog.Any("err", errs.Loggable(err)))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to load alerts"})
		return
	}

	out := make([]alertResponse, 0, len(items))
	for _, item := range items {
		out = append(out, alertResponse{
			ID:         item.AlertID,
			Timestamp:  item.Timestamp,
			RiskLevel:  item.RiskLevel,
			Score:      item.Score,
			MissingPPE: item.MissingPPE,
			CameraID:   item.CameraID,
			Resolved:   item.Resolved,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleResolveAlert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	alertID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Alert not found"})
		return
	}

	if err := h.svc.ResolveAlert(ctx, alertID); err != nil {
		if errors.Is(err, ports.ErrAlertNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "Alert not found"})
			return
		}
		logging.Error(ctx, "resolve alert failed", slog.Any("err", errs.Loggable(err)))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to resolve alert"})
		return
	}

	writeJSON(w, http.StatusOK, resolveResponse{Status: "resolved", ID: alertID})
}

func (h *Handler) handleListLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.svc.ListViolations(ctx, limitParam(r, 50))
	if err != nil {
		logging.Error(ctx, "list logs failed", slog.Any("err", errs.Loggable(err)))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to load logs"})
		return
	}

	out := make([]violationResponse, 0, len(items))
	for _, item := range items {
		out = append(out, violationResponse{
			ID:                item.ViolationID,
			Timestamp:         item.Timestamp,
			RiskLevel:         item.RiskLevel,
			Score:             item.Score,
			MissingPPE:        item.MissingPPE,
			PostureDeviation:  item.PostureDeviation,
			InactivitySeconds: item.InactivitySeconds,
			PPEScore:          item.PPEScore,
			PostureScore:      item.PostureScore,
			InactivityScore:   item.InactivityScore,
			CameraID:          item.CameraID,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.svc.Stats(ctx)
	if err != nil {
		logging.Error(ctx, "stats failed", slog.Any("err", errs.Loggable(err)))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to compute stats"})
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		TotalToday:       stats.TotalToday,
		HighToday:        stats.HighToday,
		AvgScore:         stats.AvgScore,
		UnresolvedAlerts: stats.UnresolvedAlerts,
		Distribution: distributionResponse{
			Low:    stats.Distribution.Low,
			Medium: stats.Distribution.Medium,
			High:   stats.Distribution.High,
		},
	})
}

func (h *Handler) handleTrend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	hours := 0
	if raw := r.URL.Query().Get("hours"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			hours = parsed
		}
	}

	buckets, err := h.svc.Trend(ctx, hours)
	if err != nil {
		logging.Error(ctx, "trend failed", slog.Any("err", errs.Loggable(err)))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to compute trend"})
		return
	}

	out := make([]trendBucketResponse, 0, len(buckets))
	for _, bucket := range buckets {
		out = append(out, trendBucketResponse{
			Hour:   bucket.Hour,
			Low:    bucket.Low,
			Medium: bucket.Medium,
			High:   bucket.High,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "running",
		Timestamp: time.Now().UTC().Format("2006-01-02 15:04:05"),
		Service:   serviceName,
	})
}

func limitParam(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
