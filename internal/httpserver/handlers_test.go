package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"industriguard/internal/infrastructure/persistence/sqlite/model"
	sqliterepo "industriguard/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "industriguard/internal/infrastructure/persistence/sqlite/uow"
	usecasesafety "industriguard/internal/usecase/safety"
)

func setupRouter(t *testing.T) (http.Handler, *Hub) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "safety.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(&model.Violation{}, &model.Alert{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	hub := NewHub()
	svc := usecasesafety.NewService(
		sqliterepo.NewSafetyRepository(db),
		sqliteuow.NewUnitOfWork(db),
		hub,
	)
	return NewRouter(svc, hub), hub
}

func doJSON(t *testing.T, router http.Handler, method string, path string, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Body.String(), "{") {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func TestPostReportStoresAndReturnsID(t *testing.T) {
	router, _ := setupRouter(t)

	rec, payload := doJSON(t, router, http.MethodPost, "/api/report",
		`{"risk_level":"HIGH","score":87,"missing_ppe":["Helmet","Vest"],"camera_id":"CAM-02"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/report status = %d body = %s", rec.Code, rec.Body.String())
	}
	if payload["status"] != "received" {
		t.Fatalf("status = %v", payload["status"])
	}
	if payload["id"] == nil || payload["id"].(float64) <= 0 {
		t.Fatalf("id = %v", payload["id"])
	}

	rec, _ = doJSON(t, router, http.MethodGet, "/api/alerts?limit=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/alerts status = %d", rec.Code)
	}
	var alerts []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &alerts); err != nil {
		t.Fatalf("decode alerts: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("alerts = %v", alerts)
	}
	alert := alerts[0]
	if alert["risk_level"] != "HIGH" || alert["score"].(float64) != 87 {
		t.Fatalf("alert = %v", alert)
	}
	if alert["missing_ppe"] != "Helmet, Vest" {
		t.Fatalf("missing_ppe = %v", alert["missing_ppe"])
	}
	if alert["resolved"] != false {
		t.Fatalf("resolved = %v", alert["resolved"])
	}
}

func TestPostReportEmptyBodyRejected(t *testing.T) {
	router, _ := setupRouter(t)

	rec, payload := doJSON(t, router, http.MethodPost, "/api/report", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if payload["error"] != "No data received" {
		t.Fatalf("error = %v", payload["error"])
	}

	// Nothing persisted.
	rec, _ = doJSON(t, router, http.MethodGet, "/api/logs", "")
	var logs []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &logs); err != nil {
		t.Fatalf("decode logs: %v", err)
	}
	if len(logs) != 0 {
		t.Fatalf("logs = %v", logs)
	}
}

func TestPostReportMalformedBodyRejected(t *testing.T) {
	router, _ := setupRouter(t)

	rec, payload := doJSON(t, router, http.MethodPost, "/api/report", `{"risk_level":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if payload["error"] != "No data received" {
		t.Fatalf("error = %v", payload["error"])
	}
}

func TestResolveAlertEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	if rec, _ := doJSON(t, router, http.MethodPost, "/api/report",
		`{"risk_level":"MEDIUM","score":55}`); rec.Code != http.StatusOK {
		t.Fatalf("seed report status = %d", rec.Code)
	}

	rec, _ := doJSON(t, router, http.MethodGet, "/api/alerts", "")
	var alerts []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &alerts); err != nil {
		t.Fatalf("decode alerts: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("alerts = %v", alerts)
	}
	alertID := int(alerts[0]["id"].(float64))

	rec, payload := doJSON(t, router, http.MethodPatch,
		"/api/alerts/"+strconv.Itoa(alertID)+"/resolve", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("resolve status = %d", rec.Code)
	}
	if payload["status"] != "resolved" || int(payload["id"].(float64)) != alertID {
		t.Fatalf("resolve payload = %v", payload)
	}

	// Idempotent.
	rec, _ = doJSON(t, router, http.MethodPatch,
		"/api/alerts/"+strconv.Itoa(alertID)+"/resolve", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("second resolve status = %d", rec.Code)
	}
}

func TestResolveUnknownAlertIs404(t *testing.T) {
	router, _ := setupRouter(t)

	rec, payload := doJSON(t, router, http.MethodPatch, "/api/alerts/999999/resolve", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if payload["error"] != "Alert not found" {
		t.Fatalf("error = %v", payload["error"])
	}
}

func TestStatsEndpointShape(t *testing.T) {
	router, _ := setupRouter(t)

	if rec, _ := doJSON(t, router, http.MethodPost, "/api/report",
		`{"risk_level":"HIGH","score":80}`); rec.Code != http.StatusOK {
		t.Fatalf("seed report status = %d", rec.Code)
	}
	if rec, _ := doJSON(t, router, http.MethodPost, "/api/report",
		`{"score":10}`); rec.Code != http.StatusOK {
		t.Fatalf("seed report status = %d", rec.Code)
	}

	rec, payload := doJSON(t, router, http.MethodGet, "/api/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	for _, key := range []string{"total_today", "high_today", "avg_score", "unresolved_alerts", "distribution"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("stats missing %q: %v", key, payload)
		}
	}
	dist := payload["distribution"].(map[string]any)
	sum := dist["LOW"].(float64) + dist["MEDIUM"].(float64) + dist["HIGH"].(float64)
	if sum != 2 {
		t.Fatalf("distribution sum = %v", sum)
	}
	if payload["avg_score"].(float64) != 45 {
		t.Fatalf("avg_score = %v", payload["avg_score"])
	}
}

func TestTrendEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	if rec, _ := doJSON(t, router, http.MethodPost, "/api/report",
		`{"risk_level":"HIGH","score":70}`); rec.Code != http.StatusOK {
		t.Fatalf("seed report status = %d", rec.Code)
	}

	rec, _ := doJSON(t, router, http.MethodGet, "/api/trend", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var buckets []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &buckets); err != nil {
		t.Fatalf("decode trend: %v", err)
	}
	if len(buckets) != 1 {
		t.Fatalf("trend = %v", buckets)
	}
	hour := buckets[0]["hour"].(string)
	if len(hour) != 5 || !strings.HasSuffix(hour, ":00") {
		t.Fatalf("hour label = %q", hour)
	}
	if buckets[0]["HIGH"].(float64) != 1 {
		t.Fatalf("trend bucket = %v", buckets[0])
	}
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	rec, payload := doJSON(t, router, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if payload["status"] != "running" {
		t.Fatalf("status field = %v", payload["status"])
	}
	if payload["service"] != serviceName {
		t.Fatalf("service = %v", payload["service"])
	}
	if _, err := time.Parse("2006-01-02 15:04:05", payload["timestamp"].(string)); err != nil {
		t.Fatalf("timestamp format: %v", err)
	}
}

func TestLogsEndpointNewestFirst(t *testing.T) {
	router, _ := setupRouter(t)

	if rec, _ := doJSON(t, router, http.MethodPost, "/api/report",
		`{"score":1,"camera_id":"CAM-01"}`); rec.Code != http.StatusOK {
		t.Fatalf("seed report status = %d", rec.Code)
	}
	if rec, _ := doJSON(t, router, http.MethodPost, "/api/report",
		`{"score":2,"camera_id":"CAM-02"}`); rec.Code != http.StatusOK {
		t.Fatalf("seed report status = %d", rec.Code)
	}

	rec, _ := doJSON(t, router, http.MethodGet, "/api/logs?limit=10", "")
	var logs []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &logs); err != nil {
		t.Fatalf("decode logs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("logs = %v", logs)
	}
	if logs[0]["camera_id"] != "CAM-02" || logs[1]["camera_id"] != "CAM-01" {
		t.Fatalf("log order = %v,%v", logs[0]["camera_id"], logs[1]["camera_id"])
	}
	for _, key := range []string{"id", "timestamp", "risk_level", "score", "missing_ppe",
		"posture_deviation", "inactivity_seconds", "ppe_score", "posture_score",
		"inactivity_score", "camera_id"} {
		if _, ok := logs[0][key]; !ok {
			t.Fatalf("log row missing %q: %v", key, logs[0])
		}
	}
}
