package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dkoster/smartdca/internal/api/job"
	"github.com/dkoster/smartdca/internal/core"
	"github.com/dkoster/smartdca/internal/dca"
)

// stubProvider serves one canned dip series for known symbols
type stubProvider struct {
	known map[string]bool
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) FetchDaily(symbol string, start, end time.Time) ([]core.PriceBar, error) {
	if !s.known[symbol] {
		return nil, fmt.Errorf("unknown symbol %s", symbol)
	}
	closes := []float64{100, 100, 100, 72, 80}
	bars := make([]core.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = core.NewPriceBar(time.Date(2024, 1, 2+i*5, 0, 0, 0, 0, time.UTC), c, c, c, c, 1000)
	}
	return bars, nil
}

func newTestService(symbols ...string) *dca.Service {
	known := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		known[s] = true
	}
	return dca.NewService(&stubProvider{known: known}, dca.NewEngine(), nil, nil)
}

func decodeEnvelope(t *testing.T, body string) map[string]any {
	t.Helper()
	var envelope map[string]any
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		t.Fatalf("decoding response: %v\nbody: %s", err, body)
	}
	return envelope
}

func errorCode(t *testing.T, body string) string {
	t.Helper()
	envelope := decodeEnvelope(t, body)
	errObj, ok := envelope["error"].(map[string]any)
	if !ok {
		t.Fatalf("no error object in body: %s", body)
	}
	code, _ := errObj["code"].(string)
	return code
}

func TestAnalyzeHandlerSuccess(t *testing.T) {
	h := NewAnalyzeHandler(newTestService("BTC", "ETH"), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze",
		strings.NewReader(`{"symbols": ["BTC", "ETH"], "monthly_amount": 100, "months": 1}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}

	envelope := decodeEnvelope(t, rec.Body.String())
	data, ok := envelope["data"].(map[string]any)
	if !ok {
		t.Fatalf("no data object in body: %s", rec.Body.String())
	}
	results, ok := data["results"].([]any)
	if !ok || len(results) != 2 {
		t.Errorf("results = %v, want 2 entries", data["results"])
	}
	if _, ok := data["summary"]; !ok {
		t.Error("summary missing from batch response")
	}
}

func TestAnalyzeHandlerPartialFailureStillSucceeds(t *testing.T) {
	h := NewAnalyzeHandler(newTestService("BTC"), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze",
		strings.NewReader(`{"symbols": ["BTC", "BAD"], "months": 1}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	envelope := decodeEnvelope(t, rec.Body.String())
	data := envelope["data"].(map[string]any)
	if errs, ok := data["errors"].([]any); !ok || len(errs) != 1 {
		t.Errorf("errors = %v, want 1 entry", data["errors"])
	}
}

func TestAnalyzeHandlerValidation(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"malformed json", `{"symbols": [`, "CONFIG_INVALID"},
		{"no symbols", `{"months": 12}`, "CONFIG_MISSING"},
		{"empty symbols", `{"symbols": []}`, "CONFIG_MISSING"},
		{"months too large", `{"symbols": ["BTC"], "months": 500}`, "CONFIG_INVALID"},
		{"months too small", `{"symbols": ["BTC"], "months": 0}`, "CONFIG_INVALID"},
		{"negative amount", `{"symbols": ["BTC"], "monthly_amount": -5}`, "CONFIG_INVALID"},
		{"unknown profile", `{"symbols": ["BTC"], "strategy_profile": "wild"}`, "CONFIG_INVALID"},
		{"unknown mode", `{"symbols": ["BTC"], "allocation_mode": "half"}`, "CONFIG_INVALID"},
		{"strength out of range", `{"symbols": ["BTC"], "min_signal_strength": 150}`, "CONFIG_INVALID"},
	}

	h := NewAnalyzeHandler(newTestService("BTC"), nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Create(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400\nbody: %s", rec.Code, rec.Body.String())
			}
			if got := errorCode(t, rec.Body.String()); got != tt.wantCode {
				t.Errorf("error code = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestAnalyzeHandlerAllSymbolsFail(t *testing.T) {
	h := NewAnalyzeHandler(newTestService(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze",
		strings.NewReader(`{"symbols": ["BAD1", "BAD2"]}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := errorCode(t, rec.Body.String()); got != "CALCULATION_FAILED" {
		t.Errorf("error code = %q, want CALCULATION_FAILED", got)
	}
}

// simulateMux wires the simulate routes the way the server does, so path
// values resolve in tests
func simulateMux(h *SimulateHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/simulate", h.Create)
	mux.HandleFunc("GET /api/simulate/{id}", h.GetStatus)
	return mux
}

func TestSimulateHandlerLifecycle(t *testing.T) {
	store := job.NewStore(10, time.Hour)
	h := NewSimulateHandler(newTestService("BTC"), store, nil, nil)
	mux := simulateMux(h)

	req := httptest.NewRequest(http.MethodPost, "/api/simulate",
		strings.NewReader(`{"symbol": "BTC", "months": 1}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202\nbody: %s", rec.Code, rec.Body.String())
	}

	envelope := decodeEnvelope(t, rec.Body.String())
	data := envelope["data"].(map[string]any)
	jobID, _ := data["job_id"].(string)
	if jobID == "" {
		t.Fatalf("no job_id in response: %s", rec.Body.String())
	}

	// The job runs on its own goroutine; poll until it settles
	deadline := time.Now().Add(3 * time.Second)
	for {
		statusReq := httptest.NewRequest(http.MethodGet, "/api/simulate/"+jobID, nil)
		statusRec := httptest.NewRecorder()
		mux.ServeHTTP(statusRec, statusReq)

		if statusRec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", statusRec.Code)
		}

		data := decodeEnvelope(t, statusRec.Body.String())["data"].(map[string]any)
		switch data["status"] {
		case string(job.StatusComplete):
			if data["result"] == nil {
				t.Error("complete job carries no result")
			}
			return
		case string(job.StatusFailed):
			t.Fatalf("job failed: %v", data["error"])
		}

		if time.Now().After(deadline) {
			t.Fatalf("job did not settle, last status: %v", data["status"])
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSimulateHandlerFailedJob(t *testing.T) {
	store := job.NewStore(10, time.Hour)
	h := NewSimulateHandler(newTestService(), store, nil, nil)
	mux := simulateMux(h)

	req := httptest.NewRequest(http.MethodPost, "/api/simulate",
		strings.NewReader(`{"symbol": "UNKNOWN", "months": 1}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	data := decodeEnvelope(t, rec.Body.String())["data"].(map[string]any)
	jobID := data["job_id"].(string)

	deadline := time.Now().Add(3 * time.Second)
	for {
		statusReq := httptest.NewRequest(http.MethodGet, "/api/simulate/"+jobID, nil)
		statusRec := httptest.NewRecorder()
		mux.ServeHTTP(statusRec, statusReq)

		data := decodeEnvelope(t, statusRec.Body.String())["data"].(map[string]any)
		if data["status"] == string(job.StatusFailed) {
			errObj, ok := data["error"].(map[string]any)
			if !ok {
				t.Fatalf("failed job carries no error: %s", statusRec.Body.String())
			}
			if errObj["code"] != "CALCULATION_FAILED" {
				t.Errorf("error code = %v, want CALCULATION_FAILED", errObj["code"])
			}
			return
		}

		if time.Now().After(deadline) {
			t.Fatalf("job did not fail in time, last status: %v", data["status"])
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSimulateHandlerValidation(t *testing.T) {
	store := job.NewStore(10, time.Hour)
	h := NewSimulateHandler(newTestService("BTC"), store, nil, nil)
	mux := simulateMux(h)

	req := httptest.NewRequest(http.MethodPost, "/api/simulate",
		strings.NewReader(`{"months": 12}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := errorCode(t, rec.Body.String()); got != "CONFIG_MISSING" {
		t.Errorf("error code = %q, want CONFIG_MISSING", got)
	}
	if store.Len() != 0 {
		t.Errorf("store holds %d jobs, want 0 after a rejected request", store.Len())
	}
}

func TestSimulateHandlerUnknownJob(t *testing.T) {
	store := job.NewStore(10, time.Hour)
	h := NewSimulateHandler(newTestService("BTC"), store, nil, nil)
	mux := simulateMux(h)

	req := httptest.NewRequest(http.MethodGet, "/api/simulate/does-not-exist", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := errorCode(t, rec.Body.String()); got != "JOB_NOT_FOUND" {
		t.Errorf("error code = %q, want JOB_NOT_FOUND", got)
	}
}
