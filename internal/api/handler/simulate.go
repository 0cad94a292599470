// internal/api/handler/simulate.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/dkoster/smartdca/internal/api/job"
	"github.com/dkoster/smartdca/internal/api/response"
	"github.com/dkoster/smartdca/internal/core"
	"github.com/dkoster/smartdca/internal/dca"
	"github.com/dkoster/smartdca/internal/metrics"
	"github.com/dkoster/smartdca/internal/strategy"
)

// SimulateRequest is the request body for an async single-symbol run.
type SimulateRequest struct {
	Symbol string `json:"symbol"`
	StrategyParams
}

// SimulateHandler handles async single-symbol simulation requests.
type SimulateHandler struct {
	service  *dca.Service
	jobStore *job.Store
	metrics  *metrics.Registry // optional
	logger   *zap.Logger
	active   atomic.Int64
}

// NewSimulateHandler creates a new simulate handler. The metrics registry
// may be nil.
func NewSimulateHandler(service *dca.Service, jobStore *job.Store, reg *metrics.Registry, logger *zap.Logger) *SimulateHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimulateHandler{service: service, jobStore: jobStore, metrics: reg, logger: logger}
}

// Create starts a new simulation job.
func (h *SimulateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigInvalid, err))
		return
	}

	if req.Symbol == "" {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigMissing, errors.New("symbol is required")))
		return
	}

	monthlyAmount, months, settings, err := req.resolve()
	if err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigInvalid, err))
		return
	}

	j := h.jobStore.Create("simulate")

	// Copy values before starting the goroutine to avoid a race
	jobID := j.ID
	status := j.Status

	go h.runSimulation(jobID, req.Symbol, monthlyAmount, months, settings)

	response.JSON(w, http.StatusAccepted, map[string]any{
		"job_id": jobID,
		"status": status,
	})
}

// runSimulation executes the simulation and updates job status.
func (h *SimulateHandler) runSimulation(jobID, symbol string, monthlyAmount float64, months int, settings strategy.Settings) {
	if h.metrics != nil {
		h.metrics.SetJobsActive("simulate", int(h.active.Add(1)))
		defer func() {
			h.metrics.SetJobsActive("simulate", int(h.active.Add(-1)))
		}()
	}

	h.jobStore.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusRunning
	})

	result, err := h.service.RunSymbol(symbol, monthlyAmount, months, settings)
	if err != nil {
		h.logger.Warn("simulation job failed",
			zap.String("job_id", jobID),
			zap.String("symbol", symbol),
			zap.Error(err),
		)
		h.jobStore.Update(jobID, func(j *job.Job) {
			j.Status = job.StatusFailed
			j.Error = core.WrapError(core.ErrCalculationFailed, err)
		})
		return
	}

	h.jobStore.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusComplete
		j.Result = result
	})
}

// GetStatus returns the status of a simulation job.
func (h *SimulateHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")

	j, err := h.jobStore.Get(jobID)
	if err != nil {
		response.Error(w, http.StatusNotFound, err)
		return
	}

	resp := map[string]any{
		"job_id": j.ID,
		"status": j.Status,
	}

	if j.Status == job.StatusComplete {
		resp["result"] = j.Result
	}
	if j.Status == job.StatusFailed && j.Error != nil {
		resp["error"] = map[string]string{
			"code":    j.Error.Code,
			"message": j.Error.Message,
		}
	}

	response.JSON(w, http.StatusOK, resp)
}
