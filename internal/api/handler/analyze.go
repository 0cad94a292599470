// internal/api/handler/analyze.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/dkoster/smartdca/internal/api/response"
	"github.com/dkoster/smartdca/internal/core"
	"github.com/dkoster/smartdca/internal/dca"
)

// AnalyzeRequest is the request body for a multi-symbol analysis.
type AnalyzeRequest struct {
	Symbols []string `json:"symbols"`
	StrategyParams
}

// AnalyzeHandler handles synchronous batch analysis requests.
type AnalyzeHandler struct {
	service *dca.Service
	logger  *zap.Logger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(service *dca.Service, logger *zap.Logger) *AnalyzeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyzeHandler{service: service, logger: logger}
}

// Create runs the simulation for every requested symbol and responds with
// per-symbol results, per-symbol errors, and a best/worst summary.
func (h *AnalyzeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigInvalid, err))
		return
	}

	if len(req.Symbols) == 0 {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigMissing, errors.New("symbols is required")))
		return
	}

	monthlyAmount, months, settings, err := req.resolve()
	if err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigInvalid, err))
		return
	}

	h.logger.Info("analysis requested",
		zap.Strings("symbols", req.Symbols),
		zap.Int("months", months),
		zap.String("profile", settings.Profile),
	)

	result, err := h.service.Analyze(r.Context(), dca.BatchRequest{
		Symbols:       req.Symbols,
		MonthlyAmount: monthlyAmount,
		Months:        months,
		Settings:      settings,
	})
	if err != nil {
		// A batch with zero successes is a client-visible failure
		if errors.Is(err, core.ErrCalculationFailed) || errors.Is(err, core.ErrConfigMissing) {
			response.Error(w, http.StatusBadRequest, err)
			return
		}
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}
