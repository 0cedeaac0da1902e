package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"invest-forecast/internal/analysis"
	"invest-forecast/internal/api/models"
	"invest-forecast/internal/config"
	"invest-forecast/internal/model"
	"invest-forecast/internal/report"
	"invest-forecast/internal/runner"
)

// SimulateHandler handles simulation requests
type SimulateHandler struct {
	runner   *runner.Runner
	profiles *ProfileHandler
	l        *zap.Logger
}

func NewSimulateHandler(r *runner.Runner, profiles *ProfileHandler, l *zap.Logger) *SimulateHandler {
	if l == nil {
		l = zap.NewNop()
	}
	return &SimulateHandler{runner: r, profiles: profiles, l: l}
}

// RunSimulation handles POST /api/v1/simulate
func (h *SimulateHandler) RunSimulation(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	params, lotSize, err := h.resolve(req.SimulationParams)
	if err != nil {
		writeError(c, err)
		return
	}

	out, err := h.runner.Run(c.Request.Context(), runner.Request{
		Symbol:   strings.TrimSpace(req.Symbol),
		Range:    req.Range,
		Interval: req.Interval,
		Params:   params,
		LotSize:  lotSize,
	})
	if err != nil {
		h.l.Warn("simulation failed", zap.String("symbol", req.Symbol), zap.Error(err))
		writeError(c, err)
		return
	}

	resp := buildResponse(out, req.Options)
	resp.History = &models.SeriesStats{Price: out.PriceHistory, Inflation: out.InflationHistory}
	c.JSON(http.StatusOK, resp)
}

// RunDirect handles POST /api/v1/simulate/direct
func (h *SimulateHandler) RunDirect(c *gin.Context) {
	var req models.DirectSimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	params, lotSize, err := h.resolve(req.SimulationParams)
	if err != nil {
		writeError(c, err)
		return
	}

	pair := model.ForecastPair{Prices: req.Forecasts.Prices, Inflation: req.Forecasts.Inflation}
	out, err := h.runner.Simulate(c.Request.Context(), req.Symbol, params, lotSize, pair)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildResponse(out, req.Options))
}

// Compare handles POST /api/v1/simulate/compare
func (h *SimulateHandler) Compare(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	params, lotSize, err := h.resolve(req.SimulationParams)
	if err != nil {
		writeError(c, err)
		return
	}

	symbols := make([]string, 0, len(req.Symbols))
	for _, s := range req.Symbols {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, s)
		}
	}

	cs, err := h.runner.Compare(c.Request.Context(), symbols, runner.Request{
		Range:    req.Range,
		Interval: req.Interval,
		Params:   params,
		LotSize:  lotSize,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	resp := models.CompareResponse{
		Comparison: make([]models.ComparisonResult, 0, len(cs)),
		Rankings:   runner.Rank(cs),
	}
	for _, cmp := range cs {
		res := models.ComparisonResult{Symbol: cmp.Symbol}
		if cmp.Err != nil {
			_, detail := describeError(cmp.Err)
			res.Status = "failed"
			res.Error = &detail
		} else {
			summary := cmp.Outcome.Summary
			res.Status = "completed"
			res.ID = cmp.Outcome.Run.ID.String()
			res.Summary = &summary
		}
		resp.Comparison = append(resp.Comparison, res)
	}
	c.JSON(http.StatusOK, resp)
}

// GetLedger handles GET /api/v1/simulate/:id/ledger
// ?format=csv returns the ledger as a CSV attachment.
func (h *SimulateHandler) GetLedger(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	run, err := h.runner.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", "attachment; filename=ledger-"+id.String()+".csv")
		c.Status(http.StatusOK)
		if err := report.WriteLedgerCSV(c.Writer, run.Result.Ledger); err != nil {
			h.l.Warn("failed to write ledger csv", zap.String("run_id", id.String()), zap.Error(err))
		}
		return
	}

	c.JSON(http.StatusOK, models.LedgerResponse{
		ID:      run.ID.String(),
		Symbol:  run.Symbol,
		LotSize: run.Result.LotSize,
		Ledger:  run.Result.Ledger,
	})
}

// resolve merges the request over its profile and converts it.
func (h *SimulateHandler) resolve(p models.SimulationParams) (model.SimulationParameters, int, error) {
	sim := config.SimulationConfig{
		MonthlyIncome: p.MonthlyIncome,
		SavingPercent: p.SavingPercent,
		SavingMonths:  p.SavingMonths,
		HorizonMonths: p.HorizonMonths,
		LotSize:       p.LotSize,
	}
	if p.Profile != "" && h.profiles != nil {
		base, err := h.profiles.Load(p.Profile)
		if err != nil {
			return model.SimulationParameters{}, 0, err
		}
		sim = config.MergeSimulation(base, sim)
	}
	params := sim.Params()
	if err := params.Validate(); err != nil {
		return model.SimulationParameters{}, 0, err
	}
	if sim.LotSize < 0 {
		return model.SimulationParameters{}, 0, &model.ParamError{Field: "lot_size", Reason: "must be > 0"}
	}
	return params, sim.LotSize, nil
}

func buildResponse(out *runner.Outcome, opts models.SimulateOptions) models.SimulationResponse {
	run := out.Run
	resp := models.SimulationResponse{
		ID:           run.ID.String(),
		Status:       "completed",
		Symbol:       run.Symbol,
		Params:       run.Params,
		LotSize:      run.Result.LotSize,
		Summary:      out.Summary,
		Trajectories: run.Result.Trajectories,
		Forecast: models.SeriesStats{
			Price:     analysis.Describe(run.Forecasts.Prices),
			Inflation: analysis.Describe(run.Forecasts.Inflation),
		},
	}
	if opts.IncludeLedger {
		resp.Ledger = run.Result.Ledger
	}
	if opts.IncludeForecasts {
		pair := run.Forecasts
		resp.Forecasts = &pair
	}
	return resp
}
