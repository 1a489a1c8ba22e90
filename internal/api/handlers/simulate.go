package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"universal-portfolio/internal/analysis"
	"universal-portfolio/internal/api/models"
	"universal-portfolio/internal/backtest"
	"universal-portfolio/internal/model"
	"universal-portfolio/internal/report"
	"universal-portfolio/internal/store"
	"universal-portfolio/internal/strategy"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SimulateHandler handles simulation requests and stored runs
type SimulateHandler struct {
	sources *Sources
	runs    store.RunStore
}

func NewSimulateHandler(sources *Sources, runs store.RunStore) *SimulateHandler {
	return &SimulateHandler{sources: sources, runs: runs}
}

// RunSimulation handles POST /api/v1/simulate
func (h *SimulateHandler) RunSimulation(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}
	if err := strategy.CheckQuantization(req.Config.Quantization); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	returns, err := h.sources.Returns(c.Request.Context(), req.DataSource)
	if err != nil {
		log.Printf("SimulateHandler: data source %s failed: %v", req.DataSource.Type, err)
		writeError(c, err)
		return
	}

	cfg := withDefaults(req.Config)
	res, err := simulate(c.Request.Context(), returns, cfg)
	if err != nil {
		writeError(c, err)
		return
	}

	run := store.NewRun(res, quantizationOf(cfg), cfg.Capital)
	resp, err := buildResponse(run, req.Options.IncludeLedger)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.runs.Save(c.Request.Context(), run); err != nil {
		log.Printf("SimulateHandler: save run failed: %v", err)
		writeError(c, err)
		return
	}
	log.Printf("SimulateHandler: run %s %s over %d days, final wealth %.6f",
		run.ID, res.Strategy, res.Days(), res.FinalWealth)

	c.JSON(http.StatusOK, resp)
}

// GetLedger handles GET /api/v1/simulate/:id/ledger
func (h *SimulateHandler) GetLedger(c *gin.Context) {
	run, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.LedgerResponse{
		ID:     run.ID.String(),
		Assets: run.Assets,
		Ledger: run.Result.Ledger,
	})
}

// GetChart handles GET /api/v1/simulate/:id/chart
func (h *SimulateHandler) GetChart(c *gin.Context) {
	run, ok := h.lookup(c)
	if !ok {
		return
	}
	png, err := report.RenderWealthChart(run.Result)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// ListRuns handles GET /api/v1/runs
func (h *SimulateHandler) ListRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 0 {
		badRequest(c, "INVALID_REQUEST", "limit must be a non-negative integer")
		return
	}
	runs, err := h.runs.List(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]models.RunInfo, 0, len(runs))
	for _, r := range runs {
		info := models.RunInfo{
			ID:           r.ID.String(),
			CreatedAt:    r.CreatedAt,
			Strategy:     r.Strategy,
			Assets:       r.Assets,
			Horizon:      r.Horizon,
			Quantization: r.Quantization,
		}
		if r.Result != nil {
			info.FinalWealth = r.Result.FinalWealth
		}
		out = append(out, info)
	}
	c.JSON(http.StatusOK, gin.H{"runs": out})
}

// CompareSimulations handles POST /api/v1/simulate/compare
func (h *SimulateHandler) CompareSimulations(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}
	if len(req.Variations) == 0 {
		badRequest(c, "INVALID_REQUEST", "at least one variation is required")
		return
	}

	// Fetch data once
	returns, err := h.sources.Returns(c.Request.Context(), req.DataSource)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := models.CompareResponse{Comparison: make([]models.ComparisonResult, 0, len(req.Variations))}
	for _, v := range req.Variations {
		cfg := withDefaults(mergeConfig(req.BaseConfig, v.Config))
		res, err := simulate(c.Request.Context(), returns, cfg)
		if err != nil {
			_, detail := errorDetail(err)
			resp.Comparison = append(resp.Comparison, models.ComparisonResult{Name: v.Name, Error: &detail})
			continue
		}
		sums, err := analysis.ResultSummaries(res, cfg.Capital)
		if err != nil {
			_, detail := errorDetail(err)
			resp.Comparison = append(resp.Comparison, models.ComparisonResult{Name: v.Name, Error: &detail})
			continue
		}
		run := store.NewRun(res, quantizationOf(cfg), cfg.Capital)
		if err := h.runs.Save(c.Request.Context(), run); err != nil {
			writeError(c, err)
			return
		}
		resp.Comparison = append(resp.Comparison, models.ComparisonResult{
			Name:    v.Name,
			ID:      run.ID.String(),
			Summary: sums[0],
		})
		if resp.Baselines == nil {
			resp.Baselines = sums[1:]
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *SimulateHandler) lookup(c *gin.Context) (*store.Run, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "INVALID_ID", "id must be a UUID")
		return nil, false
	}
	run, err := h.runs.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return run, true
}

func simulate(ctx context.Context, returns *model.ReturnSeries, cfg models.SimulateConfig) (*backtest.Result, error) {
	spec := strategy.Spec{
		Name:         cfg.Strategy.Name,
		Params:       cfg.Strategy.Params,
		Quantization: cfg.Quantization,
	}
	return backtest.Simulate(ctx, returns, spec, cfg.Horizon)
}

func withDefaults(cfg models.SimulateConfig) models.SimulateConfig {
	if cfg.Strategy.Name == "" {
		cfg.Strategy.Name = "universal"
	}
	if cfg.Capital <= 0 {
		cfg.Capital = 1
	}
	return cfg
}

func quantizationOf(cfg models.SimulateConfig) int {
	if cfg.Quantization > 0 {
		return cfg.Quantization
	}
	return strategy.DefaultQuantization
}

// mergeConfig overlays non-zero fields from override onto base.
func mergeConfig(base, override models.SimulateConfig) models.SimulateConfig {
	out := base
	if override.Strategy.Name != "" {
		out.Strategy.Name = override.Strategy.Name
		out.Strategy.Params = nil
	}
	if len(override.Strategy.Params) > 0 {
		params := make(map[string]interface{}, len(out.Strategy.Params)+len(override.Strategy.Params))
		for k, v := range out.Strategy.Params {
			params[k] = v
		}
		for k, v := range override.Strategy.Params {
			params[k] = v
		}
		out.Strategy.Params = params
	}
	if override.Horizon != 0 {
		out.Horizon = override.Horizon
	}
	if override.Quantization != 0 {
		out.Quantization = override.Quantization
	}
	if override.Capital != 0 {
		out.Capital = override.Capital
	}
	return out
}

func buildResponse(run *store.Run, includeLedger bool) (models.SimulateResponse, error) {
	res := run.Result
	sums, err := analysis.ResultSummaries(res, run.Capital)
	if err != nil {
		return models.SimulateResponse{}, err
	}
	ranked, err := analysis.RankByFinalWealth(analysis.Trajectories(res), run.Capital)
	if err != nil {
		return models.SimulateResponse{}, err
	}
	last := res.Ledger[len(res.Ledger)-1]

	resp := models.SimulateResponse{
		ID:     run.ID.String(),
		Status: "completed",
		Summary: models.SimulateSummary{
			Strategy:      res.Strategy,
			Assets:        res.Assets,
			Days:          res.Days(),
			Quantization:  run.Quantization,
			FinalWeights:  last.Weights,
			FinalStanding: last.Standing,
			Portfolio:     sums[0],
			Baselines:     sums[1:],
		},
		Rankings: models.RankingsFrom(ranked),
	}
	if includeLedger {
		resp.Ledger = res.Ledger
	}
	return resp, nil
}
