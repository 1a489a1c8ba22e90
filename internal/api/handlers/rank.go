package handlers

import (
	"net/http"
	"strings"

	"universal-portfolio/internal/analysis"
	"universal-portfolio/internal/api/models"
	"universal-portfolio/internal/backtest"
	"universal-portfolio/internal/strategy"

	"github.com/gin-gonic/gin"
)

// RankHandler ranks the universal portfolio against buy-and-hold and the best
// constant portfolio in hindsight, over local price files.
type RankHandler struct {
	sources *Sources
}

func NewRankHandler(sources *Sources) *RankHandler {
	return &RankHandler{sources: sources}
}

// RankAssets handles GET /api/v1/rank
func (h *RankHandler) RankAssets(c *gin.Context) {
	var req models.RankRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}
	if err := strategy.CheckQuantization(req.Quantization); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	var assets []string
	for _, a := range strings.Split(req.Assets, ",") {
		if a = strings.TrimSpace(a); a != "" {
			assets = append(assets, a)
		}
	}
	returns, err := h.sources.Returns(c.Request.Context(), models.DataSourceConfig{
		Type:   "file",
		Assets: assets,
		Window: req.Window,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	capital := req.Capital
	if capital <= 0 {
		capital = 1
	}
	results, err := backtest.Benchmark(c.Request.Context(), returns, req.Quantization)
	if err != nil {
		writeError(c, err)
		return
	}

	ranked, err := analysis.RankResults(results, capital)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.RankResponse{
		Rankings:     models.RankingsFrom(ranked),
		BestConstant: results[len(results)-1].Ledger[0].Weights,
	})
}
