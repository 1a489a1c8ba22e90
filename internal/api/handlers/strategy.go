package handlers

import (
	"log"
	"net/http"

	"universal-portfolio/internal/api/models"
	"universal-portfolio/internal/strategy"

	"github.com/gin-gonic/gin"
)

// StrategyHandler handles strategy-related requests
type StrategyHandler struct{}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler() *StrategyHandler {
	return &StrategyHandler{}
}

var quantizationParam = models.ParameterInfo{
	Name:        "quantization",
	Type:        "int",
	Description: "Grid intervals per axis (config.quantization, not a strategy param)",
	Default:     strategy.DefaultQuantization,
}

// ListStrategies handles GET /api/v1/strategies
func (h *StrategyHandler) ListStrategies(c *gin.Context) {
	log.Printf("StrategyHandler: ListStrategies called")
	strategies := []models.StrategyInfo{
		{
			Name:        "universal",
			Description: "Cover's universal portfolio for two assets. Each day holds the wealth-weighted average of all constant-rebalanced portfolios on a grid.",
			Parameters: []models.ParameterInfo{
				quantizationParam,
				{
					Name:        "workers",
					Type:        "int",
					Description: "Compute the daily weights in parallel with this many workers (0 = sequential)",
					Default:     0,
				},
			},
		},
		{
			Name:        "lattice",
			Description: "Universal portfolio over any number of assets, integrating over a lattice on the simplex with incremental wealth updates.",
			Parameters: []models.ParameterInfo{
				quantizationParam,
			},
		},
		{
			Name:        "constant",
			Description: "Constant-rebalanced portfolio with fixed weights.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "weights",
					Type:        "float[]",
					Description: "One non-negative weight per asset, summing to 1 (default uniform)",
				},
			},
		},
		{
			Name:        "best_constant",
			Description: "Best constant-rebalanced portfolio in hindsight over the simulated horizon. A benchmark, not tradable.",
			Parameters: []models.ParameterInfo{
				quantizationParam,
			},
		},
	}

	log.Printf("StrategyHandler: Returning %d strategies", len(strategies))
	c.JSON(http.StatusOK, gin.H{"strategies": strategies})
}
