package api

import (
	"net/http"

	"universal-portfolio/internal/api/handlers"
	"universal-portfolio/internal/api/middleware"
	"universal-portfolio/internal/store"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the HTTP surface needs.
type Deps struct {
	Sources     *handlers.Sources
	Runs        store.RunStore
	CORSOrigins string
}

// NewRouter wires middleware and every route.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.CORS(d.CORSOrigins))
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	simulateHandler := handlers.NewSimulateHandler(d.Sources, d.Runs)
	rankHandler := handlers.NewRankHandler(d.Sources)
	strategyHandler := handlers.NewStrategyHandler()
	assetHandler := handlers.NewAssetHandler(d.Sources.DataDir)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/simulate", simulateHandler.RunSimulation)
		api.GET("/simulate/:id/ledger", simulateHandler.GetLedger)
		api.GET("/simulate/:id/chart", simulateHandler.GetChart)
		api.POST("/simulate/compare", simulateHandler.CompareSimulations)
		api.GET("/runs", simulateHandler.ListRuns)

		api.GET("/rank", rankHandler.RankAssets)
		api.GET("/strategies", strategyHandler.ListStrategies)
		api.GET("/assets", assetHandler.ListAssets)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return router
}
