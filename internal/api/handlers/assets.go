package handlers

import (
	"log"
	"net/http"

	"universal-portfolio/internal/api/models"
	"universal-portfolio/internal/data"

	"github.com/gin-gonic/gin"
)

// AssetHandler lists the price files the file data source can read
type AssetHandler struct {
	dataDir string
}

func NewAssetHandler(dataDir string) *AssetHandler {
	log.Printf("AssetHandler: Using data directory: %s", dataDir)
	return &AssetHandler{dataDir: dataDir}
}

// ListAssets handles GET /api/v1/assets
func (h *AssetHandler) ListAssets(c *gin.Context) {
	found, err := data.ListAssets(h.dataDir)
	if err != nil {
		log.Printf("AssetHandler: Failed to list %s: %v", h.dataDir, err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "DATA_DIR_ERROR",
				Message: err.Error(),
				Details: map[string]interface{}{"data_dir": h.dataDir},
			},
		})
		return
	}

	assets := make([]models.AssetInfo, 0, len(found))
	for _, a := range found {
		assets = append(assets, models.AssetInfo{Name: a.Name, File: a.File, Count: a.Count})
	}
	log.Printf("AssetHandler: Returning %d assets", len(assets))
	c.JSON(http.StatusOK, gin.H{"assets": assets})
}
