package handlers

import (
	"errors"
	"net/http"

	"universal-portfolio/internal/api/models"
	"universal-portfolio/internal/data"
	"universal-portfolio/internal/model"
	"universal-portfolio/internal/store"

	"github.com/gin-gonic/gin"
)

// errorDetail maps an error to an HTTP status and a stable error code.
func errorDetail(err error) (int, models.ErrorDetail) {
	var srcErr *data.SourceError
	switch {
	case errors.As(err, &srcErr):
		status := http.StatusBadGateway
		switch srcErr.StatusCode {
		case http.StatusForbidden, http.StatusUnauthorized:
			status = http.StatusUnauthorized
		case http.StatusTooManyRequests:
			status = http.StatusTooManyRequests
		case http.StatusNotFound:
			status = http.StatusNotFound
		case 0:
			status = http.StatusBadRequest
		}
		return status, models.ErrorDetail{
			Code:    srcErr.Code,
			Message: srcErr.Message,
			Details: map[string]interface{}{
				"status_code": srcErr.StatusCode,
				"retry_after": srcErr.RetryAfter,
			},
		}
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, models.ErrorDetail{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, model.ErrUndefinedDay):
		return http.StatusBadRequest, models.ErrorDetail{Code: "UNDEFINED_DAY", Message: err.Error()}
	case errors.Is(err, model.ErrAssetCountUnsupported):
		return http.StatusBadRequest, models.ErrorDetail{Code: "ASSET_COUNT_UNSUPPORTED", Message: err.Error()}
	case errors.Is(err, model.ErrDegenerateIntegral):
		return http.StatusUnprocessableEntity, models.ErrorDetail{Code: "DEGENERATE_INTEGRAL", Message: err.Error()}
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest, models.ErrorDetail{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return http.StatusInternalServerError, models.ErrorDetail{Code: "SIMULATION_ERROR", Message: err.Error()}
	}
}

func writeError(c *gin.Context, err error) {
	status, detail := errorDetail(err)
	_ = c.Error(err)
	c.JSON(status, models.ErrorResponse{Error: detail})
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
