package handler

import (
	"errors"
	"net/http"

	"outfit-server/shared/models"
	"outfit-server/stylist-service/internal/workflow"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handleServiceError переводит ошибку сервиса в HTTP статус и models.ErrorResponse.
func handleServiceError(c *gin.Context, err error, logger *zap.Logger) {
	var statusCode int
	var errResp models.ErrorResponse

	switch {
	case errors.Is(err, workflow.ErrUnknownAction):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeUnknownAction, Message: "Unknown workflow action"}
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrBadRequest):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: err.Error()}
	case errors.Is(err, models.ErrNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeNotFound, Message: "Resource not found"}
	case errors.Is(err, models.ErrInsufficientCredits):
		statusCode = http.StatusPaymentRequired
		errResp = models.ErrorResponse{Code: models.ErrCodeInsufficientCredits, Message: "Insufficient credits"}
	case errors.Is(err, models.ErrConflict):
		// Предыдущий ход этой сессии еще выполняется
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Code: models.ErrCodeConflict, Message: "Session is busy, retry later"}
	case errors.Is(err, models.ErrForbidden):
		statusCode = http.StatusForbidden
		errResp = models.ErrorResponse{Code: models.ErrCodeForbidden, Message: "Forbidden"}
	default:
		logger.Error("Unhandled internal error", zap.String("path", c.Request.URL.Path), zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = models.ErrorResponse{Code: models.ErrCodeInternal, Message: "An unexpected internal error occurred"}
	}

	c.AbortWithStatusJSON(statusCode, errResp)
}

func validationError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: "validation error: " + err.Error()})
}
