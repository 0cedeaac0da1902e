package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"invest-forecast/internal/accumulate"
	"invest-forecast/internal/api/models"
	"invest-forecast/internal/data"
	"invest-forecast/internal/forecast"
	"invest-forecast/internal/model"
	"invest-forecast/internal/runner"
	"invest-forecast/internal/storage"
)

// describeError maps a run failure to an HTTP status and error body.
func describeError(err error) (int, models.ErrorDetail) {
	var (
		paramErr    *model.ParamError
		valueErr    *accumulate.ForecastValueError
		oracleErr   *forecast.OracleError
		providerErr *data.ProviderError
	)

	switch {
	case errors.As(err, &paramErr):
		return http.StatusBadRequest, models.ErrorDetail{
			Code:    "INVALID_PARAMETERS",
			Message: err.Error(),
			Details: map[string]interface{}{"field": paramErr.Field, "reason": paramErr.Reason},
		}
	case errors.Is(err, accumulate.ErrForecastShape):
		return http.StatusBadRequest, models.ErrorDetail{Code: "FORECAST_SHAPE", Message: err.Error()}
	case errors.As(err, &valueErr):
		details := map[string]interface{}{"series": valueErr.Series, "month": valueErr.Month}
		if valueErr.Reason != "" {
			details["reason"] = valueErr.Reason
		}
		return http.StatusUnprocessableEntity, models.ErrorDetail{
			Code:    "INVALID_FORECAST_VALUE",
			Message: err.Error(),
			Details: details,
		}
	case errors.Is(err, forecast.ErrInsufficientHistory):
		return http.StatusUnprocessableEntity, models.ErrorDetail{
			Code:    "INSUFFICIENT_HISTORY",
			Message: err.Error(),
			Details: map[string]interface{}{"min_points": model.MinHistory},
		}
	case errors.As(err, &oracleErr):
		return http.StatusBadGateway, models.ErrorDetail{
			Code:    "ORACLE_FAILURE",
			Message: err.Error(),
			Details: map[string]interface{}{"series": oracleErr.Series},
		}
	case errors.As(err, &providerErr):
		status := http.StatusBadGateway
		switch providerErr.Code {
		case "UNKNOWN_SYMBOL":
			status = http.StatusNotFound
		case "RATE_LIMIT_EXCEEDED":
			status = http.StatusTooManyRequests
		}
		return status, models.ErrorDetail{
			Code:    providerErr.Code,
			Message: providerErr.Message,
			Details: map[string]interface{}{
				"status_code": providerErr.StatusCode,
				"retry_after": providerErr.RetryAfter,
			},
		}
	case errors.Is(err, ErrUnknownProfile):
		return http.StatusBadRequest, models.ErrorDetail{Code: "UNKNOWN_PROFILE", Message: err.Error()}
	case errors.Is(err, data.ErrMissingSymbol):
		return http.StatusBadRequest, models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()}
	case errors.Is(err, runner.ErrDataFetch):
		return http.StatusBadGateway, models.ErrorDetail{Code: "DATA_FETCH_ERROR", Message: err.Error()}
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, models.ErrorDetail{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, models.ErrorDetail{Code: "TIMEOUT", Message: err.Error()}
	default:
		return http.StatusInternalServerError, models.ErrorDetail{Code: "INTERNAL_ERROR", Message: err.Error()}
	}
}

func writeError(c *gin.Context, err error) {
	status, detail := describeError(err)
	c.JSON(status, models.ErrorResponse{Error: detail})
}

func badRequest(c *gin.Context, code string, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
		},
	})
}
