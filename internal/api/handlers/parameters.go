package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invest-forecast/internal/api/models"
	"invest-forecast/internal/data"
	"invest-forecast/internal/model"
)

func bound(v float64) *float64 { return &v }

// ListParameters handles GET /api/v1/parameters
func ListParameters(c *gin.Context) {
	params := []models.ParameterInfo{
		{
			Name:        "symbol",
			Type:        "string",
			Description: "Ticker as listed by the quote provider, e.g. 'BBCA.JK'",
		},
		{
			Name:        "monthly_income",
			Type:        "float",
			Description: "Income per month in the asset's currency",
			Min:         bound(0),
		},
		{
			Name:        "saving_percent",
			Type:        "float",
			Description: "Share of income saved each contributing month (0-100)",
			Min:         bound(0),
			Max:         bound(100),
		},
		{
			Name:        "saving_months",
			Type:        "int",
			Description: "Months, counted from month 1, in which income is saved",
			Min:         bound(0),
		},
		{
			Name:        "horizon_months",
			Type:        "int",
			Description: "Months to simulate; also the forecast length",
			Min:         bound(1),
		},
		{
			Name:        "lot_size",
			Type:        "int",
			Description: "Units of the asset per tradable lot",
			Default:     model.DefaultLotSize,
			Min:         bound(1),
		},
		{
			Name:        "range",
			Type:        "string",
			Description: "Length of price history used for forecasting",
			Default:     data.DefaultRange,
		},
		{
			Name:        "interval",
			Type:        "string",
			Description: "Sampling interval of the price history",
			Default:     data.DefaultInterval,
		},
		{
			Name:        "profile",
			Type:        "string",
			Description: "Preset from GET /api/v1/profiles; explicit fields override it",
		},
	}

	c.JSON(http.StatusOK, gin.H{"parameters": params, "min_history": model.MinHistory})
}
