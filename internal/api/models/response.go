package models

import (
	"invest-forecast/internal/accumulate"
	"invest-forecast/internal/analysis"
	"invest-forecast/internal/model"
)

// SimulationResponse represents the response from a simulation run
type SimulationResponse struct {
	ID           string                     `json:"id"`
	Status       string                     `json:"status"`
	Symbol       string                     `json:"symbol,omitempty"`
	Params       model.SimulationParameters `json:"params"`
	LotSize      int                        `json:"lot_size"`
	Summary      accumulate.Summary         `json:"summary"`
	Trajectories accumulate.Trajectories    `json:"trajectories"`
	Ledger       []accumulate.LedgerEntry   `json:"ledger,omitempty"`
	Forecasts    *model.ForecastPair        `json:"forecasts,omitempty"`
	History      *SeriesStats               `json:"history,omitempty"`
	Forecast     SeriesStats                `json:"forecast_stats"`
}

// SeriesStats describes a price and an inflation series side by side
type SeriesStats struct {
	Price     analysis.Stats `json:"price"`
	Inflation analysis.Stats `json:"inflation"`
}

// LedgerResponse is a stored run's ledger
type LedgerResponse struct {
	ID      string                   `json:"id"`
	Symbol  string                   `json:"symbol,omitempty"`
	LotSize int                      `json:"lot_size"`
	Ledger  []accumulate.LedgerEntry `json:"ledger"`
}

// CompareResponse represents the response from a comparison
type CompareResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
	Rankings   []analysis.Ranked  `json:"rankings"`
}

// ComparisonResult contains results for one symbol
type ComparisonResult struct {
	Symbol  string              `json:"symbol"`
	Status  string              `json:"status"` // "completed" or "failed"
	ID      string              `json:"id,omitempty"`
	Summary *accumulate.Summary `json:"summary,omitempty"`
	Error   *ErrorDetail        `json:"error,omitempty"`
}

// ProfileInfo represents a saver profile preset
type ProfileInfo struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	File   string       `json:"file"`
	Params ProfileSpecs `json:"params"`
}

type ProfileSpecs struct {
	MonthlyIncome float64 `json:"monthly_income"`
	SavingPercent float64 `json:"saving_percent"`
	SavingMonths  int     `json:"saving_months"`
	HorizonMonths int     `json:"horizon_months"`
	LotSize       int     `json:"lot_size,omitempty"`
}

// ParameterInfo describes a simulation parameter
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "float", "int", "string", "bool"
	Description string      `json:"description"`
	Default     interface{} `json:"default,omitempty"`
	Min         *float64    `json:"min,omitempty"`
	Max         *float64    `json:"max,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
