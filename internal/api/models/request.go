package models

// SimulationParams are the saver's inputs as typed into the form.
// Profile names a preset from the profiles directory; explicit non-zero
// fields override it.
type SimulationParams struct {
	Profile       string  `json:"profile,omitempty"`
	MonthlyIncome float64 `json:"monthly_income"`
	SavingPercent float64 `json:"saving_percent"` // 0..100
	SavingMonths  int     `json:"saving_months"`
	HorizonMonths int     `json:"horizon_months"`
	LotSize       int     `json:"lot_size,omitempty"` // default: 100
}

// SimulateRequest represents the request body for a forecast-driven simulation
type SimulateRequest struct {
	Symbol   string `json:"symbol" binding:"required"` // e.g. "BBCA.JK"
	Range    string `json:"range,omitempty"`           // default: "10y"
	Interval string `json:"interval,omitempty"`        // default: "1mo"
	SimulationParams
	Options SimulateOptions `json:"options,omitempty"`
}

type SimulateOptions struct {
	IncludeLedger    bool `json:"include_ledger,omitempty"`
	IncludeForecasts bool `json:"include_forecasts,omitempty"`
}

// DirectSimulateRequest runs the simulator on caller-supplied forecasts.
type DirectSimulateRequest struct {
	Symbol string `json:"symbol,omitempty"`
	SimulationParams
	Forecasts ForecastInput   `json:"forecasts" binding:"required"`
	Options   SimulateOptions `json:"options,omitempty"`
}

type ForecastInput struct {
	Prices    []float64 `json:"prices" binding:"required"`
	Inflation []float64 `json:"inflation" binding:"required"`
}

// CompareRequest runs the same parameters against several symbols
type CompareRequest struct {
	Symbols  []string `json:"symbols" binding:"required,min=1,max=10"`
	Range    string   `json:"range,omitempty"`
	Interval string   `json:"interval,omitempty"`
	SimulationParams
}
