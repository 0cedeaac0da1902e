package model

// ForecastPair holds the two oracle outputs one simulation consumes.
// Both slices are index-aligned with months: index 0 is month 1.
// Inflation[k] is the monthly rate (fraction, 0.004 = 0.4%) eroding cash
// on the way from month k+1 into month k+2.
type ForecastPair struct {
	Prices    []float64 `json:"prices"`
	Inflation []float64 `json:"inflation"`
}

// MinHistory is the shortest history series accepted for forecasting.
const MinHistory = 12
