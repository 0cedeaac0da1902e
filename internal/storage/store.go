// Package storage keeps finished simulation runs so their ledgers can be
// fetched again by id.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"invest-forecast/internal/accumulate"
	"invest-forecast/internal/model"
)

var ErrNotFound = errors.New("run not found")

// Run is one finished simulation together with the forecasts it consumed.
type Run struct {
	ID        uuid.UUID                  `json:"id"`
	Symbol    string                     `json:"symbol,omitempty"`
	Params    model.SimulationParameters `json:"params"`
	Forecasts model.ForecastPair         `json:"forecasts"`
	Result    *accumulate.Result         `json:"result"`
	CreatedAt time.Time                  `json:"created_at"`
}

func NewRun(symbol string, params model.SimulationParameters, forecasts model.ForecastPair, result *accumulate.Result) *Run {
	return &Run{
		ID:        uuid.New(),
		Symbol:    symbol,
		Params:    params,
		Forecasts: forecasts,
		Result:    result,
		CreatedAt: time.Now().UTC(),
	}
}

type RunStore interface {
	Save(ctx context.Context, run *Run) error
	// Get returns ErrNotFound for unknown or expired ids.
	Get(ctx context.Context, id uuid.UUID) (*Run, error)
}
