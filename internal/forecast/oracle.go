// Package forecast turns a historical series into a forecast of a requested length.
//
// Oracle is the capability the simulator depends on. Auto is the statistical
// implementation (non-seasonal ARIMA chosen by information criterion); Static
// returns fixed sequences for deterministic runs. Forecaster wraps any Oracle
// with the history precondition, per-call timeouts, retries and logging.
package forecast

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrOracleFailure is matched by every error coming out of Forecaster for a failed oracle call.
	ErrOracleFailure = errors.New("forecast oracle failed")
	// ErrInsufficientHistory is returned before any oracle call when a history is too short.
	ErrInsufficientHistory = errors.New("insufficient history")
	// ErrInsufficientVariation means the history is constant, nothing can be fitted.
	ErrInsufficientVariation = errors.New("history has no variation")
	// ErrNoModel means no candidate model could be fitted or produced a finite forecast.
	ErrNoModel = errors.New("no model could be fitted")
)

type Oracle interface {
	// Forecast returns exactly steps values continuing history.
	Forecast(ctx context.Context, history []float64, steps int) ([]float64, error)
}

// OracleFunc adapts a function to Oracle.
type OracleFunc func(ctx context.Context, history []float64, steps int) ([]float64, error)

func (f OracleFunc) Forecast(ctx context.Context, history []float64, steps int) ([]float64, error) {
	return f(ctx, history, steps)
}

// OracleError wraps the failure of one oracle call.
type OracleError struct {
	Series string
	Err    error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrOracleFailure, e.Series, e.Err)
}

func (e *OracleError) Unwrap() error { return e.Err }

func (e *OracleError) Is(target error) bool { return target == ErrOracleFailure }

// Static returns the first steps values of Values, ignoring history.
// It fails when Values is shorter than steps.
type Static struct {
	Values []float64
}

func (s Static) Forecast(ctx context.Context, _ []float64, steps int) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if steps > len(s.Values) {
		return nil, errors.Errorf("static forecast holds %d values, %d requested", len(s.Values), steps)
	}
	out := make([]float64, steps)
	copy(out, s.Values)
	return out, nil
}
