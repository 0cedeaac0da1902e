package accumulate

import (
	"fmt"

	"github.com/pkg/errors"

	"invest-forecast/internal/model"
)

var (
	// ErrInvalidParameters aliases the model sentinel so callers only need this package.
	ErrInvalidParameters = model.ErrInvalidParameters
	// ErrForecastShape means a forecast does not have one value per simulated month.
	ErrForecastShape = errors.New("forecast length does not match horizon")
	// ErrInvalidForecastValue is matched by every *ForecastValueError.
	ErrInvalidForecastValue = errors.New("invalid forecast value")
)

// ForecastValueError reports the month at which a forecast value became unusable.
type ForecastValueError struct {
	Series string // "price" or "inflation"
	Month  int    // 1-based
	Value  float64
	// Reason is set when the value is finite and positive but unusable.
	Reason string
}

func (e *ForecastValueError) Error() string {
	msg := fmt.Sprintf("%s: %s forecast for month %d is %v", ErrInvalidForecastValue, e.Series, e.Month, e.Value)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func (e *ForecastValueError) Is(target error) bool { return target == ErrInvalidForecastValue }
