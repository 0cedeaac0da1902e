package model

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// DefaultLotSize is the number of units in one tradable lot.
const DefaultLotSize = 100

// MaxTotalContribution caps income × fraction × contributing months, keeping
// every cash amount a run can reach exact to the cent.
const MaxTotalContribution = 1e13

// ErrInvalidParameters is matched by every *ParamError.
var ErrInvalidParameters = errors.New("invalid simulation parameters")

// ParamError names the offending field of SimulationParameters.
type ParamError struct {
	Field  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidParameters, e.Field, e.Reason)
}

func (e *ParamError) Is(target error) bool { return target == ErrInvalidParameters }

// SimulationParameters is what the saver controls.
// Units:
// - MonthlyIncome: currency amount per month
// - SavingFraction: 0..1 of income moved to cash every contributing month
// - SavingMonths: months (from month 1) during which contributions happen
// - HorizonMonths: total months simulated, also the forecast length
type SimulationParameters struct {
	MonthlyIncome  float64 `json:"monthly_income"`
	SavingFraction float64 `json:"saving_fraction"`
	SavingMonths   int     `json:"saving_months"`
	HorizonMonths  int     `json:"horizon_months"`
}

// MonthlyContribution is the cash added in each contributing month.
func (p SimulationParameters) MonthlyContribution() float64 {
	return p.MonthlyIncome * p.SavingFraction
}

// Contributes reports whether month (1-based) receives a contribution.
func (p SimulationParameters) Contributes(month int) bool {
	return month <= p.SavingMonths
}

func (p SimulationParameters) Validate() error {
	if p.HorizonMonths <= 0 {
		return &ParamError{Field: "horizon_months", Reason: "must be > 0"}
	}
	if p.SavingMonths < 0 {
		return &ParamError{Field: "saving_months", Reason: "must be >= 0"}
	}
	if math.IsNaN(p.SavingFraction) || p.SavingFraction < 0 || p.SavingFraction > 1 {
		return &ParamError{Field: "saving_fraction", Reason: "must be in [0, 1]"}
	}
	if math.IsNaN(p.MonthlyIncome) || math.IsInf(p.MonthlyIncome, 0) || p.MonthlyIncome < 0 {
		return &ParamError{Field: "monthly_income", Reason: "must be a finite amount >= 0"}
	}
	months := float64(min(p.SavingMonths, p.HorizonMonths))
	if p.MonthlyContribution()*months > MaxTotalContribution {
		return &ParamError{Field: "monthly_income", Reason: fmt.Sprintf("total contributions must not exceed %.0f", MaxTotalContribution)}
	}
	return nil
}

// FromPercent converts a saving percentage (0..100) as typed by users to a fraction.
func FromPercent(percent float64) float64 {
	return percent / 100
}
