package forecast

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"invest-forecast/internal/model"
	"invest-forecast/internal/retry"
)

const defaultTimeout = 30 * time.Second

// Forecaster calls an Oracle on behalf of the simulator: it enforces the
// minimum history length, bounds each call with a timeout and retries
// failures that may be transient.
type Forecaster struct {
	oracle  Oracle
	timeout time.Duration
	retry   *retry.Policy
	l       *zap.Logger
}

type Option func(*Forecaster)

func WithTimeout(d time.Duration) Option {
	return func(f *Forecaster) {
		if d > 0 {
			f.timeout = d
		}
	}
}

func WithRetry(p *retry.Policy) Option {
	return func(f *Forecaster) {
		if p != nil {
			f.retry = p
		}
	}
}

func NewForecaster(oracle Oracle, l *zap.Logger, opts ...Option) *Forecaster {
	if l == nil {
		l = zap.NewNop()
	}
	f := &Forecaster{
		oracle:  oracle,
		timeout: defaultTimeout,
		retry:   retry.New(),
		l:       l,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CheckHistory rejects a history too short to forecast from.
func CheckHistory(series string, history []float64) error {
	if len(history) < model.MinHistory {
		return errors.Wrapf(ErrInsufficientHistory, "%s history has %d points, need at least %d",
			series, len(history), model.MinHistory)
	}
	return nil
}

// Forecast runs one oracle call for the named series.
// Any oracle failure comes back as *OracleError.
func (f *Forecaster) Forecast(ctx context.Context, series string, history []float64, steps int) ([]float64, error) {
	if err := CheckHistory(series, history); err != nil {
		return nil, err
	}
	if steps < 1 {
		return nil, &model.ParamError{Field: "horizon_months", Reason: "must be > 0"}
	}

	start := time.Now()
	attempt := 0
	out, err := retry.DoWithData(ctx, f.retry, func(ctx context.Context) ([]float64, error) {
		attempt++
		cctx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()

		out, err := f.oracle.Forecast(cctx, history, steps)
		if err == nil {
			return out, nil
		}
		f.l.Warn("forecast attempt failed",
			zap.String("series", series),
			zap.Int("attempt", attempt),
			zap.Error(err))
		if errors.Is(err, ErrInsufficientVariation) || errors.Is(err, ErrNoModel) {
			return nil, retry.Permanent(err)
		}
		return nil, err
	})
	if err != nil {
		return nil, &OracleError{Series: series, Err: err}
	}

	f.l.Info("forecast ready",
		zap.String("series", series),
		zap.Int("history", len(history)),
		zap.Int("steps", steps),
		zap.Int("attempts", attempt),
		zap.Duration("took", time.Since(start)))
	return out, nil
}

// Pair forecasts price and inflation concurrently. Both histories are checked
// before either oracle call starts.
func (f *Forecaster) Pair(ctx context.Context, prices, inflation []float64, steps int) (model.ForecastPair, error) {
	if err := CheckHistory("price", prices); err != nil {
		return model.ForecastPair{}, err
	}
	if err := CheckHistory("inflation", inflation); err != nil {
		return model.ForecastPair{}, err
	}

	var pair model.ForecastPair
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := f.Forecast(gctx, "price", prices, steps)
		pair.Prices = out
		return err
	})
	g.Go(func() error {
		out, err := f.Forecast(gctx, "inflation", inflation, steps)
		pair.Inflation = out
		return err
	})
	if err := g.Wait(); err != nil {
		return model.ForecastPair{}, err
	}
	return pair, nil
}
