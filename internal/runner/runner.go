// Package runner turns a simulation request into a stored run: it fetches the
// histories, forecasts them, simulates and records the result.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"invest-forecast/internal/accumulate"
	"invest-forecast/internal/analysis"
	"invest-forecast/internal/events"
	"invest-forecast/internal/forecast"
	"invest-forecast/internal/model"
	"invest-forecast/internal/storage"
)

// ErrDataFetch is matched by every *FetchError.
var ErrDataFetch = errors.New("history fetch failed")

type FetchError struct {
	Source string // "price" or "inflation"
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s history: %v", ErrDataFetch, e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrDataFetch }

type PriceSource interface {
	MonthlyCloses(ctx context.Context, symbol, rng, interval string) ([]float64, error)
}

type InflationSource interface {
	Inflation(ctx context.Context) ([]float64, error)
}

type InflationFunc func(ctx context.Context) ([]float64, error)

func (f InflationFunc) Inflation(ctx context.Context) ([]float64, error) { return f(ctx) }

type Request struct {
	Symbol   string
	Range    string
	Interval string
	Params   model.SimulationParameters
	// LotSize 0 means model.DefaultLotSize.
	LotSize int

	// Histories given here are used instead of the sources.
	PriceHistory     []float64
	InflationHistory []float64
}

// Outcome is a finished run plus descriptive statistics of its inputs.
type Outcome struct {
	Run              *storage.Run
	Summary          accumulate.Summary
	PriceHistory     analysis.Stats
	InflationHistory analysis.Stats
}

type Runner struct {
	prices     PriceSource
	inflation  InflationSource
	forecaster *forecast.Forecaster
	store      storage.RunStore
	publisher  events.Publisher
	l          *zap.Logger
}

type Option func(*Runner)

func WithStore(s storage.RunStore) Option {
	return func(r *Runner) { r.store = s }
}

func WithPublisher(p events.Publisher) Option {
	return func(r *Runner) {
		if p != nil {
			r.publisher = p
		}
	}
}

func New(prices PriceSource, inflation InflationSource, f *forecast.Forecaster, l *zap.Logger, opts ...Option) *Runner {
	if l == nil {
		l = zap.NewNop()
	}
	r := &Runner{
		prices:     prices,
		inflation:  inflation,
		forecaster: f,
		publisher:  events.Noop{},
		l:          l,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run validates the request, forecasts both series and simulates.
// Parameters are checked before any history is fetched.
func (r *Runner) Run(ctx context.Context, req Request) (*Outcome, error) {
	if err := req.Params.Validate(); err != nil {
		return nil, err
	}
	if req.LotSize < 0 {
		return nil, &model.ParamError{Field: "lot_size", Reason: "must be > 0"}
	}

	prices, err := r.priceHistory(ctx, req)
	if err != nil {
		return nil, err
	}
	inflation, err := r.inflationHistory(ctx, req)
	if err != nil {
		return nil, err
	}

	pair, err := r.forecaster.Pair(ctx, prices, inflation, req.Params.HorizonMonths)
	if err != nil {
		return nil, err
	}

	out, err := r.Simulate(ctx, req.Symbol, req.Params, req.LotSize, pair)
	if err != nil {
		return nil, err
	}
	out.PriceHistory = analysis.Describe(prices)
	out.InflationHistory = analysis.Describe(inflation)
	return out, nil
}

// Simulate runs the engine on given forecasts, then stores and announces the run.
func (r *Runner) Simulate(ctx context.Context, symbol string, params model.SimulationParameters, lotSize int, pair model.ForecastPair) (*Outcome, error) {
	engine := accumulate.New()
	if lotSize != 0 {
		engine.LotSize = lotSize
	}

	start := time.Now()
	result, err := engine.Run(params, pair)
	if err != nil {
		return nil, err
	}

	run := storage.NewRun(symbol, params, pair, result)
	summary := result.Summary()
	r.l.Info("simulation finished",
		zap.String("run_id", run.ID.String()),
		zap.String("symbol", symbol),
		zap.Int("months", summary.Months),
		zap.Int("lots", summary.TotalLots),
		zap.Float64("final_wealth", summary.FinalWealth),
		zap.Duration("took", time.Since(start)))

	r.record(ctx, run, summary)
	return &Outcome{Run: run, Summary: summary}, nil
}

// record stores and publishes a run. Failures are logged, the result is kept.
func (r *Runner) record(ctx context.Context, run *storage.Run, summary accumulate.Summary) {
	if r.store != nil {
		if err := r.store.Save(ctx, run); err != nil {
			r.l.Warn("failed to store run", zap.String("run_id", run.ID.String()), zap.Error(err))
		}
	}
	event := events.SimulationCompleted{
		RunID:               run.ID.String(),
		Symbol:              run.Symbol,
		HorizonMonths:       run.Params.HorizonMonths,
		FinalPortfolioValue: summary.FinalPortfolioValue,
		FinalWealth:         summary.FinalWealth,
		TotalLots:           summary.TotalLots,
		CreatedAt:           run.CreatedAt,
	}
	if err := r.publisher.Publish(ctx, event); err != nil {
		r.l.Warn("failed to publish run", zap.String("run_id", run.ID.String()), zap.Error(err))
	}
}

// Get returns a stored run.
func (r *Runner) Get(ctx context.Context, id uuid.UUID) (*storage.Run, error) {
	if r.store == nil {
		return nil, errors.Wrap(storage.ErrNotFound, "no run store configured")
	}
	return r.store.Get(ctx, id)
}

func (r *Runner) priceHistory(ctx context.Context, req Request) ([]float64, error) {
	if len(req.PriceHistory) > 0 {
		return req.PriceHistory, nil
	}
	if r.prices == nil {
		return nil, &FetchError{Source: "price", Err: errors.New("no price source configured")}
	}
	out, err := r.prices.MonthlyCloses(ctx, req.Symbol, req.Range, req.Interval)
	if err != nil {
		return nil, &FetchError{Source: "price", Err: err}
	}
	return out, nil
}

func (r *Runner) inflationHistory(ctx context.Context, req Request) ([]float64, error) {
	if len(req.InflationHistory) > 0 {
		return req.InflationHistory, nil
	}
	if r.inflation == nil {
		return nil, &FetchError{Source: "inflation", Err: errors.New("no inflation source configured")}
	}
	out, err := r.inflation.Inflation(ctx)
	if err != nil {
		return nil, &FetchError{Source: "inflation", Err: err}
	}
	return out, nil
}
