package forecast

import (
	"context"
	"math"

	"github.com/pkg/errors"
)

type Config struct {
	MaxP int `yaml:"max_p"`
	MaxD int `yaml:"max_d"`
	MaxQ int `yaml:"max_q"`
	// Criterion is aic, aicc or bic.
	Criterion string `yaml:"criterion"`
}

func DefaultConfig() Config {
	return Config{MaxP: 5, MaxD: 2, MaxQ: 5, Criterion: "aic"}
}

// Auto picks d with repeated KPSS tests, then walks the (p, q) grid stepwise
// from the usual starting set, moving to the first neighbour that improves the criterion.
type Auto struct {
	cfg Config
}

func NewAuto(cfg Config) *Auto {
	if cfg.Criterion == "" {
		cfg.Criterion = "aic"
	}
	return &Auto{cfg: cfg}
}

var (
	stepwiseStart = [][2]int{{2, 2}, {0, 0}, {1, 0}, {0, 1}}
	neighbours    = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}, {-1, -1}, {1, 1}, {-1, 1}, {1, -1}}
)

// Select fits the best model for history.
func (a *Auto) Select(ctx context.Context, history []float64) (*Model, error) {
	if len(history) < 2 || isConstant(history) {
		return nil, ErrInsufficientVariation
	}
	if !allFinite(history) {
		return nil, errors.Wrap(ErrNoModel, "history contains non-finite values")
	}

	d := a.differencing(history)

	var best *Model
	bestScore := math.Inf(1)
	tried := map[Order]bool{}
	try := func(p, q int) bool {
		o := Order{P: p, D: d, Q: q}
		if p < 0 || q < 0 || p > a.cfg.MaxP || q > a.cfg.MaxQ || tried[o] {
			return false
		}
		tried[o] = true
		m, err := Fit(history, o)
		if err != nil {
			return false
		}
		s := m.Criterion(a.cfg.Criterion)
		if math.IsNaN(s) || s >= bestScore {
			return false
		}
		best, bestScore = m, s
		return true
	}

	for _, pq := range stepwiseStart {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		try(pq[0], pq[1])
	}
	if best == nil {
		return nil, errors.Wrapf(ErrNoModel, "d=%d", d)
	}

	for improved := true; improved; {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		improved = false
		cur := best.Order
		for _, step := range neighbours {
			if try(cur.P+step[0], cur.Q+step[1]) {
				improved = true
				break
			}
		}
	}
	return best, nil
}

func (a *Auto) Forecast(ctx context.Context, history []float64, steps int) ([]float64, error) {
	m, err := a.Select(ctx, history)
	if err != nil {
		return nil, err
	}
	out, err := m.Predict(steps)
	if err != nil {
		return nil, err
	}
	if !allFinite(out) {
		return nil, errors.Wrapf(ErrNoModel, "ARIMA(%d,%d,%d) produced a non-finite forecast", m.Order.P, m.Order.D, m.Order.Q)
	}
	return out, nil
}

func (a *Auto) differencing(x []float64) int {
	d := 0
	for d < a.cfg.MaxD && !kpssStationary(x) {
		x = diff(x)
		d++
	}
	return d
}
