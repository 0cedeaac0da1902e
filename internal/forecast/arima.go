package forecast

import (
	"math"

	"github.com/pkg/errors"
)

// minFitPoints is the slack a series needs beyond p+d+q before a fit is attempted.
const minFitPoints = 10

// varianceFloor keeps the likelihood finite for series that are fitted exactly.
const varianceFloor = 1e-12

var (
	errTooShort  = errors.New("too few observations for order")
	errSingular  = errors.New("singular regression")
	errUnstable  = errors.New("coefficients outside the stable region")
	errBadOrder  = errors.New("negative order")
	errNotFitted = errors.New("model is not fitted")
)

// Order is the (p, d, q) order of an ARIMA model.
type Order struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`
}

// Model is a fitted non-seasonal ARIMA(p, d, q) model.
type Model struct {
	Order    Order
	AR       []float64
	MA       []float64
	Mean     float64 // mean of the differenced series; 0 when d >= 2
	Variance float64
	LogLik   float64
	AIC      float64
	AICc     float64
	BIC      float64

	levels    [][]float64 // levels[i] is the history differenced i times
	z         []float64   // demeaned, fully differenced history
	residuals []float64
}

// Fit estimates an ARIMA model by conditional least squares.
// AR-only models are a direct regression; models with MA terms use the
// Hannan-Rissanen two-step estimate (long AR residuals as MA regressors).
func Fit(history []float64, order Order) (*Model, error) {
	p, d, q := order.P, order.D, order.Q
	if p < 0 || d < 0 || q < 0 {
		return nil, errBadOrder
	}
	if len(history) < p+d+q+minFitPoints {
		return nil, errors.Wrapf(errTooShort, "ARIMA(%d,%d,%d) with %d points", p, d, q, len(history))
	}

	levels := [][]float64{history}
	for i := 0; i < d; i++ {
		levels = append(levels, diff(levels[i]))
	}
	y := levels[d]

	mu := 0.0
	if d < 2 {
		mu = mean(y)
	}
	z := make([]float64, len(y))
	for i, v := range y {
		z[i] = v - mu
	}

	ar, ma, err := hannanRissanen(z, p, q)
	if err != nil {
		return nil, err
	}
	if !stable(ar) || !stable(ma) {
		return nil, errUnstable
	}

	m := &Model{
		Order:  order,
		AR:     ar,
		MA:     ma,
		Mean:   mu,
		levels: levels,
		z:      z,
	}
	m.residuals = cssResiduals(z, ar, ma)
	m.score()
	return m, nil
}

// score fills in variance, log-likelihood and information criteria.
func (m *Model) score() {
	start := max(m.Order.P, m.Order.Q)
	sse := 0.0
	for _, e := range m.residuals[start:] {
		sse += e * e
	}
	n := float64(len(m.residuals) - start)
	m.Variance = math.Max(sse/n, varianceFloor)
	m.LogLik = -0.5 * n * (math.Log(2*math.Pi*m.Variance) + 1)

	k := float64(m.Order.P + m.Order.Q + 1)
	m.AIC = -2*m.LogLik + 2*k
	m.AICc = math.Inf(1)
	if n-k-1 > 0 {
		m.AICc = m.AIC + 2*k*(k+1)/(n-k-1)
	}
	m.BIC = -2*m.LogLik + k*math.Log(n)
}

// Criterion returns the named information criterion (aic, aicc or bic).
func (m *Model) Criterion(name string) float64 {
	switch name {
	case "bic":
		return m.BIC
	case "aicc":
		return m.AICc
	default:
		return m.AIC
	}
}

// Predict forecasts steps values on the scale of the original history.
func (m *Model) Predict(steps int) ([]float64, error) {
	if m == nil || m.z == nil {
		return nil, errNotFitted
	}
	if steps < 1 {
		return nil, errors.New("steps must be at least 1")
	}

	n := len(m.z)
	z := make([]float64, n+steps)
	copy(z, m.z)
	e := make([]float64, n+steps)
	copy(e, m.residuals)

	out := make([]float64, steps)
	for h := 0; h < steps; h++ {
		t := n + h
		pred := 0.0
		for i, phi := range m.AR {
			pred += phi * z[t-i-1]
		}
		for j, theta := range m.MA {
			pred += theta * e[t-j-1]
		}
		z[t] = pred
		out[h] = pred + m.Mean
	}

	for lvl := m.Order.D - 1; lvl >= 0; lvl-- {
		acc := m.levels[lvl][len(m.levels[lvl])-1]
		for j := range out {
			acc += out[j]
			out[j] = acc
		}
	}
	return out, nil
}

// Residuals returns a copy of the in-sample residuals.
func (m *Model) Residuals() []float64 {
	out := make([]float64, len(m.residuals))
	copy(out, m.residuals)
	return out
}

func hannanRissanen(z []float64, p, q int) ([]float64, []float64, error) {
	n := len(z)
	if p == 0 && q == 0 {
		return []float64{}, []float64{}, nil
	}

	var ehat []float64
	start := p
	if q > 0 {
		long := min(p+q+2, n/3)
		if long < 1 {
			return nil, nil, errTooShort
		}
		phi, err := fitAR(z, long)
		if err != nil {
			return nil, nil, err
		}
		ehat = make([]float64, n)
		for t := long; t < n; t++ {
			pred := 0.0
			for i, c := range phi {
				pred += c * z[t-i-1]
			}
			ehat[t] = z[t] - pred
		}
		start = max(p, long+q)
	}

	rows := make([][]float64, 0, n-start)
	ys := make([]float64, 0, n-start)
	for t := start; t < n; t++ {
		row := make([]float64, 0, p+q)
		for i := 1; i <= p; i++ {
			row = append(row, z[t-i])
		}
		for j := 1; j <= q; j++ {
			row = append(row, ehat[t-j])
		}
		rows = append(rows, row)
		ys = append(ys, z[t])
	}
	if len(rows) <= p+q {
		return nil, nil, errTooShort
	}
	coef, ok := leastSquares(rows, ys)
	if !ok {
		return nil, nil, errSingular
	}
	return coef[:p], coef[p:], nil
}

// fitAR regresses z[t] on its own order lags.
func fitAR(z []float64, order int) ([]float64, error) {
	rows := make([][]float64, 0, len(z)-order)
	ys := make([]float64, 0, len(z)-order)
	for t := order; t < len(z); t++ {
		row := make([]float64, order)
		for i := 0; i < order; i++ {
			row[i] = z[t-i-1]
		}
		rows = append(rows, row)
		ys = append(ys, z[t])
	}
	if len(rows) <= order {
		return nil, errTooShort
	}
	phi, ok := leastSquares(rows, ys)
	if !ok {
		return nil, errSingular
	}
	return phi, nil
}

// cssResiduals computes one-step residuals, zero before max(p, q).
func cssResiduals(z, ar, ma []float64) []float64 {
	start := max(len(ar), len(ma))
	e := make([]float64, len(z))
	for t := start; t < len(z); t++ {
		pred := 0.0
		for i, phi := range ar {
			pred += phi * z[t-i-1]
		}
		for j, theta := range ma {
			pred += theta * e[t-j-1]
		}
		e[t] = z[t] - pred
	}
	return e
}

// stable is a sufficient check for stationarity (AR) and invertibility (MA).
func stable(coef []float64) bool {
	s := 0.0
	for _, c := range coef {
		s += math.Abs(c)
	}
	return s < 1
}
