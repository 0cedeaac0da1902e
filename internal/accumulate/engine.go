package accumulate

import (
	"math"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"invest-forecast/internal/model"
)

const (
	// maxExactLots bounds lot counts to integers a float64 represents exactly.
	maxExactLots = 1 << 53
	// minLotPrice is the smallest lot price that survives rounding to cents.
	minLotPrice = 0.005
)

type Engine struct {
	// LotSize is the number of asset units per lot, fixed for the whole run.
	LotSize int
}

func New() *Engine { return &Engine{LotSize: model.DefaultLotSize} }

// state is the running position of one simulation. It never outlives Run.
type state struct {
	cash        float64
	lots        int
	contributed float64
	lotPrice    float64
}

// Run simulates params.HorizonMonths months against the forecasts.
// It is all-or-nothing: on error no ledger is returned.
func (e *Engine) Run(params model.SimulationParameters, forecasts model.ForecastPair) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if e.LotSize <= 0 {
		return nil, &model.ParamError{Field: "lot_size", Reason: "must be > 0"}
	}
	h := params.HorizonMonths
	if len(forecasts.Prices) != h {
		return nil, errors.Wrapf(ErrForecastShape, "price forecast has %d values, horizon is %d", len(forecasts.Prices), h)
	}
	if len(forecasts.Inflation) != h {
		return nil, errors.Wrapf(ErrForecastShape, "inflation forecast has %d values, horizon is %d", len(forecasts.Inflation), h)
	}

	st := state{}
	months := make([]state, 0, h)
	for m := 1; m <= h; m++ {
		if err := e.step(&st, params, forecasts, m); err != nil {
			return nil, err
		}
		months = append(months, st)
	}

	ledger := make([]LedgerEntry, 0, h)
	traj := Trajectories{
		Portfolio:         make([]float64, 0, h),
		CashPlusPortfolio: make([]float64, 0, h),
		ContributionsOnly: make([]float64, 0, h),
	}
	for i, s := range months {
		value := float64(s.lots) * s.lotPrice
		row := LedgerEntry{
			Month:                   i + 1,
			CashBalance:             round2(s.cash),
			LotPrice:                round2(s.lotPrice),
			LotsOwned:               s.lots,
			PortfolioValue:          round2(value),
			CumulativeContributions: round2(s.contributed),
		}
		ledger = append(ledger, row)
		traj.Portfolio = append(traj.Portfolio, row.PortfolioValue)
		traj.CashPlusPortfolio = append(traj.CashPlusPortfolio, s.cash+value)
		traj.ContributionsOnly = append(traj.ContributionsOnly, s.contributed)
	}

	return &Result{
		LotSize:      e.LotSize,
		Ledger:       ledger,
		Trajectories: traj,
	}, nil
}

// step advances st through month m (1-based):
// contribute, price the lot, buy, then erode idle cash with the previous transition's rate.
func (e *Engine) step(st *state, params model.SimulationParameters, forecasts model.ForecastPair, m int) error {
	k := m - 1

	if params.Contributes(m) {
		c := params.MonthlyContribution()
		st.cash += c
		st.contributed += c
	}

	price := forecasts.Prices[k]
	if !(price > 0) || math.IsInf(price, 0) {
		return &ForecastValueError{Series: "price", Month: m, Value: price}
	}
	st.lotPrice = price * float64(e.LotSize)
	if math.IsInf(st.lotPrice, 0) {
		return &ForecastValueError{Series: "price", Month: m, Value: price, Reason: "lot price overflows"}
	}
	if st.lotPrice < minLotPrice {
		return &ForecastValueError{Series: "price", Month: m, Value: price, Reason: "lot price rounds to zero"}
	}

	bought, rest, ok := buyLots(st.cash, st.lotPrice)
	if !ok || int64(st.lots) > maxExactLots-int64(bought) {
		return &ForecastValueError{Series: "price", Month: m, Value: price, Reason: "lot count is not representable"}
	}
	st.lots += bought
	st.cash = rest
	if math.IsInf(float64(st.lots)*st.lotPrice, 0) {
		return &ForecastValueError{Series: "price", Month: m, Value: price, Reason: "portfolio value overflows"}
	}

	if m > 1 {
		rate := forecasts.Inflation[k-1]
		// a rate above 1 would push cash below zero
		if math.IsNaN(rate) || math.IsInf(rate, 0) || rate > 1 {
			return &ForecastValueError{Series: "inflation", Month: m, Value: rate}
		}
		st.cash *= 1 - rate
		if math.IsInf(st.cash, 0) {
			return &ForecastValueError{Series: "inflation", Month: m, Value: rate, Reason: "cash overflows"}
		}
	}
	return nil
}

// buyLots spends cash on as many whole lots as it affords.
// Same count and remainder as buying one lot at a time while cash >= lotPrice.
// ok is false when cash or lotPrice is unusable or the count would reach 2^53.
func buyLots(cash, lotPrice float64) (lots int, rest float64, ok bool) {
	if !(cash >= 0) || math.IsInf(cash, 0) || !(lotPrice > 0) || math.IsInf(lotPrice, 0) {
		return 0, cash, false
	}
	if cash < lotPrice {
		return 0, cash, true
	}
	q := cash / lotPrice
	if q >= maxExactLots {
		return 0, cash, false
	}
	n := math.Floor(q)
	// the division may land one off the true floor
	for n > 0 && n*lotPrice > cash {
		n--
	}
	for n+1 < maxExactLots && (n+1)*lotPrice <= cash {
		n++
	}
	return int(n), cash - n*lotPrice, true
}

func round2(x float64) float64 {
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}
