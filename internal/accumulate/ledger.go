package accumulate

// LedgerEntry is the month-end snapshot of one simulated month.
// Money fields are rounded to 2 decimal places.
type LedgerEntry struct {
	Month int `json:"month"`

	// CashBalance is idle cash after purchases and after this month's erosion.
	CashBalance float64 `json:"cash_balance"`
	LotPrice    float64 `json:"lot_price"`
	LotsOwned   int     `json:"lots_owned"`

	PortfolioValue float64 `json:"portfolio_value"`

	// CumulativeContributions is never eroded.
	CumulativeContributions float64 `json:"cumulative_contributions"`
}

// Trajectories are the per-month series derived from a finished ledger.
type Trajectories struct {
	Portfolio         []float64 `json:"portfolio"`
	CashPlusPortfolio []float64 `json:"cash_plus_portfolio"`
	ContributionsOnly []float64 `json:"contributions_only"`
}

type Result struct {
	LotSize      int           `json:"lot_size"`
	Ledger       []LedgerEntry `json:"ledger"`
	Trajectories Trajectories  `json:"trajectories"`
}

// Summary condenses the last month of a run.
type Summary struct {
	Months              int     `json:"months"`
	FinalPortfolioValue float64 `json:"final_portfolio_value"`
	FinalCash           float64 `json:"final_cash"`
	FinalWealth         float64 `json:"final_wealth"`
	TotalLots           int     `json:"total_lots"`
	TotalContributions  float64 `json:"total_contributions"`
	// Gain is FinalWealth minus what was put in; negative when inflation and prices lost value.
	Gain float64 `json:"gain"`
}

func (r *Result) Summary() Summary {
	if r == nil || len(r.Ledger) == 0 {
		return Summary{}
	}
	last := r.Ledger[len(r.Ledger)-1]
	wealth := round2(r.Trajectories.CashPlusPortfolio[len(r.Ledger)-1])
	return Summary{
		Months:              len(r.Ledger),
		FinalPortfolioValue: last.PortfolioValue,
		FinalCash:           last.CashBalance,
		FinalWealth:         wealth,
		TotalLots:           last.LotsOwned,
		TotalContributions:  last.CumulativeContributions,
		Gain:                round2(wealth - last.CumulativeContributions),
	}
}
