package report

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"invest-forecast/internal/accumulate"
)

var ErrLengthMismatch = errors.New("trajectory lengths differ")

func WriteLedgerCSV(w io.Writer, ledger []accumulate.LedgerEntry) error {
	cw := csv.NewWriter(w)

	header := []string{
		"month",
		"cash_balance",
		"lot_price",
		"lots_owned",
		"portfolio_value",
		"cumulative_contributions",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, e := range ledger {
		row := []string{
			strconv.Itoa(e.Month),
			fmtMoney(e.CashBalance),
			fmtMoney(e.LotPrice),
			strconv.Itoa(e.LotsOwned),
			fmtMoney(e.PortfolioValue),
			fmtMoney(e.CumulativeContributions),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteTrajectoriesCSV writes one row per month with the three derived series.
func WriteTrajectoriesCSV(w io.Writer, t accumulate.Trajectories) error {
	n := len(t.Portfolio)
	if len(t.CashPlusPortfolio) != n || len(t.ContributionsOnly) != n {
		return ErrLengthMismatch
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"month", "portfolio", "cash_plus_portfolio", "contributions_only"}); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		row := []string{
			strconv.Itoa(i + 1),
			fmtMoney(t.Portfolio[i]),
			fmtMoney(t.CashPlusPortfolio[i]),
			fmtMoney(t.ContributionsOnly[i]),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile creates path (and its directory) and fills it with write.
func WriteFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create output directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fmtMoney(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(2)
}
