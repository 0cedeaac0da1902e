package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"invest-forecast/internal/config"
	"invest-forecast/internal/data"
	"invest-forecast/internal/forecast"
	"invest-forecast/internal/report"
	"invest-forecast/internal/retry"
	"invest-forecast/internal/runner"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "simulate":
		err = cmdSimulate(ctx, os.Args[2:])
	case "forecast":
		err = cmdForecast(ctx, os.Args[2:])
	case "compare":
		err = cmdCompare(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --config examples/config.yaml --out results/ledger.csv [--trajectories results/trajectories.csv] [--json results/run.json]")
	fmt.Println("  cli forecast --series prices.csv [--column close] --steps 12")
	fmt.Println("  cli compare --config examples/config.yaml --symbols BBCA.JK,TLKM.JK")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - simulate writes one ledger row per month: cash, lot price, lots owned, portfolio value")
	fmt.Println("  - prices come from asset.history_file when set, otherwise from the quote provider")
}

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// newRunner wires the configured history sources and forecaster.
func newRunner(cfg *config.Config, l *zap.Logger) *runner.Runner {
	cache := data.NewSeriesCache(0)

	var prices runner.PriceSource = data.NewYahooClient(os.Getenv("YAHOO_BASE_URL"), cache, l)
	if cfg.Asset.HistoryFile != "" {
		prices = data.CSVHistory{Path: cfg.Asset.HistoryFile, Column: cfg.Asset.HistoryColumn}
	}
	inflation := data.InflationFile{
		Path:    cfg.Inflation.File,
		Sheet:   cfg.Inflation.Sheet,
		Column:  cfg.Inflation.Column,
		Percent: cfg.Inflation.IsPercent(),
		Cache:   cache,
	}

	f := forecast.NewForecaster(forecast.NewAuto(cfg.Forecast.Config), l,
		forecast.WithTimeout(cfg.Forecast.Timeout),
		forecast.WithRetry(retry.New(retry.WithMaxRetries(cfg.Forecast.RetryCount()))))
	return runner.New(prices, inflation, f, l)
}

func cmdSimulate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	outPath := fs.String("out", "results/ledger.csv", "Output ledger CSV path")
	trajPath := fs.String("trajectories", "", "Optional: trajectories CSV path")
	jsonPath := fs.String("json", "", "Optional: full run as JSON")
	currency := fs.String("currency", report.DefaultCurrency, "Currency code for the printed summary")
	verbose := fs.Bool("v", false, "Log progress to stderr")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	l := newLogger(*verbose)
	defer l.Sync()

	out, err := newRunner(cfg, l).Run(ctx, runner.Request{
		Symbol:   cfg.Asset.Symbol,
		Range:    cfg.Asset.Range,
		Interval: cfg.Asset.Interval,
		Params:   cfg.Simulation.Params(),
		LotSize:  cfg.Simulation.LotSize,
	})
	if err != nil {
		return err
	}

	result := out.Run.Result
	if err := report.WriteFile(*outPath, func(w io.Writer) error {
		return report.WriteLedgerCSV(w, result.Ledger)
	}); err != nil {
		return err
	}
	fmt.Printf("Wrote %d rows to %s\n", len(result.Ledger), *outPath)

	if *trajPath != "" {
		if err := report.WriteFile(*trajPath, func(w io.Writer) error {
			return report.WriteTrajectoriesCSV(w, result.Trajectories)
		}); err != nil {
			return err
		}
		fmt.Printf("Wrote trajectories to %s\n", *trajPath)
	}
	if *jsonPath != "" {
		if err := report.SaveJSON(*jsonPath, out.Run); err != nil {
			return err
		}
		fmt.Printf("Wrote run to %s\n", *jsonPath)
	}

	s := out.Summary
	fmt.Printf("Symbol=%s Months=%d Lots=%d (lot size %d)\n", cfg.Asset.Symbol, s.Months, s.TotalLots, result.LotSize)
	fmt.Printf("Portfolio=%s Cash=%s Wealth=%s\n",
		report.FormatMoney(s.FinalPortfolioValue, *currency),
		report.FormatMoney(s.FinalCash, *currency),
		report.FormatMoney(s.FinalWealth, *currency))
	fmt.Printf("Contributed=%s Gain=%s\n",
		report.FormatMoney(s.TotalContributions, *currency),
		report.FormatMoney(s.Gain, *currency))
	return nil
}

func cmdForecast(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("forecast", flag.ExitOnError)
	seriesPath := fs.String("series", "", "CSV with a header row")
	column := fs.String("column", "", "Column to forecast (default: last)")
	steps := fs.Int("steps", 12, "Months to forecast")
	criterion := fs.String("criterion", "aic", "Model selection criterion: aic, aicc or bic")
	_ = fs.Parse(args)

	if *seriesPath == "" {
		fmt.Println("--series is required")
		os.Exit(2)
	}

	history, err := data.LoadSeriesCSV(*seriesPath, *column)
	if err != nil {
		return err
	}
	if err := forecast.CheckHistory("series", history); err != nil {
		return err
	}

	cfg := forecast.DefaultConfig()
	cfg.Criterion = *criterion
	m, err := forecast.NewAuto(cfg).Select(ctx, history)
	if err != nil {
		return err
	}
	values, err := m.Predict(*steps)
	if err != nil {
		return err
	}

	fmt.Printf("ARIMA(%d,%d,%d) %s=%.3f on %d points\n", m.Order.P, m.Order.D, m.Order.Q,
		strings.ToUpper(*criterion), m.Criterion(*criterion), len(history))
	fmt.Printf("%-6s %-14s\n", "month", "forecast")
	for i, v := range values {
		fmt.Printf("%-6d %-14.4f\n", i+1, v)
	}
	return nil
}

func cmdCompare(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	symbols := fs.String("symbols", "", "Comma-separated tickers")
	currency := fs.String("currency", report.DefaultCurrency, "Currency code for the printed table")
	_ = fs.Parse(args)

	if *cfgPath == "" || *symbols == "" {
		fmt.Println("--config and --symbols are required")
		os.Exit(2)
	}

	var list []string
	for _, s := range strings.Split(*symbols, ",") {
		if s = strings.TrimSpace(s); s != "" {
			list = append(list, s)
		}
	}
	if len(list) == 0 {
		fmt.Println("--symbols lists no tickers")
		os.Exit(2)
	}

	cfg, err := config.LoadUnchecked(*cfgPath)
	if err != nil {
		return err
	}
	// Every symbol goes to the quote provider; a local history file would pin them all to one series.
	cfg.Asset.HistoryFile = ""
	cfg.Asset.Symbol = list[0]
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	cs, err := newRunner(cfg, zap.NewNop()).Compare(ctx, list, runner.Request{
		Range:    cfg.Asset.Range,
		Interval: cfg.Asset.Interval,
		Params:   cfg.Simulation.Params(),
		LotSize:  cfg.Simulation.LotSize,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%-4s %-12s %-6s %-22s %-22s\n", "rank", "symbol", "lots", "wealth", "gain")
	for _, r := range runner.Rank(cs) {
		fmt.Printf("%-4d %-12s %-6d %-22s %-22s\n",
			r.Rank,
			r.Symbol,
			r.Summary.TotalLots,
			report.FormatMoney(r.Summary.FinalWealth, *currency),
			report.FormatMoney(r.Summary.Gain, *currency))
	}
	for _, c := range cs {
		if c.Err != nil {
			fmt.Printf("%-4s %-12s failed: %v\n", "-", c.Symbol, c.Err)
		}
	}
	return nil
}
