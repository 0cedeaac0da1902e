package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"invest-forecast/internal/data"
	"invest-forecast/internal/forecast"
	"invest-forecast/internal/model"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load the simulation block from a separate profile YAML
	// (e.g. examples/profiles/*.yaml). Fields set in Simulation override it.
	ProfileFile string           `yaml:"profile_file"`
	Simulation  SimulationConfig `yaml:"simulation"`
	Asset       AssetConfig      `yaml:"asset"`
	Inflation   InflationConfig  `yaml:"inflation"`
	Forecast    ForecastConfig   `yaml:"forecast"`
}

type SimulationConfig struct {
	Name          string  `yaml:"name"`
	MonthlyIncome float64 `yaml:"monthly_income"`
	// SavingPercent is the share of income saved each month, 0..100.
	SavingPercent float64 `yaml:"saving_percent"`
	SavingMonths  int     `yaml:"saving_months"`
	HorizonMonths int     `yaml:"horizon_months"`
	LotSize       int     `yaml:"lot_size"`
}

type AssetConfig struct {
	Symbol   string `yaml:"symbol"`
	Range    string `yaml:"range"`
	Interval string `yaml:"interval"`
	// HistoryFile replaces the quote provider with a local CSV.
	HistoryFile   string `yaml:"history_file"`
	HistoryColumn string `yaml:"history_column"`
}

type InflationConfig struct {
	File   string `yaml:"file"`
	Sheet  string `yaml:"sheet"`
	Column string `yaml:"column"`
	// Percent marks values stored as percentages. Defaults to true.
	Percent *bool `yaml:"percent"`
}

func (i InflationConfig) IsPercent() bool {
	return i.Percent == nil || *i.Percent
}

type ForecastConfig struct {
	forecast.Config `yaml:",inline"`
	Timeout         time.Duration `yaml:"timeout"`
	// Retries is how often a failed forecast is repeated. Defaults to 2.
	Retries *int `yaml:"retries"`
}

func (f ForecastConfig) RetryCount() int {
	if f.Retries == nil {
		return 2
	}
	return *f.Retries
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Relative file paths are resolved against the config file's directory when
// the file exists there.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}

	dir := filepath.Dir(path)
	if c.ProfileFile != "" {
		loaded, err := LoadProfile(resolve(dir, c.ProfileFile))
		if err != nil {
			return nil, err
		}
		c.Simulation = MergeSimulation(loaded, c.Simulation)
	}
	c.Asset.HistoryFile = resolve(dir, c.Asset.HistoryFile)
	c.Inflation.File = resolve(dir, c.Inflation.File)
	return &c, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	cand := filepath.Join(dir, p)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return p
}

// ApplyDefaults fills in everything a config may leave out.
func (c *Config) ApplyDefaults() {
	if c.Simulation.LotSize == 0 {
		c.Simulation.LotSize = model.DefaultLotSize
	}
	if c.Asset.Range == "" {
		c.Asset.Range = data.DefaultRange
	}
	if c.Asset.Interval == "" {
		c.Asset.Interval = data.DefaultInterval
	}
	if c.Inflation.Column == "" {
		c.Inflation.Column = data.DefaultInflationColumn
	}
	f := &c.Forecast.Config
	if f.MaxP == 0 && f.MaxD == 0 && f.MaxQ == 0 {
		def := forecast.DefaultConfig()
		f.MaxP, f.MaxD, f.MaxQ = def.MaxP, def.MaxD, def.MaxQ
	}
	if f.Criterion == "" {
		f.Criterion = forecast.DefaultConfig().Criterion
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Simulation.Params().Validate(); err != nil {
		return errors.Wrap(err, "simulation config invalid")
	}
	if c.Simulation.SavingPercent < 0 || c.Simulation.SavingPercent > 100 {
		return errors.New("simulation.saving_percent must be within [0, 100]")
	}
	if c.Simulation.LotSize < 0 {
		return errors.New("simulation.lot_size must be > 0")
	}
	if c.Asset.Symbol == "" && c.Asset.HistoryFile == "" {
		return errors.New("asset.symbol or asset.history_file is required")
	}
	if c.Inflation.File == "" {
		return errors.New("inflation.file is required")
	}
	f := c.Forecast
	if f.MaxP < 0 || f.MaxD < 0 || f.MaxQ < 0 {
		return errors.New("forecast orders must be >= 0")
	}
	switch strings.ToLower(f.Criterion) {
	case "", "aic", "aicc", "bic":
	default:
		return errors.Errorf("forecast.criterion %q is not one of aic, aicc, bic", f.Criterion)
	}
	if f.Timeout < 0 {
		return errors.New("forecast.timeout must be >= 0")
	}
	if f.RetryCount() < 0 {
		return errors.New("forecast.retries must be >= 0")
	}
	return nil
}

// Params converts the block into simulation parameters.
func (s SimulationConfig) Params() model.SimulationParameters {
	return model.SimulationParameters{
		MonthlyIncome:  s.MonthlyIncome,
		SavingFraction: model.FromPercent(s.SavingPercent),
		SavingMonths:   s.SavingMonths,
		HorizonMonths:  s.HorizonMonths,
	}
}

type profileFileWrapper struct {
	Simulation SimulationConfig `yaml:"simulation"`
}

// LoadProfile reads the simulation block of a profile file.
func LoadProfile(path string) (SimulationConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SimulationConfig{}, err
	}
	var w profileFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return SimulationConfig{}, errors.Wrapf(err, "parse profile %s", path)
	}
	return w.Simulation, nil
}

// MergeSimulation overlays non-zero fields from override onto base.
func MergeSimulation(base, override SimulationConfig) SimulationConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.MonthlyIncome != 0 {
		out.MonthlyIncome = override.MonthlyIncome
	}
	if override.SavingPercent != 0 {
		out.SavingPercent = override.SavingPercent
	}
	if override.SavingMonths != 0 {
		out.SavingMonths = override.SavingMonths
	}
	if override.HorizonMonths != 0 {
		out.HorizonMonths = override.HorizonMonths
	}
	if override.LotSize != 0 {
		out.LotSize = override.LotSize
	}
	return out
}
