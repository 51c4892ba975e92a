package store

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"post-market-analysis/internal/eod"
	"post-market-analysis/internal/instrument"
	"post-market-analysis/internal/types"
)

// ErrorPolicy decides what the batch driver does with a file that fails.
type ErrorPolicy string

const (
	OnErrorSkip  ErrorPolicy = "SKIP"
	OnErrorAbort ErrorPolicy = "ABORT"
)

const (
	LotSizeSourceStatic = "STATIC"
	LotSizeSourceKite   = "KITE"
)

type Config struct {
	LotSizes       map[string]int64 `yaml:"lot_sizes"`
	FamilyPriority []string         `yaml:"family_priority"`
	// nil or 0 means portfolios matching no tag are an error.
	DefaultLotSize *int64            `yaml:"default_lot_size"`
	RankingMode    types.RankingMode `yaml:"ranking_mode"`
	NoiseTokens    []string          `yaml:"noise_tokens"`
	// Price units, compared against ParityWas/100. nil disables the filter.
	ExcludedParityAsked *int64 `yaml:"excluded_parity_asked"`

	Workers         int         `yaml:"workers"`
	OnError         ErrorPolicy `yaml:"on_error"`
	CacheTTLSeconds int         `yaml:"cache_ttl_seconds"`

	LotSizeSource string `yaml:"lot_size_source"`
	Kite          struct {
		Exchange string `yaml:"exchange"`
	} `yaml:"kite"`

	Report struct {
		Format string `yaml:"format"`
		Output string `yaml:"output"`
		Color  bool   `yaml:"color"`
	} `yaml:"report"`
}

// DefaultConfig returns the gross-profit variant used when no file is given.
func DefaultConfig() *Config {
	defaultLot := int64(1)
	sentinel := int64(5000)
	c := &Config{
		LotSizes: map[string]int64{
			"BANKNIFTY":  15,
			"FINNIFTY":   25,
			"MIDCPNIFTY": 50,
			"NIFTY":      25,
		},
		FamilyPriority:      append([]string(nil), instrument.DefaultPriority...),
		DefaultLotSize:      &defaultLot,
		RankingMode:         types.RankGrossProfit,
		NoiseTokens:         append([]string(nil), eod.DefaultNoiseTokens...),
		ExcludedParityAsked: &sentinel,
		Workers:             1,
		OnError:             OnErrorSkip,
		LotSizeSource:       LotSizeSourceStatic,
	}
	c.Kite.Exchange = "NFO"
	c.Report.Format = "csv"
	return c
}

func (c *Config) Validate() error {
	if len(c.LotSizes) == 0 {
		return fmt.Errorf("lot_sizes cannot be empty")
	}
	for tag, size := range c.LotSizes {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("lot_sizes contains an empty tag")
		}
		if size <= 0 {
			return fmt.Errorf("lot_sizes.%s must be positive, got %d", tag, size)
		}
	}
	if c.DefaultLotSize != nil && *c.DefaultLotSize < 0 {
		return fmt.Errorf("default_lot_size must not be negative, got %d", *c.DefaultLotSize)
	}
	if c.RankingMode != types.RankSumAlpha && c.RankingMode != types.RankGrossProfit {
		return fmt.Errorf("invalid ranking_mode '%s': must be 'SUM_ALPHA' or 'GROSS_PROFIT'", c.RankingMode)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.OnError != OnErrorSkip && c.OnError != OnErrorAbort {
		return fmt.Errorf("invalid on_error '%s': must be 'SKIP' or 'ABORT'", c.OnError)
	}
	if c.CacheTTLSeconds < 0 {
		return fmt.Errorf("cache_ttl_seconds must not be negative, got %d", c.CacheTTLSeconds)
	}
	if c.LotSizeSource != LotSizeSourceStatic && c.LotSizeSource != LotSizeSourceKite {
		return fmt.Errorf("invalid lot_size_source '%s': must be 'STATIC' or 'KITE'", c.LotSizeSource)
	}
	switch c.Report.Format {
	case "csv", "json", "text":
	default:
		return fmt.Errorf("invalid report.format '%s': must be 'csv', 'json', or 'text'", c.Report.Format)
	}
	return nil
}

// LoadConfig reads a YAML file over DefaultConfig. Absent keys keep their
// defaults; an explicit null clears default_lot_size or excluded_parity_asked.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(b)
}

func ParseConfig(b []byte) (*Config, error) {
	c := DefaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}

	c.RankingMode = types.RankingMode(strings.ToUpper(string(c.RankingMode)))
	c.OnError = ErrorPolicy(strings.ToUpper(string(c.OnError)))
	c.LotSizeSource = strings.ToUpper(c.LotSizeSource)
	c.Report.Format = strings.ToLower(c.Report.Format)
	if c.Kite.Exchange == "" {
		c.Kite.Exchange = "NFO"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

// Resolver builds the lot-size resolver described by the config.
func (c *Config) Resolver() *instrument.Resolver {
	var opts []instrument.Option
	if c.DefaultLotSize != nil && *c.DefaultLotSize > 0 {
		opts = append(opts, instrument.WithDefault(*c.DefaultLotSize))
	}
	return instrument.NewResolver(instrument.RulesFromTable(c.LotSizes, c.FamilyPriority), opts...)
}

// ExcludedParity returns the sentinel price and whether the filter is on.
func (c *Config) ExcludedParity() (decimal.Decimal, bool) {
	if c.ExcludedParityAsked == nil {
		return decimal.Zero, false
	}
	return decimal.NewFromInt(*c.ExcludedParityAsked), true
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
