package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"market-calendar/internal/expiry"
)

type Config struct {
	Dataset struct {
		Path   string `yaml:"path"`
		Format string `yaml:"format"` // csv or xlsx, inferred from path when empty
		Sheet  string `yaml:"sheet"`  // xlsx worksheet name
	} `yaml:"dataset"`
	Quotes struct {
		Enabled        bool `yaml:"enabled"`
		TimeoutSeconds int  `yaml:"timeout_seconds"`
		Yahoo          []struct {
			Symbol string `yaml:"symbol"`
			Column string `yaml:"column"`
		} `yaml:"yahoo"`
		Investing []struct {
			URL    string `yaml:"url"`
			Column string `yaml:"column"`
		} `yaml:"investing"`
		Kite struct {
			Enabled bool              `yaml:"enabled"`
			Symbols map[string]string `yaml:"symbols"` // "NSE:NIFTY 50" -> column
		} `yaml:"kite"`
	} `yaml:"quotes"`
	// Expiries overrides the built-in rule table when non-empty.
	Expiries []SeriesConfig `yaml:"expiries"`
}

// SeriesConfig is the yaml shape of one rule series.
type SeriesConfig struct {
	Instrument  string `yaml:"instrument"`
	Frequency   string `yaml:"frequency"`
	Launch      string `yaml:"launch"`
	Discontinue string `yaml:"discontinue"`
	Column      string `yaml:"column"`
	Epochs      []struct {
		From    string `yaml:"from"`
		Weekday string `yaml:"weekday"`
	} `yaml:"epochs"`
}

func (c *Config) Validate() error {
	if c.Dataset.Path == "" {
		return errors.New("dataset.path cannot be empty")
	}
	if c.Dataset.Format != "csv" && c.Dataset.Format != "xlsx" {
		return fmt.Errorf("invalid dataset.format '%s': must be 'csv' or 'xlsx'", c.Dataset.Format)
	}
	if c.Dataset.Format == "xlsx" && c.Dataset.Sheet == "" {
		return errors.New("dataset.sheet is required for xlsx datasets")
	}
	if c.Quotes.TimeoutSeconds <= 0 {
		return fmt.Errorf("quotes.timeout_seconds must be positive, got %d", c.Quotes.TimeoutSeconds)
	}
	for _, y := range c.Quotes.Yahoo {
		if y.Symbol == "" || y.Column == "" {
			return errors.New("quotes.yahoo entries need both symbol and column")
		}
	}
	for _, i := range c.Quotes.Investing {
		if i.URL == "" || i.Column == "" {
			return errors.New("quotes.investing entries need both url and column")
		}
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Dataset.Path == "" {
		c.Dataset.Path = "Calendar1_Updated3.csv"
	}
	if c.Dataset.Format == "" {
		if strings.HasSuffix(strings.ToLower(c.Dataset.Path), ".xlsx") {
			c.Dataset.Format = "xlsx"
		} else {
			c.Dataset.Format = "csv"
		}
	}
	if c.Dataset.Format == "xlsx" && c.Dataset.Sheet == "" {
		c.Dataset.Sheet = "Calendar"
	}
	if c.Quotes.TimeoutSeconds == 0 {
		c.Quotes.TimeoutSeconds = 45
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

// RuleTable builds the expiry rule table from the config, falling back to
// the built-in exchange history when no overrides are configured.
func (c *Config) RuleTable() (expiry.Table, error) {
	if len(c.Expiries) == 0 {
		return expiry.DefaultTable(), nil
	}
	series := make([]*expiry.Series, 0, len(c.Expiries))
	for _, sc := range c.Expiries {
		s, err := sc.toSeries()
		if err != nil {
			return nil, err
		}
		series = append(series, s)
	}
	return expiry.NewTable(series...)
}

func (sc SeriesConfig) toSeries() (*expiry.Series, error) {
	launch, err := expiry.ParseDate(sc.Launch)
	if err != nil {
		return nil, fmt.Errorf("series %s/%s: bad launch date: %w", sc.Instrument, sc.Frequency, err)
	}
	s := &expiry.Series{
		Instrument: expiry.Instrument(strings.ToLower(sc.Instrument)),
		Frequency:  expiry.Frequency(strings.ToLower(sc.Frequency)),
		Launch:     launch,
		Column:     sc.Column,
	}
	if sc.Discontinue != "" {
		d, err := expiry.ParseDate(sc.Discontinue)
		if err != nil {
			return nil, fmt.Errorf("series %s/%s: bad discontinue date: %w", sc.Instrument, sc.Frequency, err)
		}
		s.Discontinue = &d
	}
	for _, ec := range sc.Epochs {
		from, err := expiry.ParseDate(ec.From)
		if err != nil {
			return nil, fmt.Errorf("series %s/%s: bad epoch date: %w", sc.Instrument, sc.Frequency, err)
		}
		wd, err := parseWeekday(ec.Weekday)
		if err != nil {
			return nil, fmt.Errorf("series %s/%s: %w", sc.Instrument, sc.Frequency, err)
		}
		s.Epochs = append(s.Epochs, expiry.Epoch{EffectiveFrom: from, Weekday: wd})
	}
	return s, nil
}

func parseWeekday(name string) (time.Weekday, error) {
	switch strings.ToLower(name) {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	}
	return time.Sunday, fmt.Errorf("unknown weekday '%s'", name)
}
