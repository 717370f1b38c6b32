// Package config holds the immutable feature-pipeline configuration.
// A Config value is validated once and then passed explicitly to each
// component constructor; nothing mutates it after Load.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ErrInvalidConfig is the root of every configuration error.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config drives the feature generation. Field semantics:
//   - Freq: resample bucket width ("5min", "1H", ...)
//   - LagList: lag feature offsets in periods, ascending positive
//   - RollingWindows: trailing window sizes in periods
//   - EMASpans: exponential moving average spans
//   - PrevDayShift: periods per calendar day; 0 derives it from Freq
//   - HolidayCountry: ISO country code for the holiday flag
//   - HistoryFill: policy for historical aggregates without full history,
//     "ffill" (forward-fill then zero) or "zero" (straight to zero)
type Config struct {
	Freq           string `mapstructure:"freq" validate:"required"`
	LagList        []int  `mapstructure:"lag_list" validate:"required,min=1,dive,gt=0"`
	RollingWindows []int  `mapstructure:"rolling_windows" validate:"required,min=1,dive,gt=0"`
	EMASpans       []int  `mapstructure:"ema_spans" validate:"dive,gt=0"`
	PrevDayShift   int    `mapstructure:"prev_day_shift" validate:"gte=0"`
	HolidayCountry string `mapstructure:"holiday_country"`
	HistoryFill    string `mapstructure:"history_fill" validate:"omitempty,oneof=ffill zero"`
}

// Default returns the configuration used when a field is absent from the
// config file.
func Default() Config {
	return Config{
		Freq:           "5min",
		LagList:        []int{1, 2, 3, 6, 12},
		RollingWindows: []int{12, 36, 288},
		EMASpans:       nil,
		HolidayCountry: "CO",
		HistoryFill:    HistoryFillForward,
	}
}

// HistoryFill policies.
const (
	HistoryFillForward = "ffill"
	HistoryFillZero    = "zero"
)

// Load reads a YAML config file and validates it. The feature settings live
// under the "features" key, matching the pipeline's config layout.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	sub := v.Sub("features")
	if sub == nil {
		sub = v
	}
	if err := sub.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: decode %s: %v", ErrInvalidConfig, path, err)
	}
	if cfg.HolidayCountry == "" {
		cfg.HolidayCountry = "CO"
	}
	if cfg.HistoryFill == "" {
		cfg.HistoryFill = HistoryFillForward
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks structural and semantic constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	for i := 1; i < len(c.LagList); i++ {
		if c.LagList[i] <= c.LagList[i-1] {
			return fmt.Errorf("%w: lag_list must be strictly ascending, got %v", ErrInvalidConfig, c.LagList)
		}
	}

	freq, err := ParseFreq(c.Freq)
	if err != nil {
		return err
	}
	if _, err := PeriodsPerDay(freq); err != nil {
		return err
	}
	return nil
}

// FreqDuration returns the parsed resample period.
func (c Config) FreqDuration() (time.Duration, error) {
	return ParseFreq(c.Freq)
}
