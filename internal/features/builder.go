// Package features computes the per-series feature columns: lags, rolling
// statistics, EMA, calendar encodings and the historical-window aggregate
// families. Everything operates on one aligned series at a time and never
// reads another key's data.
package features

import (
	"fmt"
	"time"

	"api-volume-lab/internal/config"
	"api-volume-lab/internal/domain"
	"api-volume-lab/internal/holiday"
)

// Builder computes the feature frame for aligned series. It is immutable
// after construction and safe to reuse across keys.
type Builder struct {
	cfg          config.Config
	freq         time.Duration
	prevDayShift int
	holidays     holiday.Provider
}

// NewBuilder validates cfg, derives prev_day_shift from freq when it is not
// set explicitly, and fixes the holiday provider for the whole run.
func NewBuilder(cfg config.Config, holidays holiday.Provider) (*Builder, error) {
	freq, err := config.ParseFreq(cfg.Freq)
	if err != nil {
		return nil, err
	}

	shift := cfg.PrevDayShift
	if shift == 0 {
		shift, err = config.PeriodsPerDay(freq)
		if err != nil {
			return nil, err
		}
	}

	if holidays == nil {
		holidays = holiday.Noop{}
	}

	return &Builder{
		cfg:          cfg,
		freq:         freq,
		prevDayShift: shift,
		holidays:     holidays,
	}, nil
}

// Build computes every feature column for one aligned series, in the order
// given by Columns (minus the family columns, which the family aggregator
// joins on afterwards). The final fill pass applies the configured
// insufficient-history policy, leaving no undefined value in the frame.
func (b *Builder) Build(s *domain.AlignedSeries) (*domain.Frame, error) {
	index := s.Timestamps()
	fr := domain.NewFrame(s.Key, index)
	v := s.Values

	imputed := make([]float64, len(v))
	for i, f := range s.Imputed {
		imputed[i] = float64(f)
	}
	if err := fr.AddColumn(ColImputedFlag, imputed); err != nil {
		return nil, err
	}
	llamados := make([]float64, len(v))
	copy(llamados, v)
	if err := fr.AddColumn(ColLlamados, llamados); err != nil {
		return nil, err
	}

	for _, lag := range b.cfg.LagList {
		lagged := shiftBack(v, lag)
		cols := map[string][]float64{
			fmt.Sprintf("lag_%d", lag):         lagged,
			fmt.Sprintf("diff_lag_%d", lag):    diffOnePeriod(lagged),
			fmt.Sprintf("pct_chg_lag_%d", lag): pctChange(lagged),
		}
		for _, name := range []string{
			fmt.Sprintf("lag_%d", lag),
			fmt.Sprintf("diff_lag_%d", lag),
			fmt.Sprintf("pct_chg_lag_%d", lag),
		} {
			if err := fr.AddColumn(name, cols[name]); err != nil {
				return nil, err
			}
		}
	}

	for _, w := range b.cfg.RollingWindows {
		rc := computeRolling(v, w)
		ordered := []struct {
			name   string
			values []float64
		}{
			{fmt.Sprintf("roll_sum_%d", w), rc.sum},
			{fmt.Sprintf("roll_mean_%d", w), rc.mean},
			{fmt.Sprintf("roll_median_%d", w), rc.median},
			{fmt.Sprintf("roll_min_%d", w), rc.min},
			{fmt.Sprintf("roll_max_%d", w), rc.max},
			{fmt.Sprintf("roll_std_%d", w), rc.std},
			{fmt.Sprintf("roll_q25_%d", w), rc.q25},
			{fmt.Sprintf("roll_q75_%d", w), rc.q75},
			{fmt.Sprintf("roll_slope_%d", w), rc.slope},
		}
		for _, col := range ordered {
			if err := fr.AddColumn(col.name, col.values); err != nil {
				return nil, err
			}
		}
	}

	for _, span := range b.cfg.EMASpans {
		if err := fr.AddColumn(fmt.Sprintf("ema_%d", span), computeEMA(v, span)); err != nil {
			return nil, err
		}
	}

	if err := fr.AddColumn("prev_day", shiftBack(v, b.prevDayShift)); err != nil {
		return nil, err
	}
	if err := fr.AddColumn("prev_week", shiftBack(v, b.prevDayShift*7)); err != nil {
		return nil, err
	}

	cal := computeCalendar(index)
	calOrdered := []struct {
		name   string
		values []float64
	}{
		{"hour", cal.hour},
		{"dow", cal.dow},
		{"hour_sin", cal.hourSin},
		{"hour_cos", cal.hourCos},
		{"dow_sin", cal.dowSin},
		{"dow_cos", cal.dowCos},
		{"is_weekend", cal.isWeekend},
		{"month", cal.month},
		{"day_of_month", cal.dayOfMonth},
		{"day_of_year", cal.dayOfYear},
	}
	for _, col := range calOrdered {
		if err := fr.AddColumn(col.name, col.values); err != nil {
			return nil, err
		}
	}

	holidayCol := make([]float64, len(index))
	for i, t := range index {
		if b.holidays.IsHoliday(t) {
			holidayCol[i] = 1
		}
	}
	if err := fr.AddColumn("holiday", holidayCol); err != nil {
		return nil, err
	}
	if err := fr.AddColumn("jornada", cal.jornada); err != nil {
		return nil, err
	}
	if err := fr.AddColumn("quincena_early", cal.quincenaEarly); err != nil {
		return nil, err
	}
	if err := fr.AddColumn("quincena_late", cal.quincenaLate); err != nil {
		return nil, err
	}

	hist := computeHistorical(index, v)
	families := []struct {
		prefix string
		cols   map[string][]float64
	}{
		{"prev_dia_com", hist.prevDiaCom},
		{"prev_dow_com", hist.prevDowCom},
		{"prev_dow_interval", hist.prevDowInterval},
		{"prev_dow_day", hist.prevDowDay},
	}
	for _, fam := range families {
		for _, m := range metricNames {
			name := fmt.Sprintf("%s_%s", fam.prefix, m)
			if err := fr.AddColumn(name, fam.cols[m]); err != nil {
				return nil, err
			}
		}
	}

	switch b.cfg.HistoryFill {
	case config.HistoryFillZero:
		fr.FillZero()
	default:
		fr.FillForwardThenZero()
	}

	return fr, nil
}

// PrevDayShift exposes the derived periods-per-day shift, mainly for the
// orchestrator's summary logging.
func (b *Builder) PrevDayShift() int {
	return b.prevDayShift
}
