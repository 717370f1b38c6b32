package features

import (
	"fmt"

	"api-volume-lab/internal/config"
)

// Feature column names that do not depend on the configuration.
const (
	ColImputedFlag = "imputed_flag"
	ColLlamados    = "llamados"
)

var calendarColumnNames = []string{
	"hour", "dow", "hour_sin", "hour_cos", "dow_sin", "dow_cos",
	"is_weekend", "month", "day_of_month", "day_of_year",
}

var indicatorColumnNames = []string{"holiday", "jornada", "quincena_early", "quincena_late"}

var rollingMetricNames = []string{"sum", "mean", "median", "min", "max", "std", "q25", "q75", "slope"}

var historicalPrefixes = []string{"prev_dia_com", "prev_dow_com", "prev_dow_interval", "prev_dow_day"}

// Columns returns the full feature column order implied by cfg. It is a
// pure function of the configuration: identical configs always produce the
// identical list, regardless of the data.
func Columns(cfg config.Config) []string {
	var cols []string
	cols = append(cols, ColImputedFlag, ColLlamados)

	for _, lag := range cfg.LagList {
		cols = append(cols,
			fmt.Sprintf("lag_%d", lag),
			fmt.Sprintf("diff_lag_%d", lag),
			fmt.Sprintf("pct_chg_lag_%d", lag),
		)
	}

	for _, w := range cfg.RollingWindows {
		for _, m := range rollingMetricNames {
			cols = append(cols, fmt.Sprintf("roll_%s_%d", m, w))
		}
	}

	for _, span := range cfg.EMASpans {
		cols = append(cols, fmt.Sprintf("ema_%d", span))
	}

	cols = append(cols, "prev_day", "prev_week")
	cols = append(cols, calendarColumnNames...)
	cols = append(cols, indicatorColumnNames...)

	for _, prefix := range historicalPrefixes {
		for _, m := range metricNames {
			cols = append(cols, fmt.Sprintf("%s_%s", prefix, m))
		}
	}

	for _, w := range cfg.RollingWindows {
		cols = append(cols, fmt.Sprintf("family_roll_mean_%d", w))
	}

	return cols
}
