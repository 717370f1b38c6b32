package features

import (
	"math"
	"time"

	"api-volume-lab/internal/domain"
)

// Historical-window aggregate families. Each family partitions the series
// once (by calendar day, by Monday-Sunday week, by week and time-of-day, by
// weekday occurrence), computes the metric set once per distinct partition
// and broadcasts the result onto every row that references it. All lookups
// point strictly backwards, so a row never reads its own bucket or any
// later one, and everything comes from the same series key by construction.
type historicalFamilies struct {
	prevDiaCom      map[string][]float64
	prevDowCom      map[string][]float64
	prevDowInterval map[string][]float64
	prevDowDay      map[string][]float64
}

// weekdayHistoryDepth is how many prior occurrences of the same weekday the
// prev_dow_day family concatenates.
const weekdayHistoryDepth = 4

type weekIntervalKey struct {
	week time.Time
	tod  time.Duration
}

func computeHistorical(index []time.Time, values []float64) historicalFamilies {
	n := len(index)

	// Partition rows by calendar day, week, and (week, time-of-day).
	dayValues := make(map[time.Time][]float64)
	weekValues := make(map[time.Time][]float64)
	intervalValues := make(map[weekIntervalKey][]float64)
	for i, t := range index {
		day := domain.DateOf(t)
		week := domain.WeekStart(t)
		dayValues[day] = append(dayValues[day], values[i])
		weekValues[week] = append(weekValues[week], values[i])
		k := weekIntervalKey{week: week, tod: t.Sub(day)}
		intervalValues[k] = append(intervalValues[k], values[i])
	}

	dayStats := make(map[time.Time]aggStats, len(dayValues))
	for d, v := range dayValues {
		dayStats[d] = computeAggStats(v, false)
	}
	weekStats := make(map[time.Time]aggStats, len(weekValues))
	for w, v := range weekValues {
		weekStats[w] = computeAggStats(v, false)
	}
	intervalStats := make(map[weekIntervalKey]aggStats, len(intervalValues))
	for k, v := range intervalValues {
		intervalStats[k] = computeAggStats(v, false)
	}

	// prev_dow_day is keyed by calendar day: every row of a day shares the
	// concatenation of the 4 most recent prior same-weekday days.
	weekdayStats := make(map[time.Time]aggStats, len(dayValues))
	for d := range dayValues {
		var concat []float64
		for k := 1; k <= weekdayHistoryDepth; k++ {
			prior := d.AddDate(0, 0, -7*k)
			concat = append(concat, dayValues[prior]...)
		}
		// population stddev for this family
		weekdayStats[d] = computeAggStats(concat, true)
	}

	undefined := aggStats{
		sum: math.NaN(), mean: math.NaN(), median: math.NaN(),
		max: math.NaN(), min: math.NaN(), std: math.NaN(),
		q25: math.NaN(), q75: math.NaN(),
	}

	fam := historicalFamilies{
		prevDiaCom:      newMetricColumns(n),
		prevDowCom:      newMetricColumns(n),
		prevDowInterval: newMetricColumns(n),
		prevDowDay:      newMetricColumns(n),
	}

	for i, t := range index {
		day := domain.DateOf(t)
		week := domain.WeekStart(t)

		prevDay, ok := dayStats[day.AddDate(0, 0, -1)]
		if !ok {
			prevDay = undefined
		}
		setMetricRow(fam.prevDiaCom, i, prevDay)

		prevWeek, ok := weekStats[week.AddDate(0, 0, -7)]
		if !ok {
			prevWeek = undefined
		}
		setMetricRow(fam.prevDowCom, i, prevWeek)

		prevInterval, ok := intervalStats[weekIntervalKey{week: week.AddDate(0, 0, -7), tod: t.Sub(day)}]
		if !ok {
			prevInterval = undefined
		}
		setMetricRow(fam.prevDowInterval, i, prevInterval)

		setMetricRow(fam.prevDowDay, i, weekdayStats[day])
	}

	return fam
}

func newMetricColumns(n int) map[string][]float64 {
	cols := make(map[string][]float64, len(metricNames))
	for _, m := range metricNames {
		cols[m] = make([]float64, n)
	}
	return cols
}

func setMetricRow(cols map[string][]float64, i int, s aggStats) {
	for _, m := range metricNames {
		cols[m][i] = s.byName(m)
	}
}
