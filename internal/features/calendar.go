package features

import (
	"math"
	"time"

	"api-volume-lab/internal/domain"
)

// calendarColumns are the pure-function-of-timestamp encodings.
type calendarColumns struct {
	hour, dow                   []float64
	hourSin, hourCos            []float64
	dowSin, dowCos              []float64
	isWeekend                   []float64
	month, dayOfMonth           []float64
	dayOfYear                   []float64
	jornada                     []float64
	quincenaEarly, quincenaLate []float64
}

func computeCalendar(index []time.Time) calendarColumns {
	n := len(index)
	c := calendarColumns{
		hour: make([]float64, n), dow: make([]float64, n),
		hourSin: make([]float64, n), hourCos: make([]float64, n),
		dowSin: make([]float64, n), dowCos: make([]float64, n),
		isWeekend: make([]float64, n),
		month:     make([]float64, n), dayOfMonth: make([]float64, n),
		dayOfYear: make([]float64, n),
		jornada:   make([]float64, n),
		quincenaEarly: make([]float64, n), quincenaLate: make([]float64, n),
	}

	for i, t := range index {
		hour := float64(t.Hour())
		dow := float64(domain.DayOfWeek(t))
		c.hour[i] = hour
		c.dow[i] = dow
		c.hourSin[i] = math.Sin(2 * math.Pi * hour / 24)
		c.hourCos[i] = math.Cos(2 * math.Pi * hour / 24)
		c.dowSin[i] = math.Sin(2 * math.Pi * dow / 7)
		c.dowCos[i] = math.Cos(2 * math.Pi * dow / 7)
		if dow >= 5 {
			c.isWeekend[i] = 1
		}
		c.month[i] = float64(t.Month())
		c.dayOfMonth[i] = float64(t.Day())
		c.dayOfYear[i] = float64(t.YearDay())
		c.jornada[i] = jornada(t)

		day := t.Day()
		if day >= 14 && day <= 16 {
			c.quincenaEarly[i] = 1
		}
		if day >= 29 || day == 1 {
			c.quincenaLate[i] = 1
		}
	}
	return c
}

// jornada is the shift indicator: 0 for the morning, which runs through
// 12:00:00 exactly, and 1 from the first instant after noon.
func jornada(t time.Time) float64 {
	h := t.Hour()
	if h < 12 {
		return 0
	}
	if h == 12 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return 0
	}
	return 1
}
