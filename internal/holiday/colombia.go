package holiday

import (
	"time"

	"github.com/rickar/cal/v2"
)

// nextMonday implements the Ley Emiliani observance: holidays falling on any
// day other than Monday are observed the following Monday.
var nextMonday = []cal.AltDay{
	{Day: time.Tuesday, Offset: 6},
	{Day: time.Wednesday, Offset: 5},
	{Day: time.Thursday, Offset: 4},
	{Day: time.Friday, Offset: 3},
	{Day: time.Saturday, Offset: 2},
	{Day: time.Sunday, Offset: 1},
}

func fixed(name string, month time.Month, day int) *cal.Holiday {
	return &cal.Holiday{
		Name:  name,
		Type:  cal.ObservancePublic,
		Month: month,
		Day:   day,
		Func:  cal.CalcDayOfMonth,
	}
}

func emiliani(name string, month time.Month, day int) *cal.Holiday {
	h := fixed(name, month, day)
	h.Observed = nextMonday
	return h
}

func easterOffset(name string, offset int) *cal.Holiday {
	return &cal.Holiday{
		Name:   name,
		Type:   cal.ObservancePublic,
		Offset: offset,
		Func:   cal.CalcEasterOffset,
	}
}

// colombianHolidays is the national civil and religious calendar. The
// movable religious holidays that Colombia observes on Mondays (Ascension,
// Corpus Christi, Sacred Heart) carry the Monday offset directly.
var colombianHolidays = []*cal.Holiday{
	fixed("Año Nuevo", time.January, 1),
	emiliani("Día de los Reyes Magos", time.January, 6),
	emiliani("Día de San José", time.March, 19),
	easterOffset("Jueves Santo", -3),
	easterOffset("Viernes Santo", -2),
	fixed("Día del Trabajo", time.May, 1),
	easterOffset("Ascensión del Señor", 43),
	easterOffset("Corpus Christi", 64),
	easterOffset("Sagrado Corazón", 71),
	emiliani("San Pedro y San Pablo", time.June, 29),
	fixed("Día de la Independencia", time.July, 20),
	fixed("Batalla de Boyacá", time.August, 7),
	emiliani("Asunción de la Virgen", time.August, 15),
	emiliani("Día de la Raza", time.October, 12),
	emiliani("Todos los Santos", time.November, 1),
	emiliani("Independencia de Cartagena", time.November, 11),
	fixed("Inmaculada Concepción", time.December, 8),
	fixed("Navidad", time.December, 25),
}

type calendarProvider struct {
	cal *cal.Calendar
}

// Colombia returns the provider backed by the Colombian holiday calendar.
func Colombia() Provider {
	c := &cal.Calendar{Name: "Colombia", Cacheable: true}
	c.AddHoliday(colombianHolidays...)
	return calendarProvider{cal: c}
}

// IsHoliday reports whether the date is a holiday, on either its actual or
// its observed (shifted) day.
func (p calendarProvider) IsHoliday(t time.Time) bool {
	actual, observed, _ := p.cal.IsHoliday(t)
	return actual || observed
}
