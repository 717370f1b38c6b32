// Package main generates a deterministic sample call-volume CSV for local
// pipeline runs. The file uses the split anio/mes/dia/hora timestamp layout
// of the historic exports.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"
)

type series struct {
	apiName string
	familia string
	base    float64
	amp     float64
}

var sampleSeries = []series{
	{apiName: "api_consulta_saldo", familia: "canales", base: 120, amp: 60},
	{apiName: "api_transferencias", familia: "canales", base: 80, amp: 40},
	{apiName: "api_validacion_identidad", familia: "seguridad", base: 30, amp: 15},
}

func main() {
	out := flag.String("out", "sample_data.csv", "Output CSV path")
	days := flag.Int("days", 14, "Days of data to generate")
	freqMinutes := flag.Int("freq-minutes", 5, "Minutes between observations")
	seed := flag.Int64("seed", 42, "Random seed")
	gapPct := flag.Float64("gap-pct", 0.05, "Fraction of buckets dropped to simulate gaps")
	flag.Parse()

	if err := generate(*out, *days, *freqMinutes, *seed, *gapPct); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote sample data to %s\n", *out)
}

func generate(path string, days, freqMinutes int, seed int64, gapPct float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"anio", "mes", "dia", "hora", "api_name", "familia", "llamados"}); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(seed))
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC) // a Monday
	end := start.AddDate(0, 0, days)
	step := time.Duration(freqMinutes) * time.Minute

	for _, s := range sampleSeries {
		for ts := start; ts.Before(end); ts = ts.Add(step) {
			if rng.Float64() < gapPct {
				continue
			}
			if err := w.Write([]string{
				fmt.Sprintf("%d", ts.Year()),
				fmt.Sprintf("%d", int(ts.Month())),
				fmt.Sprintf("%d", ts.Day()),
				ts.Format("15:04:05"),
				s.apiName,
				s.familia,
				fmt.Sprintf("%.0f", volumeAt(s, ts, rng)),
			}); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// volumeAt shapes a plausible daily cycle: a sinusoid peaking mid-day, a
// weekend dip, plus noise. Values never go below zero.
func volumeAt(s series, ts time.Time, rng *rand.Rand) float64 {
	hourFrac := float64(ts.Hour()) + float64(ts.Minute())/60
	daily := math.Sin((hourFrac - 6) / 24 * 2 * math.Pi)

	v := s.base + s.amp*daily
	if wd := ts.Weekday(); wd == time.Saturday || wd == time.Sunday {
		v *= 0.4
	}
	v += rng.NormFloat64() * s.amp * 0.1

	if v < 0 {
		return 0
	}
	return v
}
