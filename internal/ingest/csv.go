// Package ingest reads raw call-volume logs from CSV files into domain
// events. Two timestamp layouts are accepted: a ready fecha_hora column, or
// the split anio/mes/dia/hora columns of the historic exports.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"api-volume-lab/internal/domain"
)

// ErrMissingColumns is returned when the header lacks a required column.
var ErrMissingColumns = errors.New("csv header is missing required columns")

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
}

var timeOfDayLayouts = []string{
	"15:04:05",
	"15:04",
}

// header maps the column layout of one file.
type header struct {
	apiName  int
	familia  int
	llamados int

	// either fechaHora, or the split columns
	fechaHora int
	anio      int
	mes       int
	dia       int
	hora      int
}

func parseHeader(record []string) (header, error) {
	h := header{apiName: -1, familia: -1, llamados: -1, fechaHora: -1, anio: -1, mes: -1, dia: -1, hora: -1}
	for i, name := range record {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "api_name":
			h.apiName = i
		case "familia":
			h.familia = i
		case "llamados":
			h.llamados = i
		case "fecha_hora":
			h.fechaHora = i
		case "anio":
			h.anio = i
		case "mes":
			h.mes = i
		case "dia":
			h.dia = i
		case "hora":
			h.hora = i
		}
	}

	if h.apiName < 0 || h.familia < 0 || h.llamados < 0 {
		return h, fmt.Errorf("%w: need api_name, familia, llamados", ErrMissingColumns)
	}
	if h.fechaHora < 0 && (h.anio < 0 || h.mes < 0 || h.dia < 0 || h.hora < 0) {
		return h, fmt.Errorf("%w: need fecha_hora or anio/mes/dia/hora", ErrMissingColumns)
	}
	return h, nil
}

func (h header) timestamp(record []string) (time.Time, error) {
	if h.fechaHora >= 0 {
		raw := strings.TrimSpace(record[h.fechaHora])
		for _, layout := range timestampLayouts {
			if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unparsable fecha_hora %q", raw)
	}

	year, err := strconv.Atoi(strings.TrimSpace(record[h.anio]))
	if err != nil {
		return time.Time{}, fmt.Errorf("unparsable anio %q", record[h.anio])
	}
	month, err := strconv.Atoi(strings.TrimSpace(record[h.mes]))
	if err != nil {
		return time.Time{}, fmt.Errorf("unparsable mes %q", record[h.mes])
	}
	day, err := strconv.Atoi(strings.TrimSpace(record[h.dia]))
	if err != nil {
		return time.Time{}, fmt.Errorf("unparsable dia %q", record[h.dia])
	}

	raw := strings.TrimSpace(record[h.hora])
	for _, layout := range timeOfDayLayouts {
		if tod, err := time.Parse(layout, raw); err == nil {
			return time.Date(year, time.Month(month), day,
				tod.Hour(), tod.Minute(), tod.Second(), 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable hora %q", raw)
}

// Read parses one CSV stream. Exact duplicate rows are dropped, matching
// the dedup the historic exports need. name is used in error messages only.
func Read(r io.Reader, name string) ([]domain.RawEvent, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	first, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: empty file", name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", name, err)
	}
	h, err := parseHeader(first)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	seen := make(map[domain.RawEvent]struct{})
	var events []domain.RawEvent
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, line, err)
		}

		ts, err := h.timestamp(record)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, line, err)
		}
		llamados, err := strconv.ParseFloat(strings.TrimSpace(record[h.llamados]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: unparsable llamados %q", name, line, record[h.llamados])
		}
		if llamados < 0 {
			return nil, fmt.Errorf("%s:%d: negative llamados %v", name, line, llamados)
		}

		e := domain.RawEvent{
			Timestamp: ts,
			APIName:   strings.TrimSpace(record[h.apiName]),
			Familia:   strings.TrimSpace(record[h.familia]),
			Llamados:  llamados,
		}
		if e.APIName == "" || e.Familia == "" {
			return nil, fmt.Errorf("%s:%d: empty api_name or familia", name, line)
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		events = append(events, e)
	}
	return events, nil
}

// ReadFile parses one CSV file.
func ReadFile(path string) ([]domain.RawEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, filepath.Base(path))
}

// ReadPath reads a single CSV file, or every *.csv inside a directory in
// sorted filename order.
func ReadPath(path string) ([]domain.RawEvent, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return ReadFile(path)
	}

	matches, err := filepath.Glob(filepath.Join(path, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", path, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no csv files found in %s", path)
	}
	sort.Strings(matches)

	seen := make(map[domain.RawEvent]struct{})
	var all []domain.RawEvent
	for _, m := range matches {
		events, err := ReadFile(m)
		if err != nil {
			return nil, err
		}
		for _, e := range events {
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			all = append(all, e)
		}
	}
	return all, nil
}
