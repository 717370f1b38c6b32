package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRead_FechaHoraLayout(t *testing.T) {
	input := `fecha_hora,api_name,familia,llamados
2025-01-06 10:05:00,api_a,canales,12
2025-01-06 10:10:00,api_a,canales,8.5
`
	events, err := Read(strings.NewReader(input), "test.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	want := time.Date(2025, 1, 6, 10, 5, 0, 0, time.UTC)
	if !events[0].Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", events[0].Timestamp, want)
	}
	if events[1].Llamados != 8.5 {
		t.Errorf("Llamados = %v, want 8.5", events[1].Llamados)
	}
}

func TestRead_SplitLayout(t *testing.T) {
	input := `anio,mes,dia,hora,api_name,familia,llamados
2025,1,6,10:05:00,api_a,canales,12
2025,1,6,23:55:00,api_b,seguridad,3
`
	events, err := Read(strings.NewReader(input), "test.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	want := time.Date(2025, 1, 6, 10, 5, 0, 0, time.UTC)
	if !events[0].Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", events[0].Timestamp, want)
	}
	if events[1].Familia != "seguridad" {
		t.Errorf("Familia = %q, want seguridad", events[1].Familia)
	}
}

func TestRead_DropsDuplicateRows(t *testing.T) {
	input := `fecha_hora,api_name,familia,llamados
2025-01-06 10:05:00,api_a,canales,12
2025-01-06 10:05:00,api_a,canales,12
`
	events, err := Read(strings.NewReader(input), "test.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events after dedup, want 1", len(events))
	}
}

func TestRead_Errors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"missing columns", "fecha_hora,api_name\n2025-01-06 10:05:00,api_a\n"},
		{"bad timestamp", "fecha_hora,api_name,familia,llamados\nnot-a-date,api_a,canales,1\n"},
		{"bad llamados", "fecha_hora,api_name,familia,llamados\n2025-01-06 10:05:00,api_a,canales,many\n"},
		{"negative llamados", "fecha_hora,api_name,familia,llamados\n2025-01-06 10:05:00,api_a,canales,-1\n"},
		{"empty identifier", "fecha_hora,api_name,familia,llamados\n2025-01-06 10:05:00,,canales,1\n"},
		{"bad hora", "anio,mes,dia,hora,api_name,familia,llamados\n2025,1,6,noon,api_a,canales,1\n"},
	}
	for _, c := range cases {
		if _, err := Read(strings.NewReader(c.input), "test.csv"); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
}

func TestReadPath_Directory(t *testing.T) {
	dir := t.TempDir()
	fileA := "fecha_hora,api_name,familia,llamados\n2025-01-06 10:00:00,api_a,canales,1\n"
	fileB := "fecha_hora,api_name,familia,llamados\n2025-01-06 11:00:00,api_a,canales,2\n2025-01-06 10:00:00,api_a,canales,1\n"
	if err := os.WriteFile(filepath.Join(dir, "a.csv"), []byte(fileA), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.csv"), []byte(fileB), 0o644); err != nil {
		t.Fatal(err)
	}
	// non-csv files are ignored
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	events, err := ReadPath(dir)
	if err != nil {
		t.Fatal(err)
	}
	// the duplicate row across files is dropped
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
}

func TestReadPath_EmptyDirectory(t *testing.T) {
	if _, err := ReadPath(t.TempDir()); err == nil {
		t.Error("expected error for directory without csv files")
	}
}
