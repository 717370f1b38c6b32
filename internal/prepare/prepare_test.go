package prepare

import (
	"errors"
	"testing"
	"time"

	"api-volume-lab/internal/domain"
)

var testKey = domain.SeriesKey{APIName: "api_consulta_saldo", Familia: "canales"}

func event(ts time.Time, llamados float64) domain.RawEvent {
	return domain.RawEvent{
		Timestamp: ts,
		APIName:   testKey.APIName,
		Familia:   testKey.Familia,
		Llamados:  llamados,
	}
}

func TestPrepare_NoEvents(t *testing.T) {
	if _, err := Prepare(nil, 5*time.Minute); !errors.Is(err, ErrNoEvents) {
		t.Fatalf("expected ErrNoEvents, got %v", err)
	}
}

func TestPrepare_SingleObservation(t *testing.T) {
	ts := time.Date(2025, 1, 6, 10, 2, 13, 0, time.UTC)
	s, err := Prepare([]domain.RawEvent{event(ts, 7)}, 5*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 bucket, got %d", s.Len())
	}
	want := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	if !s.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", s.Start, want)
	}
	if s.Values[0] != 7 {
		t.Errorf("Values[0] = %v, want 7", s.Values[0])
	}
	if s.Imputed[0] != 0 {
		t.Error("observed bucket must not be flagged imputed")
	}
}

func TestPrepare_SumsWithinBucket(t *testing.T) {
	base := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	events := []domain.RawEvent{
		event(base.Add(30*time.Second), 3),
		event(base.Add(2*time.Minute), 4),
		event(base.Add(4*time.Minute+59*time.Second), 5),
	}
	s, err := Prepare(events, 5*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 bucket, got %d", s.Len())
	}
	if s.Values[0] != 12 {
		t.Errorf("bucket sum = %v, want 12", s.Values[0])
	}
}

func TestPrepare_GapForwardFill(t *testing.T) {
	base := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	events := []domain.RawEvent{
		event(base, 10),
		event(base.Add(15*time.Minute), 2), // two empty buckets in between
	}
	s, err := Prepare(events, 5*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 4 {
		t.Fatalf("expected 4 buckets, got %d", s.Len())
	}

	wantValues := []float64{10, 10, 10, 2}
	wantImputed := []uint8{0, 1, 1, 0}
	for i := range wantValues {
		if s.Values[i] != wantValues[i] {
			t.Errorf("Values[%d] = %v, want %v", i, s.Values[i], wantValues[i])
		}
		if s.Imputed[i] != wantImputed[i] {
			t.Errorf("Imputed[%d] = %d, want %d", i, s.Imputed[i], wantImputed[i])
		}
	}
	if s.ImputedCount() != 2 {
		t.Errorf("ImputedCount = %d, want 2", s.ImputedCount())
	}
}

func TestPrepare_UnsortedInput(t *testing.T) {
	base := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	events := []domain.RawEvent{
		event(base.Add(10*time.Minute), 3),
		event(base, 1),
		event(base.Add(5*time.Minute), 2),
	}
	s, err := Prepare(events, 5*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1, 2, 3}
	for i := range want {
		if s.Values[i] != want[i] {
			t.Errorf("Values[%d] = %v, want %v", i, s.Values[i], want[i])
		}
	}
}

func TestPrepare_TimestampsAligned(t *testing.T) {
	base := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	events := []domain.RawEvent{
		event(base.Add(time.Minute), 1),
		event(base.Add(11*time.Minute), 2),
	}
	s, err := Prepare(events, 5*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	ts := s.Timestamps()
	for i := 1; i < len(ts); i++ {
		if ts[i].Sub(ts[i-1]) != 5*time.Minute {
			t.Fatalf("buckets %d and %d are %v apart", i-1, i, ts[i].Sub(ts[i-1]))
		}
	}
}
