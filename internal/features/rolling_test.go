package features

import (
	"testing"
)

func TestComputeRolling_MinOneSample(t *testing.T) {
	rc := computeRolling([]float64{5, 7, 9}, 12)
	// first row: window of one sample, no leading gaps
	if rc.sum[0] != 5 || rc.mean[0] != 5 || rc.median[0] != 5 {
		t.Errorf("single-sample window: sum=%v mean=%v median=%v", rc.sum[0], rc.mean[0], rc.median[0])
	}
	if rc.std[0] != 0 {
		t.Errorf("std of single-sample window = %v, want 0", rc.std[0])
	}
	if rc.slope[0] != 0 {
		t.Errorf("slope of single-sample window = %v, want 0", rc.slope[0])
	}
}

func TestComputeRolling_TrailingWindow(t *testing.T) {
	// hourly values 0..47 with a 24-period window
	v := make([]float64, 48)
	for i := range v {
		v[i] = float64(i)
	}
	rc := computeRolling(v, 24)

	// row 10 covers rows 0..10
	if want := 55.0; rc.sum[10] != want {
		t.Errorf("sum[10] = %v, want %v", rc.sum[10], want)
	}
	// row 47 covers rows 24..47
	want := 0.0
	for i := 24; i <= 47; i++ {
		want += float64(i)
	}
	if rc.sum[47] != want {
		t.Errorf("sum[47] = %v, want %v", rc.sum[47], want)
	}
	if !almostEqual(rc.mean[47], want/24) {
		t.Errorf("mean[47] = %v, want %v", rc.mean[47], want/24)
	}
	if !almostEqual(rc.slope[47], 1) {
		t.Errorf("slope[47] = %v, want 1", rc.slope[47])
	}
	if rc.min[47] != 24 || rc.max[47] != 47 {
		t.Errorf("min/max[47] = %v/%v, want 24/47", rc.min[47], rc.max[47])
	}
}
