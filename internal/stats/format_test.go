package stats

import "testing"

func TestFormatAverage(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{"zero", 0, "0"},
		{"fractional below one", 0.25, "0.2"},
		{"just under one", 0.96, "1.0"},
		{"exactly one", 1.0, "1"},
		{"rounds down", 2.4, "2"},
		{"rounds up", 2.5, "3"},
		{"whole", 3.0, "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatAverage(tt.value); got != tt.want {
				t.Errorf("FormatAverage(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestFormatMetric(t *testing.T) {
	if got := FormatMetric(42); got != "42" {
		t.Errorf("FormatMetric(42) = %q, want %q", got, "42")
	}
}
