package domain

import "testing"

func TestCleanAmount(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"120000", 120000},
		{"120 000", 120000},
		{"1500,50", 1501}, // comma is the decimal separator, halves round up
		{"12.49", 12},
		{"12.5", 13},
		{"$250", 250},
		{"250 руб.", 250},
		{"abc", 0},
		{"", 0},
		{"..,", 0},
	}

	for _, tt := range tests {
		if got := CleanAmount(tt.in); got != tt.want {
			t.Errorf("CleanAmount(%q): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}
