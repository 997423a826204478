package ingest

import "testing"

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in       string
		expected int
	}{
		{"1", 1},
		{"P2", 2},
		{"p4", 4},
		{"3 - Moderate", 3},
		{"2.0", 2},
		{"1.5", 0},
		{"P1.5", 0},
		{"0", 0},
		{"5", 0},
		{"-1", 0},
		{"Inf", 0},
		{"high", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parsePriority(tt.in); got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestParseDate_Placeholders(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"2025-01-10", true},
		{"2025-01-01T10:00:00.250Z", true},
		{"1900-01-01", true},
		{"0001-01-01T00:00:00", false},
		{"0001-01-01", false},
		{"1/1/0001", false},
		{"1899-12-31", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseDate(tt.in); (got != nil) != tt.valid {
				t.Errorf("Expected valid=%v, got %v", tt.valid, got)
			}
		})
	}
}
