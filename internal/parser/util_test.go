package parser

import (
	"testing"
	"time"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"5,00", "5", false},
		{"2,50", "2.5", false},
		{"-1,20", "-1.2", false},
		{"1 234,56", "1234.56", false},
		{"", "0", false},
		{"abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parsePrice(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.expected {
				t.Errorf("got %s, want %s", got.String(), tt.expected)
			}
		})
	}
}

func TestBuildTimestamp(t *testing.T) {
	tests := []struct {
		date, clock string
		want        time.Time
		wantErr     bool
	}{
		{"15.3.", "", time.Date(2012, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"1.12.", "08:30:05", time.Date(2012, 12, 1, 8, 30, 5, 0, time.UTC), false},
		{"", "08:30:05", time.Time{}, false},
		{"32.1.", "", time.Time{}, true},
		{"1.13.", "", time.Time{}, true},
		{"x.y.", "", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.date+" "+tt.clock, func(t *testing.T) {
			got, err := buildTimestamp(2012, tt.date, tt.clock)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
