package models

import "testing"

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"00:05:30", "00:05:30", false},
		{"01:75:90", "02:16:30", false},
		{"00:00:60", "00:01:00", false},
		{"10:59:59", "10:59:59", false},
		{"5:30", "", true},
		{"aa:bb:cc", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("got %q, want %q", got.String(), tt.want)
			}
		})
	}
}

func TestNewDurationNormalizes(t *testing.T) {
	d := NewDuration(1, 75, 90)
	if d != (Duration{Hours: 2, Minutes: 16, Seconds: 30}) {
		t.Errorf("got %+v, want 2h16m30s", d)
	}
}

func TestDurationAdd(t *testing.T) {
	a := NewDuration(0, 59, 45)
	b := NewDuration(0, 0, 20)
	if got := a.Add(b).String(); got != "01:00:05" {
		t.Errorf("got %q, want 01:00:05", got)
	}
}

func TestDurationAddAssociative(t *testing.T) {
	values := []Duration{
		NewDuration(0, 0, 0),
		NewDuration(0, 0, 59),
		NewDuration(0, 59, 59),
		NewDuration(1, 30, 30),
		NewDuration(2, 16, 30),
		NewDuration(12, 0, 1),
	}
	for _, a := range values {
		for _, b := range values {
			for _, c := range values {
				left := a.Add(b).Add(c)
				right := a.Add(b.Add(c))
				if left != right {
					t.Fatalf("(%v+%v)+%v = %v, %v+(%v+%v) = %v", a, b, c, left, a, b, c, right)
				}
			}
		}
	}
}

func TestDurationRoundedMinutes(t *testing.T) {
	tests := []struct {
		d    Duration
		want int
	}{
		{NewDuration(0, 5, 30), 6},
		{NewDuration(0, 5, 29), 5},
		{NewDuration(1, 0, 0), 60},
		{NewDuration(0, 0, 0), 0},
	}
	for _, tt := range tests {
		if got := tt.d.RoundedMinutes(); got != tt.want {
			t.Errorf("%v.RoundedMinutes() = %d, want %d", tt.d, got, tt.want)
		}
	}
}
