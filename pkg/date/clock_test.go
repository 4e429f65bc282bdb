package date

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	var clockTests = []struct {
		in      string
		hour    int
		minute  int
		wantErr bool
	}{
		{"09:00", 9, 0, false},
		{"17:30", 17, 30, false},
		{"23:59", 23, 59, false},
		{" 08:15 ", 8, 15, false},
		{"24:00", 0, 0, true},
		{"12:60", 0, 0, true},
		{"midnight", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range clockTests {
		hour, minute, err := ParseClock(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && (hour != tt.hour || minute != tt.minute) {
			t.Errorf("ParseClock(%q) = %d:%d, want %d:%d", tt.in, hour, minute, tt.hour, tt.minute)
		}
	}
}

func TestClockMinutes(t *testing.T) {
	var tests = []struct {
		in  string
		out int
	}{
		{"00:00", 0},
		{"09:30", 570},
		{"bogus", 1440},
	}

	for _, tt := range tests {
		if got := ClockMinutes(tt.in); got != tt.out {
			t.Errorf("ClockMinutes(%q) = %d, want %d", tt.in, got, tt.out)
		}
	}
}

func TestParseTaskDuration(t *testing.T) {
	var durationTests = []struct {
		in  string
		out time.Duration
	}{
		{"30min", 30 * time.Minute},
		{"45 min", 45 * time.Minute},
		{"1h", time.Hour},
		{"2 hours", 2 * time.Hour},
		{"1 hour", time.Hour},
		{"90 minutes", 90 * time.Minute},
		{"a while", DefaultTaskDuration},
		{"", DefaultTaskDuration},
	}

	for _, tt := range durationTests {
		if got := ParseTaskDuration(tt.in); got != tt.out {
			t.Errorf("ParseTaskDuration(%q) = %v, want %v", tt.in, got, tt.out)
		}
	}
}

func TestEventWindow(t *testing.T) {
	location := time.FixedZone("IST", 5*3600+1800)
	day := time.Date(2023, 4, 12, 8, 5, 0, 0, location)

	window := EventWindow(day, "17:30", "1h", location)

	wantStart := time.Date(2023, 4, 12, 17, 30, 0, 0, location)
	if !window.Start.Equal(wantStart) {
		t.Errorf("EventWindow start = %v, want %v", window.Start, wantStart)
	}
	if window.Duration() != time.Hour {
		t.Errorf("EventWindow duration = %v, want %v", window.Duration(), time.Hour)
	}
}

func TestEventWindow_Fallbacks(t *testing.T) {
	location := time.UTC
	day := time.Date(2023, 4, 12, 8, 5, 0, 0, location)

	// no usable clock falls back to the day's own time of day
	window := EventWindow(day, "", "nonsense", location)

	wantStart := time.Date(2023, 4, 12, 8, 5, 0, 0, location)
	if !window.Start.Equal(wantStart) {
		t.Errorf("EventWindow start = %v, want %v", window.Start, wantStart)
	}
	if window.Duration() != DefaultTaskDuration {
		t.Errorf("EventWindow duration = %v, want %v", window.Duration(), DefaultTaskDuration)
	}
}
