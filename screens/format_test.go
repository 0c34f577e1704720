package screens

import "testing"

func TestFormatDate(t *testing.T) {
	tests := []struct {
		raw, want string
	}{
		{"2024-05-05", "5 Mayıs"},
		{"2024-12-31T10:00:00Z", "31 Aralık"},
		{"2024-02-01T10:00:00.123+03:00", "1 Şubat"},
		{"2024-08-15 09:30:00", "15 Ağustos"},
		{" 2024-01-09 ", "9 Ocak"},
		{"yarın", "yarın"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FormatDate(tt.raw); got != tt.want {
			t.Errorf("FormatDate(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestFormatTimeRange(t *testing.T) {
	tests := []struct {
		start, end, want string
	}{
		{"18:00", "20:00", "18:00-20:00"},
		{"18:30:00", "20:15:00", "18:30-20:15"},
		{"2024-05-05T07:05:00Z", "2024-05-05T08:00:00Z", "07:05-08:00"},
		{"18:30:00.000000", "", "18:30"},
		{"", "20:00", "20:00"},
		{"", "", ""},
		{"akşam", "20:00", "akşam-20:00"},
	}
	for _, tt := range tests {
		if got := FormatTimeRange(tt.start, tt.end); got != tt.want {
			t.Errorf("FormatTimeRange(%q, %q) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}
