package screens

import (
	"fmt"
	"strings"
	"time"
)

var turkishMonths = [...]string{
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000Z",
}

var clockLayouts = []string{
	"15:04",
	"15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// FormatDate даёт "D MonthName" ("5 Mayıs"); если дату не разобрать — исходная строка.
func FormatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return fmt.Sprintf("%d %s", t.Day(), turkishMonths[t.Month()-1])
		}
	}
	return raw
}

// FormatTimeRange даёт "HH:MM-HH:MM". Принимает и полные метки времени, и "HH:MM[:SS]".
func FormatTimeRange(start, end string) string {
	s, e := formatClock(start), formatClock(end)
	switch {
	case s == "":
		return e
	case e == "":
		return s
	default:
		return s + "-" + e
	}
}

func formatClock(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("15:04")
		}
	}
	// "18:30:00.000000" и прочие хвосты после минут
	if len(raw) > 5 && raw[2] == ':' {
		if t, err := time.Parse("15:04", raw[:5]); err == nil {
			return t.Format("15:04")
		}
	}
	return raw
}
