package util

import (
	"testing"
	"time"
)

func TestPreviousMonth_SameYear(t *testing.T) {
	tests := []struct {
		year      int
		month     int
		wantYear  int
		wantMonth int
	}{
		{2026, 6, 2026, 5},   // June -> May
		{2026, 12, 2026, 11}, // Dec -> Nov
		{2026, 2, 2026, 1},   // Feb -> Jan
	}

	for _, tt := range tests {
		gotYear, gotMonth := PreviousMonth(tt.year, tt.month)
		if gotYear != tt.wantYear || gotMonth != tt.wantMonth {
			t.Errorf("PreviousMonth(%d, %d) = (%d, %d), want (%d, %d)",
				tt.year, tt.month, gotYear, gotMonth, tt.wantYear, tt.wantMonth)
		}
	}
}

func TestPreviousMonth_YearBoundary(t *testing.T) {
	// January -> December of previous year
	gotYear, gotMonth := PreviousMonth(2026, 1)
	if gotYear != 2025 || gotMonth != 12 {
		t.Errorf("PreviousMonth(2026, 1) = (%d, %d), want (2025, 12)", gotYear, gotMonth)
	}
}

func TestMonthBounds(t *testing.T) {
	tests := []struct {
		year, month int
		wantEndDay  int
	}{
		{2024, 2, 29},
		{2023, 2, 28},
		{2024, 12, 31},
		{2024, 4, 30},
	}

	for _, tt := range tests {
		start, end := MonthBounds(tt.year, tt.month)
		if start.Day() != 1 || int(start.Month()) != tt.month {
			t.Errorf("MonthBounds(%d, %d) start = %v", tt.year, tt.month, start)
		}
		if end.Day() != tt.wantEndDay || int(end.Month()) != tt.month {
			t.Errorf("MonthBounds(%d, %d) end = %v, want day %d", tt.year, tt.month, end, tt.wantEndDay)
		}
	}
}

func TestMonthLabel(t *testing.T) {
	tests := []struct {
		locale string
		month  time.Month
		want   string
	}{
		{"pt-BR", time.February, "fev 2024"},
		{"en-US", time.February, "Feb 2024"},
		{"es-ES", time.January, "ene 2024"},
		{"fr-FR", time.December, "dez 2024"},
	}

	for _, tt := range tests {
		if got := MonthLabel(tt.locale, 2024, tt.month); got != tt.want {
			t.Errorf("MonthLabel(%s, %s) = %q, want %q", tt.locale, tt.month, got, tt.want)
		}
	}
}

func TestFormatAndParseDate(t *testing.T) {
	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		locale string
		want   string
	}{
		{"pt-BR", "05/03/2024"},
		{"en-US", "3/5/2024"},
		{"es-ES", "5/3/2024"},
	}

	for _, tt := range tests {
		got := FormatDate(tt.locale, date)
		if got != tt.want {
			t.Errorf("FormatDate(%s) = %q, want %q", tt.locale, got, tt.want)
		}
		parsed, err := ParseDate(tt.locale, got)
		if err != nil || !parsed.Equal(date) {
			t.Errorf("ParseDate(%s, %q) = %v, %v", tt.locale, got, parsed, err)
		}
	}

	if FormatDate("pt-BR", time.Time{}) != "" {
		t.Errorf("zero date should render empty")
	}
}

func TestParseISODate(t *testing.T) {
	got, err := ParseISODate("2024-01-15T22:00:00Z")
	if err != nil {
		t.Fatalf("ParseISODate() error = %v", err)
	}
	if !got.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseISODate() = %v", got)
	}
	if _, err := ParseISODate("15/01/2024"); err == nil {
		t.Errorf("ParseISODate() should reject non-ISO dates")
	}
}

func TestFormatBool(t *testing.T) {
	if FormatBool("pt-BR", true) != "Sim" || FormatBool("pt-BR", false) != "Não" {
		t.Errorf("pt-BR booleans wrong")
	}
	if !ParseBool(FormatBool("es-ES", true)) || ParseBool(FormatBool("en-US", false)) {
		t.Errorf("ParseBool should invert FormatBool")
	}
}
