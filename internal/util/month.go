package util

import (
	"fmt"
	"strings"
	"time"
)

// ISODateLayout is the wire format for calendar dates.
const ISODateLayout = "2006-01-02"

var shortMonths = map[string][12]string{
	"pt-BR": {"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"},
	"en-US": {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	"es-ES": {"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"},
}

var dateLayouts = map[string]string{
	"pt-BR": "02/01/2006",
	"en-US": "1/2/2006",
	"es-ES": "2/1/2006",
}

var booleans = map[string][2]string{
	"pt-BR": {"Não", "Sim"},
	"en-US": {"No", "Yes"},
	"es-ES": {"No", "Sí"},
}

const fallbackLocale = "pt-BR"

func resolveLocale(locale string) string {
	if _, ok := dateLayouts[locale]; ok {
		return locale
	}
	return fallbackLocale
}

// MonthLabel returns the short month name followed by the year, e.g. "jan 2024".
func MonthLabel(locale string, year int, month time.Month) string {
	names := shortMonths[resolveLocale(locale)]
	return fmt.Sprintf("%s %d", names[month-1], year)
}

// FormatDate renders t with the locale short date format.
func FormatDate(locale string, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayouts[resolveLocale(locale)])
}

// ParseDate accepts either the locale short date format or an ISO date.
func ParseDate(locale string, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayouts[resolveLocale(locale)], s); err == nil {
		return t, nil
	}
	return ParseISODate(s)
}

// ParseISODate parses YYYY-MM-DD, also accepting a full RFC3339 timestamp.
func ParseISODate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(ISODateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// FormatBool renders b as the locale's yes/no word.
func FormatBool(locale string, b bool) string {
	words := booleans[resolveLocale(locale)]
	if b {
		return words[1]
	}
	return words[0]
}

// ParseBool is the inverse of FormatBool. It also accepts true/false.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sim", "yes", "sí", "si", "true", "1":
		return true
	}
	return false
}

// PreviousMonth returns the year and month for the previous month
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// MonthBounds returns the first and last calendar day of a month.
func MonthBounds(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return start, end
}
