// file: internals/helpers/dbtime/dbtime.go
package dbtime

import (
	"errors"
	"strings"
	"time"
)

const (
	PeriodLayout = "2006-01"
	DateLayout   = "2006-01-02"
	// dipakai di lookup widget: "January 2006"
	PeriodLabelLayout = "January 2006"
)

var (
	ErrInvalidPeriod = errors.New("billing period must use YYYY-MM format")
	ErrInvalidDate   = errors.New("date must use YYYY-MM-DD format")
)

// LoadLocation: timezone aplikasi dari config.
// Fallback ke Asia/Manila, lalu UTC.
func LoadLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Asia/Manila"
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	return time.UTC
}

// DateOf memotong t ke tanggal kalender di loc, disimpan sebagai UTC midnight.
// Semua kolom DATE (billing_period, due_date, reading_date) dinormalisasi lewat sini
// supaya perbandingan & unique index konsisten.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParsePeriod "2024-05" → 2024-05-01 UTC.
func ParsePeriod(s string) (time.Time, error) {
	t, err := time.Parse(PeriodLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidPeriod
	}
	return t, nil
}

// ParseDate "2024-05-20" → UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func FormatDate(t time.Time) string   { return t.UTC().Format(DateLayout) }
func FormatPeriod(t time.Time) string { return t.UTC().Format(PeriodLayout) }
func PeriodLabel(t time.Time) string  { return t.UTC().Format(PeriodLabelLayout) }
