// Package period dzieli dowolny zakres dat na zakresy mieszczące się w jednym miesiącu kalendarzowym,
// bo usługa AT nie przyjmuje zapytań przekraczających miesiąc.
package period

import (
	"time"

	"github.com/alapierre/go-efatura-connector/efatura"
)

// ParseDate parses a strict YYYY-MM-DD calendar date.
func ParseDate(field, s string) (time.Time, error) {
	d, err := time.Parse(efatura.DateLayout, s)
	if err != nil {
		return time.Time{}, &efatura.ValidationError{Field: field, Msg: "invalid date format: expected YYYY-MM-DD"}
	}
	return d, nil
}

// Plan parsuje obie daty i dzieli zakres; przy błędzie zwraca pustą sekwencję.
func Plan(start, end string) ([]efatura.SubRange, error) {
	s, err := ParseDate("startDate", start)
	if err != nil {
		return nil, err
	}
	e, err := ParseDate("endDate", end)
	if err != nil {
		return nil, err
	}
	return Split(s, e)
}

// Split zwraca ciągłe, rozłączne zakresy; ostatni kończy się dokładnie na end.
func Split(start, end time.Time) ([]efatura.SubRange, error) {
	start, end = efatura.Day(start), efatura.Day(end)
	if start.After(end) {
		return nil, &efatura.ValidationError{Field: "startDate", Msg: "must not be after endDate"}
	}

	var ranges []efatura.SubRange
	for cur := start; !cur.After(end); {
		last := EndOfMonth(cur)
		if last.After(end) {
			last = end
		}
		ranges = append(ranges, efatura.SubRange{Start: cur, End: last})
		cur = last.AddDate(0, 0, 1)
	}
	return ranges, nil
}

// EndOfMonth ostatni dzień miesiąca, w którym leży d
func EndOfMonth(d time.Time) time.Time {
	y, m, _ := d.Date()
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC)
}
