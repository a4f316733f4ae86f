package domain

import "time"

// HST is the application's single civil timezone: Hawaii Standard Time,
// UTC−10, no daylight-saving transitions. All stored instants are UTC;
// HST exists only at the input/display boundary.
var HST = time.FixedZone("HST", -10*60*60)

// CivilLayout is the datetime-local input format (no zone designator).
const CivilLayout = "2006-01-02T15:04"

// ParseCivil parses a civil datetime string ("2006-01-02T15:04") entered in
// Hawaii time and returns the UTC instant. Invalid input is rejected, never
// coerced.
func ParseCivil(s string) (time.Time, error) {
	t, err := time.ParseInLocation(CivilLayout, s, HST)
	if err != nil {
		return time.Time{}, ErrInvalidInput
	}
	return t.UTC(), nil
}

// FormatCivil renders a UTC instant as a civil datetime string in Hawaii
// time. With no DST in the zone, FormatCivil(ParseCivil(s)) == s.
func FormatCivil(t time.Time) string {
	return t.In(HST).Format(CivilLayout)
}

// ParseCivilDate parses a calendar date ("2006-01-02") as midnight Hawaii
// time, for same-day filtering.
func ParseCivilDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, HST)
	if err != nil {
		return time.Time{}, ErrInvalidInput
	}
	return t.UTC(), nil
}

// SameCivilDay reports whether two instants fall on the same Hawaii calendar
// day. Comparing UTC date components instead would be off by one day for
// evening events.
func SameCivilDay(a, b time.Time) bool {
	ay, am, ad := a.In(HST).Date()
	by, bm, bd := b.In(HST).Date()
	return ay == by && am == bm && ad == bd
}

// CivilMonthBounds returns the UTC instants spanning the given Hawaii
// calendar month: [start, end). Used by the calendar surface.
func CivilMonthBounds(year int, month time.Month) (start, end time.Time) {
	s := time.Date(year, month, 1, 0, 0, 0, 0, HST)
	return s.UTC(), s.AddDate(0, 1, 0).UTC()
}
