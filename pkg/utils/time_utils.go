package utils

import "time"

// Moscow time location (MSK, +03:00). Workshop schedules and receipts
// are rendered in the merchant's timezone.
var mskLoc = func() *time.Location {
	if loc, err := time.LoadLocation("Europe/Moscow"); err == nil {
		return loc
	}
	return time.FixedZone("MSK", 3*3600)
}()

func NowUnixSeconds() int64 { return time.Now().Unix() }

// FromUnixSecondsMSK converts an epoch value in seconds to Moscow time.
// Returns zero time if t<=0 to let callers decide how to render.
func FromUnixSecondsMSK(t int64) time.Time {
	if t <= 0 {
		return time.Time{}
	}
	return time.Unix(t, 0).In(mskLoc)
}

func FormatRFC3339MSK(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(mskLoc).Format(time.RFC3339)
}
