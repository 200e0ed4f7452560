package util

import (
	"time"
)

const (
	layout         = "2006-01-02"
	MarketTimezone = "Asia/Tokyo"
)

func NewDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// LoadLocation falls back to a fixed JST offset when the tz database is
// missing, which is the case in the lambda image
func LoadLocation(name string) *time.Location {
	if name == "" {
		name = MarketTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

// MarketDate is the trading date of t in loc
func MarketDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(layout)
}
