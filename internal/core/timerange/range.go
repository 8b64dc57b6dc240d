// Package timerange maps dashboard range keys to lookback windows and
// bucketing granularities for trend series.
//
// Longer windows coarsen granularity so trend series stay visually and
// computationally compact.
package timerange

import (
	"time"
)

// Unit is the calendar granularity used to bucket timestamps.
// Values are a closed set and are safe to splice into date_trunc().
type Unit string

const (
	UnitHour  Unit = "hour"
	UnitDay   Unit = "day"
	UnitWeek  Unit = "week"
	UnitMonth Unit = "month"
)

// Display format tokens for Postgres to_char. Closed set, passed as
// bound parameters.
const (
	FormatHour  = "YYYY-MM-DD HH24:00"
	FormatDay   = "YYYY-MM-DD"
	FormatMonth = "YYYY-MM"
)

// DefaultKey is used when the requested range key is unknown or empty.
const DefaultKey = "1m"

// Range resolves a dashboard range key to a concrete query window.
// It is a tagged variant: either Unbounded (all-time) or bounded by
// Lookback. Trunc and Format always apply.
type Range struct {
	// Key is the range key this Range was resolved from.
	Key string

	// Unbounded marks the all-time variant; Lookback is zero then.
	Unbounded bool

	// Lookback is the trailing window length for the bounded variant.
	Lookback time.Duration

	// Trunc is the bucketing granularity for trend series.
	Trunc Unit

	// Format is the to_char display format for bucket labels.
	Format string
}

// CutoffFrom returns the window start for the bounded variant,
// relative to now. Callers must not use it for unbounded ranges.
func (r Range) CutoffFrom(now time.Time) time.Time {
	return now.Add(-r.Lookback)
}

const day = 24 * time.Hour

var ranges = map[string]Range{
	"1d": {Key: "1d", Lookback: 1 * day, Trunc: UnitHour, Format: FormatHour},
	"7d": {Key: "7d", Lookback: 7 * day, Trunc: UnitDay, Format: FormatDay},
	"1m": {Key: "1m", Lookback: 30 * day, Trunc: UnitDay, Format: FormatDay},
	"3m": {Key: "3m", Lookback: 90 * day, Trunc: UnitWeek, Format: FormatDay},
	"6m": {Key: "6m", Lookback: 180 * day, Trunc: UnitMonth, Format: FormatMonth},
	"1y": {Key: "1y", Lookback: 365 * day, Trunc: UnitMonth, Format: FormatMonth},
	"2y": {Key: "2y", Lookback: 730 * day, Trunc: UnitMonth, Format: FormatMonth},
	// All-time series are forced to month buckets to cap series length
	// over arbitrarily old data.
	"all": {Key: "all", Unbounded: true, Trunc: UnitMonth, Format: FormatMonth},
}

// Resolve maps a range key to its Range. Unknown or empty keys resolve
// to DefaultKey.
func Resolve(key string) Range {
	if r, ok := ranges[key]; ok {
		return r
	}
	return ranges[DefaultKey]
}

// Keys returns the closed set of valid range keys.
func Keys() []string {
	return []string{"1d", "7d", "1m", "3m", "6m", "1y", "2y", "all"}
}
