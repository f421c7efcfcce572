package record

import (
	"strings"
	"time"
)

// BroadcastRecord is one row per broadcast airing, as produced by the
// ingestion collaborator. It is read-only to the analytics core.
type BroadcastRecord struct {
	Date         time.Time `db:"date" json:"date"`
	Time         string    `db:"time" json:"time"` // "HH:MM"
	Broadcast    string    `db:"broadcast" json:"broadcast"`
	Platform     string    `db:"platform" json:"platform"`
	Category     string    `db:"category" json:"category"`
	Revenue      float64   `db:"revenue" json:"revenue"`
	Cost         float64   `db:"cost" json:"cost"` // slot cost, 0 when unknown
	UnitsSold    int64     `db:"units_sold" json:"units_sold"`
	ProductCount int64     `db:"product_count" json:"product_count"`
	IsMajor      bool      `db:"is_major" json:"is_major"`
}

// Hour parses the hour component of the Time field. Malformed values
// resolve to 0 rather than an error.
func (r BroadcastRecord) Hour() int {
	h := r.Time
	if i := strings.IndexByte(h, ':'); i >= 0 {
		h = h[:i]
	}
	hour := 0
	for _, c := range h {
		if c < '0' || c > '9' {
			return 0
		}
		hour = hour*10 + int(c-'0')
	}
	if hour > 23 {
		return 0
	}
	return hour
}

// Weekday returns the record's weekday (Monday=0 .. Sunday=6).
func (r BroadcastRecord) Weekday() int {
	// time.Weekday is Sunday=0; shift to Monday=0 to match the
	// weekday/weekend split used throughout slot pricing.
	return (int(r.Date.Weekday()) + 6) % 7
}

// IsWeekend reports whether the record airs on Saturday or Sunday.
func (r BroadcastRecord) IsWeekend() bool {
	return r.Weekday() >= 5
}

// CostedRecord is a BroadcastRecord with derived cost and ROI fields
// attached during the cleaning stage.
type CostedRecord struct {
	BroadcastRecord

	Hour        int     `json:"hour"`
	WeekdayIdx  int     `json:"weekday"` // Monday=0 .. Sunday=6
	IsWeekend   bool    `json:"is_weekend"`
	IsLive      bool    `json:"is_live"`
	ModelCost   float64 `json:"model_cost"`
	TotalCost   float64 `json:"total_cost"`
	RealProfit  float64 `json:"real_profit"`
	ROI         float64 `json:"roi"`        // clamped, finite
	Efficiency  float64 `json:"efficiency"` // revenue / total cost
	UnitPrice   float64 `json:"unit_price"` // revenue / units sold
	YearMonth   string  `json:"year_month"` // "2006-01"
	ISOWeek     string  `json:"iso_week"`   // "2006-W02"
	Month       int     `json:"month"`
	Quarter     int     `json:"quarter"`
	Year        int     `json:"year"`
	ChannelType string  `json:"channel_type"` // "live" or "recorded"
}

// Filter parameterizes record-store queries. Zero values mean "no
// constraint" except RevenueCeiling, which is only applied when positive.
type Filter struct {
	From            time.Time
	To              time.Time
	Platforms       []string
	Categories      []string
	RevenueCeiling  float64
	ExcludeCategory string // reserved noise bucket, dropped from analysis
}

// Key identifies a record for upsert purposes.
type Key struct {
	Date      string // "2006-01-02"
	Time      string
	Broadcast string
	Platform  string
}

// KeyOf builds the upsert identity of a record.
func KeyOf(r BroadcastRecord) Key {
	return Key{
		Date:      r.Date.Format("2006-01-02"),
		Time:      r.Time,
		Broadcast: r.Broadcast,
		Platform:  r.Platform,
	}
}
