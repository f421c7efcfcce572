// Package store persists and queries broadcast records. The analytics core
// consumes it read-only; ingestion writes through the revenue-protected
// upsert.
package store

import (
	"context"

	"github.com/hyeonwoo/shoplens/internal/domain/record"
)

// RecordStore is the query interface consumed by the aggregation pipeline.
type RecordStore interface {
	// Query returns records matching the filter, ordered by date then time.
	Query(ctx context.Context, f record.Filter) ([]record.BroadcastRecord, error)
	// Upsert inserts or updates records keyed by (date, time, broadcast,
	// platform), applying the revenue-protection rule against stored rows.
	Upsert(ctx context.Context, records []record.BroadcastRecord) (UpsertStats, error)
}

// UpsertStats summarizes one ingestion batch.
type UpsertStats struct {
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Protected int `json:"protected"` // updates suppressed by revenue protection
}

// matches applies a filter to one record; shared by the in-memory store.
func matches(r record.BroadcastRecord, f record.Filter) bool {
	if !f.From.IsZero() && r.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && r.Date.After(f.To) {
		return false
	}
	if f.RevenueCeiling > 0 && r.Revenue > f.RevenueCeiling {
		return false
	}
	if f.ExcludeCategory != "" && r.Category == f.ExcludeCategory {
		return false
	}
	if len(f.Platforms) > 0 && !containsKey(f.Platforms, r.Platform) {
		return false
	}
	if len(f.Categories) > 0 && !contains(f.Categories, r.Category) {
		return false
	}
	return true
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

// containsKey compares platform names on normalized keys, since filter
// values come from UI selections and records from scraped source data.
func containsKey(xs []string, s string) bool {
	key := record.NormalizeKey(s)
	for _, x := range xs {
		if record.NormalizeKey(x) == key {
			return true
		}
	}
	return false
}
