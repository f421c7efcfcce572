package store

import (
	"context"
	"sort"
	"sync"

	"github.com/hyeonwoo/shoplens/internal/domain/record"
)

// MemoryStore is an in-memory RecordStore for tests and for callers that
// already hold the record set as a bulk in-memory table.
type MemoryStore struct {
	mu      sync.RWMutex
	byKey   map[record.Key]int
	records []record.BroadcastRecord
}

// NewMemory creates a store seeded with records.
func NewMemory(records ...record.BroadcastRecord) *MemoryStore {
	s := &MemoryStore{byKey: make(map[record.Key]int, len(records))}
	for _, r := range records {
		s.insert(r)
	}
	return s
}

func (s *MemoryStore) insert(r record.BroadcastRecord) {
	key := record.KeyOf(r)
	if i, ok := s.byKey[key]; ok {
		s.records[i] = r
		return
	}
	s.byKey[key] = len(s.records)
	s.records = append(s.records, r)
}

// Query returns matching records ordered by date then time.
func (s *MemoryStore) Query(ctx context.Context, f record.Filter) ([]record.BroadcastRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]record.BroadcastRecord, 0, len(s.records))
	for _, r := range s.records {
		if matches(r, f) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

// Upsert applies the same revenue-protection rule as the SQL store.
func (s *MemoryStore) Upsert(ctx context.Context, records []record.BroadcastRecord) (UpsertStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats UpsertStats
	for _, r := range records {
		key := record.KeyOf(r)
		i, exists := s.byKey[key]
		if !exists {
			s.insert(r)
			stats.Inserted++
			continue
		}
		if shouldProtect(s.records[i].Revenue, r.Revenue) {
			r.Revenue = s.records[i].Revenue
			stats.Protected++
		} else {
			stats.Updated++
		}
		s.records[i] = r
	}
	return stats, nil
}
