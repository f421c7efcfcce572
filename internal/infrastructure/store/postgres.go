package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/hyeonwoo/shoplens/internal/config"
	"github.com/hyeonwoo/shoplens/internal/domain/record"
)

// PostgresStore implements RecordStore on PostgreSQL.
type PostgresStore struct {
	db      *sqlx.DB
	timeout time.Duration
}

// OpenPostgres connects with the configured pool settings and verifies the
// connection.
func OpenPostgres(cfg config.StoreConfig) (*PostgresStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("store DSN is required")
	}
	db, err := sqlx.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime.Std())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.QueryTimeout.Std())
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{db: db, timeout: cfg.QueryTimeout.Std()}, nil
}

// NewPostgresWithDB wraps an existing connection; used by tests.
func NewPostgresWithDB(db *sqlx.DB, timeout time.Duration) *PostgresStore {
	return &PostgresStore{db: db, timeout: timeout}
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error { return s.db.Close() }

// broadcastRow mirrors the broadcasts table.
type broadcastRow struct {
	Date         time.Time       `db:"date"`
	Time         string          `db:"time"`
	Broadcast    string          `db:"broadcast"`
	Platform     string          `db:"platform"`
	Category     string          `db:"category"`
	Revenue      sql.NullFloat64 `db:"revenue"`
	Cost         sql.NullFloat64 `db:"cost"`
	UnitsSold    sql.NullInt64   `db:"units_sold"`
	ProductCount sql.NullInt64   `db:"product_count"`
	IsMajor      bool            `db:"is_major"`
}

func (r broadcastRow) toRecord() record.BroadcastRecord {
	return record.BroadcastRecord{
		Date:         r.Date,
		Time:         r.Time,
		Broadcast:    r.Broadcast,
		Platform:     r.Platform,
		Category:     r.Category,
		Revenue:      r.Revenue.Float64,
		Cost:         r.Cost.Float64,
		UnitsSold:    r.UnitsSold.Int64,
		ProductCount: r.ProductCount.Int64,
		IsMajor:      r.IsMajor,
	}
}

// Query returns records matching the filter, ordered by date then time.
// Platform filters compare on normalized keys via lower/replace so casing
// variants in source data still match UI selections.
func (s *PostgresStore) Query(ctx context.Context, f record.Filter) ([]record.BroadcastRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := `
		SELECT date, time, broadcast, platform, category,
		       revenue, COALESCE(cost, 0) AS cost,
		       COALESCE(units_sold, 0) AS units_sold,
		       COALESCE(product_count, 0) AS product_count,
		       is_major
		FROM broadcasts
		WHERE revenue IS NOT NULL`
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.ExcludeCategory != "" {
		query += " AND category != " + arg(f.ExcludeCategory)
	}
	if !f.From.IsZero() {
		query += " AND date >= " + arg(f.From)
	}
	if !f.To.IsZero() {
		query += " AND date <= " + arg(f.To)
	}
	if f.RevenueCeiling > 0 {
		query += " AND revenue <= " + arg(f.RevenueCeiling)
	}
	if len(f.Platforms) > 0 {
		keys := make([]string, 0, len(f.Platforms))
		for _, p := range f.Platforms {
			keys = append(keys, string(record.NormalizeKey(p)))
		}
		query += " AND replace(lower(platform), ' ', '') = ANY(" + arg(pq.Array(keys)) + ")"
	}
	if len(f.Categories) > 0 {
		query += " AND category = ANY(" + arg(pq.Array(f.Categories)) + ")"
	}

	query += " ORDER BY date, time"

	var rows []broadcastRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query broadcasts: %w", err)
	}

	records := make([]record.BroadcastRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.toRecord())
	}
	return records, nil
}

// Upsert writes a batch atomically. An update that would zero a nonzero
// stored revenue, or drop it past the protection ratio, keeps the stored
// value.
func (s *PostgresStore) Upsert(ctx context.Context, records []record.BroadcastRecord) (UpsertStats, error) {
	var stats UpsertStats
	if len(records) == 0 {
		return stats, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout*time.Duration(len(records)/100+1))
	defer cancel()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	const selectQ = `
		SELECT revenue FROM broadcasts
		WHERE date = $1 AND time = $2 AND broadcast = $3 AND platform = $4`
	const upsertQ = `
		INSERT INTO broadcasts
			(date, time, broadcast, platform, category, revenue, cost,
			 units_sold, product_count, is_major)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (date, time, broadcast, platform) DO UPDATE SET
			category = EXCLUDED.category,
			revenue = EXCLUDED.revenue,
			cost = EXCLUDED.cost,
			units_sold = EXCLUDED.units_sold,
			product_count = EXCLUDED.product_count,
			is_major = EXCLUDED.is_major`

	for _, r := range records {
		revenue := r.Revenue
		var stored sql.NullFloat64
		err := tx.QueryRowxContext(ctx, selectQ, r.Date, r.Time, r.Broadcast, r.Platform).Scan(&stored)
		switch {
		case err == sql.ErrNoRows:
			stats.Inserted++
		case err != nil:
			return stats, fmt.Errorf("lookup stored revenue: %w", err)
		default:
			if shouldProtect(stored.Float64, revenue) {
				revenue = stored.Float64
				stats.Protected++
				log.Debug().Str("platform", r.Platform).Str("time", r.Time).
					Float64("stored", stored.Float64).Float64("incoming", r.Revenue).
					Msg("revenue protected")
			} else {
				stats.Updated++
			}
		}

		if _, err := tx.ExecContext(ctx, upsertQ,
			r.Date, r.Time, r.Broadcast, r.Platform, r.Category,
			revenue, r.Cost, r.UnitsSold, r.ProductCount, r.IsMajor); err != nil {
			return stats, fmt.Errorf("upsert broadcast: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("commit upsert: %w", err)
	}
	log.Info().Int("inserted", stats.Inserted).Int("updated", stats.Updated).
		Int("protected", stats.Protected).Msg("broadcast batch upserted")
	return stats, nil
}
