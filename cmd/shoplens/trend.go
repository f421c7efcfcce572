package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hyeonwoo/shoplens/internal/application/pipeline"
	"github.com/hyeonwoo/shoplens/internal/artifacts"
	"github.com/hyeonwoo/shoplens/internal/config"
	"github.com/hyeonwoo/shoplens/internal/infrastructure/cache"
	"github.com/hyeonwoo/shoplens/internal/infrastructure/store"
)

func runTrend(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	from, to, err := dateRange(cmd)
	if err != nil {
		return err
	}

	st, err := store.OpenPostgres(cfg.Store)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer st.Close()

	resultCache, err := openCache(cfg)
	if err != nil {
		return err
	}

	p := pipeline.New(cfg, st, pipeline.WithCache(resultCache))

	noCache, _ := cmd.Flags().GetBool("no-cache")
	platforms, _ := cmd.Flags().GetStringSlice("platform")
	categories, _ := cmd.Flags().GetStringSlice("category")
	ceiling, _ := cmd.Flags().GetFloat64("revenue-ceiling")

	bundle, err := p.Execute(context.Background(), pipeline.Request{
		From:           from,
		To:             to,
		Platforms:      platforms,
		Categories:     categories,
		RevenueCeiling: ceiling,
		UseCache:       !noCache,
	})
	if err != nil {
		return err
	}

	if outDir, _ := cmd.Flags().GetString("out"); outDir != "" && !bundle.Empty {
		w, err := artifacts.NewWriter(outDir)
		if err != nil {
			return err
		}
		if _, err := w.WriteJSON("trend", bundle); err != nil {
			return err
		}
		if _, err := w.WriteDailyCSV(bundle.Daily.Rows); err != nil {
			return err
		}
	}

	format, _ := cmd.Flags().GetString("format")
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(bundle)
	}
	printTrend(bundle)
	return nil
}

func printTrend(b pipeline.Bundle) {
	if b.Empty {
		fmt.Println("No records matched the requested range and filters.")
		return
	}

	s := b.Summary
	fmt.Printf("Period %s .. %s  (%d days, cache_hit=%v)\n\n",
		s.PeriodStart.Format("2006-01-02"), s.PeriodEnd.Format("2006-01-02"),
		s.TotalDays, b.CacheHit)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "total revenue\t%.0f\n", s.TotalRevenue)
	fmt.Fprintf(w, "mean daily revenue\t%.0f\n", s.MeanRevenue)
	fmt.Fprintf(w, "avg daily growth\t%.2f%%\n", s.AvgGrowthRate)
	fmt.Fprintf(w, "trend days up/down/stable\t%d/%d/%d\n", s.UpDays, s.DownDays, s.StableDays)
	fmt.Fprintf(w, "anomalies\t%d (%.1f%%)\n", s.AnomalyCount, s.AnomalyRatio)
	fmt.Fprintf(w, "forecast next-day revenue\t%.0f\n", b.Daily.Forecast.Revenue)
	w.Flush()

	fmt.Println("\nRecent days:")
	w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "date\trevenue\tbroadcasts\tavg roi")
	rows := b.Daily.Rows
	if len(rows) > 14 {
		rows = rows[len(rows)-14:]
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%.0f\t%d\t%.1f%%\n",
			r.Date.Format("2006-01-02"), r.Revenue, r.BroadcastCount, r.AvgROI)
	}
	w.Flush()
}

// openCache builds the configured cache backend.
func openCache(cfg config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "redis":
		return cache.NewRedis(cfg.Cache.RedisAddr, cfg.Cache.RedisDB, cfg.Cache.TTL.Std()), nil
	default:
		return cache.NewFile(cfg.Cache.Dir, cfg.Cache.TTL.Std())
	}
}
