package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyeonwoo/shoplens/internal/config"
)

const (
	appName = "shoplens"
	version = "v1.1.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Home-shopping broadcast schedule and revenue analytics",
		Version: version,
		Long: `shoplens analyzes home-shopping broadcast records: revenue trends with
a full metric suite, and slot strategy rankings (optimal hours, price
bands, challenge and avoid hours).`,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	trendCmd := &cobra.Command{
		Use:   "trend",
		Short: "Run the trend analysis pipeline",
		Long:  "Extracts records for the date range, aggregates daily/weekly/monthly buckets, and computes the trend metric suite",
		RunE:  runTrend,
	}
	addRangeFlags(trendCmd)
	trendCmd.Flags().Bool("no-cache", false, "Bypass the result cache")
	trendCmd.Flags().String("out", "", "Directory for JSON/CSV artifacts (omit to skip export)")
	trendCmd.Flags().String("format", "table", "Output format (table|json)")

	strategyCmd := &cobra.Command{
		Use:   "strategy",
		Short: "Rank broadcast slots",
		Long:  "Ranks hours and price bands by trimmed-mean ROI and revenue share, split by weekday/weekend regime",
		RunE:  runStrategy,
	}
	addRangeFlags(strategyCmd)
	strategyCmd.Flags().String("out", "", "Directory for JSON/CSV artifacts (omit to skip export)")
	strategyCmd.Flags().String("format", "table", "Output format (table|json)")

	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Result cache maintenance",
	}
	cacheInfoCmd := &cobra.Command{
		Use:   "info",
		Short: "Show cache entry count and size",
		RunE:  runCacheInfo,
	}
	cacheClearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached results",
		RunE:  runCacheClear,
	}
	cacheCmd.AddCommand(cacheInfoCmd, cacheClearCmd)

	rootCmd.AddCommand(trendCmd, strategyCmd, cacheCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "Range start, YYYY-MM-DD (default: 90 days ago)")
	cmd.Flags().String("to", "", "Range end, YYYY-MM-DD (default: today)")
	cmd.Flags().StringSlice("platform", nil, "Platform filter (repeatable)")
	cmd.Flags().StringSlice("category", nil, "Category filter (repeatable)")
	cmd.Flags().Float64("revenue-ceiling", 0, "Drop records above this revenue (0 = off)")
}

// loadConfig reads the persistent flags shared by every subcommand.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// dateRange parses --from/--to with trailing-90-days defaults.
func dateRange(cmd *cobra.Command) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -90)
	to := now

	if s, _ := cmd.Flags().GetString("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return from, to, fmt.Errorf("parse --from %q: %w", s, err)
		}
		from = t
	}
	if s, _ := cmd.Flags().GetString("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return from, to, fmt.Errorf("parse --to %q: %w", s, err)
		}
		to = t
	}
	if to.Before(from) {
		return from, to, fmt.Errorf("range end %s precedes start %s",
			to.Format("2006-01-02"), from.Format("2006-01-02"))
	}
	return from, to, nil
}
