package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hyeonwoo/shoplens/internal/application/pipeline"
	"github.com/hyeonwoo/shoplens/internal/application/strategy"
	"github.com/hyeonwoo/shoplens/internal/artifacts"
	"github.com/hyeonwoo/shoplens/internal/domain/record"
	"github.com/hyeonwoo/shoplens/internal/infrastructure/store"
)

func runStrategy(cmd *cobra.Command, _ []string) error {
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

	platforms, _ := cmd.Flags().GetStringSlice("platform")
	categories, _ := cmd.Flags().GetStringSlice("category")
	ceiling, _ := cmd.Flags().GetFloat64("revenue-ceiling")

	raw, err := st.Query(context.Background(), record.Filter{
		From:            from,
		To:              to,
		Platforms:       platforms,
		Categories:      categories,
		RevenueCeiling:  ceiling,
		ExcludeCategory: cfg.Pipeline.MiscCategory,
	})
	if err != nil {
		return fmt.Errorf("query records: %w", err)
	}
	if len(raw) == 0 {
		fmt.Println("No records matched the requested range and filters.")
		return nil
	}

	costed := pipeline.New(cfg, st).Clean(raw)
	report := strategy.New(cfg).BuildReport(costed)

	if outDir, _ := cmd.Flags().GetString("out"); outDir != "" {
		w, err := artifacts.NewWriter(outDir)
		if err != nil {
			return err
		}
		if _, err := w.WriteJSON("strategy", report); err != nil {
			return err
		}
		if _, err := w.WriteHourCSV("weekday_hours", report.WeekdayHours); err != nil {
			return err
		}
		if _, err := w.WriteHourCSV("weekend_hours", report.WeekendHours); err != nil {
			return err
		}
		if _, err := w.WritePriceBandCSV(report.PriceRanges); err != nil {
			return err
		}
	}

	format, _ := cmd.Flags().GetString("format")
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printReport(report)
	return nil
}

func printReport(rep *strategy.Report) {
	printHourTable("Weekday optimal hours", rep.WeekdayHours)
	printHourTable("Weekend optimal hours", rep.WeekendHours)

	fmt.Println("\nOptimal price ranges:")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "band\troi\tavg revenue\tcount\tbest hour\tscore")
	for _, b := range rep.PriceRanges {
		fmt.Fprintf(w, "%s\t%.1f%%\t%.2f\t%d\t%02d:00\t%.1f\n",
			b.Band, b.ROI, b.AvgRevenue, b.Count, b.BestHour, b.Score)
	}
	w.Flush()

	printHourTable("\nChallenge hours (weekday)", rep.WeekdayChallenge)
	printHourTable("Avoid hours (weekday)", rep.WeekdayAvoid)
	printHourTable("Challenge hours (weekend)", rep.WeekendChallenge)
	printHourTable("Avoid hours (weekend)", rep.WeekendAvoid)
}

func printHourTable(title string, slots []strategy.HourSlot) {
	fmt.Printf("%s:\n", title)
	if len(slots) == 0 {
		fmt.Println("  (none)")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "hour\troi\tavg revenue\tcount\tpositive\tbest band")
	for _, s := range slots {
		fmt.Fprintf(w, "%02d:00\t%.1f%%\t%.2f\t%d\t%.0f%%\t%s\n",
			s.Hour, s.ROI, s.AvgRevenue, s.Count, s.PositiveRate, s.BestPriceRange)
	}
	w.Flush()
}
