// Package artifacts writes analysis results to timestamped JSON and CSV files
// so runs can be diffed and shared without re-querying the store.
package artifacts

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyeonwoo/shoplens/internal/application/pipeline"
	"github.com/hyeonwoo/shoplens/internal/application/strategy"
)

// Writer emits result files under a single output directory.
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter creates the output directory if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return &Writer{dir: dir, now: time.Now}, nil
}

func (w *Writer) stamp(name, ext string) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s_%s.%s", name, w.now().Format("20060102_150405"), ext))
}

// WriteJSON marshals v with indentation into a timestamped file and returns
// the path written.
func (w *Writer) WriteJSON(name string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", name, err)
	}
	path := w.stamp(name, "json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("wrote json artifact")
	return path, nil
}

// WriteDailyCSV writes the daily aggregate table.
func (w *Writer) WriteDailyCSV(rows []pipeline.DailyRow) (string, error) {
	records := [][]string{{"date", "revenue", "units_sold", "broadcast_count", "avg_roi", "avg_efficiency"}}
	for _, r := range rows {
		records = append(records, []string{
			r.Date.Format("2006-01-02"),
			f(r.Revenue),
			strconv.FormatInt(r.UnitsSold, 10),
			strconv.Itoa(r.BroadcastCount),
			f(r.AvgROI),
			f(r.AvgEfficiency),
		})
	}
	return w.writeCSV("daily", records)
}

// WriteHourCSV writes one ranked hour table under the given name.
func (w *Writer) WriteHourCSV(name string, slots []strategy.HourSlot) (string, error) {
	records := [][]string{{
		"hour", "roi", "avg_revenue", "total_revenue", "count",
		"positive_rate", "best_price_range", "worst_price_range", "score",
	}}
	for _, s := range slots {
		records = append(records, []string{
			strconv.Itoa(s.Hour), f(s.ROI), f(s.AvgRevenue), f(s.TotalRevenue),
			strconv.Itoa(s.Count), f(s.PositiveRate), s.BestPriceRange, s.WorstPriceRange, f(s.Score),
		})
	}
	return w.writeCSV(name, records)
}

// WritePriceBandCSV writes the ranked price-band table.
func (w *Writer) WritePriceBandCSV(bands []strategy.PriceBand) (string, error) {
	records := [][]string{{
		"price_range", "roi", "avg_revenue", "total_revenue", "count",
		"best_hour", "positive_rate", "score",
	}}
	for _, b := range bands {
		records = append(records, []string{
			b.Band, f(b.ROI), f(b.AvgRevenue), f(b.TotalRevenue),
			strconv.Itoa(b.Count), strconv.Itoa(b.BestHour), f(b.PositiveRate), f(b.Score),
		})
	}
	return w.writeCSV("price_ranges", records)
}

func (w *Writer) writeCSV(name string, records [][]string) (string, error) {
	path := w.stamp(name, "csv")
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.WriteAll(records); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flush %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("rows", len(records)-1).Msg("wrote csv artifact")
	return path, nil
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
