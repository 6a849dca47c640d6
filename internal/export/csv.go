package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"balanceScope/internal/model"
)

var csvColumns = []string{
	"hash", "block", "timestamp", "direction",
	"amount", "fee", "tips", "type", "delta", "balance",
}

// CSVSink writes the full series as CSV with the canonical column set.
type CSVSink struct {
	path string
}

func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

func (s *CSVSink) WriteSeries(series []model.TimelineEntry) error {
	writer, file, err := openCSV(s.path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := writer.Write(csvColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range series {
		row := []string{
			e.Hash,
			strconv.FormatInt(e.Block, 10),
			strconv.FormatInt(e.Timestamp, 10),
			string(e.Direction),
			e.Amount.String(),
			e.Fee.String(),
			e.Tips.String(),
			e.Type,
			e.Delta.String(),
			e.Balance.String(),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// TailCSVSink writes the last N rows with a human-readable UTC time
// column, for quick inspection of recent activity.
type TailCSVSink struct {
	path string
	n    int
}

func NewTailCSVSink(path string, n int) *TailCSVSink {
	return &TailCSVSink{path: path, n: n}
}

func (s *TailCSVSink) WriteSeries(series []model.TimelineEntry) error {
	tail := series
	if s.n > 0 && len(series) > s.n {
		tail = series[len(series)-s.n:]
	}

	writer, file, err := openCSV(s.path)
	if err != nil {
		return err
	}
	defer file.Close()

	header := []string{"block", "timestamp", "iso_utc", "direction", "amount", "fee", "tips", "balance", "hash"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range tail {
		row := []string{
			strconv.FormatInt(e.Block, 10),
			strconv.FormatInt(e.Timestamp, 10),
			isoUTC(e.Timestamp),
			string(e.Direction),
			e.Amount.String(),
			e.Fee.String(),
			e.Tips.String(),
			e.Balance.String(),
			e.Hash,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func openCSV(path string) (*csv.Writer, *os.File, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open output file: %w", err)
	}
	return csv.NewWriter(file), file, nil
}

func isoUTC(ts int64) string {
	if ts <= 0 {
		return ""
	}
	return time.Unix(ts, 0).UTC().Format("2006-01-02 15:04:05")
}
