package dataset

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/zeronista/retailops/internal/model"
)

// Dataset names one of the two recognized source files.
type Dataset string

const (
	// Cleaned excludes cancelled/returned transactions per upstream
	// file content.
	Cleaned Dataset = "cleaned"
	// Full includes cancellations and returns.
	Full Dataset = "full"
)

// FileName returns the backing file name for the dataset.
func (d Dataset) FileName() string {
	switch d {
	case Full:
		return "online_retail_full.csv"
	default:
		return "online_retail_cleaned.csv"
	}
}

// skipLogSample controls how often a skipped line produces a diagnostic
// log entry. Skips are counted exactly in the Report; logging is only
// sampled.
const skipLogSample = 10000

// Report summarizes one load pass so callers and tests can assert on
// data quality rather than scraping log output.
type Report struct {
	Dataset      Dataset   `json:"dataset"`
	Path         string    `json:"path"`
	RowsKept     int       `json:"rows_kept"`
	SkippedShort int       `json:"skipped_short"` // fewer parsed fields than headers
	SkippedEmpty int       `json:"skipped_empty"` // blank physical lines
	LoadedAt     time.Time `json:"loaded_at"`
	FromCache    bool      `json:"from_cache"`
}

// Skipped is the total number of dropped data lines.
func (r Report) Skipped() int {
	return r.SkippedShort + r.SkippedEmpty
}

// Loader reads and parses a delimited transaction file from disk.
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a loader.
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{log: log.With().Str("component", "dataset_loader").Logger()}
}

// locate probes the fixed candidate paths for the dataset file and
// returns the first one that exists.
func (l *Loader) locate(name string) (string, bool) {
	candidates := []string{
		filepath.Join("data", name),
		filepath.Join("..", "data", name),
		"./" + name,
		name,
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// Read locates and parses the dataset file. A missing file is not an
// error: it returns an empty list and a zero-row report. A mid-read
// I/O failure discards all parsed rows and returns the error.
func (l *Loader) Read(ds Dataset) ([]model.Invoice, Report, error) {
	rep := Report{Dataset: ds}

	path, ok := l.locate(ds.FileName())
	if !ok {
		l.log.Error().Str("dataset", string(ds)).Str("file", ds.FileName()).
			Msg("Data file not found in any probe path")
		return []model.Invoice{}, rep, nil
	}
	rep.Path = path

	file, err := os.Open(path)
	if err != nil {
		return nil, rep, fmt.Errorf("failed to open data file %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	// Descriptions are short but headers plus quoting can push a line
	// past the default token size on dirty exports.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, rep, fmt.Errorf("failed to read header from %s: %w", path, err)
		}
		// Empty file: header-less, no data.
		return []model.Invoice{}, rep, nil
	}
	headers := SplitLine(scanner.Text())

	var records []model.Invoice
	lineNo := 1
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if line == "" {
			rep.SkippedEmpty++
			l.sampleSkip(rep, path, lineNo, "empty line")
			continue
		}

		fields := SplitLine(line)
		if len(fields) < len(headers) {
			rep.SkippedShort++
			l.sampleSkip(rep, path, lineNo, "incomplete row")
			continue
		}

		records = append(records, buildInvoice(headers, fields))
	}

	if err := scanner.Err(); err != nil {
		// Partial reads are discarded wholesale; the caller's cache
		// entry stays at its prior state.
		l.log.Error().Err(err).Str("path", path).Msg("Read failed mid-file, discarding partial rows")
		return nil, rep, fmt.Errorf("error reading %s: %w", path, err)
	}

	rep.RowsKept = len(records)
	if records == nil {
		records = []model.Invoice{}
	}

	l.log.Info().
		Str("dataset", string(ds)).
		Str("path", path).
		Int("rows", rep.RowsKept).
		Int("skipped", rep.Skipped()).
		Msg("Dataset loaded")

	return records, rep, nil
}

func (l *Loader) sampleSkip(rep Report, path string, lineNo int, reason string) {
	if rep.Skipped()%skipLogSample == 0 {
		l.log.Warn().Str("path", path).Int("line", lineNo).Str("reason", reason).
			Msg("Skipping line (sampled)")
	}
}
