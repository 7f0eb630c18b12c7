// package formatter renders batch resolution reports to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tomasvidal/trackseek/internal/services"
	"github.com/tomasvidal/trackseek/internal/shared"
	"github.com/tomasvidal/trackseek/internal/tasks"
)

// Report formats supported by WriteReport and RenderReport.
const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "text"
	FormatJSON     = "json"
)

// ReportRow is one track's outcome flattened for serialization.
type ReportRow struct {
	Track    string  `json:"track"`
	Artist   string  `json:"artist"`
	Album    string  `json:"album,omitempty"`
	Duration int     `json:"duration"`
	Outcome  string  `json:"outcome"`
	Strategy string  `json:"strategy,omitempty"`
	Score    float64 `json:"score,omitempty"`
	Locator  string  `json:"locator,omitempty"`
	URL      string  `json:"url,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// Report is the serializable form of a batch run.
type Report struct {
	Source      string      `json:"source"`
	SourceKind  string      `json:"source_kind"`
	SourceID    string      `json:"source_id"`
	Total       int         `json:"total"`
	Matched     int         `json:"matched"`
	Missed      int         `json:"missed"`
	Transient   int         `json:"transient"`
	MatchRate   float64     `json:"match_rate"`
	JobID       string      `json:"job_id,omitempty"`
	GeneratedAt string      `json:"generated_at"`
	Tracks      []ReportRow `json:"tracks"`
}

// BuildReport flattens a BatchResult into its serializable report form.
func BuildReport(result *tasks.BatchResult) *Report {
	report := &Report{
		Source:      result.SourceName,
		SourceKind:  result.SourceKind,
		SourceID:    result.SourceID,
		Total:       result.Total,
		Matched:     result.Matched,
		Missed:      result.Missed,
		Transient:   result.Transient,
		MatchRate:   result.MatchPercentage,
		JobID:       result.JobID,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Tracks:      make([]ReportRow, 0, len(result.Outcomes)),
	}

	for _, outcome := range result.Outcomes {
		row := ReportRow{
			Track:    outcome.Descriptor.Name,
			Artist:   outcome.Descriptor.PrimaryArtist(),
			Album:    outcome.Descriptor.Album,
			Duration: outcome.Descriptor.Duration,
			Outcome:  outcomeLabel(outcome),
		}
		if outcome.Matched() {
			row.Strategy = outcome.Resolution.Strategy
			row.Score = outcome.Resolution.Match.Total
			row.Locator = outcome.Resolution.Locator
			row.URL = services.WatchURL(outcome.Resolution.Locator)
		} else if outcome.Err != nil {
			row.Error = outcome.Err.Error()
		}
		report.Tracks = append(report.Tracks, row)
	}

	return report
}

func outcomeLabel(outcome tasks.TrackOutcome) string {
	switch {
	case outcome.Matched():
		return "matched"
	case isTransient(outcome.Err):
		return "transient"
	default:
		return "missed"
	}
}

func isTransient(err error) bool {
	return errors.Is(err, shared.ErrSearchTransient)
}

// ExportToCSV converts a BatchResult to CSV with columns: Track, Artist, Album, Duration, Outcome, Strategy, Score, Locator
func ExportToCSV(result *tasks.BatchResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Track", "Artist", "Album", "Duration", "Outcome", "Strategy", "Score", "Locator"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range BuildReport(result).Tracks {
		score := ""
		if row.Outcome == "matched" {
			score = strconv.FormatFloat(row.Score, 'f', 2, 64)
		}
		record := []string{
			row.Track,
			row.Artist,
			row.Album,
			strconv.Itoa(row.Duration),
			row.Outcome,
			row.Strategy,
			score,
			row.Locator,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a BatchResult to a Markdown report.
func ExportToMarkdown(result *tasks.BatchResult) ([]byte, error) {
	var buf bytes.Buffer
	report := BuildReport(result)

	buf.WriteString(fmt.Sprintf("# %s\n\n", report.Source))
	buf.WriteString(fmt.Sprintf("**Source:** %s `%s`\n\n", report.SourceKind, report.SourceID))
	buf.WriteString(fmt.Sprintf("**Resolved:** %d/%d (%.0f%%)", report.Matched, report.Total, report.MatchRate))
	if report.Transient > 0 {
		buf.WriteString(fmt.Sprintf(", %d transient", report.Transient))
	}
	buf.WriteString("\n\n")

	buf.WriteString("## Tracks\n\n")
	for i, row := range report.Tracks {
		switch row.Outcome {
		case "matched":
			buf.WriteString(fmt.Sprintf("%d. ✓ [%s](%s) - %s (%s, %s %.2f)\n",
				i+1, row.Track, row.URL, row.Artist, shared.FormatDuration(row.Duration), row.Strategy, row.Score))
		case "transient":
			buf.WriteString(fmt.Sprintf("%d. ✗ %s - %s (%s, search errors, retryable)\n",
				i+1, row.Track, row.Artist, shared.FormatDuration(row.Duration)))
		default:
			buf.WriteString(fmt.Sprintf("%d. ✗ %s - %s (%s, no match)\n",
				i+1, row.Track, row.Artist, shared.FormatDuration(row.Duration)))
		}
	}

	buf.WriteString(fmt.Sprintf("\n---\n*Generated %s*\n", report.GeneratedAt))

	return buf.Bytes(), nil
}

// ExportToText converts a BatchResult to a plain text report.
func ExportToText(result *tasks.BatchResult) ([]byte, error) {
	var buf bytes.Buffer
	report := BuildReport(result)

	buf.WriteString(fmt.Sprintf("%s (%s %s)\n", report.Source, report.SourceKind, report.SourceID))
	buf.WriteString(strings.Repeat("=", len(report.Source)) + "\n")
	buf.WriteString(fmt.Sprintf("Resolved %d/%d tracks (%.0f%%)\n", report.Matched, report.Total, report.MatchRate))
	if report.Transient > 0 {
		buf.WriteString(fmt.Sprintf("%d tracks failed on transient errors and can be re-run\n", report.Transient))
	}
	buf.WriteString("\n")

	for i, row := range report.Tracks {
		if row.Outcome == "matched" {
			buf.WriteString(fmt.Sprintf("%3d. [OK]   %s - %s (%s) -> %s\n",
				i+1, row.Track, row.Artist, shared.FormatDuration(row.Duration), row.Locator))
		} else {
			buf.WriteString(fmt.Sprintf("%3d. [MISS] %s - %s (%s): %s\n",
				i+1, row.Track, row.Artist, shared.FormatDuration(row.Duration), row.Outcome))
		}
	}

	return buf.Bytes(), nil
}

// ExportToJSON serializes the report form of a BatchResult.
func ExportToJSON(result *tasks.BatchResult, pretty bool) ([]byte, error) {
	return shared.MarshalJSON(BuildReport(result), pretty)
}

// RenderReport writes a formatted report to w in the requested format.
func RenderReport(w io.Writer, result *tasks.BatchResult, format string) error {
	var data []byte
	var err error

	switch format {
	case FormatCSV:
		data, err = ExportToCSV(result)
	case FormatMarkdown:
		data, err = ExportToMarkdown(result)
	case FormatText:
		data, err = ExportToText(result)
	case FormatJSON:
		data, err = ExportToJSON(result, true)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// WriteReport renders a report to a file, deriving the extension from the format.
func WriteReport(result *tasks.BatchResult, format string, basePath string) (string, error) {
	ext, ok := map[string]string{
		FormatCSV:      ".csv",
		FormatMarkdown: ".md",
		FormatText:     ".txt",
		FormatJSON:     ".json",
	}[format]
	if !ok {
		return "", fmt.Errorf("unsupported report format: %s", format)
	}

	path := basePath
	if !strings.HasSuffix(path, ext) {
		path += ext
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if err := RenderReport(file, result, format); err != nil {
		return "", err
	}
	return path, nil
}
