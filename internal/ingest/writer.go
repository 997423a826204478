package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"incident-lens/internal/incident"
)

// CanonicalHeader is the column layout written by WriteCSV.
var CanonicalHeader = []string{
	"Number", "Short Description", "Description", "Priority", "Severity", "Status",
	"Category", "Subcategory", "Source", "Opened Date", "Resolved Date",
	"Resolution Time (Hours)", "Root Cause", "SLA Met", "Reopen Count",
	"Line of Business", "Assignment Group",
}

// WriteCSV writes records using CanonicalHeader. The output ingests back
// into the same records.
func WriteCSV(w io.Writer, records []incident.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CanonicalHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.ID,
			r.Title,
			r.Description,
			formatPriority(r.Priority),
			string(r.Severity),
			string(r.Status),
			r.Category,
			r.Subcategory,
			r.Source,
			formatTime(r.OpenedDate),
			formatTime(r.ResolvedDate),
			formatFloat(r.ResolutionTimeHours),
			r.RootCause,
			formatBool(r.SLAMet),
			strconv.Itoa(r.ReopenCount),
			r.LineOfBusiness,
			r.AssignmentGroup,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write record %s: %w", r.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatPriority(p int) string {
	if p < 1 || p > 4 {
		return ""
	}
	return strconv.Itoa(p)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatBool(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}
