package ingest

import (
	"fmt"
	"strings"

	"incident-lens/internal/incident"
)

// Options tunes normalization. The zero value uses DefaultAliases and
// derives no SLA flags.
type Options struct {
	Aliases AliasTable
	// SLATargets holds the resolution-time target in hours per severity. When
	// set, records without an explicit SLA flag get one derived from their
	// resolution time.
	SLATargets map[incident.Severity]float64
}

func (o Options) aliases() AliasTable {
	if len(o.Aliases) == 0 {
		return DefaultAliases()
	}
	return o.Aliases
}

// Result is the outcome of one ingestion pass.
type Result struct {
	Records []incident.Record `json:"records"`
	// Skipped counts rows without any identifying key.
	Skipped int `json:"skipped"`
	// RowErrors counts rows the tabular reader could not decode.
	RowErrors int `json:"rowErrors"`
}

// fieldSource resolves a logical field to its raw text for one row.
type fieldSource interface {
	lookup(key string) string
}

// normalize builds a record from one row. rowNum is the 1-based data row
// index, used to synthesize an id. ok is false for unidentifiable rows.
func normalize(src fieldSource, rowNum int, opts Options) (incident.Record, bool) {
	get := func(key string) string {
		return strings.TrimSpace(src.lookup(key))
	}

	rec := incident.Record{
		ID:              get(KeyID),
		Title:           get(KeyTitle),
		Description:     get(KeyDescription),
		Category:        get(KeyCategory),
		Subcategory:     get(KeySubcategory),
		Source:          get(KeySource),
		RootCause:       get(KeyRootCause),
		LineOfBusiness:  get(KeyLineOfBusiness),
		AssignmentGroup: get(KeyAssignmentGroup),
	}

	if rec.ID == "" && rec.Title == "" && rec.Description == "" {
		return incident.Record{}, false
	}
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("ROW-%d", rowNum)
	}

	rec.OpenedDate = parseDate(get(KeyOpenedDate))
	rec.ResolvedDate = parseDate(get(KeyResolvedDate))

	// 1. Status (explicit status outranks a stale resolved date)
	if status, ok := parseStatus(get(KeyStatus)); ok {
		rec.Status = status
		if !status.IsTerminal() {
			rec.ResolvedDate = nil
		}
	} else if rec.ResolvedDate != nil {
		rec.Status = incident.StatusResolved
	} else {
		rec.Status = incident.StatusOpen
	}

	// 2. Priority and Severity
	rec.Priority = parsePriority(get(KeyPriority))
	if sev, ok := parseSeverity(get(KeySeverity)); ok {
		rec.Severity = sev
	} else if sev, ok := incident.SeverityFromOrdinal(rec.Priority); ok {
		rec.Severity = sev
	} else {
		rec.Severity = incident.SeverityLow
	}

	// 3. Resolution time
	if raw := get(KeyResolutionTimeHours); raw != "" {
		hours := parseNumber(raw)
		if hours < 0 {
			hours = 0
		}
		rec.ResolutionTimeHours = incident.FloatPtr(hours)
	} else if rec.OpenedDate != nil && rec.ResolvedDate != nil && !rec.ResolvedDate.Before(*rec.OpenedDate) {
		rec.ResolutionTimeHours = incident.FloatPtr(rec.ResolvedDate.Sub(*rec.OpenedDate).Hours())
	}
	if !rec.Status.IsTerminal() {
		rec.ResolutionTimeHours = nil
	}

	// 4. SLA flag
	rec.SLAMet = parseBool(get(KeySLAMet))
	if rec.SLAMet == nil && rec.HasResolutionTime() {
		if target, ok := opts.SLATargets[rec.Severity]; ok && target > 0 {
			rec.SLAMet = incident.BoolPtr(*rec.ResolutionTimeHours <= target)
		}
	}

	rec.ReopenCount = parseCount(get(KeyReopenCount))

	return rec, true
}
