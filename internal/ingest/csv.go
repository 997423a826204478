package ingest

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"incident-lens/internal/incident"
)

const utf8BOM = "\ufeff"

// columnPlan lists, per logical field, the column indices to try in alias order.
type columnPlan map[string][]int

func buildPlan(header []string, aliases AliasTable) columnPlan {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = normalizeKey(h)
	}

	plan := make(columnPlan, len(aliases))
	for key, names := range aliases {
		seen := make(map[int]bool)
		for _, name := range names {
			target := normalizeKey(name)
			for i, h := range normalized {
				if h == target && !seen[i] {
					plan[key] = append(plan[key], i)
					seen[i] = true
				}
			}
		}
	}
	return plan
}

type csvRow struct {
	plan   columnPlan
	values []string
}

func (r csvRow) lookup(key string) string {
	for _, idx := range r.plan[key] {
		if idx < len(r.values) && strings.TrimSpace(r.values[idx]) != "" {
			return r.values[idx]
		}
	}
	return ""
}

// detectDelimiter picks ';' or tab when the header line clearly uses them
// instead of commas.
func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	commas := bytes.Count(line, []byte{','})
	if semis := bytes.Count(line, []byte{';'}); semis > commas {
		return ';'
	}
	if tabs := bytes.Count(line, []byte{'\t'}); tabs > commas {
		return '\t'
	}
	return ','
}

// ParseCSV ingests a header row followed by delimited rows. It never fails:
// undecodable rows are counted in RowErrors and unidentifiable rows in Skipped.
func ParseCSV(data []byte, opts Options) Result {
	res := Result{Records: []incident.Record{}}

	data = bytes.TrimPrefix(data, []byte(utf8BOM))
	if len(bytes.TrimSpace(data)) == 0 {
		return res
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err != nil {
		res.RowErrors++
		return res
	}
	plan := buildPlan(header, opts.aliases())

	rowNum := 0
	for {
		values, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			res.RowErrors++
			continue
		}

		rec, ok := normalize(csvRow{plan: plan, values: values}, rowNum, opts)
		if !ok {
			res.Skipped++
			continue
		}
		res.Records = append(res.Records, rec)
	}

	return res
}
