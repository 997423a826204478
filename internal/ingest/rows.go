package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"incident-lens/internal/incident"
)

type mapRow struct {
	values  map[string]string // keyed by normalizeKey(column)
	aliases AliasTable
}

func (r mapRow) lookup(key string) string {
	for _, name := range r.aliases[key] {
		if v, ok := r.values[normalizeKey(name)]; ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// stringify renders a loosely typed value as text for normalization.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339)
	case *time.Time:
		if val == nil {
			return ""
		}
		return val.Format(time.RFC3339)
	case map[string]any:
		// Jira-style nested objects: {"name": "High"}
		for _, k := range []string{"name", "value", "displayName", "key", "id"} {
			if inner, ok := val[k]; ok {
				return stringify(inner)
			}
		}
		return ""
	case []any:
		return ""
	default:
		return fmt.Sprint(val)
	}
}

// ParseRows ingests already-decoded row objects. Keys are matched through
// the same alias table as CSV headers.
func ParseRows(rows []map[string]any, opts Options) Result {
	res := Result{Records: []incident.Record{}}
	aliases := opts.aliases()

	for i, row := range rows {
		if row == nil {
			res.Skipped++
			continue
		}
		values := make(map[string]string, len(row))
		for k, v := range row {
			nk := normalizeKey(k)
			// Keep the first non-blank value if two keys fold together.
			if existing, ok := values[nk]; ok && strings.TrimSpace(existing) != "" {
				continue
			}
			values[nk] = stringify(v)
		}

		rec, ok := normalize(mapRow{values: values, aliases: aliases}, i+1, opts)
		if !ok {
			res.Skipped++
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

// ParseJSON ingests a JSON array of row objects, or an object wrapping one
// under "records", "data", "rows", "items" or "issues".
func ParseJSON(data []byte, opts Options) Result {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return Result{Records: []incident.Record{}, RowErrors: 1}
	}

	var items []any
	switch v := doc.(type) {
	case []any:
		items = v
	case map[string]any:
		for _, k := range []string{"records", "data", "rows", "items", "issues"} {
			if arr, ok := v[k].([]any); ok {
				items = arr
				break
			}
		}
	}

	rows := make([]map[string]any, 0, len(items))
	rowErrors := 0
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			rowErrors++
			continue
		}
		// Jira search results nest the interesting data under "fields".
		if fields, ok := m["fields"].(map[string]any); ok {
			flat := make(map[string]any, len(fields)+1)
			for k, v := range fields {
				flat[k] = v
			}
			if key, ok := m["key"]; ok {
				flat["key"] = key
			}
			m = flat
		}
		rows = append(rows, m)
	}

	res := ParseRows(rows, opts)
	res.RowErrors += rowErrors
	return res
}
