package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"incident-lens/internal/dataset"
	"incident-lens/internal/filter"
	"incident-lens/internal/incident"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// ResponseContext tells the caller which data a result was computed from.
type ResponseContext struct {
	DatasetID  string             `json:"datasetId"`
	Provenance dataset.Provenance `json:"provenance"`
	Filter     string             `json:"filter"`
	InScope    int                `json:"inScope"`
	Loaded     int                `json:"loaded"`
}

// Response is the envelope every JSON tool result is wrapped in.
type Response struct {
	Data     any             `json:"data"`
	Context  ResponseContext `json:"context"`
	Warnings []string        `json:"warnings,omitempty"`
}

// scope snapshots the dataset and applies f to it.
func (s *Server) scope(f filter.Filter) (dataset.Dataset, []incident.Record) {
	ds := s.Dataset()
	return ds, filter.Apply(ds.Records, f)
}

func wrap(ds dataset.Dataset, f filter.Filter, inScope int, data any) Response {
	resp := Response{
		Data: data,
		Context: ResponseContext{
			DatasetID:  ds.ID.String(),
			Provenance: ds.Provenance,
			Filter:     f.String(),
			InScope:    inScope,
			Loaded:     len(ds.Records),
		},
	}

	if ds.IsSample() {
		resp.Warnings = append(resp.Warnings, "SAMPLE DATA: no usable export is loaded. Figures come from generated placeholder incidents and must not be reported as real.")
	}
	if ds.Skipped > 0 || ds.RowErrors > 0 {
		resp.Warnings = append(resp.Warnings, fmt.Sprintf("%d rows were skipped as empty and %d could not be read.", ds.Skipped, ds.RowErrors))
	}
	if inScope == 0 && len(ds.Records) > 0 {
		resp.Warnings = append(resp.Warnings, fmt.Sprintf("No incidents match %s.", f.String()))
	}
	return resp
}

// result renders the envelope as indented JSON text plus structured content.
func result(resp Response) (*sdk.CallToolResult, any, error) {
	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encoding response: %w", err)
	}
	return &sdk.CallToolResult{
		Content:           []sdk.Content{&sdk.TextContent{Text: string(out)}},
		StructuredContent: resp,
	}, nil, nil
}

func textResult(text string) (*sdk.CallToolResult, any, error) {
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: text}},
	}, nil, nil
}

// parseField resolves a field argument, falling back to def when empty.
func parseField(name string, def incident.Field) (incident.Field, error) {
	if strings.TrimSpace(name) == "" {
		return def, nil
	}
	f, ok := incident.ParseField(name)
	if !ok {
		names := make([]string, len(incident.Fields))
		for i, known := range incident.Fields {
			names[i] = string(known)
		}
		return "", fmt.Errorf("unknown field %q (expected one of %s)", name, strings.Join(names, ", "))
	}
	return f, nil
}

func logCall(tool string, f filter.Filter, inScope int) {
	log.Debug().Str("tool", tool).Str("filter", f.String()).Int("inScope", inScope).Msg("Tool call")
}
