package dataset

import (
	"bytes"
	"crypto/sha256"
	"path/filepath"
	"strings"
	"time"

	"incident-lens/internal/fallback"
	"incident-lens/internal/incident"
	"incident-lens/internal/ingest"

	"github.com/google/uuid"
)

// Provenance records whether records came from an export or the sample
// generator.
type Provenance string

const (
	ProvenanceReal   Provenance = "real"
	ProvenanceSample Provenance = "sample"
)

// namespace scopes dataset IDs so equal content always maps to the same ID.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://incident-lens/dataset"))

// Options controls how raw exports become a Dataset.
type Options struct {
	Ingest   ingest.Options
	Fallback fallback.Config
	// Concurrency bounds parallel file reads in LoadFiles. <= 0 means 4.
	Concurrency int
}

// Dataset is the normalized record set every view is computed from.
type Dataset struct {
	ID         uuid.UUID         `json:"id"`
	Provenance Provenance        `json:"provenance"`
	Records    []incident.Record `json:"records"`
	Sources    []string          `json:"sources"`
	Skipped    int               `json:"skipped"`
	RowErrors  int               `json:"rowErrors"`
	LoadedAt   time.Time         `json:"loadedAt"`
}

// IsSample reports whether the records are placeholder data.
func (d Dataset) IsSample() bool {
	return d.Provenance == ProvenanceSample
}

// Sample returns the fallback data set for cfg.
func Sample(cfg fallback.Config) Dataset {
	return Dataset{
		ID:         uuid.NewSHA1(namespace, []byte(cfg.Fingerprint())),
		Provenance: ProvenanceSample,
		Records:    fallback.Generate(cfg),
		Sources:    []string{},
		LoadedAt:   time.Now().UTC(),
	}
}

// Ingest parses one export, choosing JSON or CSV from the file extension
// and, failing that, from the first non-space byte.
func Ingest(name string, data []byte, opts ingest.Options) ingest.Result {
	if isJSON(name, data) {
		return ingest.ParseJSON(data, opts)
	}
	return ingest.ParseCSV(data, opts)
}

func isJSON(name string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return true
	case ".csv", ".tsv", ".txt":
		return false
	}
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(data, []byte("\ufeff")), " \t\r\n")
	return len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{')
}

// FromBytes ingests a single export. When it yields no usable record the
// sample data set is returned instead, still listing name as its source.
func FromBytes(name string, data []byte, opts Options) Dataset {
	res := Ingest(name, data, opts.Ingest)
	return assemble([]string{name}, [][]byte{data}, []ingest.Result{res}, opts)
}

// assemble concatenates per-source results in order and substitutes the
// sample data set when nothing usable remains.
func assemble(names []string, contents [][]byte, results []ingest.Result, opts Options) Dataset {
	ds := Dataset{
		Provenance: ProvenanceReal,
		Records:    []incident.Record{},
		Sources:    append([]string{}, names...),
		LoadedAt:   time.Now().UTC(),
	}

	h := sha256.New()
	for i, res := range results {
		ds.Records = append(ds.Records, res.Records...)
		ds.Skipped += res.Skipped
		ds.RowErrors += res.RowErrors
		h.Write([]byte(names[i]))
		h.Write([]byte{0})
		h.Write(contents[i])
	}

	if len(ds.Records) == 0 {
		sample := Sample(opts.Fallback)
		sample.Sources = ds.Sources
		sample.Skipped = ds.Skipped
		sample.RowErrors = ds.RowErrors
		return sample
	}

	ds.ID = uuid.NewSHA1(namespace, h.Sum(nil))
	return ds
}
