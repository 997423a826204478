package engine

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"incident-lens/internal/incident"
	"incident-lens/internal/ingest"
)

// Save writes records as <name>.csv and <name>.json under outDir and returns
// the two paths. Both files load back through the regular ingestion path.
func Save(outDir, name string, records []incident.Record) ([]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, err
	}

	csvPath := filepath.Join(outDir, fmt.Sprintf("%s.csv", name))
	jsonPath := filepath.Join(outDir, fmt.Sprintf("%s.json", name))

	if err := writeFile(csvPath, func(w *bufio.Writer) error {
		return ingest.WriteCSV(w, records)
	}); err != nil {
		return nil, err
	}

	if err := writeFile(jsonPath, func(w *bufio.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}); err != nil {
		return nil, err
	}

	return []string{csvPath, jsonPath}, nil
}

func writeFile(path string, write func(w *bufio.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := write(w); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
