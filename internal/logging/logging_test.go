package logging

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDirectory(t *testing.T) {
	exe := filepath.Join("opt", "incident-lens", "incident-lens")

	tests := []struct {
		name       string
		configured string
		exePath    string
		exeErr     error
		expected   string
	}{
		{"configured wins", "/var/log/il", exe, nil, "/var/log/il"},
		{"beside binary", "", exe, nil, filepath.Join("opt", "incident-lens", "logs")},
		{"no executable", "", "", errors.New("unsupported"), "logs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Directory(tt.configured, tt.exePath, tt.exeErr); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestInit_CreatesLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	t.Setenv("LOGS_FOLDER", dir)

	if err := Init(true); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("Expected log directory to exist: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".write-test")); !os.IsNotExist(err) {
		t.Error("Expected write probe to be removed")
	}
}
