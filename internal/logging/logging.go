package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the rotating log file created inside the log directory.
const FileName = "incident-lens.log"

// Init configures the global logger with two sinks: stderr and a rotating
// file. Stdout is left alone so the MCP stdio transport owns it.
func Init(verbose bool) error {
	// Init runs before config.Load, so LOGS_FOLDER may only exist in the
	// binary-relative .env at this point.
	exePath, exeErr := os.Executable()
	if exeErr == nil {
		_ = godotenv.Load(filepath.Join(filepath.Dir(exePath), ".env"))
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	logDir := Directory(os.Getenv("LOGS_FOLDER"), exePath, exeErr)
	if err := ensureWritable(logDir); err != nil {
		return err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, FileName),
		MaxSize:    16, // megabytes
		MaxBackups: 8,
		MaxAge:     90, // days
		Compress:   true,
	}

	multi := zerolog.MultiLevelWriter(consoleWriter(os.Stderr), fileWriter)
	log.Logger = zerolog.New(multi).
		With().
		Timestamp().
		Logger()
	return nil
}

// Directory picks the log directory: the configured folder, else logs/
// beside the executable, else logs/ in the working directory.
func Directory(configured, exePath string, exeErr error) string {
	if configured != "" {
		return configured
	}
	if exeErr == nil && exePath != "" {
		return filepath.Join(filepath.Dir(exePath), "logs")
	}
	return "logs"
}

func ensureWritable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating log directory %q: %w", dir, err)
	}

	probe := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(probe, []byte("test"), 0644); err != nil {
		return fmt.Errorf("log directory %q is not writable: %w", dir, err)
	}
	_ = os.Remove(probe)
	return nil
}

func consoleWriter(f *os.File) io.Writer {
	isTerminal := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	return zerolog.ConsoleWriter{
		Out:        f,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal,
	}
}
