package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"incident-lens/internal/incident"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath            string
	Exports             []string
	ColumnAliases       map[string][]string
	SLATargets          map[incident.Severity]float64
	FallbackSeed        int64
	FallbackCount       int
	DefaultGranularity  string
	DefaultTopN         int
	EnableMermaidCharts bool
	LoadConcurrency     int
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve data path; relative export paths are resolved against it
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	cfg := &AppConfig{
		DataPath:            dataPath,
		Exports:             resolveExports(dataPath, getEnv("INCIDENT_EXPORTS", "")),
		SLATargets:          slaTargets(),
		FallbackSeed:        int64(getEnvInt("FALLBACK_SEED", 42)),
		FallbackCount:       getEnvInt("FALLBACK_COUNT", 150),
		DefaultGranularity:  getEnv("DEFAULT_GRANULARITY", "month"),
		DefaultTopN:         getEnvInt("DEFAULT_TOP_N", 10),
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", true),
		LoadConcurrency:     getEnvInt("LOAD_CONCURRENCY", 4),
	}

	if aliasFile := getEnv("COLUMN_ALIASES_FILE", ""); aliasFile != "" {
		if !filepath.IsAbs(aliasFile) {
			aliasFile = filepath.Join(dataPath, aliasFile)
		}
		aliases, err := LoadAliases(aliasFile)
		if err != nil {
			return nil, err
		}
		cfg.ColumnAliases = aliases
		log.Debug().Str("path", aliasFile).Int("fields", len(aliases)).Msg("Loaded column aliases")
	}

	return cfg, nil
}

// LoadAliases reads a YAML document mapping logical field names to the
// extra column headers they may appear under, e.g.
//
//	id: [Ticket, Case Number]
//	openedDate: [Logged On]
func LoadAliases(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading column aliases: %w", err)
	}

	var aliases map[string][]string
	if err := yaml.Unmarshal(data, &aliases); err != nil {
		return nil, fmt.Errorf("parsing column aliases %s: %w", path, err)
	}
	return aliases, nil
}

func resolveExports(dataPath, list string) []string {
	var out []string
	for _, p := range strings.Split(list, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(dataPath, p)
		}
		out = append(out, p)
	}
	return out
}

func slaTargets() map[incident.Severity]float64 {
	targets := incident.DefaultSLATargets()
	for _, sev := range incident.Severities {
		key := "SLA_TARGET_HOURS_" + strings.ToUpper(string(sev))
		if v, ok := os.LookupEnv(key); ok {
			if hours, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && hours > 0 {
				targets[sev] = hours
			} else {
				log.Warn().Str("key", key).Str("value", v).Msg("Ignoring invalid SLA target")
			}
		}
	}
	return targets
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
