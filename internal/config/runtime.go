// Package config provides centralized configuration for Brewlog runtime values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"github.com/manav03panchal/brewlog/internal/errors"
	"github.com/manav03panchal/brewlog/internal/storage"
	"github.com/manav03panchal/brewlog/internal/store"
)

// Environment variables read by Load.
const (
	EnvMethods     = "BREWLOG_METHODS"
	EnvBackend     = "BREWLOG_BACKEND"
	EnvDataDir     = "BREWLOG_DATA_DIR"
	EnvDefaultSort = "BREWLOG_DEFAULT_SORT"
	EnvExportDir   = "BREWLOG_EXPORT_DIR"
	EnvDatabase    = "BREWLOG_DATABASE"
)

// EnvFileName is the optional env file under the XDG config directory.
const EnvFileName = "brewlog.env"

// DefaultMethods is the method set used when none is configured.
var DefaultMethods = []string{
	"V60",
	"Chemex",
	"Kalita",
	"AeroPress",
	"French Press",
	"Espresso",
	"Moka Pot",
	"Cold Brew",
	"Siphon",
	"Other",
}

// RuntimeConfig holds the values that can be changed without a rebuild.
type RuntimeConfig struct {
	// Methods is the set of brew methods a form may choose from.
	Methods []string `json:"methods"`

	// Backend is the persistence backend, "badger" or "sqlite".
	// Default: badger
	Backend string `json:"backend"`

	// DataDir holds the database files.
	// Default: $XDG_DATA_HOME/brewlog
	DataDir string `json:"data_dir"`

	// InMemory keeps all data in memory (BREWLOG_DATABASE=:memory:).
	InMemory bool `json:"in_memory,omitempty"`

	// DefaultSort orders list output when --sort is not given.
	// Default: createdAt-desc
	DefaultSort string `json:"default_sort"`

	// ExportDir is where export files are written when -o is not given.
	// Default: current directory
	ExportDir string `json:"export_dir"`

	// EnvFile is the env file that was loaded, if any.
	EnvFile string `json:"env_file,omitempty"`
}

// DefaultRuntimeConfig returns the default runtime configuration.
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		Methods:     slices.Clone(DefaultMethods),
		Backend:     storage.BackendBadger,
		DataDir:     storage.DataDir(),
		DefaultSort: store.DefaultSort.String(),
		ExportDir:   ".",
	}
}

// EnvFilePath returns the default env file location.
func EnvFilePath() string {
	return filepath.Join(xdg.ConfigHome, storage.AppName, EnvFileName)
}

// Load builds the configuration from defaults, the env files and the
// environment. Missing env files are skipped and variables already set in
// the environment win over file values.
func Load(envFiles ...string) (*RuntimeConfig, error) {
	if len(envFiles) == 0 {
		envFiles = []string{EnvFilePath()}
	}

	cfg := DefaultRuntimeConfig()

	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return nil, errors.NewUserErrorWithField("env_file", path,
				"Cannot parse config file",
				"Use KEY=value lines, for example BREWLOG_BACKEND=sqlite")
		}
		cfg.EnvFile = path
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromEnv loads configuration overrides from environment variables.
func (c *RuntimeConfig) loadFromEnv() {
	if v := os.Getenv(EnvMethods); v != "" {
		if methods := ParseMethods(v); len(methods) > 0 {
			c.Methods = methods
		}
	}
	if v := os.Getenv(EnvBackend); v != "" {
		c.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvDefaultSort); v != "" {
		c.DefaultSort = strings.TrimSpace(v)
	}
	if v := os.Getenv(EnvExportDir); v != "" {
		c.ExportDir = v
	}
	if os.Getenv(EnvDatabase) == storage.MemoryPath {
		c.InMemory = true
	}
}

// ParseMethods splits a comma separated method list, dropping blanks and
// duplicates.
func ParseMethods(value string) []string {
	var methods []string
	for _, part := range strings.Split(value, ",") {
		m := strings.TrimSpace(part)
		if m == "" || slices.Contains(methods, m) {
			continue
		}
		methods = append(methods, m)
	}
	return methods
}

// Validate checks that the configuration is usable.
func (c *RuntimeConfig) Validate() error {
	if len(c.Methods) == 0 {
		return errors.NewUserError("No brew methods configured",
			fmt.Sprintf("Set %s to a comma separated list, like \"V60,Chemex\"", EnvMethods))
	}
	if !slices.Contains(storage.Backends, c.Backend) {
		return errors.NewUserErrorWithField("backend", c.Backend,
			"Unknown storage backend",
			fmt.Sprintf("Set %s to one of: %s", EnvBackend, strings.Join(storage.Backends, ", ")))
	}
	if _, err := store.ParseSort(c.DefaultSort); err != nil {
		return err
	}
	return nil
}

// Sort returns the parsed default sort.
func (c *RuntimeConfig) Sort() store.Sort {
	s, err := store.ParseSort(c.DefaultSort)
	if err != nil {
		return store.DefaultSort
	}
	return s
}
