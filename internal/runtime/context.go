// Package runtime provides application runtime context for Brewlog.
package runtime

import (
	"io"
	"log/slog"

	"github.com/manav03panchal/brewlog/internal/config"
	"github.com/manav03panchal/brewlog/internal/logging"
	"github.com/manav03panchal/brewlog/internal/model"
	"github.com/manav03panchal/brewlog/internal/output"
	"github.com/manav03panchal/brewlog/internal/storage"
	"github.com/manav03panchal/brewlog/internal/store"
)

// Context holds the application runtime context.
type Context struct {
	Config    *config.RuntimeConfig
	Slot      storage.Slot
	Store     *store.Store
	Formatter *output.Formatter
	Logger    *slog.Logger

	// Debug mode
	Debug bool
}

// Options configures the runtime context.
type Options struct {
	Format    output.Format
	ColorMode output.ColorMode
	Debug     bool

	// InMemory forces an in-memory backend regardless of configuration.
	InMemory bool

	// EnvFiles overrides the env files read by config.Load.
	EnvFiles []string

	// Writer replaces stdout for formatted output.
	Writer io.Writer
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		Format:    output.FormatCLI,
		ColorMode: output.ColorAuto,
	}
}

// New loads the configuration, opens the configured slot and the store on
// top of it.
func New(opts Options) (*Context, error) {
	cfg, err := config.Load(opts.EnvFiles...)
	if err != nil {
		return nil, err
	}
	if opts.InMemory {
		cfg.InMemory = true
	}

	logger := logging.With(logging.KeyBackend, cfg.Backend)

	slot, err := storage.OpenSlot(storage.SlotOptions{
		Backend:  cfg.Backend,
		DataDir:  cfg.DataDir,
		Key:      model.KeyBrews,
		InMemory: cfg.InMemory,
	})
	if err != nil {
		return nil, err
	}

	st, err := store.Open(slot, store.Options{Logger: logger})
	if err != nil {
		slot.Close()
		return nil, err
	}
	logger.Debug("store opened", logging.KeyCount, st.Len(), logging.KeyPath, cfg.DataDir)

	formatter := output.NewFormatter()
	formatter.Format = opts.Format
	formatter.ColorMode = opts.ColorMode
	if opts.Writer != nil {
		formatter.Writer = opts.Writer
	}

	return &Context{
		Config:    cfg,
		Slot:      slot,
		Store:     st,
		Formatter: formatter,
		Logger:    logger,
		Debug:     opts.Debug,
	}, nil
}

// Close closes the runtime context.
func (c *Context) Close() error {
	if c.Slot != nil {
		return c.Slot.Close()
	}
	return nil
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// JSONFormatter returns a JSON formatter.
func (c *Context) JSONFormatter() *output.JSONFormatter {
	return output.NewJSONFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.Format == output.FormatJSON
}

// Methods returns the configured brew methods.
func (c *Context) Methods() []string {
	return c.Config.Methods
}
