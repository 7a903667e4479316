package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/Jblast94/whisper-transcribe/internal/config"
	"github.com/Jblast94/whisper-transcribe/internal/logging"
	"github.com/Jblast94/whisper-transcribe/internal/stash"
)

// commandContext carries the shared --config flag and loads the defaults
// file at most once per invocation.
type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) flagPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(c.flagPath())
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configExists = exists
	})
	return c.config, c.configErr
}

// configLocation describes where the loaded configuration came from, for
// command output.
func (c *commandContext) configLocation() string {
	if c.configPath == "" {
		return "built-in defaults"
	}
	if !c.configExists {
		return c.configPath + " (not found; showing built-in defaults)"
	}
	return c.configPath
}

// newConsoleLogger builds the logger for operator commands, honoring the
// defaults file's logging section.
func (c *commandContext) newConsoleLogger(cfg *config.Config) (*slog.Logger, error) {
	format := logging.FormatConsole
	level := "info"
	if cfg != nil {
		if cfg.Logging.Format != "" {
			format = cfg.Logging.Format
		}
		if cfg.Logging.Level != "" {
			level = cfg.Logging.Level
		}
	}
	return logging.New(logging.Options{Level: level, Format: format})
}

// stashClient builds the host client from the defaults file and environment.
// Operator commands run outside the host, so no descriptor supplies
// connection details.
func (c *commandContext) stashClient(cfg *config.Config, logger *slog.Logger) *stash.Client {
	conn := stash.Empty().Connection(connectionDefaults(cfg))
	return stash.NewClient(conn, logger)
}

func connectionDefaults(cfg *config.Config) stash.ConnectionDefaults {
	if cfg == nil {
		return stash.ConnectionDefaults{}
	}
	return stash.ConnectionDefaults{
		GraphQLURL: cfg.Stash.GraphQLURL,
		BaseURL:    cfg.Stash.URL,
		APIKey:     cfg.Stash.APIKey,
	}
}
