package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Whisper contains configuration for the local whisper server client.
type Whisper struct {
	// ServerURL sits near the bottom of the server URL chain: host settings,
	// task arguments, and WHISPER_SERVER_URL all override it.
	ServerURL          string `toml:"server_url"`
	TranslateToEnglish bool   `toml:"translate_to_english"`
	UploadTimeout      int    `toml:"upload_timeout"`
}

// Stash contains connection settings for the host GraphQL API used when no
// task descriptor supplies a server_connection block.
type Stash struct {
	URL        string `toml:"url"`
	GraphQLURL string `toml:"graphql_url"`
	APIKey     string `toml:"api_key"`
}

// RunPod contains configuration for the cloud inference endpoint.
type RunPod struct {
	APIKey         string `toml:"api_key"`
	EndpointID     string `toml:"endpoint_id"`
	EndpointURL    string `toml:"endpoint_url"`
	Language       string `toml:"language"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Plugin contains behaviour flags for plugin runs.
type Plugin struct {
	DryRun       bool `toml:"dry_run"`
	DebugTracing bool `toml:"debug_tracing"`
}

// Logging contains configuration for log output of the operator commands.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates the operator defaults file.
//
// Sections by subsystem:
//   - Whisper: local transcription server URL and upload behaviour
//   - Stash: host GraphQL connection fallbacks
//   - RunPod: cloud inference credentials and endpoint
//   - Plugin: dry-run and debug tracing defaults
//   - Logging: operator command log format and level
//
// Values resolved here sit at the bottom of the runtime precedence chain:
// task descriptor settings and arguments always win over this file.
type Config struct {
	Whisper Whisper `toml:"whisper"`
	Stash   Stash   `toml:"stash"`
	RunPod  RunPod  `toml:"runpod"`
	Plugin  Plugin  `toml:"plugin"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/whisper-transcribe/config.toml")
}

// Load locates, parses, and validates a configuration file. A missing file is
// not an error; the returned bool reports whether one was found.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// Fallback returns normalized defaults for callers that must keep running
// when the configuration file cannot be read, such as plugin mode.
func Fallback() *Config {
	cfg := Default()
	cfg.normalize()
	return &cfg
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("whisper-transcribe.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// ExpandPath resolves ~ and relative segments into an absolute path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the given path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Render returns the configuration serialized as TOML, used by `config show`.
func (c *Config) Render() (string, error) {
	out, err := toml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("render config: %w", err)
	}
	return string(out), nil
}
