package preflight

import (
	"context"
	"os"
	"path/filepath"

	"github.com/Jblast94/whisper-transcribe/internal/config"
	"github.com/Jblast94/whisper-transcribe/internal/stash"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Inputs carries the resolved pieces RunAll checks beyond the defaults file.
type Inputs struct {
	// ConfigPath is the operator's --config override; empty means the
	// default search locations.
	ConfigPath string
	// ServerURL is the resolved whisper endpoint and ServerSource the
	// precedence tier it came from.
	ServerURL    string
	ServerSource string
	// Scenes is nil when no host connection details are available.
	Scenes *stash.Client
}

// RunAll executes all preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config, in Inputs) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckFFmpeg(os.Args[0]),
		CheckConfigFile(in.ConfigPath),
	}

	// Config directory (when present; a fresh install has none yet)
	if dir := defaultConfigDir(); dir != "" {
		results = append(results, CheckDirectoryAccess("Config directory", dir))
	}

	results = append(results,
		CheckWhisperServer(ctx, in.ServerURL, in.ServerSource),
		CheckStash(ctx, in.Scenes),
		CheckRunPod(cfg),
	)
	return results
}

func defaultConfigDir() string {
	path, err := config.DefaultConfigPath()
	if err != nil {
		return ""
	}
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ""
	}
	return dir
}
