package config

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Jblast94/whisper-transcribe/internal/logging"
	"github.com/Jblast94/whisper-transcribe/internal/stash"
)

// ServerURLFetcher retrieves the plugin's saved server URL from the host.
// stash.Client.FetchServerURLSetting satisfies this; a nil fetcher skips the
// remote tier.
type ServerURLFetcher func(ctx context.Context) string

// Runtime is the fully resolved per-run configuration. Resolution happens
// once in main; everything downstream reads from this struct.
type Runtime struct {
	ServerURL       string
	ServerURLSource string
	Translate       bool
	DryRun          bool
	DebugTracing    bool
	UploadTimeout   time.Duration
}

// ResolveRuntime merges the task descriptor, host-saved settings, the
// environment, and the operator defaults file into a Runtime. Descriptor
// tiers always win over the file; the file only supplies fallbacks.
func ResolveRuntime(ctx context.Context, payload *stash.Payload, fetch ServerURLFetcher, cfg *Config, logger *slog.Logger) Runtime {
	if payload == nil {
		payload = stash.Empty()
	}
	if cfg == nil {
		cfg = Fallback()
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	rt := Runtime{
		Translate:     payload.SettingBool("translateToEnglish", cfg.Whisper.TranslateToEnglish),
		DryRun:        payload.SettingBool("zzdryRun", cfg.Plugin.DryRun),
		DebugTracing:  payload.SettingBool("zzdebugTracing", cfg.Plugin.DebugTracing),
		UploadTimeout: time.Duration(cfg.Whisper.UploadTimeout) * time.Second,
	}
	if rt.UploadTimeout <= 0 {
		rt.UploadTimeout = time.Duration(defaultUploadTimeoutSeconds) * time.Second
	}

	rt.ServerURL, rt.ServerURLSource = resolveServerURL(ctx, payload, fetch, cfg)
	if rt.DebugTracing {
		logger.Debug("server url resolved",
			logging.String("url", rt.ServerURL),
			logging.String("source", rt.ServerURLSource))
	}
	return rt
}

// resolveServerURL walks the server URL chain: explicit argument, saved UI
// setting, raw descriptor scan, host configuration fetch, environment,
// defaults file, built-in. First non-empty value wins. The saved-setting tier
// deliberately has no file-backed default so a value the operator typed into
// the host UI always beats the local defaults file.
func resolveServerURL(ctx context.Context, payload *stash.Payload, fetch ServerURLFetcher, cfg *Config) (string, string) {
	if url := payload.ArgString("serverUrl", "server_url"); url != "" {
		return url, "args"
	}
	if url := payload.SettingString("serverUrl", ""); url != "" {
		return url, "setting"
	}
	if url := payload.RawSettingScan("serverUrl"); url != "" {
		return url, "settings_scan"
	}
	if fetch != nil {
		if url := strings.TrimSpace(fetch(ctx)); url != "" {
			return url, "stash_config"
		}
	}
	if url := strings.TrimSpace(os.Getenv("WHISPER_SERVER_URL")); url != "" {
		return url, "env"
	}
	if url := strings.TrimSpace(cfg.Whisper.ServerURL); url != "" {
		return url, "config_file"
	}
	return DefaultWhisperServerURL, "default"
}
