package stash

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/Jblast94/whisper-transcribe/internal/logging"
)

// MaxPayloadBytes caps how much of the task descriptor is read from stdin.
const MaxPayloadBytes = 10 * 1024 * 1024

// Payload is the parsed task descriptor the host pipes to the plugin on
// stdin. A Payload always exists; read or parse failures produce an empty
// one so settings resolution falls through to defaults.
type Payload struct {
	raw            map[string]any
	args           map[string]any
	settings       map[string]any
	pluginSettings map[string]any
	taskName       string
}

// Empty returns a descriptor with no content.
func Empty() *Payload {
	return fromRaw(map[string]any{})
}

// ReadPayload consumes at most MaxPayloadBytes from r and parses the task
// descriptor. It never fails: absent or malformed input yields an empty
// descriptor, noted at trace level.
func ReadPayload(r io.Reader, logger *slog.Logger) *Payload {
	if logger == nil {
		logger = logging.NewNop()
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxPayloadBytes))
	if err != nil {
		logger.Debug("task descriptor read failed", logging.Error(err))
		return Empty()
	}
	return ParsePayload(data, logger)
}

// ParsePayload builds a Payload from raw descriptor bytes.
func ParsePayload(data []byte, logger *slog.Logger) *Payload {
	if logger == nil {
		logger = logging.NewNop()
	}
	if len(bytes.TrimSpace(data)) == 0 {
		logger.Debug("no task descriptor on stdin")
		return Empty()
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Debug("task descriptor is not valid JSON", logging.Error(err))
		return Empty()
	}
	return fromRaw(raw)
}

func fromRaw(raw map[string]any) *Payload {
	if raw == nil {
		raw = map[string]any{}
	}
	p := &Payload{
		raw:            raw,
		args:           asMap(raw["args"]),
		settings:       NormalizeSettings(raw["settings"]),
		pluginSettings: NormalizeSettings(raw["pluginSettings"]),
	}
	task := asMap(raw["task"])
	p.taskName = strings.TrimSpace(AsString(task["name"]))
	if p.taskName == "" {
		p.taskName = strings.TrimSpace(AsString(p.args["mode"]))
	}
	return p
}

// TaskName returns task.name, falling back to args.mode the way the host's
// own helper derives its task name.
func (p *Payload) TaskName() string {
	return p.taskName
}

// Arg returns the first args value present under any of the given keys.
func (p *Payload) Arg(keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := p.args[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// ArgString returns the first non-empty string args value under the given keys.
func (p *Payload) ArgString(keys ...string) string {
	for _, key := range keys {
		if v, ok := p.args[key]; ok {
			if s := strings.TrimSpace(AsString(v)); s != "" {
				return s
			}
		}
	}
	return ""
}

// Setting resolves a named setting through the two-level precedence the host
// helper uses: UI settings, then pluginSettings, then args, then the
// supplied fallback.
func (p *Payload) Setting(name string, fallback any) any {
	if v, ok := p.settings[name]; ok {
		return v
	}
	if v, ok := p.pluginSettings[name]; ok {
		return v
	}
	if v, ok := p.args[name]; ok {
		return v
	}
	return fallback
}

// SettingBool resolves a setting and coerces it to bool. Host UIs deliver
// booleans as bools or as strings depending on version.
func (p *Payload) SettingBool(name string, fallback bool) bool {
	return AsBool(p.Setting(name, fallback), fallback)
}

// SettingString resolves a setting as a trimmed string, returning fallback
// when the resolved value is absent or blank.
func (p *Payload) SettingString(name, fallback string) string {
	s := strings.TrimSpace(AsString(p.Setting(name, nil)))
	if s == "" {
		return fallback
	}
	return s
}

// RawSettingScan re-reads name directly from the descriptor's settings and
// pluginSettings blocks in either shape, bypassing the normalized maps. The
// server URL chain runs this tier for host versions whose settings the
// normalized lookup mis-reads.
func (p *Payload) RawSettingScan(name string) string {
	for _, key := range []string{"settings", "pluginSettings"} {
		if s := scanSettingValue(p.raw[key], name); s != "" {
			return s
		}
	}
	return ""
}

// HookContext carries the trigger details from args.hookContext.
type HookContext struct {
	Input any
	ID    any
}

// Hook reports the scene-update hook context when the descriptor carries one
// with a non-nil input. A hookContext whose input is null is treated as no
// trigger at all.
func (p *Payload) Hook() (HookContext, bool) {
	hc := asMap(p.args["hookContext"])
	if len(hc) == 0 {
		return HookContext{}, false
	}
	input, ok := hc["input"]
	if !ok || input == nil {
		return HookContext{}, false
	}
	return HookContext{Input: input, ID: hc["id"]}, true
}
