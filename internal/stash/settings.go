package stash

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// NormalizeSettings flattens either settings shape the host sends, a
// string-keyed map or a list of {key, value} objects, into one canonical
// map. The first entry wins when a list repeats a key, matching the scan
// order of the host helper.
func NormalizeSettings(v any) map[string]any {
	out := map[string]any{}
	switch src := v.(type) {
	case map[string]any:
		for key, value := range src {
			out[key] = value
		}
	case []any:
		for _, item := range src {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			key := strings.TrimSpace(AsString(entry["key"]))
			if key == "" {
				continue
			}
			if _, exists := out[key]; exists {
				continue
			}
			value, ok := entry["value"]
			if !ok {
				continue
			}
			out[key] = value
		}
	}
	return out
}

func scanSettingValue(src any, name string) string {
	switch block := src.(type) {
	case map[string]any:
		return strings.TrimSpace(AsString(block[name]))
	case []any:
		for _, item := range block {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if AsString(entry["key"]) == name {
				return strings.TrimSpace(AsString(entry["value"]))
			}
		}
	}
	return ""
}

// AsString renders a duck-typed descriptor value as a string. Numbers lose
// no precision; nil becomes the empty string.
func AsString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// AsBool coerces a duck-typed descriptor value to bool. Unrecognized values
// yield the fallback rather than guessing.
func AsBool(v any, fallback bool) bool {
	switch val := v.(type) {
	case nil:
		return fallback
	case bool:
		return val
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return fallback
		}
		return parsed
	case float64:
		return val != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	default:
		return fallback
	}
}

// CoerceInt converts a descriptor value to an integer id. JSON numbers,
// numeric strings, and native ints all qualify.
func CoerceInt(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		return int(val), true
	case json.Number:
		parsed, err := val.Int64()
		if err != nil {
			return 0, false
		}
		return int(parsed), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func lookupString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			if s := strings.TrimSpace(AsString(v)); s != "" {
				return s
			}
		}
	}
	return ""
}
