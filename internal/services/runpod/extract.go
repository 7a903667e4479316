package runpod

import "encoding/json"

// transcriptKeys is the priority order inside whichever object carries the
// transcript.
var transcriptKeys = []string{"text", "transcript", "transcription"}

// ExtractText pulls the transcript out of a sync-invoke response body.
// Workers disagree about response shape, so several are accepted, in
// priority order: "output" as a plain string, a string under
// output.{text,transcript,transcription}, then the same keys at the top
// level. Only string values count. The bool reports whether any transcript
// was found.
func ExtractText(body []byte) (string, bool) {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", false
	}

	if output, ok := doc["output"]; ok {
		switch typed := output.(type) {
		case string:
			return typed, true
		case map[string]any:
			if text, ok := firstString(typed); ok {
				return text, true
			}
		}
	}
	return firstString(doc)
}

func firstString(obj map[string]any) (string, bool) {
	for _, key := range transcriptKeys {
		if value, ok := obj[key].(string); ok {
			return value, true
		}
	}
	return "", false
}
