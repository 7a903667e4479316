package stash_test

import (
	"strings"
	"testing"

	"github.com/Jblast94/whisper-transcribe/internal/stash"
)

func TestParsePayloadSettingsShapesAreEquivalent(t *testing.T) {
	dictForm := []byte(`{
		"settings": {"serverUrl": "http://dict:9191/inference", "translateToEnglish": true}
	}`)
	listForm := []byte(`{
		"settings": [
			{"key": "serverUrl", "value": "http://dict:9191/inference"},
			{"key": "translateToEnglish", "value": "true"}
		]
	}`)

	for name, data := range map[string][]byte{"dict": dictForm, "list": listForm} {
		p := stash.ParsePayload(data, nil)
		if got := p.SettingString("serverUrl", ""); got != "http://dict:9191/inference" {
			t.Fatalf("%s form: serverUrl = %q", name, got)
		}
		if !p.SettingBool("translateToEnglish", false) {
			t.Fatalf("%s form: expected translateToEnglish true", name)
		}
	}
}

func TestSettingPrecedence(t *testing.T) {
	p := stash.ParsePayload([]byte(`{
		"settings": {"translateToEnglish": true},
		"pluginSettings": {"translateToEnglish": false, "zzdryRun": true},
		"args": {"translateToEnglish": false, "zzdryRun": false, "zzdebugTracing": true}
	}`), nil)

	if !p.SettingBool("translateToEnglish", false) {
		t.Fatal("UI settings should win over pluginSettings and args")
	}
	if !p.SettingBool("zzdryRun", false) {
		t.Fatal("pluginSettings should win over args")
	}
	if !p.SettingBool("zzdebugTracing", false) {
		t.Fatal("args should win over the fallback")
	}
	if p.SettingBool("missing", false) {
		t.Fatal("fallback should be returned for unknown settings")
	}
}

func TestListSettingsFirstEntryWins(t *testing.T) {
	p := stash.ParsePayload([]byte(`{
		"settings": [
			{"key": "serverUrl", "value": "http://first:9191"},
			{"key": "serverUrl", "value": "http://second:9191"}
		]
	}`), nil)

	if got := p.SettingString("serverUrl", ""); got != "http://first:9191" {
		t.Fatalf("expected first entry to win, got %q", got)
	}
}

func TestTaskNameFallsBackToMode(t *testing.T) {
	p := stash.ParsePayload([]byte(`{"task": {"name": "transcribe_last_scene"}}`), nil)
	if got := p.TaskName(); got != "transcribe_last_scene" {
		t.Fatalf("task.name not honored: %q", got)
	}

	p = stash.ParsePayload([]byte(`{"args": {"mode": "transcribe_scene_task"}}`), nil)
	if got := p.TaskName(); got != "transcribe_scene_task" {
		t.Fatalf("args.mode fallback not honored: %q", got)
	}

	if got := stash.Empty().TaskName(); got != "" {
		t.Fatalf("empty descriptor should have no task name, got %q", got)
	}
}

func TestParsePayloadMalformedInputYieldsEmptyDescriptor(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty":      nil,
		"blank":      []byte("   \n"),
		"not json":   []byte("definitely not json"),
		"non object": []byte(`[1, 2, 3]`),
	} {
		p := stash.ParsePayload(data, nil)
		if p == nil {
			t.Fatalf("%s: expected a descriptor", name)
		}
		if p.TaskName() != "" {
			t.Fatalf("%s: expected empty task name", name)
		}
		if _, ok := p.Arg("anything"); ok {
			t.Fatalf("%s: expected no args", name)
		}
	}
}

func TestReadPayloadCapsInput(t *testing.T) {
	huge := `{"args": {"mode": "transcribe_scene_task", "pad": "` +
		strings.Repeat("x", stash.MaxPayloadBytes) + `"}}`

	p := stash.ReadPayload(strings.NewReader(huge), nil)
	// The cap truncates the JSON mid-document, so the descriptor degrades to
	// empty rather than consuming unbounded input.
	if p.TaskName() != "" {
		t.Fatalf("expected truncated payload to parse as empty, got task %q", p.TaskName())
	}
}

func TestRawSettingScanCoversBothBlocksAndShapes(t *testing.T) {
	p := stash.ParsePayload([]byte(`{
		"pluginSettings": [{"key": "serverUrl", "value": " http://plugin:9191 "}]
	}`), nil)
	if got := p.RawSettingScan("serverUrl"); got != "http://plugin:9191" {
		t.Fatalf("list pluginSettings scan: %q", got)
	}

	p = stash.ParsePayload([]byte(`{"settings": {"serverUrl": "http://ui:9191"}}`), nil)
	if got := p.RawSettingScan("serverUrl"); got != "http://ui:9191" {
		t.Fatalf("dict settings scan: %q", got)
	}

	if got := stash.Empty().RawSettingScan("serverUrl"); got != "" {
		t.Fatalf("empty descriptor scan: %q", got)
	}
}

func TestHookDetection(t *testing.T) {
	p := stash.ParsePayload([]byte(`{
		"args": {"hookContext": {"input": {"title": "x"}, "id": 17}}
	}`), nil)
	hook, ok := p.Hook()
	if !ok {
		t.Fatal("expected hook trigger")
	}
	id, ok := stash.CoerceInt(hook.ID)
	if !ok || id != 17 {
		t.Fatalf("unexpected hook id: %v %v", id, ok)
	}

	p = stash.ParsePayload([]byte(`{"args": {"hookContext": {"input": null}}}`), nil)
	if _, ok := p.Hook(); ok {
		t.Fatal("null input should not count as a hook trigger")
	}

	p = stash.ParsePayload([]byte(`{"args": {}}`), nil)
	if _, ok := p.Hook(); ok {
		t.Fatal("missing hookContext should not count as a hook trigger")
	}
}

func TestCoerceInt(t *testing.T) {
	cases := []struct {
		in   any
		want int
		ok   bool
	}{
		{"42", 42, true},
		{" 42 ", 42, true},
		{float64(42), 42, true},
		{17, 17, true},
		{"nope", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, tc := range cases {
		got, ok := stash.CoerceInt(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("CoerceInt(%v) = %d, %v; want %d, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestAsBoolCoercion(t *testing.T) {
	cases := []struct {
		in       any
		fallback bool
		want     bool
	}{
		{true, false, true},
		{"true", false, true},
		{"false", true, false},
		{"1", false, true},
		{"0", true, false},
		{"garbage", true, true},
		{nil, true, true},
		{float64(1), false, true},
		{float64(0), true, false},
	}
	for _, tc := range cases {
		if got := stash.AsBool(tc.in, tc.fallback); got != tc.want {
			t.Fatalf("AsBool(%v, %v) = %v, want %v", tc.in, tc.fallback, got, tc.want)
		}
	}
}
