package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Jblast94/whisper-transcribe/internal/config"
	"github.com/Jblast94/whisper-transcribe/internal/stash"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{
		"WHISPER_SERVER_URL",
		"STASH_URL", "STASH_GRAPHQL_URL", "STASH_API_KEY",
		"RUNPOD_API_KEY", "RUNPOD_ENDPOINT_ID", "RUNPOD_ENDPOINT_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFFmpeg_Bundled(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	result := CheckFFmpeg(filepath.Join(dir, "whisper-transcribe"))
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if result.Detail != stub {
		t.Fatalf("expected bundled path %q, got %q", stub, result.Detail)
	}
}

func TestCheckFFmpeg_NotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	result := CheckFFmpeg(filepath.Join(t.TempDir(), "whisper-transcribe"))
	if result.Passed {
		t.Fatal("expected failure without ffmpeg")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckConfigFile_MissingPasses(t *testing.T) {
	isolateEnv(t)

	result := CheckConfigFile(filepath.Join(t.TempDir(), "none.toml"))
	if !result.Passed {
		t.Fatalf("missing file should pass, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "built-in defaults") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckConfigFile_InvalidFails(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[whisper]\nserver_url = \"ftp://bad\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	result := CheckConfigFile(path)
	if result.Passed {
		t.Fatal("expected failure for invalid config")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckConfigFile_ValidShowsPath(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[whisper]\ntranslate_to_english = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	result := CheckConfigFile(path)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if result.Detail != path {
		t.Fatalf("expected path %q, got %q", path, result.Detail)
	}
}

func TestCheckWhisperServer_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer srv.Close()

	result := CheckWhisperServer(context.Background(), srv.URL, "env")
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "(from env)") {
		t.Fatalf("expected source in detail, got: %s", result.Detail)
	}
}

func TestCheckWhisperServer_Unreachable(t *testing.T) {
	result := CheckWhisperServer(context.Background(), "http://127.0.0.1:1/inference", "default")
	if result.Passed {
		t.Fatal("expected failure for unreachable server")
	}
}

func TestCheckWhisperServer_MissingURL(t *testing.T) {
	result := CheckWhisperServer(context.Background(), "", "default")
	if result.Passed {
		t.Fatal("expected failure for missing url")
	}
}

func TestCheckStash_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {"version": {"version": "0.28.1"}}}`))
	}))
	defer srv.Close()

	client := stash.NewClient(stash.Connection{GraphQLURL: srv.URL}, nil)
	result := CheckStash(context.Background(), client)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if result.Detail != srv.URL {
		t.Fatalf("expected endpoint %q, got %q", srv.URL, result.Detail)
	}
}

func TestCheckStash_NilClient(t *testing.T) {
	result := CheckStash(context.Background(), nil)
	if result.Passed {
		t.Fatal("expected failure without connection details")
	}
	if !strings.Contains(result.Detail, "no connection details") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckStash_AuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := stash.NewClient(stash.Connection{GraphQLURL: srv.URL}, nil)
	result := CheckStash(context.Background(), client)
	if result.Passed {
		t.Fatal("expected failure for denied request")
	}
}

func TestCheckRunPod_NotConfigured(t *testing.T) {
	isolateEnv(t)
	cfg := config.Fallback()

	result := CheckRunPod(cfg)
	if !result.Passed {
		t.Fatalf("unset credentials should still pass, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "not configured") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckRunPod_Configured(t *testing.T) {
	isolateEnv(t)
	cfg := config.Fallback()
	cfg.RunPod.APIKey = "rp-key"
	cfg.RunPod.EndpointID = "abc123"

	result := CheckRunPod(cfg)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "abc123") {
		t.Fatalf("expected endpoint id in detail, got: %s", result.Detail)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil, Inputs{})
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_CoreChecks(t *testing.T) {
	isolateEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config.Fallback()
	results := RunAll(context.Background(), cfg, Inputs{
		ServerURL:    srv.URL,
		ServerSource: "default",
	})

	want := []string{"FFmpeg", "Config file", "Whisper server", "Host API", "RunPod"}
	if len(results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(results))
	}
	for i, name := range want {
		if results[i].Name != name {
			t.Fatalf("result %d = %q, want %q", i, results[i].Name, name)
		}
	}
}
