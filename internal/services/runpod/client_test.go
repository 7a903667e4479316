package runpod_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Jblast94/whisper-transcribe/internal/services"
	"github.com/Jblast94/whisper-transcribe/internal/services/runpod"
)

func isolateRunPodEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"RUNPOD_API_KEY", "RUNPOD_ENDPOINT_ID", "RUNPOD_ENDPOINT_URL"} {
		t.Setenv(key, "")
	}
}

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp3")
	if err := os.WriteFile(path, []byte("ID3fakeaudio"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewClientFromEnvRequiresAPIKey(t *testing.T) {
	isolateRunPodEnv(t)

	_, err := runpod.NewClientFromEnv()
	if err == nil {
		t.Fatal("expected error without API key")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "RUNPOD_API_KEY") {
		t.Fatalf("expected variable name in error, got %v", err)
	}
}

func TestEndpointURLComposition(t *testing.T) {
	cases := []struct {
		name        string
		endpointID  string
		endpointURL string
		want        string
	}{
		{
			name: "built-in worker",
			want: "https://api.runpod.ai/v1/bfarkaz0uwuhcn/sync-invoke",
		},
		{
			name:       "explicit endpoint id",
			endpointID: "customid42",
			want:       "https://api.runpod.ai/v1/customid42/sync-invoke",
		},
		{
			name:        "explicit url wins",
			endpointID:  "customid42",
			endpointURL: "https://inference.internal/invoke",
			want:        "https://inference.internal/invoke",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			isolateRunPodEnv(t)
			t.Setenv("RUNPOD_API_KEY", "key")
			t.Setenv("RUNPOD_ENDPOINT_ID", tc.endpointID)
			t.Setenv("RUNPOD_ENDPOINT_URL", tc.endpointURL)

			client, err := runpod.NewClientFromEnv()
			if err != nil {
				t.Fatalf("NewClientFromEnv returned error: %v", err)
			}
			if client.EndpointURL() != tc.want {
				t.Fatalf("endpoint url = %q, want %q", client.EndpointURL(), tc.want)
			}
		})
	}
}

func TestEndpointIDOption(t *testing.T) {
	isolateRunPodEnv(t)

	client, err := runpod.NewClient("key",
		runpod.WithEndpointID("fromfile99"),
		runpod.WithEndpointURL(""))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	want := "https://api.runpod.ai/v1/fromfile99/sync-invoke"
	if client.EndpointURL() != want {
		t.Fatalf("endpoint url = %q, want %q", client.EndpointURL(), want)
	}

	client, err = runpod.NewClient("key",
		runpod.WithEndpointID("fromfile99"),
		runpod.WithEndpointURL("https://inference.internal/invoke"))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if client.EndpointURL() != "https://inference.internal/invoke" {
		t.Fatalf("explicit url should win, got %q", client.EndpointURL())
	}
}

func TestInvokeSendsBase64PayloadWithBearerAuth(t *testing.T) {
	isolateRunPodEnv(t)
	audioPath := writeAudio(t)

	var (
		gotAuth  string
		gotBody  []byte
		gotCType string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, `{"output": {"text": "hello from the cloud"}}`)
	}))
	defer server.Close()

	client, err := runpod.NewClient("secret-key",
		runpod.WithEndpointURL(server.URL),
		runpod.WithLanguage("en-US"))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	result, err := client.Invoke(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if !result.Found || result.Text != "hello from the cloud" {
		t.Fatalf("unexpected result: %+v", result)
	}

	if gotAuth != "Bearer secret-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotCType != "application/json" {
		t.Errorf("Content-Type = %q", gotCType)
	}

	var req struct {
		Input struct {
			AudioBase64 string `json:"audio_base64"`
			Language    string `json:"language"`
			Task        string `json:"task"`
		} `json:"input"`
	}
	if err := json.Unmarshal(gotBody, &req); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	decoded, err := base64.StdEncoding.DecodeString(req.Input.AudioBase64)
	if err != nil {
		t.Fatalf("decode audio: %v", err)
	}
	if string(decoded) != "ID3fakeaudio" {
		t.Errorf("audio bytes = %q", decoded)
	}
	if req.Input.Language != "en" {
		t.Errorf("language = %q, want normalized %q", req.Input.Language, "en")
	}
	if req.Input.Task != "transcribe" {
		t.Errorf("task = %q", req.Input.Task)
	}
}

func TestInvokeSurfacesEndpointError(t *testing.T) {
	isolateRunPodEnv(t)
	audioPath := writeAudio(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := runpod.NewClient("bad-key", runpod.WithEndpointURL(server.URL))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = client.Invoke(context.Background(), audioPath)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected transport marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "401") || !strings.Contains(err.Error(), "invalid api key") {
		t.Fatalf("expected status and body in error, got %v", err)
	}
}

func TestTranscribeAudioRequiresTranscript(t *testing.T) {
	isolateRunPodEnv(t)
	audioPath := writeAudio(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status": "COMPLETED"}`)
	}))
	defer server.Close()

	client, err := runpod.NewClient("key", runpod.WithEndpointURL(server.URL))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = client.TranscribeAudio(context.Background(), audioPath)
	if err == nil {
		t.Fatal("expected error when no transcript is present")
	}
	if !strings.Contains(err.Error(), "no transcript") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInvokeMissingAudioFile(t *testing.T) {
	isolateRunPodEnv(t)

	client, err := runpod.NewClient("key")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = client.Invoke(context.Background(), filepath.Join(t.TempDir(), "absent.mp3"))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found marker, got %v", err)
	}
}

func TestNormalizeLanguage(t *testing.T) {
	cases := map[string]string{
		"":      "en",
		"en":    "en",
		"en-US": "en",
		"PT-br": "pt",
		"DE":    "de",
		" fr ":  "fr",
	}
	for hint, want := range cases {
		if got := runpod.NormalizeLanguage(hint); got != want {
			t.Errorf("NormalizeLanguage(%q) = %q, want %q", hint, got, want)
		}
	}
}
