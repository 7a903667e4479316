package whisper

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Jblast94/whisper-transcribe/internal/services"
)

func writeTempAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(path, []byte("RIFFfakewavdata"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProbeAcceptsAnyHTTPStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if err := client.Probe(context.Background()); err != nil {
		t.Fatalf("Probe returned error for reachable server: %v", err)
	}
}

func TestProbeTransportErrorCarriesRemediation(t *testing.T) {
	client := NewClient("http://127.0.0.1:1/inference")
	err := client.Probe(context.Background())
	if err == nil {
		t.Fatal("expected error for unreachable server")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration marker, got %v", err)
	}
	for _, hint := range []string{"Whisper Server URL", "WHISPER_SERVER_URL"} {
		if !strings.Contains(err.Error(), hint) {
			t.Fatalf("expected remediation hint %q in %v", hint, err)
		}
	}
}

func TestTranscribeAudioUploadsMultipart(t *testing.T) {
	audioPath := writeTempAudio(t)

	var (
		gotFormat    string
		gotTranslate []string
		gotFilename  string
		gotPartType  string
		gotAudio     []byte
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		gotFormat = r.FormValue("response_format")
		gotTranslate = r.MultipartForm.Value["translate"]
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("file part: %v", err)
			return
		}
		defer file.Close()
		gotFilename = header.Filename
		gotPartType = header.Header.Get("Content-Type")
		gotAudio, _ = io.ReadAll(file)
		_, _ = io.WriteString(w, "1\n00:00:00,000 --> 00:00:01,000\nhello\n")
	}))
	defer server.Close()

	client := NewClient(server.URL)
	text, err := client.TranscribeAudio(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("TranscribeAudio returned error: %v", err)
	}
	if !strings.Contains(text, "hello") {
		t.Fatalf("unexpected srt body: %q", text)
	}
	if gotFormat != "srt" {
		t.Errorf("response_format = %q", gotFormat)
	}
	if len(gotTranslate) != 0 {
		t.Errorf("translate field should be absent by default, got %v", gotTranslate)
	}
	if gotFilename != "clip.wav" {
		t.Errorf("filename = %q", gotFilename)
	}
	if gotPartType != "audio/wav" {
		t.Errorf("file part content type = %q", gotPartType)
	}
	if string(gotAudio) != "RIFFfakewavdata" {
		t.Errorf("audio bytes = %q", gotAudio)
	}
}

func TestTranscribeAudioSendsTranslateFieldWhenEnabled(t *testing.T) {
	audioPath := writeTempAudio(t)

	var gotTranslate string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		gotTranslate = r.FormValue("translate")
		_, _ = io.WriteString(w, "srt body")
	}))
	defer server.Close()

	client := NewClient(server.URL, WithTranslate(true))
	if _, err := client.TranscribeAudio(context.Background(), audioPath); err != nil {
		t.Fatalf("TranscribeAudio returned error: %v", err)
	}
	if gotTranslate != "true" {
		t.Fatalf("translate = %q", gotTranslate)
	}
}

func TestTranscribeAudioSurfacesServerError(t *testing.T) {
	audioPath := writeTempAudio(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.TranscribeAudio(context.Background(), audioPath)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected transport marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "model not loaded") {
		t.Fatalf("expected status and body excerpt, got %v", err)
	}
}

func TestTranscribeAudioMissingFile(t *testing.T) {
	client := NewClient("http://127.0.0.1:1/inference")
	_, err := client.TranscribeAudio(context.Background(), filepath.Join(t.TempDir(), "absent.wav"))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found marker, got %v", err)
	}
}
