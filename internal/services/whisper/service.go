package whisper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"github.com/Jblast94/whisper-transcribe/internal/logging"
	"github.com/Jblast94/whisper-transcribe/internal/services"
)

// Backend is the inference transport the workflow drives. *Client satisfies
// it for the local server; any services.Transcriber with a probe works.
type Backend interface {
	Probe(ctx context.Context) error
	TranscribeAudio(ctx context.Context, audioPath string) (string, error)
}

// Service runs the per-video transcription workflow: availability checks,
// single-flight locking, audio extraction, upload, and subtitle write-out.
type Service struct {
	backend Backend
	ffmpeg  string
	logger  *slog.Logger
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithFFmpeg overrides the ffmpeg command used for audio extraction.
func WithFFmpeg(binary string) ServiceOption {
	return func(s *Service) {
		if strings.TrimSpace(binary) != "" {
			s.ffmpeg = binary
		}
	}
}

// WithServiceLogger attaches a logger.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logging.NewComponentLogger(logger, "whisper")
		}
	}
}

// NewService constructs the workflow around an inference backend.
func NewService(backend Backend, opts ...ServiceOption) *Service {
	s := &Service{
		backend: backend,
		ffmpeg:  "ffmpeg",
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubtitlePath returns where the subtitle for a video lands: same directory,
// same stem, .srt extension.
func SubtitlePath(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".srt"
}

// Transcribe turns one video into a subtitle file next to it and returns the
// subtitle path. The temporary audio file is removed on every path once it
// exists.
func (s *Service) Transcribe(ctx context.Context, videoPath string) (string, error) {
	if _, err := os.Stat(videoPath); err != nil {
		return "", services.Wrap(services.ErrNotFound, "whisper", "transcribe",
			fmt.Sprintf("video file not found at %q", videoPath), err)
	}

	dir := filepath.Dir(videoPath)
	if err := unix.Access(dir, unix.W_OK); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "whisper", "transcribe",
			fmt.Sprintf("subtitle directory %q is not writable", dir), err)
	}

	srtPath := SubtitlePath(videoPath)
	lock := flock.New(srtPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return "", services.Wrap(nil, "whisper", "transcribe",
			fmt.Sprintf("acquire lock %q", lock.Path()), err)
	}
	if !locked {
		return "", services.Wrap(services.ErrBusy, "whisper", "transcribe",
			fmt.Sprintf("another transcription already holds %q", lock.Path()), nil)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if err := s.backend.Probe(ctx); err != nil {
		return "", err
	}

	wav, err := os.CreateTemp("", "whisper-*.wav")
	if err != nil {
		return "", services.Wrap(nil, "whisper", "transcribe", "create temp audio", err)
	}
	wavPath := wav.Name()
	wav.Close()
	defer os.Remove(wavPath)

	s.logger.Debug("extracting audio", logging.String("video", videoPath))
	if err := ExtractAudio(ctx, s.ffmpeg, videoPath, wavPath); err != nil {
		return "", err
	}

	text, err := s.backend.TranscribeAudio(ctx, wavPath)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(srtPath, []byte(text), 0o644); err != nil {
		return "", services.Wrap(nil, "whisper", "transcribe",
			fmt.Sprintf("write subtitle file %q", srtPath), err)
	}
	s.logger.Debug("subtitle written",
		logging.String("path", srtPath),
		logging.Int("bytes", len(text)))
	return srtPath, nil
}

var _ Backend = (*Client)(nil)
