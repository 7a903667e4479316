package whisper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Jblast94/whisper-transcribe/internal/logging"
	"github.com/Jblast94/whisper-transcribe/internal/services"
)

const (
	// DefaultUploadTimeout bounds one inference upload. Whole-movie audio can
	// take the server a long time, matching the original plugin's hour.
	DefaultUploadTimeout = time.Hour

	probeTimeout = 5 * time.Second
)

// HTTPDoer abstracts the HTTP transport for tests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client uploads PCM audio to a whisper.cpp-compatible server and returns
// the SRT body it responds with.
type Client struct {
	serverURL     string
	translate     bool
	uploadTimeout time.Duration
	http          HTTPDoer
	logger        *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP transport.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

// WithTranslate asks the server to translate the transcription to English.
func WithTranslate(translate bool) Option {
	return func(c *Client) {
		c.translate = translate
	}
}

// WithUploadTimeout overrides the per-upload deadline.
func WithUploadTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.uploadTimeout = timeout
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "whisper")
		}
	}
}

// NewClient constructs a client for the given inference endpoint.
func NewClient(serverURL string, opts ...Option) *Client {
	c := &Client{
		serverURL:     strings.TrimSpace(serverURL),
		uploadTimeout: DefaultUploadTimeout,
		http:          &http.Client{},
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ServerURL reports the endpoint this client talks to.
func (c *Client) ServerURL() string {
	return c.serverURL
}

// Probe verifies the server answers at all before any expensive work. Any
// HTTP status counts as reachable; only a transport failure is an error, and
// it carries the remediation hint for the two ways to point the plugin at a
// running server.
func (c *Client) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodOptions, c.serverURL, nil)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "whisper", "probe server",
			fmt.Sprintf("invalid server url %q", c.serverURL), err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "whisper", "probe server",
			fmt.Sprintf("cannot reach whisper server at %s; configure the 'Whisper Server URL' plugin setting or set WHISPER_SERVER_URL", c.serverURL), err)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
	return nil
}

// TranscribeAudio uploads one audio file and returns the server's SRT body.
func (c *Client) TranscribeAudio(ctx context.Context, audioPath string) (string, error) {
	body, contentType, err := encodeUpload(audioPath, c.translate)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL, bytes.NewReader(body))
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "whisper", "upload audio",
			fmt.Sprintf("invalid server url %q", c.serverURL), err)
	}
	req.Header.Set("Content-Type", contentType)

	c.logger.Debug("uploading audio",
		logging.String("url", c.serverURL),
		logging.Int("bytes", len(body)),
		logging.Bool("translate", c.translate))

	resp, err := c.http.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "whisper", "upload audio",
			fmt.Sprintf("sending request to whisper server at %s; is it running and reachable", c.serverURL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", services.Wrap(services.ErrTransport, "whisper", "upload audio",
			fmt.Sprintf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(excerpt))), nil)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "whisper", "upload audio", "read response", err)
	}
	return string(payload), nil
}

// encodeUpload builds the multipart body: response_format=srt, translate=true
// only when translating, and the audio as a "file" part typed audio/wav.
func encodeUpload(audioPath string, translate bool) ([]byte, string, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, "", services.Wrap(services.ErrNotFound, "whisper", "upload audio", "open audio", err)
	}
	defer file.Close()

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	if err := writer.WriteField("response_format", "srt"); err != nil {
		return nil, "", services.Wrap(nil, "whisper", "upload audio", "write format field", err)
	}
	if translate {
		if err := writer.WriteField("translate", "true"); err != nil {
			return nil, "", services.Wrap(nil, "whisper", "upload audio", "write translate field", err)
		}
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(audioPath)))
	header.Set("Content-Type", "audio/wav")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", services.Wrap(nil, "whisper", "upload audio", "create file part", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", services.Wrap(nil, "whisper", "upload audio", "copy audio", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", services.Wrap(nil, "whisper", "upload audio", "close multipart writer", err)
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

var _ services.Transcriber = (*Client)(nil)
