package runpod

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/Jblast94/whisper-transcribe/internal/logging"
	"github.com/Jblast94/whisper-transcribe/internal/services"
)

const (
	// DefaultEndpointID selects the hosted faster-whisper worker the original
	// deployment used when no endpoint is configured.
	DefaultEndpointID = "bfarkaz0uwuhcn"

	// DefaultTimeout bounds one sync-invoke round trip.
	DefaultTimeout = 600 * time.Second

	defaultLanguage = "en"
)

// HTTPDoer abstracts the HTTP transport for tests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Result carries one sync-invoke response: the raw body plus the transcript
// extracted from it, when the worker returned one.
type Result struct {
	Text  string
	Found bool
	Raw   json.RawMessage
}

// Client invokes a serverless transcription endpoint.
type Client struct {
	endpointURL string
	apiKey      string
	lang        string
	timeout     time.Duration
	http        HTTPDoer
	logger      *slog.Logger
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

// WithEndpointURL overrides the sync-invoke URL.
func WithEndpointURL(url string) Option {
	return func(c *Client) {
		if strings.TrimSpace(url) != "" {
			c.endpointURL = strings.TrimSpace(url)
		}
	}
}

// WithEndpointID targets a serverless endpoint by id. An explicit
// WithEndpointURL applied after this option wins.
func WithEndpointID(id string) Option {
	return func(c *Client) {
		if strings.TrimSpace(id) != "" {
			c.endpointURL = EndpointURLForID(id)
		}
	}
}

// WithLanguage sets the transcription language hint.
func WithLanguage(hint string) Option {
	return func(c *Client) {
		c.lang = NormalizeLanguage(hint)
	}
}

// WithTimeout overrides the per-invoke deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "runpod")
		}
	}
}

// NewClient constructs a client with an explicit API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return nil, services.Wrap(services.ErrConfiguration, "runpod", "configure",
			"RUNPOD_API_KEY environment variable is not set", nil)
	}
	c := &Client{
		endpointURL: endpointURLFromEnv(),
		apiKey:      key,
		lang:        defaultLanguage,
		timeout:     DefaultTimeout,
		http:        &http.Client{},
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewClientFromEnv constructs a client from the RUNPOD_* environment
// variables. The API key is required; endpoint settings fall back to the
// built-in worker.
func NewClientFromEnv(opts ...Option) (*Client, error) {
	return NewClient(os.Getenv("RUNPOD_API_KEY"), opts...)
}

func endpointURLFromEnv() string {
	if url := strings.TrimSpace(os.Getenv("RUNPOD_ENDPOINT_URL")); url != "" {
		return url
	}
	return EndpointURLForID(os.Getenv("RUNPOD_ENDPOINT_ID"))
}

// EndpointURLForID composes the sync-invoke URL for a serverless endpoint id,
// falling back to the built-in worker when id is blank.
func EndpointURLForID(id string) string {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		trimmed = DefaultEndpointID
	}
	return fmt.Sprintf("https://api.runpod.ai/v1/%s/sync-invoke", trimmed)
}

// EndpointURL reports the sync-invoke URL this client targets.
func (c *Client) EndpointURL() string {
	return c.endpointURL
}

type invokeInput struct {
	AudioBase64 string `json:"audio_base64"`
	Language    string `json:"language"`
	Task        string `json:"task"`
}

type invokeRequest struct {
	Input invokeInput `json:"input"`
}

// Invoke sends one audio file through sync-invoke and returns the response
// with the transcript extracted, when present.
func (c *Client) Invoke(ctx context.Context, audioPath string) (Result, error) {
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return Result{}, services.Wrap(services.ErrNotFound, "runpod", "invoke", "read audio", err)
	}

	body, err := json.Marshal(invokeRequest{Input: invokeInput{
		AudioBase64: base64.StdEncoding.EncodeToString(audio),
		Language:    c.lang,
		Task:        "transcribe",
	}})
	if err != nil {
		return Result{}, services.Wrap(nil, "runpod", "invoke", "encode request", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL, bytes.NewReader(body))
	if err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "runpod", "invoke",
			fmt.Sprintf("invalid endpoint url %q", c.endpointURL), err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug("invoking endpoint",
		logging.String("url", c.endpointURL),
		logging.Int("audio_bytes", len(audio)),
		logging.String("language", c.lang))

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, services.Wrap(services.ErrTransport, "runpod", "invoke",
			fmt.Sprintf("sending request to %s", c.endpointURL), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, services.Wrap(services.ErrTransport, "runpod", "invoke", "read response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt := raw
		if len(excerpt) > 4096 {
			excerpt = excerpt[:4096]
		}
		return Result{}, services.Wrap(services.ErrTransport, "runpod", "invoke",
			fmt.Sprintf("endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(excerpt))), nil)
	}

	text, found := ExtractText(raw)
	return Result{Text: text, Found: found, Raw: raw}, nil
}

// TranscribeAudio uploads one audio file and returns the transcript,
// satisfying services.Transcriber. A response without any transcript field
// is an error here; callers that want the raw body use Invoke.
func (c *Client) TranscribeAudio(ctx context.Context, audioPath string) (string, error) {
	result, err := c.Invoke(ctx, audioPath)
	if err != nil {
		return "", err
	}
	if !result.Found {
		return "", services.Wrap(services.ErrTransient, "runpod", "transcribe",
			"response carried no transcript", nil)
	}
	return result.Text, nil
}

// NormalizeLanguage reduces a language hint such as "en-US" to its base code.
// Hints that do not parse pass through lowercased.
func NormalizeLanguage(hint string) string {
	trimmed := strings.TrimSpace(hint)
	if trimmed == "" {
		return defaultLanguage
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return strings.ToLower(trimmed)
	}
	base, conf := tag.Base()
	if conf == language.No {
		return strings.ToLower(trimmed)
	}
	return base.String()
}

var _ services.Transcriber = (*Client)(nil)
