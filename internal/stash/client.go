package stash

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Jblast94/whisper-transcribe/internal/logging"
	"github.com/Jblast94/whisper-transcribe/internal/services"
)

const graphqlTimeout = 60 * time.Second

// DefaultSceneFragment selects the fields scene transcription needs.
const DefaultSceneFragment = "id title files { id path }"

var pluginConfigIDs = []string{"whisper_transcribe", "WhisperTranscribe"}

// SceneFile is one media file attached to a scene.
type SceneFile struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// Scene is the host media item transcription works on.
type Scene struct {
	ID    string      `json:"id"`
	Title string      `json:"title"`
	Files []SceneFile `json:"files"`
}

// SceneRef is the listing form returned by the allScenes query.
type SceneRef struct {
	ID        string `json:"id"`
	UpdatedAt string `json:"updated_at"`
}

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to the host GraphQL API.
type Client struct {
	conn   Connection
	http   HTTPDoer
	logger *slog.Logger
}

// ClientOption customizes client construction.
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP backend, primarily for tests.
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

// NewClient constructs a host API client for the given connection.
func NewClient(conn Connection, logger *slog.Logger, opts ...ClientOption) *Client {
	c := &Client{
		conn:   conn,
		http:   &http.Client{Timeout: graphqlTimeout},
		logger: logging.NewComponentLogger(logger, "stash"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GraphQLURL reports the resolved endpoint, used by preflight checks.
func (c *Client) GraphQLURL() string {
	return c.conn.GraphQLURL
}

// FindScene fetches one scene by id. A nil scene with nil error means the
// host has no such scene. The fragment may be passed with or without
// surrounding braces; empty selects DefaultSceneFragment.
func (c *Client) FindScene(ctx context.Context, id int, fragment string) (*Scene, error) {
	frag := strings.TrimSpace(fragment)
	if frag == "" {
		frag = DefaultSceneFragment
	}
	if strings.HasPrefix(frag, "{") && strings.HasSuffix(frag, "}") {
		frag = strings.TrimSpace(frag[1 : len(frag)-1])
	}

	query := fmt.Sprintf("query($id: ID!) { findScene(id: $id) { %s } }", frag)
	var data struct {
		FindScene *Scene `json:"findScene"`
	}
	// Scene ids travel as strings on the wire even though dispatch works
	// with integers.
	if err := c.query(ctx, query, map[string]any{"id": strconv.Itoa(id)}, &data); err != nil {
		return nil, err
	}
	return data.FindScene, nil
}

// AllScenes lists every scene's id and update timestamp. It is total: any
// failure is logged and yields an empty slice, so latest-scene selection
// reports "no scenes" instead of killing the run.
func (c *Client) AllScenes(ctx context.Context) []SceneRef {
	var data struct {
		AllScenes []SceneRef `json:"allScenes"`
	}
	if err := c.query(ctx, "query { allScenes { id updated_at } }", nil, &data); err != nil {
		c.logger.Error("listing scenes failed", logging.Error(err))
		return nil
	}
	return data.AllScenes
}

// FetchServerURLSetting asks the host for this plugin's saved serverUrl
// setting via the configuration query. Best-effort: any failure returns an
// empty string so the URL chain moves on to its next tier.
func (c *Client) FetchServerURLSetting(ctx context.Context) string {
	query := "query($ids: [ID!]) { configuration { plugins(include: $ids) } }"
	var data struct {
		Configuration struct {
			Plugins map[string]any `json:"plugins"`
		} `json:"configuration"`
	}
	if err := c.query(ctx, query, map[string]any{"ids": pluginConfigIDs}, &data); err != nil {
		c.logger.Debug("saved settings fetch failed", logging.Error(err))
		return ""
	}
	for _, id := range pluginConfigIDs {
		settings, ok := data.Configuration.Plugins[id].(map[string]any)
		if !ok {
			continue
		}
		if url := strings.TrimSpace(AsString(settings["serverUrl"])); url != "" {
			return url
		}
	}
	return ""
}

// Ping issues a trivial query to verify the endpoint answers, used by the
// doctor command.
func (c *Client) Ping(ctx context.Context) error {
	var data struct {
		Version struct {
			Version string `json:"version"`
		} `json:"version"`
	}
	return c.query(ctx, "query { version { version } }", nil, &data)
}

type graphqlError struct {
	Message string `json:"message"`
}

func (c *Client) query(ctx context.Context, query string, variables map[string]any, out any) error {
	if variables == nil {
		variables = map[string]any{}
	}
	body, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	if err != nil {
		return services.Wrap(services.ErrValidation, "stash", "graphql", "marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.conn.GraphQLURL, bytes.NewReader(body))
	if err != nil {
		return services.Wrap(services.ErrValidation, "stash", "graphql", "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.conn.APIKey != "" {
		req.Header.Set("ApiKey", c.conn.APIKey)
		req.Header.Set("Authorization", "apikey "+c.conn.APIKey)
	}
	if c.conn.CookieName != "" && c.conn.CookieValue != "" {
		req.AddCookie(&http.Cookie{Name: c.conn.CookieName, Value: c.conn.CookieValue})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransport, "stash", "graphql", fmt.Sprintf("request to %s failed", c.conn.GraphQLURL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return services.Wrap(services.ErrTransport, "stash", "graphql",
			fmt.Sprintf("endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))), nil)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, MaxPayloadBytes))
	if err != nil {
		return services.Wrap(services.ErrTransport, "stash", "graphql", "read response", err)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return services.Wrap(services.ErrTransport, "stash", "graphql", "empty response", nil)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return services.Wrap(services.ErrTransport, "stash", "graphql", "decode response", err)
	}
	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		return services.Wrap(services.ErrTransport, "stash", "graphql", strings.Join(messages, "; "), nil)
	}

	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return services.Wrap(services.ErrTransport, "stash", "graphql", "decode data", err)
	}
	return nil
}
