package config

import (
	"os"
	"strings"
)

func (c *Config) normalize() {
	c.normalizeWhisper()
	c.normalizeStash()
	c.normalizeRunPod()
	c.normalizeLogging()
}

func (c *Config) normalizeWhisper() {
	// server_url deliberately has no WHISPER_SERVER_URL fallback here: the
	// runtime chain applies that env var after payload settings, and filling
	// it in early would let the environment outrank the host UI.
	c.Whisper.ServerURL = strings.TrimSpace(c.Whisper.ServerURL)
}

func (c *Config) normalizeStash() {
	c.Stash.URL = strings.TrimSpace(c.Stash.URL)
	if c.Stash.URL == "" {
		if value, ok := os.LookupEnv("STASH_URL"); ok {
			c.Stash.URL = strings.TrimSpace(value)
		}
	}
	c.Stash.GraphQLURL = strings.TrimSpace(c.Stash.GraphQLURL)
	if c.Stash.GraphQLURL == "" {
		if value, ok := os.LookupEnv("STASH_GRAPHQL_URL"); ok {
			c.Stash.GraphQLURL = strings.TrimSpace(value)
		}
	}
	c.Stash.APIKey = strings.TrimSpace(c.Stash.APIKey)
	if c.Stash.APIKey == "" {
		if value, ok := os.LookupEnv("STASH_API_KEY"); ok {
			c.Stash.APIKey = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeRunPod() {
	c.RunPod.APIKey = strings.TrimSpace(c.RunPod.APIKey)
	if c.RunPod.APIKey == "" {
		if value, ok := os.LookupEnv("RUNPOD_API_KEY"); ok {
			c.RunPod.APIKey = strings.TrimSpace(value)
		}
	}
	c.RunPod.EndpointID = strings.TrimSpace(c.RunPod.EndpointID)
	if c.RunPod.EndpointID == "" {
		if value, ok := os.LookupEnv("RUNPOD_ENDPOINT_ID"); ok {
			c.RunPod.EndpointID = strings.TrimSpace(value)
		}
	}
	c.RunPod.EndpointURL = strings.TrimSpace(c.RunPod.EndpointURL)
	if c.RunPod.EndpointURL == "" {
		if value, ok := os.LookupEnv("RUNPOD_ENDPOINT_URL"); ok {
			c.RunPod.EndpointURL = strings.TrimSpace(value)
		}
	}
	c.RunPod.Language = strings.ToLower(strings.TrimSpace(c.RunPod.Language))
	if c.RunPod.Language == "" {
		c.RunPod.Language = defaultRunPodLanguage
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
