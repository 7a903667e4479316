package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWhisper(); err != nil {
		return err
	}
	if err := c.validateStash(); err != nil {
		return err
	}
	if err := c.validateRunPod(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateWhisper() error {
	if err := validateURLField("whisper.server_url", c.Whisper.ServerURL); err != nil {
		return err
	}
	if c.Whisper.UploadTimeout <= 0 {
		return errors.New("whisper.upload_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateStash() error {
	if err := validateURLField("stash.url", c.Stash.URL); err != nil {
		return err
	}
	return validateURLField("stash.graphql_url", c.Stash.GraphQLURL)
}

func (c *Config) validateRunPod() error {
	if err := validateURLField("runpod.endpoint_url", c.RunPod.EndpointURL); err != nil {
		return err
	}
	if c.RunPod.TimeoutSeconds <= 0 {
		return errors.New("runpod.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "plugin", "console":
	default:
		return fmt.Errorf("logging.format must be plugin or console, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}

func validateURLField(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", field, value)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s is missing a host: %q", field, value)
	}
	return nil
}
