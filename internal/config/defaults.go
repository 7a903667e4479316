package config

const (
	// DefaultWhisperServerURL is the final fallback of the server URL chain.
	DefaultWhisperServerURL = "http://127.0.0.1:9191/inference"

	defaultUploadTimeoutSeconds = 3600
	defaultRunPodLanguage       = "en"
	defaultRunPodTimeoutSecs    = 600
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Whisper: Whisper{
			UploadTimeout: defaultUploadTimeoutSeconds,
		},
		RunPod: RunPod{
			Language:       defaultRunPodLanguage,
			TimeoutSeconds: defaultRunPodTimeoutSecs,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
