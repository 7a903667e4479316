package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/google/uuid"

	"github.com/Jblast94/whisper-transcribe/internal/config"
	"github.com/Jblast94/whisper-transcribe/internal/deps"
	"github.com/Jblast94/whisper-transcribe/internal/dispatch"
	"github.com/Jblast94/whisper-transcribe/internal/logging"
	"github.com/Jblast94/whisper-transcribe/internal/services"
	"github.com/Jblast94/whisper-transcribe/internal/services/whisper"
	"github.com/Jblast94/whisper-transcribe/internal/stash"
)

// runPlugin executes one host-initiated task. The host treats a non-zero exit
// as a plugin crash, so failures are logged to errOut and swallowed right
// here, and nowhere else: the packages below return errors instead of
// logging-and-continuing.
func runPlugin(ctx context.Context, in io.Reader, errOut io.Writer, configPath string) {
	logger := logging.NewPlugin(errOut)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("plugin run panicked",
				logging.Any("panic", r),
				logging.String("stack", string(debug.Stack())))
		}
	}()

	if err := pluginRun(ctx, in, configPath, logger); err != nil {
		logger.Error("task failed",
			logging.String("class", services.Classify(err)),
			logging.Error(err))
	}
}

func pluginRun(ctx context.Context, in io.Reader, configPath string, logger *slog.Logger) error {
	ctx = services.WithRunID(ctx, uuid.NewString())
	logger = logging.WithContext(ctx, logger)

	payload := stash.ReadPayload(in, logger)

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		logger.Warn("defaults file unusable; continuing with built-ins", logging.Error(err))
		cfg = config.Fallback()
	}

	scenes := stash.NewClient(payload.Connection(connectionDefaults(cfg)), logger)
	runtime := config.ResolveRuntime(ctx, payload, scenes.FetchServerURLSetting, cfg, logger)

	backend := whisper.NewClient(runtime.ServerURL,
		whisper.WithTranslate(runtime.Translate),
		whisper.WithUploadTimeout(runtime.UploadTimeout),
		whisper.WithLogger(logger))
	transcriber := whisper.NewService(backend,
		whisper.WithFFmpeg(deps.FFmpegCommand(os.Args[0])),
		whisper.WithServiceLogger(logger))

	return dispatch.New(payload, scenes, transcriber, runtime, logger).Run(ctx)
}
