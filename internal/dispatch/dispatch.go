package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/Jblast94/whisper-transcribe/internal/config"
	"github.com/Jblast94/whisper-transcribe/internal/logging"
	"github.com/Jblast94/whisper-transcribe/internal/services"
	"github.com/Jblast94/whisper-transcribe/internal/stash"
)

// Task names the host sends.
const (
	TaskTranscribeLastScene = "transcribe_last_scene"
	TaskTranscribeScene     = "transcribe_scene_task"

	hookTaskLabel = "scene_update_hook"
)

// SceneSource is the host catalog the dispatcher reads. *stash.Client
// satisfies it.
type SceneSource interface {
	FindScene(ctx context.Context, id int, fragment string) (*stash.Scene, error)
	AllScenes(ctx context.Context) []stash.SceneRef
}

// VideoTranscriber turns one video file into a subtitle next to it and
// reports the subtitle path. *whisper.Service satisfies it.
type VideoTranscriber interface {
	Transcribe(ctx context.Context, videoPath string) (string, error)
}

// Dispatcher holds everything one plugin invocation needs.
type Dispatcher struct {
	payload     *stash.Payload
	scenes      SceneSource
	transcriber VideoTranscriber
	runtime     config.Runtime
	logger      *slog.Logger
}

// New builds a dispatcher for one descriptor.
func New(payload *stash.Payload, scenes SceneSource, transcriber VideoTranscriber, runtime config.Runtime, logger *slog.Logger) *Dispatcher {
	if payload == nil {
		payload = stash.Empty()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Dispatcher{
		payload:     payload,
		scenes:      scenes,
		transcriber: transcriber,
		runtime:     runtime,
		logger:      logger,
	}
}

// Run dispatches the descriptor. Modes are checked in order and the first
// match runs; with no match at all, a single trace line records the no-op.
func (d *Dispatcher) Run(ctx context.Context) error {
	task := d.payload.TaskName()
	switch {
	case task == TaskTranscribeLastScene:
		ctx = services.WithTaskName(ctx, task)
		logging.WithContext(ctx, d.logger).Debug("dispatching task")
		return d.transcribeLastScene(ctx)
	case task == TaskTranscribeScene || d.payload.ArgString("mode") == TaskTranscribeScene:
		ctx = services.WithTaskName(ctx, TaskTranscribeScene)
		logging.WithContext(ctx, d.logger).Debug("dispatching task")
		return d.transcribeSceneTask(ctx)
	}

	if hook, ok := d.payload.Hook(); ok {
		ctx = services.WithTaskName(ctx, hookTaskLabel)
		logging.WithContext(ctx, d.logger).Debug("triggered by scene update hook")
		if id, ok := stash.CoerceInt(hook.ID); ok {
			return d.transcribeScene(ctx, id)
		}
		return d.transcribeLastScene(ctx)
	}

	d.logger.Debug("no task specified; nothing to do")
	return nil
}

// transcribeLastScene finds the most recently updated scene and transcribes
// it. Timestamps compare as strings: the host emits a sortable format.
func (d *Dispatcher) transcribeLastScene(ctx context.Context) error {
	logger := logging.WithContext(ctx, d.logger)

	scenes := d.scenes.AllScenes(ctx)
	if len(scenes) == 0 {
		logger.Error("no scenes found")
		return nil
	}

	latest := scenes[0]
	for _, ref := range scenes[1:] {
		if ref.UpdatedAt > latest.UpdatedAt {
			latest = ref
		}
	}
	id, ok := stash.CoerceInt(latest.ID)
	if !ok {
		logger.Error("latest scene has no usable id", logging.String("scene", latest.ID))
		return nil
	}
	return d.transcribeScene(ctx, id)
}

func (d *Dispatcher) transcribeSceneTask(ctx context.Context) error {
	logger := logging.WithContext(ctx, d.logger)

	raw, ok := d.payload.Arg("scene_id")
	if !ok || raw == nil {
		logger.Error("no scene_id supplied")
		return nil
	}
	id, ok := stash.CoerceInt(raw)
	if !ok {
		logger.Error("scene_id is not an integer", logging.Any("scene_id", raw))
		return nil
	}
	return d.transcribeScene(ctx, id)
}

// transcribeScene fetches one scene's primary video file and transcribes it.
func (d *Dispatcher) transcribeScene(ctx context.Context, sceneID int) error {
	ctx = services.WithSceneID(ctx, sceneID)
	logger := logging.WithContext(ctx, d.logger)

	scene, err := d.scenes.FindScene(ctx, sceneID, stash.DefaultSceneFragment)
	if err != nil {
		return err
	}
	if scene == nil {
		logger.Error("scene not found")
		return nil
	}
	if len(scene.Files) == 0 {
		logger.Warn("scene has no associated files")
		return nil
	}

	videoPath := scene.Files[0].Path
	if info, err := os.Stat(videoPath); err != nil || info.IsDir() {
		logger.Warn("video file does not exist", logging.String("path", videoPath))
		return nil
	}

	if d.runtime.DryRun {
		logger.Info("dry-run: would transcribe",
			logging.String("path", videoPath),
			logging.Bool("translate", d.runtime.Translate),
			logging.String("server_url", d.runtime.ServerURL))
		return nil
	}

	srtPath, err := d.transcriber.Transcribe(ctx, videoPath)
	if err != nil {
		if errors.Is(err, services.ErrBusy) {
			logger.Warn("transcription already in progress", logging.Error(err))
			return nil
		}
		return err
	}

	logger.Info("transcription completed",
		logging.String("path", videoPath),
		logging.String("subtitle", srtPath))
	return nil
}
