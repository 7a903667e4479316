package whisper

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Jblast94/whisper-transcribe/internal/services"
)

var commandContext = exec.CommandContext

// ExtractAudio converts a video's audio track into the 16kHz mono PCM WAV
// the inference server expects.
func ExtractAudio(ctx context.Context, ffmpegBinary, videoPath, wavPath string) error {
	args := []string{
		"-i", videoPath,
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		"-loglevel", "error",
		wavPath,
	}
	cmd := commandContext(ctx, ffmpegBinary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return services.Wrap(services.ErrExternalTool, "whisper", "extract audio",
			fmt.Sprintf("%q not found; install ffmpeg and ensure it is in PATH", ffmpegBinary), err)
	}
	return services.Wrap(services.ErrExternalTool, "whisper", "extract audio",
		strings.TrimSpace(string(output)), err)
}
