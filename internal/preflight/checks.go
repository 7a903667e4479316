package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/Jblast94/whisper-transcribe/internal/config"
	"github.com/Jblast94/whisper-transcribe/internal/deps"
	"github.com/Jblast94/whisper-transcribe/internal/services/runpod"
	"github.com/Jblast94/whisper-transcribe/internal/services/whisper"
	"github.com/Jblast94/whisper-transcribe/internal/stash"
)

// CheckFFmpeg verifies the audio extraction binary is available, preferring a
// build bundled next to anchorBinary over PATH.
func CheckFFmpeg(anchorBinary string) Result {
	const name = "FFmpeg"

	status := deps.ResolveFFmpeg(anchorBinary)
	if !status.Available {
		return Result{Name: name, Detail: status.Detail}
	}
	return Result{Name: name, Passed: true, Detail: status.Command}
}

// CheckConfigFile verifies the defaults file parses when present. A missing
// file passes; plugin mode runs on built-in defaults without one.
func CheckConfigFile(path string) Result {
	const name = "Config file"

	_, resolved, exists, err := config.Load(path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if !exists {
		return Result{Name: name, Passed: true, Detail: "using built-in defaults (no file found)"}
	}
	return Result{Name: name, Passed: true, Detail: resolved}
}

// CheckWhisperServer sends the same OPTIONS probe the plugin issues before
// uploading audio. It uses a single attempt with the probe's own timeout.
func CheckWhisperServer(ctx context.Context, serverURL, source string) Result {
	const name = "Whisper server"

	url := strings.TrimSpace(serverURL)
	if url == "" {
		return Result{Name: name, Detail: "missing url"}
	}
	if err := whisper.NewClient(url).Probe(ctx); err != nil {
		return Result{Name: name, Detail: summarizeProbeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (from %s)", url, source)}
}

// CheckStash verifies the host GraphQL endpoint answers a version query.
func CheckStash(ctx context.Context, scenes *stash.Client) Result {
	const name = "Host API"

	if scenes == nil {
		return Result{Name: name, Detail: "no connection details; set STASH_GRAPHQL_URL or [stash] in the config file"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := scenes.Ping(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeProbeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: scenes.GraphQLURL()}
}

// CheckRunPod reports whether cloud transcription credentials are configured.
// Missing credentials still pass: the runpod command is optional tooling and
// the plugin flow never requires it.
func CheckRunPod(cfg *config.Config) Result {
	const name = "RunPod"

	client, err := runpod.NewClient(cfg.RunPod.APIKey,
		runpod.WithEndpointID(cfg.RunPod.EndpointID),
		runpod.WithEndpointURL(cfg.RunPod.EndpointURL))
	if err != nil {
		return Result{Name: name, Passed: true, Detail: "not configured (RUNPOD_API_KEY unset)"}
	}
	return Result{Name: name, Passed: true, Detail: client.EndpointURL()}
}

// CheckDirectoryAccess verifies the directory exists and grants read/write
// access, the same probe the whisper service applies to a scene's directory
// before transcribing into it.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s does not exist", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("stat %s: %v", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s is not a directory", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s: insufficient permissions: %v", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// summarizeProbeError produces a short summary for connectivity failures.
func summarizeProbeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "probe timed out (server unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "probe timed out (server unreachable)"
	}
	return err.Error()
}
