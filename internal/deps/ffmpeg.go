package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ResolveFFmpeg locates the ffmpeg binary transcription runs will execute.
//
// Host plugin installs are unpacked into a plugins directory, and operators
// sometimes drop a static ffmpeg build next to the plugin binary there. A
// bundled binary beside anchorBinary wins over PATH resolution so such
// installs work on hosts without a system ffmpeg.
func ResolveFFmpeg(anchorBinary string) Status {
	result := Status{
		Name:        "ffmpeg",
		Description: "Extracts 16kHz mono audio from scene video files",
	}

	if bundled, ok := bundledFFmpeg(anchorBinary); ok {
		result.Command = bundled
		result.Available = true
		return result
	}

	name := ffmpegName()
	if resolved, err := exec.LookPath(name); err == nil {
		result.Command = resolved
		result.Available = true
		return result
	}

	result.Command = name
	result.Detail = fmt.Sprintf("binary %q not found; install ffmpeg and ensure it is in PATH", name)
	return result
}

// FFmpegCommand returns the command the audio extractor should invoke,
// falling back to plain "ffmpeg" when resolution fails so the extractor's own
// error path reports the miss.
func FFmpegCommand(anchorBinary string) string {
	status := ResolveFFmpeg(anchorBinary)
	if status.Available {
		return status.Command
	}
	return ffmpegName()
}

func bundledFFmpeg(anchorBinary string) (string, bool) {
	anchor := strings.TrimSpace(anchorBinary)
	if anchor == "" {
		return "", false
	}
	candidate := filepath.Join(filepath.Dir(anchor), ffmpegName())
	info, err := os.Stat(candidate)
	if err != nil || !isExecutable(info) {
		return "", false
	}
	return candidate, true
}

func ffmpegName() string {
	if runtime.GOOS == "windows" {
		return "ffmpeg.exe"
	}
	return "ffmpeg"
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
