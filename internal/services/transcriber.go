package services

import "context"

// Transcriber converts an audio file into transcribed text. Both the local
// whisper server client and the cloud inference client satisfy it, so callers
// can swap backends without caring which one is wired in.
type Transcriber interface {
	// TranscribeAudio sends the audio file at path to the backend and returns
	// the transcription body (SRT or plain text depending on the backend).
	TranscribeAudio(ctx context.Context, path string) (string, error)
}
