// Package whisper turns a scene video into an SRT subtitle using a
// whisper.cpp-compatible inference server.
//
// The Client speaks the server's multipart inference protocol and satisfies
// services.Transcriber. The Service wraps it with the full per-video
// workflow: reachability probe, single-flight locking, ffmpeg audio
// extraction, upload, and subtitle write-out next to the video.
package whisper
