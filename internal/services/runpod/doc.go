// Package runpod transcribes audio through a serverless sync-invoke
// inference endpoint.
//
// The whole audio file travels base64-encoded in one JSON request and the
// client blocks until the job finishes. Credentials and endpoint identity
// come from the RUNPOD_* environment variables, matching how the hosted
// worker is provisioned. The Client satisfies services.Transcriber.
package runpod
