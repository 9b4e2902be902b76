// Package transcriber wraps the external speech-to-text engine behind a
// request/response contract.
//
// Transcriber is the seam batch and generator code depend on; WhisperCpp
// is the one concrete implementation, invoking the whisper-cli binary as a
// child process. Engine failures are reported through the result, not as
// Go errors, so callers processing many files can record them per file.
package transcriber
