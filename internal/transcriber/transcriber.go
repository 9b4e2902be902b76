package transcriber

import "context"

// Result describes the outcome of one engine invocation. It is immutable
// after creation.
type Result struct {
	// RequestID is the opaque token used as the output file's base name,
	// so concurrent invocations sharing an output directory never collide.
	RequestID string
	// InputPath is the media file that was transcribed.
	InputPath string
	// OutputPath is the engine-produced subtitle file; empty on failure.
	OutputPath string
	// Format is the effective output format after fallback.
	Format string
	// Success reports whether the engine exited cleanly.
	Success bool
	// Error carries the engine's diagnostic output on failure.
	Error string
}

// Transcriber turns a media file into a timed-text file using an external
// recognition engine.
type Transcriber interface {
	// Transcribe runs the engine for one input. A non-zero engine exit is
	// reported through the result, not the error; the error is reserved
	// for failures to invoke the engine's environment at all.
	Transcribe(ctx context.Context, inputPath, modelPath, outputFormat, outputDir string) Result
	// SupportedFormats lists the output formats the engine can emit.
	SupportedFormats() []string
}
