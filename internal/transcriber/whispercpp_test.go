package transcriber

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subtitle/internal/testsupport"
)

func writeInput(t *testing.T) string {
	t.Helper()
	input := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(input, []byte("fake video"), 0o644); err != nil {
		t.Fatal(err)
	}
	return input
}

func TestTranscribeSuccess(t *testing.T) {
	binary := testsupport.FakeEngine(t, "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\nhi")
	outputDir := t.TempDir()
	engine := NewWhisperCpp(WithBinaryPath(binary), WithThreads(2), WithProcessors(1))

	result := engine.Transcribe(context.Background(), writeInput(t), "/models/ggml-base.bin", "vtt", outputDir)

	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if result.RequestID == "" {
		t.Fatal("expected a request id")
	}
	if result.Format != "vtt" {
		t.Fatalf("unexpected format %q", result.Format)
	}
	wantPath := filepath.Join(outputDir, result.RequestID+".vtt")
	if result.OutputPath != wantPath {
		t.Fatalf("output path %q, want %q", result.OutputPath, wantPath)
	}
	data, err := os.ReadFile(result.OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "WEBVTT") {
		t.Fatalf("unexpected engine output %q", data)
	}
}

func TestTranscribeUnknownFormatFallsBackToVTT(t *testing.T) {
	binary := testsupport.FakeEngine(t, "WEBVTT\n")
	engine := NewWhisperCpp(WithBinaryPath(binary))

	result := engine.Transcribe(context.Background(), writeInput(t), "/models/ggml-base.bin", "docx", t.TempDir())

	if !result.Success {
		t.Fatalf("expected success, got %q", result.Error)
	}
	if result.Format != "vtt" {
		t.Fatalf("expected vtt fallback, got %q", result.Format)
	}
	if !strings.HasSuffix(result.OutputPath, ".vtt") {
		t.Fatalf("expected .vtt output, got %q", result.OutputPath)
	}
}

func TestTranscribeEngineFailure(t *testing.T) {
	binary := testsupport.FailingEngine(t, "model load failed")
	engine := NewWhisperCpp(WithBinaryPath(binary))

	result := engine.Transcribe(context.Background(), writeInput(t), "/models/ggml-base.bin", "srt", t.TempDir())

	if result.Success {
		t.Fatal("expected failure")
	}
	if result.OutputPath != "" {
		t.Fatalf("failed run must not report an output path, got %q", result.OutputPath)
	}
	if !strings.Contains(result.Error, "model load failed") {
		t.Fatalf("diagnostic missing from error: %q", result.Error)
	}
}

func TestTranscribeDistinctRequestIDs(t *testing.T) {
	binary := testsupport.FakeEngine(t, "WEBVTT\n")
	engine := NewWhisperCpp(WithBinaryPath(binary))
	outputDir := t.TempDir()
	input := writeInput(t)

	first := engine.Transcribe(context.Background(), input, "/m.bin", "vtt", outputDir)
	second := engine.Transcribe(context.Background(), input, "/m.bin", "vtt", outputDir)

	if first.RequestID == second.RequestID {
		t.Fatal("request ids must be unique per invocation")
	}
	if first.OutputPath == second.OutputPath {
		t.Fatal("output paths must not collide")
	}
}

func TestSupportedFormats(t *testing.T) {
	formats := NewWhisperCpp().SupportedFormats()
	want := map[string]bool{"vtt": true, "srt": true, "txt": true, "json": true, "lrc": true}
	if len(formats) != len(want) {
		t.Fatalf("unexpected formats %v", formats)
	}
	for _, format := range formats {
		if !want[format] {
			t.Fatalf("unexpected format %q", format)
		}
	}
}
