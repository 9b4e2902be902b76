package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subtitle/internal/testsupport"
)

func newConcurrent(t *testing.T, binary string, workers int) *ConcurrentProcessor {
	t.Helper()
	proc, err := NewConcurrentProcessor(newTestGeneratorWithBinary(t, binary), workers, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(proc.Shutdown)
	return proc
}

func TestWorkerCountClamping(t *testing.T) {
	for _, workers := range []int{-3, 0, 1} {
		proc := newConcurrent(t, testsupport.FakeEngine(t, "WEBVTT\n"), workers)
		if proc.MaxWorkers() != 1 {
			t.Fatalf("workers=%d gave pool size %d, want 1", workers, proc.MaxWorkers())
		}
	}
	if proc := newConcurrent(t, testsupport.FakeEngine(t, "WEBVTT\n"), 4); proc.MaxWorkers() != 4 {
		t.Fatalf("expected pool size 4, got %d", proc.MaxWorkers())
	}
}

func TestProcessMultipleEmptyInput(t *testing.T) {
	proc := newConcurrent(t, testsupport.FakeEngine(t, "WEBVTT\n"), 2)

	summary := proc.ProcessMultiple(context.Background(), nil, "base", "vtt", "", nil)

	if summary.TotalFiles != 0 || summary.Successful != 0 || summary.Failed != 0 || summary.Skipped != 0 {
		t.Fatalf("expected all-zero summary, got %+v", summary)
	}
	if summary.Results == nil || len(summary.Results) != 0 {
		t.Fatalf("expected empty results sequence, got %v", summary.Results)
	}
	proc.mu.Lock()
	started := proc.started
	proc.mu.Unlock()
	if started {
		t.Fatal("empty input must not start the pool")
	}
}

func TestProcessSingleMissingFile(t *testing.T) {
	proc := newConcurrent(t, testsupport.FakeEngine(t, "WEBVTT\n"), 2)

	result := proc.ProcessSingle(context.Background(), "/nope/missing.mp4", "base", "vtt", "")

	if result.Success {
		t.Fatal("expected failure for missing file")
	}
	if !strings.Contains(result.Error, "not found") {
		t.Fatalf("unexpected error %q", result.Error)
	}
	proc.mu.Lock()
	started := proc.started
	proc.mu.Unlock()
	if started {
		t.Fatal("missing file must not touch the pool")
	}
}

func TestProcessSingleSuccess(t *testing.T) {
	proc := newConcurrent(t, testsupport.FakeEngine(t, "WEBVTT\n"), 2)
	dir := t.TempDir()
	writeVideos(t, dir, "clip.mp4")

	result := proc.ProcessSingle(context.Background(), filepath.Join(dir, "clip.mp4"), "base", "vtt", "")

	if !result.Success {
		t.Fatalf("expected success, got %q", result.Error)
	}
	if result.OutputPath != filepath.Join(dir, "clip.vtt") {
		t.Fatalf("output should sit next to input, got %q", result.OutputPath)
	}
	if _, err := os.Stat(result.OutputPath); err != nil {
		t.Fatal(err)
	}
}

func TestProcessMultipleReportsInSubmissionOrder(t *testing.T) {
	proc := newConcurrent(t, testsupport.FakeEngine(t, "WEBVTT\n"), 3)
	dir := t.TempDir()
	writeVideos(t, dir, "a.mp4", "b.mp4", "c.mp4")
	paths := []string{
		filepath.Join(dir, "a.mp4"),
		filepath.Join(dir, "b.mp4"),
		filepath.Join(dir, "c.mp4"),
	}

	var order []string
	summary := proc.ProcessMultiple(context.Background(), paths, "base", "vtt", dir,
		func(file string, current, total int, status string) {
			order = append(order, filepath.Base(file)+":"+status)
		})

	if summary.Successful != 3 || summary.Failed != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	want := []string{
		"a.mp4:processing", "a.mp4:complete",
		"b.mp4:processing", "b.mp4:complete",
		"c.mp4:processing", "c.mp4:complete",
	}
	if len(order) != len(want) {
		t.Fatalf("events %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("events out of submission order: %v", order)
		}
	}
	for i, path := range paths {
		if summary.Results[i].FilePath != path {
			t.Fatalf("results out of submission order: %+v", summary.Results)
		}
	}
}

func TestProcessMultipleMixedOutcomes(t *testing.T) {
	proc := newConcurrent(t, testsupport.FakeEngine(t, "WEBVTT\n"), 2)
	dir := t.TempDir()
	writeVideos(t, dir, "ok.mp4")
	paths := []string{
		filepath.Join(dir, "ok.mp4"),
		filepath.Join(dir, "missing.mp4"),
	}

	var statuses []string
	summary := proc.ProcessMultiple(context.Background(), paths, "base", "vtt", dir,
		func(file string, current, total int, status string) {
			if status != "processing" {
				statuses = append(statuses, status)
			}
		})

	if summary.Successful != 1 || summary.Failed != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if statuses[0] != "complete" {
		t.Fatalf("unexpected statuses %v", statuses)
	}
	if !strings.HasPrefix(statuses[1], "failed: ") {
		t.Fatalf("failure status should carry the reason, got %q", statuses[1])
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	proc := newConcurrent(t, testsupport.FakeEngine(t, "WEBVTT\n"), 2)
	dir := t.TempDir()
	writeVideos(t, dir, "clip.mp4")

	_ = proc.ProcessSingle(context.Background(), filepath.Join(dir, "clip.mp4"), "base", "vtt", "")

	proc.Shutdown()
	proc.Shutdown()
	if err := proc.Close(); err != nil {
		t.Fatal(err)
	}

	// Submissions after shutdown surface as failure results, not panics.
	result := proc.ProcessSingle(context.Background(), filepath.Join(dir, "clip.mp4"), "base", "vtt", "")
	if result.Success {
		t.Fatal("expected failure after shutdown")
	}
}

func TestWorkerPanicBecomesFailureResult(t *testing.T) {
	proc := newConcurrent(t, testsupport.FakeEngine(t, "WEBVTT\n"), 1)

	result := <-proc.submit(func() FileResult {
		panic("unit blew up")
	})

	if result.Success {
		t.Fatal("expected failure result from panic")
	}
	if !strings.Contains(result.Error, "unit blew up") {
		t.Fatalf("panic detail missing: %q", result.Error)
	}

	// The pool survives and keeps serving work.
	dir := t.TempDir()
	writeVideos(t, dir, "clip.mp4")
	if next := proc.ProcessSingle(context.Background(), filepath.Join(dir, "clip.mp4"), "base", "vtt", ""); !next.Success {
		t.Fatalf("pool should survive a panic, got %q", next.Error)
	}
}
