package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCLIConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	contents := `
[paths]
models_dir = "` + filepath.Join(base, "models") + `"
state_dir = "` + filepath.Join(base, "state") + `"

[history]
enabled = false
`
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestFormatsCommand(t *testing.T) {
	out, err := runCLI(t, "formats")
	if err != nil {
		t.Fatalf("formats: %v", err)
	}
	requireContains(t, out, "Generation formats:")
	requireContains(t, out, "srt")
}

func TestConfigInitCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// A second init without --overwrite refuses to clobber the file.
	if _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config already exists")
	}
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "movie.vtt")
	vtt := "WEBVTT\n\n00:00:01.000 --> 00:00:02.500\nhello there\n"
	if err := os.WriteFile(input, []byte(vtt), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "convert", input, "--to", "srt")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "Converted")

	converted, err := os.ReadFile(filepath.Join(dir, "movie.srt"))
	if err != nil {
		t.Fatalf("read converted file: %v", err)
	}
	if !strings.Contains(string(converted), "00:00:01,000 --> 00:00:02,500") {
		t.Fatalf("unexpected srt output:\n%s", converted)
	}
}

func TestConvertCommandRequiresTarget(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "movie.vtt")
	if err := os.WriteFile(input, []byte("WEBVTT\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "convert", input); err == nil {
		t.Fatal("expected error without --to")
	}
}

func TestModelsListCommand(t *testing.T) {
	configPath := writeCLIConfig(t)
	out, err := runCLI(t, "--config", configPath, "models", "list")
	if err != nil {
		t.Fatalf("models list: %v", err)
	}
	requireContains(t, out, "base")
	requireContains(t, out, "Model directory:")
}

func TestBatchCommandMissingDirectory(t *testing.T) {
	configPath := writeCLIConfig(t)
	missing := filepath.Join(t.TempDir(), "absent")
	if _, err := runCLI(t, "--config", configPath, "batch", missing); err == nil {
		t.Fatal("expected error for missing input directory")
	}
}
