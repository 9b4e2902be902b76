package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileAndDirExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !FileExists(file) {
		t.Fatal("expected file to exist")
	}
	if FileExists(dir) {
		t.Fatal("directory should not count as a file")
	}
	if !DirExists(dir) {
		t.Fatal("expected directory to exist")
	}
	if DirExists(file) {
		t.Fatal("file should not count as a directory")
	}
	if FileExists(filepath.Join(dir, "missing")) {
		t.Fatal("missing path should not exist")
	}
}

func TestStem(t *testing.T) {
	cases := map[string]string{
		"/videos/movie.night.mp4": "movie.night",
		"clip.mkv":                "clip",
		"noext":                   "noext",
	}
	for path, want := range cases {
		if got := Stem(path); got != want {
			t.Fatalf("Stem(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestListWithExtensions(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.mkv", "a.mp4", "c.txt", "d.png", "e.MP4"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.mp4"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := ListWithExtensions(dir, []string{"mp4", "mkv"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a.mp4"),
		filepath.Join(dir, "b.mkv"),
		filepath.Join(dir, "e.MP4"),
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.vtt")
	dst := filepath.Join(dir, "dst.vtt")
	if err := os.WriteFile(src, []byte("WEBVTT\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := MoveFile(src, dst); err != nil {
		t.Fatal(err)
	}
	if FileExists(src) {
		t.Fatal("source should be gone after move")
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "WEBVTT\n" {
		t.Fatalf("unexpected content %q", data)
	}
}
