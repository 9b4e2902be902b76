package models

import "strings"

// Catalog is the fixed list of whisper.cpp model identifiers that can be
// resolved and downloaded.
var Catalog = []string{
	"tiny.en",
	"tiny",
	"tiny-q5_1",
	"tiny.en-q5_1",
	"base.en",
	"base",
	"base-q5_1",
	"base.en-q5_1",
	"small.en",
	"small.en-tdrz",
	"small",
	"small-q5_1",
	"small.en-q5_1",
	"medium",
	"medium.en",
	"medium-q5_0",
	"medium.en-q5_0",
	"large-v1",
	"large-v2",
	"large",
	"large-q5_0",
}

// Download hosts. Models carrying the tinydiarize marker live in a separate
// repository.
const (
	DefaultSource = "https://huggingface.co/ggerganov/whisper.cpp"
	TDRZSource    = "https://huggingface.co/akashmjn/tinydiarize-whisper.cpp"

	tdrzMarker = "tdrz"
)

// InCatalog reports whether name is a known model identifier.
func InCatalog(name string) bool {
	for _, model := range Catalog {
		if model == name {
			return true
		}
	}
	return false
}

// FileName returns the on-disk file name for a model.
func FileName(name string) string {
	return "ggml-" + name + ".bin"
}

// sourceFor picks the download host for a model name.
func sourceFor(name, defaultSource, tdrzSource string) string {
	if strings.Contains(name, tdrzMarker) {
		return tdrzSource
	}
	return defaultSource
}
