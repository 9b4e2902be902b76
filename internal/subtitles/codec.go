package subtitles

import (
	"sort"
	"strings"

	"subtitle/internal/services"
)

// Codec converts between timed-text content and Segment sequences.
type Codec interface {
	// Name is the human-readable format name.
	Name() string
	// Extension is the canonical file extension without the dot.
	Extension() string
	// Format renders segments in the codec's exact grammar.
	Format(segments []Segment) string
	// Parse extracts segments from content, skipping malformed cue blocks.
	Parse(content string) []Segment
}

var codecs = map[string]Codec{
	"vtt":    VTT{},
	"webvtt": VTT{},
	"srt":    SRT{},
	"subrip": SRT{},
}

// New returns the codec registered for the given format name or alias.
// Lookup is case-insensitive.
func New(name string) (Codec, error) {
	codec, ok := codecs[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "subtitles", "codec",
			"unsupported format "+name+" (supported: "+strings.Join(SupportedFormats(), ", ")+")", nil)
	}
	return codec, nil
}

// SupportedFormats lists every registered format name and alias, sorted.
func SupportedFormats() []string {
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Convert re-renders content from one format into another.
func Convert(content, from, to string) (string, error) {
	source, err := New(from)
	if err != nil {
		return "", err
	}
	target, err := New(to)
	if err != nil {
		return "", err
	}
	return target.Format(source.Parse(content)), nil
}
