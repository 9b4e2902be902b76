package subtitles

import "strings"

// VTT implements the WebVTT grammar: optional WEBVTT header, dot-decimal
// timestamps, cues separated by blank lines, no index line.
type VTT struct{}

func (VTT) Name() string { return "WebVTT" }

func (VTT) Extension() string { return "vtt" }

func (VTT) Format(segments []Segment) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n")
	for _, segment := range segments {
		b.WriteString("\n")
		b.WriteString(formatTimestamp(segment.Start, "."))
		b.WriteString(" --> ")
		b.WriteString(formatTimestamp(segment.End, "."))
		b.WriteString("\n")
		b.WriteString(segment.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func (VTT) Parse(content string) []Segment {
	lines := strings.Split(normalizeNewlines(content), "\n")

	var segments []Segment
	index := 1
	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if !strings.Contains(line, "-->") {
			// Header, cue identifier, or blank line.
			i++
			continue
		}
		start, end, err := parseCueTiming(line)
		if err != nil {
			i++
			continue
		}
		i++
		var text []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			text = append(text, strings.TrimSpace(lines[i]))
			i++
		}
		segments = append(segments, Segment{
			Index: index,
			Start: start,
			End:   end,
			Text:  strings.Join(text, "\n"),
		})
		index++
	}
	return segments
}

func normalizeNewlines(content string) string {
	return strings.ReplaceAll(content, "\r\n", "\n")
}
