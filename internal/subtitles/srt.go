package subtitles

import (
	"strconv"
	"strings"
)

// SRT implements the SubRip grammar: comma-decimal timestamps, each cue
// preceded by a 1-based index line, blocks separated by blank lines.
type SRT struct{}

func (SRT) Name() string { return "SubRip" }

func (SRT) Extension() string { return "srt" }

func (SRT) Format(segments []Segment) string {
	var b strings.Builder
	for i, segment := range segments {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strconv.Itoa(segment.Index))
		b.WriteString("\n")
		b.WriteString(formatTimestamp(segment.Start, ","))
		b.WriteString(" --> ")
		b.WriteString(formatTimestamp(segment.End, ","))
		b.WriteString("\n")
		b.WriteString(segment.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func (SRT) Parse(content string) []Segment {
	content = strings.TrimSpace(normalizeNewlines(content))
	if content == "" {
		return nil
	}

	var segments []Segment
	for _, block := range splitBlocks(content) {
		lines := strings.Split(block, "\n")
		if len(lines) < 3 {
			continue
		}
		index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			continue
		}
		start, end, err := parseCueTiming(strings.TrimSpace(lines[1]))
		if err != nil {
			continue
		}
		var text []string
		for _, line := range lines[2:] {
			if strings.TrimSpace(line) == "" {
				continue
			}
			text = append(text, strings.TrimSpace(line))
		}
		segments = append(segments, Segment{
			Index: index,
			Start: start,
			End:   end,
			Text:  strings.Join(text, "\n"),
		})
	}
	return segments
}

// splitBlocks separates cue blocks on runs of blank lines.
func splitBlocks(content string) []string {
	raw := strings.Split(content, "\n\n")
	blocks := make([]string, 0, len(raw))
	for _, block := range raw {
		block = strings.TrimSpace(block)
		if block != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}
