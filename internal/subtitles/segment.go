package subtitles

// Segment is one timed cue of subtitle text.
type Segment struct {
	// Index is the 1-based position of the cue within its track.
	Index int
	// Start and End are offsets in seconds from the beginning of the media.
	Start float64
	End   float64
	// Text is the cue payload; internal line breaks are preserved.
	Text string
}

// Duration returns the cue length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}
