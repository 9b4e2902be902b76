package subtitles

import (
	"errors"
	"math"
	"strings"
	"testing"

	"subtitle/internal/services"
)

func TestNewResolvesAliases(t *testing.T) {
	cases := map[string]string{
		"vtt":    "WebVTT",
		"WEBVTT": "WebVTT",
		"srt":    "SubRip",
		"SubRip": "SubRip",
	}
	for name, want := range cases {
		codec, err := New(name)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if codec.Name() != want {
			t.Fatalf("New(%q).Name() = %q, want %q", name, codec.Name(), want)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New("ass")
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	for _, name := range SupportedFormats() {
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("error %q should list supported format %q", err.Error(), name)
		}
	}
}

func TestVTTParseSingleCue(t *testing.T) {
	content := "WEBVTT\n\n00:00:00.000 --> 00:00:03.500\nHello\n"
	segments := VTT{}.Parse(content)

	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	seg := segments[0]
	if seg.Start != 0.0 || seg.End != 3.5 || seg.Text != "Hello" {
		t.Fatalf("unexpected segment %+v", seg)
	}
	if seg.Index != 1 {
		t.Fatalf("expected index 1, got %d", seg.Index)
	}
	if math.Abs(seg.Duration()-3.5) > 1e-9 {
		t.Fatalf("unexpected duration %f", seg.Duration())
	}

	rendered := VTT{}.Format(segments)
	if !strings.Contains(rendered, "00:00:00.000 --> 00:00:03.500") {
		t.Fatalf("rendered output missing timing line: %q", rendered)
	}
	if !strings.Contains(rendered, "Hello") {
		t.Fatalf("rendered output missing text: %q", rendered)
	}
	if !strings.HasPrefix(rendered, "WEBVTT\n") {
		t.Fatalf("rendered output missing header: %q", rendered)
	}
}

func TestVTTParseToleratesCommaSeparator(t *testing.T) {
	content := "00:00:01,250 --> 00:00:02,750\nmixed separators\n"
	segments := VTT{}.Parse(content)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].Start != 1.25 || segments[0].End != 2.75 {
		t.Fatalf("unexpected times %+v", segments[0])
	}
}

func TestVTTParseMultiLineText(t *testing.T) {
	content := "WEBVTT\n\n00:00:00.000 --> 00:00:02.000\nline one\nline two\n\n00:00:02.000 --> 00:00:04.000\nsecond cue\n"
	segments := VTT{}.Parse(content)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Text != "line one\nline two" {
		t.Fatalf("multi-line text not preserved: %q", segments[0].Text)
	}
	if segments[1].Index != 2 {
		t.Fatalf("expected index 2, got %d", segments[1].Index)
	}
}

func TestVTTParseSkipsMalformedCues(t *testing.T) {
	content := "WEBVTT\n\nnot a cue --> at all\ngarbage\n\n00:00:05.000 --> 00:00:06.000\nkept\n"
	segments := VTT{}.Parse(content)
	if len(segments) != 1 {
		t.Fatalf("expected malformed cue to be skipped, got %d segments", len(segments))
	}
	if segments[0].Text != "kept" {
		t.Fatalf("unexpected surviving segment %+v", segments[0])
	}
}

func TestSRTFormatAndParse(t *testing.T) {
	segments := []Segment{
		{Index: 1, Start: 0, End: 3.5, Text: "Hello"},
		{Index: 2, Start: 3.5, End: 7.123, Text: "two\nlines"},
	}
	rendered := SRT{}.Format(segments)

	if !strings.Contains(rendered, "1\n00:00:00,000 --> 00:00:03,500\nHello\n") {
		t.Fatalf("unexpected SRT output: %q", rendered)
	}
	if !strings.Contains(rendered, "2\n00:00:03,500 --> 00:00:07,123\ntwo\nlines\n") {
		t.Fatalf("unexpected SRT output: %q", rendered)
	}

	parsed := SRT{}.Parse(rendered)
	if len(parsed) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(parsed))
	}
	for i := range segments {
		if parsed[i].Index != segments[i].Index ||
			math.Abs(parsed[i].Start-segments[i].Start) > 0.0005 ||
			math.Abs(parsed[i].End-segments[i].End) > 0.0005 ||
			parsed[i].Text != segments[i].Text {
			t.Fatalf("round trip mismatch at %d: %+v vs %+v", i, parsed[i], segments[i])
		}
	}
}

func TestSRTParseSkipsMalformedBlocks(t *testing.T) {
	content := "1\n00:00:00,000 --> 00:00:01,000\nok\n\nnot-a-number\n00:00:01,000 --> 00:00:02,000\nskipped\n\n3\nbroken timing line\nskipped too\n\n4\n00:00:03,000 --> 00:00:04,000\nalso ok\n"
	segments := SRT{}.Parse(content)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Text != "ok" || segments[1].Text != "also ok" {
		t.Fatalf("unexpected segments %+v", segments)
	}
}

func TestConvertRoundTripPreservesSegments(t *testing.T) {
	original := "WEBVTT\n\n00:00:00.000 --> 00:00:03.500\nHello world\n\n00:00:03.500 --> 00:01:07.042\nsecond cue\nwith two lines\n"

	srt, err := Convert(original, "vtt", "srt")
	if err != nil {
		t.Fatal(err)
	}
	back, err := Convert(srt, "srt", "vtt")
	if err != nil {
		t.Fatal(err)
	}

	want := VTT{}.Parse(original)
	got := VTT{}.Parse(back)
	if len(got) != len(want) {
		t.Fatalf("segment count changed: %d vs %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i].Start-want[i].Start) > 0.0005 ||
			math.Abs(got[i].End-want[i].End) > 0.0005 {
			t.Fatalf("timing drift at %d: %+v vs %+v", i, got[i], want[i])
		}
		if got[i].Text != want[i].Text {
			t.Fatalf("text changed at %d: %q vs %q", i, got[i].Text, want[i].Text)
		}
	}
}

func TestConvertRejectsUnknownFormats(t *testing.T) {
	if _, err := Convert("", "vtt", "nope"); err == nil {
		t.Fatal("expected error for unknown target")
	}
	if _, err := Convert("", "nope", "srt"); err == nil {
		t.Fatal("expected error for unknown source")
	}
}

func TestFormatTimestampPadding(t *testing.T) {
	cases := []struct {
		seconds   float64
		separator string
		want      string
	}{
		{0, ".", "00:00:00.000"},
		{3.5, ".", "00:00:03.500"},
		{3661.007, ",", "01:01:01,007"},
		{-1, ".", "00:00:00.000"},
	}
	for _, tc := range cases {
		if got := formatTimestamp(tc.seconds, tc.separator); got != tc.want {
			t.Fatalf("formatTimestamp(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	for _, value := range []string{"", "12:34", "aa:bb:cc.ddd", "00:00:00"} {
		if _, err := parseTimestamp(value); err == nil {
			t.Fatalf("expected error for %q", value)
		}
	}
}

func TestParseTimestampRequiresThreeFractionDigits(t *testing.T) {
	for _, value := range []string{"00:00:00.5", "00:00:00.50", "00:00:00.5000", "00:00:00.-50", "00:00:00.1a2"} {
		if _, err := parseTimestamp(value); err == nil {
			t.Fatalf("expected error for %q", value)
		}
	}
	got, err := parseTimestamp("00:00:00.500")
	if err != nil {
		t.Fatal(err)
	}
	if got != 0.5 {
		t.Fatalf("parseTimestamp = %v, want 0.5", got)
	}
}
