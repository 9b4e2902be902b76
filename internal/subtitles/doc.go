// Package subtitles models timed-text tracks as ordered Segment sequences
// and provides codecs for the WebVTT and SubRip grammars.
//
// Codecs are pure data transformations: Format renders segments in the
// variant's exact timestamp grammar and Parse tolerates header lines,
// either fractional separator on input, and skips malformed cue blocks
// instead of failing. New maps a format name (with aliases) to a codec,
// and Convert chains Parse and Format across variants.
package subtitles
