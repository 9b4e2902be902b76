// Package models resolves whisper.cpp model names to local files,
// downloading them on demand.
//
// A Manager owns a single on-disk model directory. Construct one manager
// per process and share it by reference; directory setup is guarded so
// concurrent first use runs it exactly once. Downloads stream to a
// temporary file, take a per-model file lock so concurrent processes do
// not clobber each other, and are retried with backoff.
package models
