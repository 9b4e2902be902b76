// Package main hosts the subtitle CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into calls
// against the internal packages: single-file generation, batch processing,
// model cache management, format conversion, and run history inspection. It
// centralizes configuration resolution and structured logging setup so
// subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
