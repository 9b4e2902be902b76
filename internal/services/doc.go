// Package services holds the error classification markers shared by the
// pipeline components, the Wrap helper that tags failures with those
// markers, and the Retry helper that wraps network-bound operations with
// capped exponential backoff.
package services
