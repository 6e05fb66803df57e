// Package ffmpeg builds per-pass encoder argument lists and orchestrates the
// two-pass encode.
//
// The two passes share one argument skeleton so the rate-control statistics
// from the analysis pass stay valid for the final pass; only the pass number,
// audio handling, and sink differ. Execution goes through the Runner
// capability interface so tests can substitute a fake encoder.
package ffmpeg
