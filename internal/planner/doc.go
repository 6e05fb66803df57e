// Package planner turns a compression request and probed metadata into the
// immutable plan the ffmpeg package executes: a bitrate budget, a resolution
// decision, and a video filter chain. It also verifies the realized output
// size against the target.
//
// Every function here is pure: identical inputs always yield identical plans,
// and no state survives between invocations.
package planner
