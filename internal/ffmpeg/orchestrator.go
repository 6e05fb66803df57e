package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/backmassage/shrinkwrap/internal/config"
	"github.com/backmassage/shrinkwrap/internal/planner"
)

// ErrEncodeFailed indicates an encoder pass exited non-zero. Fatal, never
// retried automatically: a failed pass almost always means a bad input or
// missing codec support, not a transient condition.
var ErrEncodeFailed = errors.New("encode failed")

// PassError wraps a failed pass with its captured stderr so the caller can
// surface the encoder's own diagnostics. It unwraps to ErrEncodeFailed.
type PassError struct {
	Pass   int
	Stderr string
	Err    error
}

func (e *PassError) Error() string {
	return fmt.Sprintf("pass %d: %v", e.Pass, e.Err)
}

func (e *PassError) Unwrap() error { return ErrEncodeFailed }

// JobSpec carries everything both passes share. The orchestrator expands it
// into the matched pass-1/pass-2 EncodeJob pair.
type JobSpec struct {
	InputPath  string
	OutputPath string

	VideoKbps      int
	AudioKbps      int // 0 strips audio from the final pass.
	FrameRate      string
	Codec          config.Codec
	Filters        planner.FilterChain
	FullRangeInput bool
}

// Result describes a completed encode.
type Result struct {
	OutputPath   string
	ActualSizeMB float64
}

// Orchestrator runs the strictly sequential two-pass encode: the analysis
// pass writes rate-control statistics that the final pass consumes. It owns
// the pass-log artifacts and removes them on every exit path, success,
// failure, or cancellation alike.
type Orchestrator struct {
	runner Runner
	logDir string
}

// NewOrchestrator returns an Orchestrator that executes via runner and keeps
// pass logs in the system temp directory.
func NewOrchestrator(runner Runner) *Orchestrator {
	return &Orchestrator{runner: runner, logDir: os.TempDir()}
}

// BuildPassJobs constructs the matched job pair for spec. Both jobs share
// every encoding parameter and the pass-log prefix; they differ only in pass
// number, audio handling, and sink.
func BuildPassJobs(spec JobSpec, passLogPrefix string) (analysis, final *EncodeJob) {
	base := EncodeJob{
		InputPath:      spec.InputPath,
		VideoKbps:      spec.VideoKbps,
		FrameRate:      spec.FrameRate,
		Codec:          spec.Codec,
		Filters:        spec.Filters,
		FullRangeInput: spec.FullRangeInput,
		AudioKbps:      spec.AudioKbps,
		PassLogPrefix:  passLogPrefix,
	}

	a := base
	a.Pass = PassAnalysis
	a.Sink = os.DevNull

	f := base
	f.Pass = PassFinal
	f.Sink = spec.OutputPath

	return &a, &f
}

// Encode runs both passes and stats the finished output. On any failure the
// partial output file is removed, so either both passes complete and the
// output exists, or nothing is left behind.
func (o *Orchestrator) Encode(ctx context.Context, spec JobSpec) (Result, error) {
	// Unique prefix per invocation so concurrent runs can never clobber
	// each other's rate-control logs. The glob also catches the .mbtree
	// companion file x264/x265 write next to the log.
	prefix := filepath.Join(o.logDir, "shrinkwrap-"+uuid.NewString())
	defer removePassLogs(prefix)

	analysis, final := BuildPassJobs(spec, prefix)

	if res := o.runner.Run(ctx, BuildArgs(analysis)); res.Err != nil {
		return Result{}, &PassError{Pass: PassAnalysis, Stderr: res.Stderr, Err: res.Err}
	}

	if res := o.runner.Run(ctx, BuildArgs(final)); res.Err != nil {
		os.Remove(spec.OutputPath)
		return Result{}, &PassError{Pass: PassFinal, Stderr: res.Stderr, Err: res.Err}
	}

	fi, err := os.Stat(spec.OutputPath)
	if err != nil {
		return Result{}, fmt.Errorf("stat output %q: %w", spec.OutputPath, err)
	}

	return Result{
		OutputPath:   spec.OutputPath,
		ActualSizeMB: float64(fi.Size()) / (1024 * 1024),
	}, nil
}

// removePassLogs deletes the pass-log file and any companion side files
// sharing the prefix.
func removePassLogs(prefix string) {
	matches, _ := filepath.Glob(prefix + "*")
	for _, m := range matches {
		os.Remove(m)
	}
}
