// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation for ffmpeg, ffprobe, the selected video codec, and
// the AAC audio encoder.
package check

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/backmassage/shrinkwrap/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool or encoder is missing.
var (
	ErrFfmpegNotFound    = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound   = errors.New("ffprobe not found on PATH")
	ErrVideoEncodeFailed = errors.New("test encode with the selected video codec failed")
	ErrAACEncodeFailed   = errors.New("AAC test encode failed")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints availability of ffmpeg,
// ffprobe, both video encoders, and the AAC encoder. Informational only;
// returns false when anything required is missing.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkFfmpeg(log)
	ok = checkFfprobe(log) && ok
	ok = checkVideoEncoder(log, config.CodecH264) && ok
	if !checkVideoEncoder(log, config.CodecH265) {
		// H265 is optional unless requested; report without failing the check.
		log.Warn("libx265 unavailable; --codec h265 will not work")
	}
	ok = checkAAC(log) && ok
	return ok
}

// checkFfmpeg verifies ffmpeg is on PATH and logs its version string.
func checkFfmpeg(log Logger) bool {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		log.Error("ffmpeg not found")
		return false
	}
	cmd := exec.Command("ffmpeg", "-version")
	out, err := cmd.Output()
	if err != nil {
		log.Warn("ffmpeg found but -version failed: %v", err)
		return false
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("ffmpeg: %s", firstLine)
	return true
}

func checkFfprobe(log Logger) bool {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		log.Error("ffprobe not found")
		return false
	}
	log.Success("ffprobe: found")
	return true
}

// checkVideoEncoder runs a minimal encode to verify the codec backend works.
func checkVideoEncoder(log Logger, codec config.Codec) bool {
	log.Info("Testing %s...", encoderName(codec))
	if runSilent("ffmpeg", videoTestArgs(codec)...) {
		log.Success("%s works", encoderName(codec))
		return true
	}
	log.Error("%s test encode failed", encoderName(codec))
	return false
}

// checkAAC runs a minimal AAC encode to verify the audio encoder works.
func checkAAC(log Logger) bool {
	log.Info("Testing AAC encoder...")
	if runSilent("ffmpeg",
		"-hide_banner", "-nostdin",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", "aac", "-f", "null", "-",
	) {
		log.Success("AAC encoder works")
		return true
	}
	log.Error("AAC encoder test failed")
	return false
}

// CheckDeps is the pre-pipeline validation: it verifies that ffmpeg and
// ffprobe are on PATH, that the selected video codec passes a quick test
// encode, and (when audio is kept) that the AAC encoder works. Returns a
// sentinel error on failure.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFfprobeNotFound
	}

	if !runSilent("ffmpeg", videoTestArgs(cfg.Codec)...) {
		return ErrVideoEncodeFailed
	}

	if !cfg.RemoveAudio {
		if !runSilent("ffmpeg",
			"-hide_banner", "-nostdin", "-loglevel", "error",
			"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
			"-c:a", "aac", "-f", "null", "-",
		) {
			return ErrAACEncodeFailed
		}
	}
	return nil
}

// --- internal helpers ---

func encoderName(codec config.Codec) string {
	if codec == config.CodecH265 {
		return "libx265"
	}
	return "libx264"
}

// videoTestArgs returns the ffmpeg arguments for a minimal test encode with
// the given codec. Shared by RunCheck and CheckDeps.
func videoTestArgs(codec config.Codec) []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", encoderName(codec),
		"-f", "null", "-",
	}
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
