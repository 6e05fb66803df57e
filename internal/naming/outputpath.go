// Package naming builds the canonical output filename for a compression.
//
// The name encodes the request so outputs from different runs against the
// same source never collide:
//
//	<basename>_compressed_<targetMB>MB_<height>p[_<codec>][_<fps>fps][_nosound].<ext>
//
// The codec tag appears only for non-default codecs and the fps tag only
// when the user overrode the framerate.
package naming

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/backmassage/shrinkwrap/internal/config"
)

// OutputPath returns the full output path for a compression. When outputDir
// is empty the output lands alongside the input file.
func OutputPath(inputPath, outputDir string, targetMB float64, finalHeight int,
	codec config.Codec, frameRate string, removeAudio bool) string {

	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)

	var b strings.Builder
	fmt.Fprintf(&b, "%s_compressed_%sMB_%dp", base, FormatTargetMB(targetMB), finalHeight)
	if codec != config.CodecH264 {
		b.WriteString("_" + string(codec))
	}
	if frameRate != "" {
		b.WriteString("_" + sanitizeRate(frameRate) + "fps")
	}
	if removeAudio {
		b.WriteString("_nosound")
	}
	b.WriteString(ext)

	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(inputPath)
	}
	return filepath.Join(dir, b.String())
}

// FormatTargetMB renders a target size without trailing zeros ("10", "7.5").
func FormatTargetMB(mb float64) string {
	return strconv.FormatFloat(mb, 'f', -1, 64)
}

// sanitizeRate makes a rational framerate filename-safe ("30000/1001" ->
// "30000-1001").
func sanitizeRate(rate string) string {
	return strings.ReplaceAll(rate, "/", "-")
}
