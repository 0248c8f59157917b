package segment

import (
	"regexp"
	"strings"
)

// serial line with an optional trailing dot and stray "=" before the text
var noiseRE = regexp.MustCompile(`^(\s*)(\d{1,3}(?:\.\d+)?)\.?\s+[=\s]*(.*)$`)

// NormalizeNoiseLine rewrites Tesseract misreads of a serial line:
//
//	"14 =C.A. No. 2560/2020"    -> "14 C.A. No. 2560/2020"
//	"15. SLP(C) No. 11727/2020" -> "15 SLP(C) No. 11727/2020"
//
// Other lines are returned unchanged. The rewrite is idempotent.
func NormalizeNoiseLine(line string) string {
	m := noiseRE.FindStringSubmatch(line)
	if m == nil {
		return line
	}
	return m[1] + m[2] + " " + m[3]
}

// NormalizeNoise applies NormalizeNoiseLine to every line of text.
func NormalizeNoise(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = NormalizeNoiseLine(l)
	}
	return strings.Join(lines, "\n")
}
