package segment

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// a line holding only a serial, or a serial followed by "Connected"
	paddleSerialRE = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)(?:\s*$|\s*Connected\b)`)
	driftOpenerRE  = regexp.MustCompile(`(?m)^(?:C\.A\. No\.|SLP\(C\) No\.|MA\s+\d+/\d+|Diary No\.)`)
)

// driftThreshold is the fraction of a parent block past which a trailing
// case-type opener is taken to belong to the next case.
const driftThreshold = 0.6

// paddleSerial reports whether line opens a case in PaddleOCR output. Paddle
// usually isolates the serial column on its own line; inline serials are
// accepted too.
func paddleSerial(line string) (Serial, bool) {
	if m := paddleSerialRE.FindStringSubmatch(line); m != nil {
		return parseSerialToken(m[1])
	}
	if s := strings.TrimSpace(line); isInlineSerialLine(s) {
		return ParseSerial(s)
	}
	return Serial{}, false
}

// SegmentPaddle segments PaddleOCR output. Blocks run from one serial line to
// the next; text before the first serial is dropped. Connected sub-cases are
// merged into their parent, then layout drift is repaired.
func SegmentPaddle(text string) *Cases {
	lines := strings.Split(text, "\n")
	type mark struct {
		line   int
		serial Serial
	}
	var marks []mark
	for i, l := range lines {
		if s, ok := paddleSerial(l); ok {
			marks = append(marks, mark{line: i, serial: s})
		}
	}

	m := newMerger(true)
	for k, mk := range marks {
		end := len(lines)
		if k+1 < len(marks) {
			end = marks[k+1].line
		}
		block := strings.TrimSpace(strings.Join(lines[mk.line:end], "\n"))
		m.addSerial(mk.serial, block)
	}
	RepairDrift(m.cases)
	return m.cases
}

// RepairDrift moves a case-type opener that OCR placed at the tail of one
// case's parent text to the front of the next case. Only the parent portion,
// before any connected sub-case, is scanned; the connected suffix is kept.
func RepairDrift(cases *Cases) {
	keys := cases.SortedMains()
	for i := 0; i+1 < len(keys); i++ {
		cur, next := keys[i], keys[i+1]
		parent, suffix := splitParent(cases.Text(cur))

		openers := driftOpenerRE.FindAllStringIndex(parent, -1)
		if len(openers) == 0 {
			continue
		}
		at := openers[len(openers)-1][0]
		if float64(utf8.RuneCountInString(parent[:at])) <= driftThreshold*float64(utf8.RuneCountInString(parent)) {
			continue
		}
		trailing := strings.TrimSpace(parent[at:])
		cases.Set(cur, strings.TrimSpace(parent[:at])+suffix)
		cases.Set(next, trailing+"\n"+cases.Text(next))
	}
}

// splitParent separates a case's own text from its connected sub-cases.
func splitParent(text string) (string, string) {
	if strings.HasPrefix(text, connectedPrefix) {
		return "", text
	}
	if at := strings.Index(text, "\n\n"+connectedPrefix); at >= 0 {
		return text[:at], text[at:]
	}
	return text, ""
}
