package segment

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Serial is a case number: Main for the top-level matter and, when HasSub is
// set, Sub for a connected matter filed under it.
type Serial struct {
	Main   int
	Sub    int
	HasSub bool
}

// Key is the mapping key for the serial: its main number, without leading zeros.
func (s Serial) Key() string { return strconv.Itoa(s.Main) }

func (s Serial) String() string {
	if s.HasSub {
		return fmt.Sprintf("%d.%d", s.Main, s.Sub)
	}
	return s.Key()
}

// connectedHeader is the delimiter that wraps a connected sub-case inside its
// parent's text.
func connectedHeader(s Serial) string {
	return fmt.Sprintf("--- Connected %d.%d ---", s.Main, s.Sub)
}

const connectedPrefix = "--- Connected"

var (
	serialPrefixRE  = regexp.MustCompile(`^\d{1,3}(?:\.\d+)?\s+`)
	leadingSerialRE = regexp.MustCompile(`^(\d{1,3})(?:\.(\d+))?\s+`)
	serialTokenRE   = regexp.MustCompile(`^(\d+)(?:\.(\d+))?$`)
)

// startsNoToken matches "No." style tokens that follow a number in phrases
// like "IA No." or "SLP(C) No. 2218/2023" and never open a case.
func startsNoToken(s string) bool {
	return strings.HasPrefix(s, "No.") || strings.HasPrefix(s, "no.") || strings.HasPrefix(s, "NO.")
}

// startsCase reports whether s, read from the start of a line, opens a case:
// a 1-3 digit serial (optionally .sub), whitespace that may run onto the next
// line, then an uppercase letter or opening bracket that is not "No.".
func startsCase(s string) bool {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	loc := serialPrefixRE.FindStringIndex(s)
	if loc == nil {
		return false
	}
	rest := s[loc[1]:]
	if rest == "" || startsNoToken(rest) {
		return false
	}
	switch c := rest[0]; {
	case c >= 'A' && c <= 'Z', c == '(', c == '{', c == '[':
		return true
	}
	return false
}

// isInlineSerialLine applies the case boundary test to a single stripped line.
func isInlineSerialLine(line string) bool {
	return line != "" && startsCase(line)
}

// ParseSerial reads the leading serial of a block. Blocks whose number is
// followed by a "No." token, or that carry no number, have no serial.
func ParseSerial(block string) (Serial, bool) {
	b := strings.TrimLeftFunc(block, unicode.IsSpace)
	m := leadingSerialRE.FindStringSubmatchIndex(b)
	if m == nil || startsNoToken(b[m[1]:]) {
		return Serial{}, false
	}
	main, _ := strconv.Atoi(b[m[2]:m[3]])
	s := Serial{Main: main}
	if m[4] >= 0 {
		sub, err := strconv.Atoi(b[m[4]:m[5]])
		if err != nil {
			return Serial{}, false
		}
		s.Sub, s.HasSub = sub, true
	}
	return s, true
}

// parseSerialToken parses a bare "12" or "12.3" token.
func parseSerialToken(tok string) (Serial, bool) {
	m := serialTokenRE.FindStringSubmatch(tok)
	if m == nil {
		return Serial{}, false
	}
	main, err := strconv.Atoi(m[1])
	if err != nil {
		return Serial{}, false
	}
	s := Serial{Main: main}
	if m[2] != "" {
		sub, err := strconv.Atoi(m[2])
		if err != nil {
			return Serial{}, false
		}
		s.Sub, s.HasSub = sub, true
	}
	return s, true
}

// mainOf returns the main number of a serial token such as "10" or "10.2".
func mainOf(tok string) int {
	if i := strings.IndexByte(tok, '.'); i >= 0 {
		tok = tok[:i]
	}
	n, _ := strconv.Atoi(tok)
	return n
}

// SplitBlocks cuts text into candidate case blocks at every line that opens a
// case (see startsCase). Blocks are trimmed and empty blocks dropped.
func SplitBlocks(text string) []string {
	var blocks []string
	start := 0
	for pos := 0; pos < len(text); {
		end := strings.IndexByte(text[pos:], '\n')
		if end < 0 {
			end = len(text)
		} else {
			end += pos
		}
		if pos > start && strings.TrimSpace(text[pos:end]) != "" && startsCase(text[pos:]) {
			blocks = appendTrimmed(blocks, text[start:pos])
			start = pos
		}
		pos = end + 1
	}
	return appendTrimmed(blocks, text[start:])
}

func appendTrimmed(blocks []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		blocks = append(blocks, s)
	}
	return blocks
}
