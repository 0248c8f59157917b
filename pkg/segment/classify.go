package segment

import (
	"regexp"
	"strings"
)

// Tag is the layout role of a single line.
type Tag int

const (
	TagEmpty Tag = iota
	TagVersus
	TagIA
	TagAdvocate
	TagStructural
	TagParty
)

var tagNames = [...]string{"EMPTY", "VERSUS", "IA", "ADVOCATE", "STRUCTURAL", "PARTY"}

func (t Tag) String() string {
	if t < 0 || int(t) >= len(tagNames) {
		return "UNKNOWN"
	}
	return tagNames[t]
}

var (
	versusRE   = regexp.MustCompile(`^Versus\b`)
	iaRE       = regexp.MustCompile(`^(?:IA (?:No\.|FOR )|FOR (?:EXEMPTION|ADMISSION|CONDONATION|PERMISSION|GRANT|APPLICATION|MODIFICATION|STAY|CLARIFICATION|APPROPRIATE|I\.R\.)|I\.R\.)`)
	advocateRE = regexp.MustCompile(`\[(?:R|P|CAVEAT)-`)
	// serial prefix, connected delimiter or a case-type opener
	structuralRE = regexp.MustCompile(`^(?:---\s*Connected|\d{1,3}(?:\.\d+)?\s+|C\.A\.|SLP\(|W\.P\.\(|Crl\.A\.|MA\s+\d|Diary\s+No\.)`)
)

// Classify tags one line. Structural openers are only recognised when
// structural is set; otherwise those lines are tagged TagParty.
func Classify(line string, structural bool) Tag {
	s := strings.TrimSpace(line)
	switch {
	case s == "":
		return TagEmpty
	case versusRE.MatchString(s):
		return TagVersus
	case iaRE.MatchString(s):
		return TagIA
	case advocateRE.MatchString(s):
		return TagAdvocate
	case structural && (structuralRE.MatchString(s) || strings.HasPrefix(s, "---")):
		return TagStructural
	}
	return TagParty
}

func classifyLines(lines []string, structural bool) []Tag {
	tags := make([]Tag, len(lines))
	for i, l := range lines {
		tags[i] = Classify(l, structural)
	}
	return tags
}
