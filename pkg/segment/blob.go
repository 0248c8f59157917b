package segment

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	versusWordRE   = regexp.MustCompile(`\bVersus\b`)
	inlineVersusRE = regexp.MustCompile(`^Versus\s+\S`)
)

const connectedSectionMarker = "\n--- Connected "

func countVersus(s string) int {
	return len(versusWordRE.FindAllStringIndex(s, -1))
}

// redistributeBlobs finds runs of stub cases (no "Versus") directly followed
// by a blob owner (two or more "Versus") and moves the owner's surplus
// petitioner/respondent units back to the stubs, in ascending serial order.
func redistributeBlobs(cases *Cases) {
	keys := cases.SortedMains()
	isStub := func(k int) bool { return countVersus(cases.Text(k)) == 0 }

	for i := 0; i < len(keys); {
		if !isStub(keys[i]) {
			i++
			continue
		}
		j := i
		for j < len(keys) && isStub(keys[j]) {
			j++
		}
		if j >= len(keys) {
			return
		}
		redistributeRun(cases, keys[i:j], keys[j])
		i = j + 1
	}
}

func redistributeRun(cases *Cases, stubs []int, owner int) {
	sections := splitConnectedSections(cases.Text(owner))
	idx := -1
	for k := len(sections) - 1; k >= 0; k-- {
		if countVersus(sections[k]) >= 2 {
			idx = k
			break
		}
	}
	if idx < 0 {
		return
	}

	section := sections[idx]
	start := findBlobStart(section)
	header := strings.TrimRightFunc(section[:start], unicode.IsSpace)
	blocks := splitBlob(section[start:])
	if len(blocks) == 0 {
		return
	}

	for k, stub := range stubs {
		if k >= len(blocks) {
			break
		}
		cases.Set(stub, insertBeforeConnected(cases.Text(stub), blocks[k]))
	}

	rest := header
	if len(blocks) > len(stubs) {
		rest += "\n" + strings.Join(blocks[len(stubs):], "\n")
	}
	sections[idx] = strings.TrimSpace(rest)

	kept := sections[:0]
	for _, s := range sections {
		if strings.TrimSpace(s) != "" {
			kept = append(kept, s)
		}
	}
	cases.Set(owner, strings.Join(kept, "\n"))
}

// splitConnectedSections cuts text before every connected delimiter:
// [parent, "\n--- Connected a.b ---...", ...].
func splitConnectedSections(text string) []string {
	var sections []string
	start := 0
	for start < len(text) {
		at := strings.Index(text[start+1:], connectedSectionMarker)
		if at < 0 {
			break
		}
		at += start + 1
		sections = append(sections, text[start:at])
		start = at
	}
	return append(sections, text[start:])
}

// insertBeforeConnected adds block to a stub above its connected sub-cases.
func insertBeforeConnected(text, block string) string {
	if at := strings.Index(text, "\n"+connectedPrefix); at >= 0 {
		return strings.TrimRightFunc(text[:at], unicode.IsSpace) + "\n" + block + text[at:]
	}
	return strings.TrimRightFunc(text, unicode.IsSpace) + "\n" + block
}

// findBlobStart returns the byte offset where the redistributable blob begins
// in a section. It is the later of two independent estimates: the backward
// walk protects the section's own structural header, the forward scan
// protects the owner's own advocate/IA preamble.
func findBlobStart(text string) int {
	lines := strings.Split(text, "\n")
	tags := classifyLines(lines, true)
	first := -1
	for i, t := range tags {
		if t == TagVersus {
			first = i
			break
		}
	}
	if first < 0 {
		return len(text)
	}
	start := max(lineOffset(lines, blobStartBackward(tags, first)), lineOffset(lines, blobStartForward(tags)))
	return min(start, len(text))
}

// blobStartBackward walks back from the first "Versus" line over party and
// blank lines and returns the line after the nearest structural, IA,
// advocate or "Versus" line, skipping blanks. It returns 0 when the walk
// reaches the top.
func blobStartBackward(tags []Tag, first int) int {
	for k := first - 1; k >= 0; k-- {
		switch tags[k] {
		case TagStructural, TagIA, TagAdvocate, TagVersus:
			k++
			for k < first && tags[k] == TagEmpty {
				k++
			}
			return k
		}
	}
	return 0
}

// blobStartForward skips the leading structural/blank run and any advocate or
// IA lines right after it. It returns the line after that preamble, or 0 when
// there is no preamble.
func blobStartForward(tags []Tag) int {
	structEnd := 0
	for i := 0; i < len(tags) && (tags[i] == TagStructural || tags[i] == TagEmpty); i++ {
		structEnd = i
	}
	preambleEnd := structEnd
	for j := structEnd + 1; j < len(tags); j++ {
		if tags[j] == TagAdvocate || tags[j] == TagIA {
			preambleEnd = j
			continue
		}
		if tags[j] != TagEmpty {
			break
		}
	}
	if preambleEnd > structEnd {
		return preambleEnd + 1
	}
	return 0
}

// lineOffset is the byte offset of line n.
func lineOffset(lines []string, n int) int {
	off := 0
	for _, l := range lines[:min(n, len(lines))] {
		off += len(l) + 1
	}
	return off
}

// splitBlob splits a blob into petitioner/Versus/respondent units. Between
// two consecutive "Versus" lines the earlier respondent ends, and the later
// petitioner begins, at the second party line once IA and advocate lines are
// passed; an inline "Versus NAME" already carries its respondent.
func splitBlob(blob string) []string {
	lines := strings.Split(blob, "\n")
	tags := classifyLines(lines, false)

	var versus []int
	for i, t := range tags {
		if t == TagVersus {
			versus = append(versus, i)
		}
	}
	if len(versus) == 0 {
		return appendTrimmed(nil, blob)
	}

	starts := []int{0}
	for k := 1; k < len(versus); k++ {
		prev, cur := versus[k-1], versus[k]
		end := prev
		found := inlineVersusRE.MatchString(strings.TrimSpace(lines[prev]))
	scan:
		for j := prev + 1; j < cur; j++ {
			switch t := tags[j]; {
			case t == TagEmpty:
			case t == TagParty && !found:
				end, found = j, true
			case t == TagIA || t == TagAdvocate:
				end, found = j, true
			case t == TagParty:
				break scan
			}
		}
		ps := end + 1
		for ps < cur && tags[ps] == TagEmpty {
			ps++
		}
		starts = append(starts, ps)
	}

	var blocks []string
	for k, s := range starts {
		end := len(lines)
		if k+1 < len(starts) {
			end = starts[k+1]
		}
		blocks = appendTrimmed(blocks, strings.Join(lines[s:end], "\n"))
	}
	return blocks
}
