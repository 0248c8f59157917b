package segment

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	bareSerialRE     = regexp.MustCompile(`^\d{1,3}(?:\.\d+)?$`)
	caseOpenerRE     = regexp.MustCompile(`^(?:C\.A\.|SLP\(|W\.P\.\(|Crl\.A\.|MA\s+\d|Diary\s+No\.)`)
	caseOpenerLineRE = regexp.MustCompile(`(?m)^(?:C\.A\.|SLP\(|W\.P\.\(|Crl\.A\.|MA\s+\d|Diary\s+No\.)`)
	benchCodeRE      = regexp.MustCompile(`^(?:[IVX]+-?[A-Z]?|[A-Z]{1,3}|Il|PIL-\w+)$`)
	numberingRE      = regexp.MustCompile(`^[\d\-/,]+$`)
	versusSplitRE    = regexp.MustCompile(`\n[ \t]*Versus[ \t]*\n`)
	paragraphRE      = regexp.MustCompile(`\n\n+`)
	partyNameRE      = regexp.MustCompile(`^[A-Z][A-Z0-9\s.,&/@\-()'"]+$`)
)

// paragraphs starting with these are applications, case numbers or remarks,
// never party names
var partySkipPrefixes = []string{
	"IA ", "FOR ", "IN ", "I.R.", "SLP", "C.A.", "Diary", "W.P.", "Crl.",
	"FILING", "C/C", "AFFIDAVIT", "CONDONATION", "EXEMPTION", "PERMISSION",
	"CLARIFICATION", "STAY", "RELIEF", "APPLICATION", "MODIFICATION",
	"No.", "ADDL", "LENGTHY", "ADDITIONAL",
}

// ReassembleColumnDumps repairs zones where Tesseract read the cause-list
// table column by column. Such a zone starts with a run of at least two bare
// serial lines, continues with case-type lines without serials and ends with
// the party column. The zone is rewritten as ordinary "<serial> <case type>"
// entries with their parties re-attached. Noise normalization runs first.
//
// Party text interleaved with advocate names cannot be re-attached reliably;
// such text stays with whichever case it lands in.
func ReassembleColumnDumps(text string) string {
	lines := strings.Split(NormalizeNoise(text), "\n")
	out := make([]string, 0, len(lines))
	lastInline := 0

	for i := 0; i < len(lines); {
		s := strings.TrimSpace(lines[i])
		if isInlineSerialLine(s) {
			lastInline = mainOf(strings.Fields(s)[0])
			out = append(out, lines[i])
			i++
			continue
		}
		if s != "" && bareSerialRE.MatchString(s) {
			if z, ok := readDumpZone(lines, i, lastInline); ok {
				out = append(out, z.emit()...)
				lastInline = z.lastMain()
				i = z.end
				continue
			}
		}
		out = append(out, lines[i])
		i++
	}
	return strings.Join(out, "\n")
}

// dumpZone is one reconstructed column-dump zone.
type dumpZone struct {
	serials    []string
	blocks     []string // case-type blocks, one per serial
	parties    []string // party text per block, may be empty
	inlineResp string   // respondent owed to the inline case before the zone
	end        int      // line index where scanning resumes
}

// readDumpZone tries to read a zone whose bare serial run starts at line i.
func readDumpZone(lines []string, i, lastInline int) (*dumpZone, bool) {
	j := i
	var found []string
	for ; j < len(lines); j++ {
		s := strings.TrimSpace(lines[j])
		if s == "" {
			continue
		}
		if !bareSerialRE.MatchString(s) {
			break
		}
		found = append(found, s)
	}
	if len(found) < 2 {
		return nil, false
	}

	end := j
	for end < len(lines) && !isInlineSerialLine(strings.TrimSpace(lines[end])) {
		end++
	}
	content := strings.Join(lines[j:end], "\n")
	openers := caseOpenerLineRE.FindAllStringIndex(content, -1)
	blocks := splitCaseTypeBlocks(content, openers)
	if len(blocks) == 0 {
		return nil, false
	}

	z := &dumpZone{
		serials: inferSerials(lastInline, found, len(blocks)),
		blocks:  blocks,
		parties: make([]string, len(blocks)),
		end:     end,
	}

	last := openers[len(openers)-1][0]
	lastBlock := content[last:]
	var party string
	if ps := findPartyStart(lastBlock); ps < len(lastBlock) {
		party = strings.TrimSpace(content[last+ps:])
		z.blocks[len(z.blocks)-1] = strings.TrimSpace(lastBlock[:ps])
	}
	if party != "" {
		z.inlineResp, z.parties = distributeParties(len(z.blocks), party)
	}
	return z, true
}

func (z *dumpZone) emit() []string {
	var out []string
	if z.inlineResp != "" {
		out = append(out, "Versus\n"+z.inlineResp)
	}
	for k, serial := range z.serials {
		combined := z.blocks[k]
		if z.parties[k] != "" {
			combined += "\n" + z.parties[k]
		}
		out = append(out, serial+" "+combined)
	}
	return out
}

func (z *dumpZone) lastMain() int {
	return mainOf(z.serials[len(z.serials)-1])
}

// splitCaseTypeBlocks cuts content at each case-type opener. Text before the
// first opener is not part of any block.
func splitCaseTypeBlocks(content string, openers [][]int) []string {
	var blocks []string
	for k, o := range openers {
		end := len(content)
		if k+1 < len(openers) {
			end = openers[k+1][0]
		}
		blocks = appendTrimmed(blocks, content[o[0]:end])
	}
	return blocks
}

// inferSerials builds the serial list for a zone of n case blocks. Serials
// missing between the last inline serial and the smallest recovered bare
// serial are filled in, recovered serials follow, and the list is extended
// or cut to n.
//
//	inferSerials(7, ["10", "11"], 4) == ["8", "9", "10", "11"]
func inferSerials(prev int, found []string, n int) []string {
	out := make([]string, 0, n)
	if len(found) == 0 {
		for k := 1; k <= n; k++ {
			out = append(out, strconv.Itoa(prev+k))
		}
		return out
	}
	first := mainOf(found[0])
	for _, f := range found[1:] {
		first = min(first, mainOf(f))
	}
	for k := prev + 1; k < first; k++ {
		out = append(out, strconv.Itoa(k))
	}
	out = append(out, found...)
	last := mainOf(out[len(out)-1])
	for len(out) < n {
		last++
		out = append(out, strconv.Itoa(last))
	}
	return out[:n]
}

// findPartyStart returns the byte offset in the last case-type block where
// party names begin, skipping the case-type header, bench codes and pure
// numbering lines. It returns len(block) when no party line follows.
func findPartyStart(block string) int {
	pos, seen := 0, false
	for _, line := range strings.Split(block, "\n") {
		s := strings.TrimSpace(line)
		switch {
		case s == "":
		case caseOpenerRE.MatchString(s):
			seen = true
		case seen && (benchCodeRE.MatchString(s) || numberingRE.MatchString(s)):
		case seen:
			return pos
		}
		pos += len(line) + 1
	}
	return len(block)
}

// distributeParties splits the party column on "Versus" lines and deals the
// pieces out to n case blocks. It returns the respondent that belongs to the
// inline case preceding the zone, if any, and one party text per block.
func distributeParties(n int, party string) (string, []string) {
	parties := make([]string, n)
	frags := versusSplitRE.Split(party, -1)
	if len(frags) < 2 {
		parties[0] = party
		return "", parties
	}

	inlineResp, firstPet := splitLeadFragment(frags[0])
	for i := 0; i < n; i++ {
		pet := firstPet
		if i > 0 {
			pet = ""
			if i < len(frags) {
				_, pet = splitRespondentFragment(frags[i])
			}
		}
		var resp string
		if i+1 < len(frags) {
			resp, _ = splitRespondentFragment(frags[i+1])
		}
		switch {
		case pet != "" && resp != "":
			parties[i] = pet + "\nVersus\n" + resp
		case pet != "":
			parties[i] = pet
		case resp != "":
			parties[i] = "Versus\n" + resp
		}
	}
	return inlineResp, parties
}

// splitLeadFragment splits the text before the first "Versus" into the
// previous inline case's respondent and the first zone case's petitioner.
// A single party paragraph is the petitioner.
func splitLeadFragment(text string) (string, string) {
	paras := paragraphRE.Split(strings.TrimSpace(text), -1)
	last := lastPartyParagraph(paras)
	if last <= 0 {
		return "", strings.TrimSpace(text)
	}
	return joinParagraphs(paras[:last]), joinParagraphs(paras[last:])
}

// splitRespondentFragment splits a between-"Versus" fragment into the
// respondent with its applications and the next case's petitioner. When the
// last party paragraph opens the fragment the whole fragment is respondent.
func splitRespondentFragment(text string) (string, string) {
	paras := paragraphRE.Split(strings.TrimSpace(text), -1)
	last := lastPartyParagraph(paras)
	if last <= 0 {
		return strings.TrimSpace(text), ""
	}
	return joinParagraphs(paras[:last]), joinParagraphs(paras[last:])
}

func lastPartyParagraph(paras []string) int {
	for i := len(paras) - 1; i >= 0; i-- {
		if looksLikeParty(paras[i]) {
			return i
		}
	}
	return -1
}

func joinParagraphs(paras []string) string {
	return strings.TrimSpace(strings.Join(paras, "\n\n"))
}

// looksLikeParty reports whether the first line of text reads as a litigant
// name: uppercase, not an application or case-number prefix, at least four
// characters.
func looksLikeParty(text string) bool {
	fl := strings.TrimSpace(text)
	if i := strings.IndexByte(fl, '\n'); i >= 0 {
		fl = strings.TrimSpace(fl[:i])
	}
	if fl == "" {
		return false
	}
	if r, _ := utf8.DecodeRuneInString(fl); !unicode.IsUpper(r) {
		return false
	}
	for _, p := range partySkipPrefixes {
		if strings.HasPrefix(fl, p) {
			return false
		}
	}
	return partyNameRE.MatchString(fl) && len(fl) >= 4
}
