package segment

import "regexp"

var pageMarkerRE = regexp.MustCompile(`\n*=== PAGE \d+ ===\n*`)

// StripPageMarkers replaces "=== PAGE n ===" markers, and the blank lines
// around them, with a single newline.
func StripPageMarkers(text string) string {
	return pageMarkerRE.ReplaceAllString(text, "\n")
}

// SegmentAzure segments Azure layout output. Reading order is already row
// major, so the text is split directly; a parent block arriving after its
// connected sub-cases is prepended. Blobs of party text swallowed by one case
// are then redistributed to the stub cases that lost them.
func SegmentAzure(text string) *Cases {
	m := newMerger(true)
	for _, block := range SplitBlocks(StripPageMarkers(text)) {
		m.add(block)
	}
	redistributeBlobs(m.cases)
	return m.cases
}
