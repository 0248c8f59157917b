package segment

// SegmentTesseract segments text produced by Tesseract in single-column mode:
// column dumps are reassembled, then the text is split at serial boundaries,
// orphans are stitched and connected sub-cases merged.
func SegmentTesseract(text string) *Cases {
	m := newMerger(false)
	for _, block := range SplitBlocks(ReassembleColumnDumps(text)) {
		m.add(block)
	}
	return m.cases
}
