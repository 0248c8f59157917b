package segment

import "strings"

// merger stitches split blocks into Cases. Blocks without a serial are
// orphans and join the most recently keyed case; connected sub-cases are
// folded into their parent under a "--- Connected m.s ---" delimiter.
type merger struct {
	cases   *Cases
	last    int
	hasLast bool
	// prependParent puts a parent block in front of connected text that
	// reached its key first, keeping party content at the top.
	prependParent bool
}

func newMerger(prependParent bool) *merger {
	return &merger{cases: NewCases(), prependParent: prependParent}
}

func (m *merger) add(block string) {
	s, ok := ParseSerial(block)
	if !ok {
		if m.hasLast {
			m.cases.Append(m.last, "\n\n", block)
		}
		return
	}
	m.addSerial(s, block)
	m.last, m.hasLast = s.Main, true
}

func (m *merger) addSerial(s Serial, block string) {
	switch {
	case s.HasSub:
		m.cases.Append(s.Main, "\n\n", connectedHeader(s)+"\n"+block)
	case m.prependParent && strings.HasPrefix(m.cases.Text(s.Main), connectedPrefix):
		m.cases.Prepend(s.Main, "\n\n", block)
	default:
		m.cases.Append(s.Main, "\n\n", block)
	}
}
