package segment

import (
	"reflect"
	"testing"
)

func TestSegmentPaddleConnected(t *testing.T) {
	text := "CAUSE LIST\n1\nC.A. No. 1/2020\nA LTD\nVersus\nB LTD\n1.1 Connected\nMA 5/2020\nC LTD\nVersus\nD LTD\n02\nSLP(C) No. 2/2021\nE LTD\nVersus\nF LTD"
	got := SegmentPaddle(text)
	if keys := got.Keys(); !reflect.DeepEqual(keys, []string{"1", "2"}) {
		t.Fatalf("keys = %v", keys)
	}
	want := "1\nC.A. No. 1/2020\nA LTD\nVersus\nB LTD\n\n--- Connected 1.1 ---\n1.1 Connected\nMA 5/2020\nC LTD\nVersus\nD LTD"
	if v, _ := got.Get("1"); v != want {
		t.Fatalf("case 1 = %q\nwant %q", v, want)
	}
}

func TestSegmentPaddleDriftRepair(t *testing.T) {
	text := "1\nC.A. No. 1/2020\nALPHA LTD\nVersus\nBETA LTD\nSLP(C) No. 2/2021\n2\nGAMMA LTD\nVersus\nDELTA LTD"
	got := SegmentPaddle(text)
	if v, _ := got.Get("1"); v != "1\nC.A. No. 1/2020\nALPHA LTD\nVersus\nBETA LTD" {
		t.Fatalf("case 1 = %q", v)
	}
	if v, _ := got.Get("2"); v != "SLP(C) No. 2/2021\n2\nGAMMA LTD\nVersus\nDELTA LTD" {
		t.Fatalf("case 2 = %q", v)
	}
}

func TestRepairDriftKeepsConnectedSuffix(t *testing.T) {
	c := NewCases()
	c.Set(1, "1\nC.A. No. 1/2020\nALPHA LTD\nVersus\nBETA LTD\nSLP(C) No. 2/2021\n\n--- Connected 1.1 ---\n1.1\nMA 5/2020\nX\nVersus\nY")
	c.Set(2, "2\nGAMMA LTD\nVersus\nDELTA LTD")
	RepairDrift(c)
	if v := c.Text(1); v != "1\nC.A. No. 1/2020\nALPHA LTD\nVersus\nBETA LTD\n\n--- Connected 1.1 ---\n1.1\nMA 5/2020\nX\nVersus\nY" {
		t.Fatalf("case 1 = %q", v)
	}
	if v := c.Text(2); v != "SLP(C) No. 2/2021\n2\nGAMMA LTD\nVersus\nDELTA LTD" {
		t.Fatalf("case 2 = %q", v)
	}
}

func TestRepairDriftIgnoresEarlyOpener(t *testing.T) {
	c := NewCases()
	c.Set(1, "1\nC.A. No. 1/2020\nALPHA LTD\nVersus\nBETA LTD")
	c.Set(2, "2\nGAMMA LTD")
	RepairDrift(c)
	if v := c.Text(2); v != "2\nGAMMA LTD" {
		t.Fatalf("case 2 changed: %q", v)
	}
}

func TestRepairDriftSubCaseFirst(t *testing.T) {
	c := NewCases()
	sub := "--- Connected 1.1 ---\n1.1\nALPHA LTD\nVersus\nBETA LTD\nSLP(C) No. 2/2021"
	c.Set(1, sub)
	c.Set(2, "2\nGAMMA LTD\nVersus\nDELTA LTD")
	RepairDrift(c)
	if v := c.Text(1); v != sub {
		t.Fatalf("case 1 = %q", v)
	}
	if v := c.Text(2); v != "2\nGAMMA LTD\nVersus\nDELTA LTD" {
		t.Fatalf("case 2 = %q", v)
	}
}

func TestSplitParent(t *testing.T) {
	cases := []struct{ text, parent, suffix string }{
		{"--- Connected 1.1 ---\n1.1\nX", "", "--- Connected 1.1 ---\n1.1\nX"},
		{"1\nA\n\n--- Connected 1.1 ---\n1.1", "1\nA", "\n\n--- Connected 1.1 ---\n1.1"},
		{"1\nA", "1\nA", ""},
	}
	for _, c := range cases {
		p, s := splitParent(c.text)
		if p != c.parent || s != c.suffix {
			t.Errorf("splitParent(%q) = %q, %q", c.text, p, s)
		}
	}
}
