package segment

import (
	"reflect"
	"testing"
)

func TestInferSerials(t *testing.T) {
	cases := []struct {
		prev  int
		found []string
		n     int
		want  []string
	}{
		{7, []string{"10", "11"}, 4, []string{"8", "9", "10", "11"}},
		{7, nil, 3, []string{"8", "9", "10"}},
		{7, []string{"8"}, 3, []string{"8", "9", "10"}},
		{0, []string{"3", "4", "5"}, 2, []string{"1", "2"}},
		{9, []string{"10", "11"}, 2, []string{"10", "11"}},
		{4, []string{"5.1", "6"}, 3, []string{"5.1", "6", "7"}},
	}
	for _, c := range cases {
		if got := inferSerials(c.prev, c.found, c.n); !reflect.DeepEqual(got, c.want) {
			t.Errorf("inferSerials(%d, %v, %d) = %v, want %v", c.prev, c.found, c.n, got, c.want)
		}
	}
}

func TestLooksLikeParty(t *testing.T) {
	yes := []string{"ACME LTD", "M/S. RAM & SONS", "STATE OF KERALA\nAND ORS."}
	no := []string{"IA No. 5/2020", "FOR STAY", "Acme Ltd", "ABC", "", "12 ACME", "APPLICATION FOR X"}
	for _, s := range yes {
		if !looksLikeParty(s) {
			t.Errorf("looksLikeParty(%q) = false", s)
		}
	}
	for _, s := range no {
		if looksLikeParty(s) {
			t.Errorf("looksLikeParty(%q) = true", s)
		}
	}
}

func TestFindPartyStart(t *testing.T) {
	block := "C.A. No. 300/2020\nXII\n2020/11\nBAR CORP\nVersus"
	if got, want := findPartyStart(block), len("C.A. No. 300/2020\nXII\n2020/11\n"); got != want {
		t.Fatalf("findPartyStart = %d, want %d", got, want)
	}
	if got := findPartyStart("C.A. No. 1/2020\nII"); got != len("C.A. No. 1/2020\nII") {
		t.Fatalf("no party line should return block length, got %d", got)
	}
}

func TestDistributePartiesSingleFragment(t *testing.T) {
	resp, parties := distributeParties(3, "ONLY PARTY TEXT")
	if resp != "" {
		t.Fatalf("unexpected inline respondent %q", resp)
	}
	if !reflect.DeepEqual(parties, []string{"ONLY PARTY TEXT", "", ""}) {
		t.Fatalf("parties = %q", parties)
	}
}

func TestDistributePartiesMoreBlocksThanFragments(t *testing.T) {
	_, parties := distributeParties(3, "P1 LTD\nVersus\nR1 LTD")
	want := []string{"P1 LTD\nVersus\nR1 LTD", "", ""}
	if !reflect.DeepEqual(parties, want) {
		t.Fatalf("parties = %q, want %q", parties, want)
	}
}

const columnDumpFixture = "9 C.A. No. 100/2020\nFOO LTD\n10\n11\nC.A. No. 200/2020\nC.A. No. 300/2020\nXII\nBAR CORP\n\nBAZ LTD\nVersus\nQUUX LTD\n\nP2 LTD\nVersus\nR2 LTD\n12 C.A. No. 400/2020\nLAST\nVersus\nONE"

func TestReassembleColumnDumps(t *testing.T) {
	want := "9 C.A. No. 100/2020\nFOO LTD\nVersus\nBAR CORP\n" +
		"10 C.A. No. 200/2020\nBAZ LTD\nVersus\nQUUX LTD\n" +
		"11 C.A. No. 300/2020\nXII\nP2 LTD\nVersus\nR2 LTD\n" +
		"12 C.A. No. 400/2020\nLAST\nVersus\nONE"
	if got := ReassembleColumnDumps(columnDumpFixture); got != want {
		t.Fatalf("reassembled:\n%s\n--- want ---\n%s", got, want)
	}
}

func TestReassembleSingleBareNumberPassesThrough(t *testing.T) {
	text := "5 C.A. No. 1/2020\nFOO\n7\nBAR"
	if got := ReassembleColumnDumps(text); got != text {
		t.Fatalf("single bare number must pass through, got %q", got)
	}
}

func TestReassembleWithoutCaseTypesPassesThrough(t *testing.T) {
	text := "5 C.A. No. 1/2020\n10\n11\n12\nfoo bar"
	if got := ReassembleColumnDumps(text); got != text {
		t.Fatalf("zone without case-type openers must pass through, got %q", got)
	}
}
