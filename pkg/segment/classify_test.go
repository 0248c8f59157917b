package segment

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		line       string
		structural bool
		want       Tag
	}{
		{"", false, TagEmpty},
		{"   \t", true, TagEmpty},
		{"Versus", false, TagVersus},
		{"  Versus ACME LTD", true, TagVersus},
		{"IA No. 12/2024", false, TagIA},
		{"IA FOR STAY", false, TagIA},
		{"FOR EXEMPTION FROM FILING O.T.", false, TagIA},
		{"I.R. 44", false, TagIA},
		{"MR. RAVI KUMAR [R-1]", false, TagAdvocate},
		{"[CAVEAT-2] MS. ANU", true, TagAdvocate},
		{"C.A. No. 123/2020", true, TagStructural},
		{"C.A. No. 123/2020", false, TagParty},
		{"--- Connected 4.1 ---", true, TagStructural},
		{"12 SLP(C) No. 4/2021", true, TagStructural},
		{"Diary No. 556/2023", true, TagStructural},
		{"ACME INDUSTRIES LTD", true, TagParty},
	}
	for _, c := range cases {
		if got := Classify(c.line, c.structural); got != c.want {
			t.Errorf("Classify(%q, %v) = %s, want %s", c.line, c.structural, got, c.want)
		}
	}
}
