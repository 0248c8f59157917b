package sanitize

import (
	"reflect"
	"testing"

	"go.uber.org/zap"
)

func TestParseTables(t *testing.T) {
	got := ParseTables(" documents, ,cases;drop,9bad,_tmp ", zap.NewNop())
	if want := []string{"documents", "_tmp"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseTables = %v, want %v", got, want)
	}
}

func TestTruncateStatement(t *testing.T) {
	got := TruncateStatement([]string{"documents", "cases"})
	if want := `TRUNCATE TABLE "documents", "cases" RESTART IDENTITY CASCADE`; got != want {
		t.Fatalf("stmt = %s", got)
	}
}
