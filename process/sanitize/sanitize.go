// Package sanitize empties the result cache tables of a Postgres store.
package sanitize

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultTables are the tables written by the gorm store.
const DefaultTables = "documents,cases"

var nameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ParseTables splits a comma-separated table list, dropping blanks and
// anything that is not a plain identifier.
func ParseTables(list string, logger *zap.Logger) []string {
	var out []string
	for _, p := range strings.Split(list, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !nameRe.MatchString(p) {
			logger.Warn("skipping invalid table name", zap.String("table", p))
			continue
		}
		out = append(out, p)
	}
	return out
}

// TruncateStatement builds the TRUNCATE for already validated names.
func TruncateStatement(tables []string) string {
	quoted := make([]string, len(tables))
	for i, t := range tables {
		quoted[i] = `"` + t + `"`
	}
	return fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(quoted, ", "))
}

// Options control a Run.
type Options struct {
	Tables []string
	DryRun bool
	Yes    bool
}

// Run truncates the requested tables that exist. Nothing is executed unless
// DryRun is off and Yes is set; the plan is printed to w either way.
func Run(ctx context.Context, gdb *gorm.DB, opts Options, w io.Writer, logger *zap.Logger) error {
	var existing []string
	for _, t := range opts.Tables {
		var cnt int64
		if err := gdb.WithContext(ctx).Raw("SELECT count(*) FROM pg_tables WHERE schemaname = 'public' AND tablename = ?", t).Scan(&cnt).Error; err != nil {
			return fmt.Errorf("query pg_tables for %s: %w", t, err)
		}
		if cnt == 0 {
			logger.Info("table not found, skipping", zap.String("table", t))
			continue
		}
		existing = append(existing, t)
	}
	if len(existing) == 0 {
		fmt.Fprintln(w, "no requested tables present in the database; nothing to do")
		return nil
	}

	fmt.Fprintln(w, "Tables considered for truncation:")
	for _, t := range existing {
		fmt.Fprintf(w, " - %s\n", t)
	}
	if opts.DryRun {
		fmt.Fprintln(w, "dry-run enabled; no changes will be made. Use -dry-run=false -yes to execute.")
		return nil
	}
	if !opts.Yes {
		fmt.Fprintln(w, "Destructive operation. Pass -yes to confirm execution. Aborting.")
		return nil
	}

	stmt := TruncateStatement(existing)
	logger.Info("executing", zap.String("stmt", stmt))
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := gdb.WithContext(ctx).Exec(stmt).Error; err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	fmt.Fprintln(w, "Truncate completed.")
	return nil
}
