package review

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// AuditLog appends review findings to per-file log files. It is an
// append-only artifact for humans; failures to write never affect the
// gate's decision.
type AuditLog struct {
	dir string
	now func() time.Time
}

// NewAuditLog creates an AuditLog rooted at dir (created on first write).
func NewAuditLog(dir string) *AuditLog {
	return &AuditLog{dir: dir, now: time.Now}
}

// Append writes one entry per finding into the log file of the affected
// source file. Findings without a resolvable file go into unknown.log.
func (a *AuditLog) Append(reviewer string, findings []Finding) error {
	if len(findings) == 0 {
		return nil
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", a.dir, err)
	}

	ts := a.now().UTC().Format(time.RFC3339)
	for _, f := range findings {
		name := logName(f.File)
		path := filepath.Join(a.dir, name)

		ref := f.File
		if f.Line > 0 {
			ref = fmt.Sprintf("%s:%d", f.File, f.Line)
		}
		entry := fmt.Sprintf("%s\t%s\t[%s]\t%s\t%s\n", ts, reviewer, f.Severity, ref, f.Description)

		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open audit log %s: %w", path, err)
		}
		_, writeErr := file.WriteString(entry)
		closeErr := file.Close()
		if writeErr != nil {
			return fmt.Errorf("write audit log %s: %w", path, writeErr)
		}
		if closeErr != nil {
			return fmt.Errorf("close audit log %s: %w", path, closeErr)
		}
	}
	return nil
}

// logName flattens a source path into a single log file name.
func logName(file string) string {
	if file == UnknownFile || file == "" {
		return "unknown.log"
	}
	flat := strings.NewReplacer("/", "__", "\\", "__", ":", "_").Replace(file)
	return flat + ".log"
}
