// Package storage persists captured step output as plain log files.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LogStore writes one log file per executed step, grouped by run and job.
type LogStore struct {
	BaseDir string
}

// NewLogStore creates a log store rooted at baseDir.
func NewLogStore(baseDir string) *LogStore {
	return &LogStore{BaseDir: baseDir}
}

// Save writes a step's captured output to <base>/<run>/<job>/<seq>-<step>.log
// and returns the file path. seq is the step's position in the job, so a
// directory listing keeps execution order.
func (s *LogStore) Save(runID, job string, seq int, step, output string) (string, error) {
	dir := filepath.Join(s.BaseDir, sanitize(runID), sanitize(job))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%02d-%s.log", seq, sanitize(step)))
	if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
		return "", fmt.Errorf("write log: %w", err)
	}
	return path, nil
}

// sanitize keeps names safe to use as path elements.
func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "step"
	}
	return b.String()
}
