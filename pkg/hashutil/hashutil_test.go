package hashutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHashStringIsStable(t *testing.T) {
	a := HashString("kitten")
	b := HashString("kitten")
	if a != b {
		t.Errorf("same input hashed differently: %s vs %s", a, b)
	}
	if a == HashString("kittens") {
		t.Error("different inputs produced the same hash")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}

func TestHashFileMatchesHashString(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	if err := os.WriteFile(path, []byte("step output"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := HashFile(path)
	if err != nil {
		t.Fatalf("hash file: %v", err)
	}
	if got != HashString("step output") {
		t.Errorf("file and string hashes disagree")
	}
}

func TestHashFileMissing(t *testing.T) {
	if _, err := HashFile(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
