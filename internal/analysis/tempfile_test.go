package analysis

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestAllowedExtension(t *testing.T) {
	for _, ext := range []string{".pdf", ".doc", ".docx", ".txt", ".PDF", " .txt "} {
		if !AllowedExtension(ext) {
			t.Errorf("expected %q to be allowed", ext)
		}
	}
	for _, ext := range []string{".exe", ".png", "", "pdf", ".pdf.exe"} {
		if AllowedExtension(ext) {
			t.Errorf("expected %q to be rejected", ext)
		}
	}
}

func TestSaveAndRemoveTempFile(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveTempFile(dir, ".TXT", strings.NewReader("hello contract"))
	if err != nil {
		t.Fatalf("SaveTempFile: %v", err)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "legaldoc-") {
		t.Fatalf("expected service prefix, got %q", base)
	}
	if !strings.HasSuffix(base, ".txt") {
		t.Fatalf("expected lowercased extension, got %q", base)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading temp file: %v", err)
	}
	if string(data) != "hello contract" {
		t.Fatalf("unexpected contents %q", data)
	}

	RemoveTempFile(path)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expected temp file to be removed")
	}
	// removing again must be a silent no-op
	RemoveTempFile(path)
	RemoveTempFile("")
}

func TestSweepOnceRemovesOnlyStaleOwnedFiles(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	stale := now.Add(-2 * time.Hour)

	write := func(name string, mod time.Time) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
		if err := os.Chtimes(path, mod, mod); err != nil {
			t.Fatalf("chtimes %s: %v", name, err)
		}
		return path
	}

	old := write("legaldoc-old.txt", stale)
	fresh := write("legaldoc-fresh.txt", now)
	foreign := write("other-old.txt", stale)

	s := NewSweeper(dir)
	if removed := s.SweepOnce(now); removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatal("expected stale owned file to be removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatal("expected fresh file to survive")
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Fatal("expected unowned file to survive")
	}
}

func TestSweepOnceMissingDir(t *testing.T) {
	s := NewSweeper(filepath.Join(t.TempDir(), "does-not-exist"))
	if removed := s.SweepOnce(time.Now()); removed != 0 {
		t.Fatalf("expected 0 removals for missing dir, got %d", removed)
	}
}
