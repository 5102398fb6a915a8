package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleDataset = `{
  "sections": [
    {
      "section": 1,
      "entries": [
        {"word": "credit", "part_of_speech": "noun", "definition": "praise or recognition for something done"},
        {"word": "rigged", "part_of_speech": "verb", "definition": "arranged dishonestly", "def_num": 2}
      ]
    },
    {
      "section": 6,
      "entries": [
        {"word": "chasm", "part_of_speech": "noun", "definition": "a deep crack in the earth"}
      ]
    }
  ]
}`

func writeSample(t *testing.T) *Loader {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ww3000_bk3.json"), []byte(sampleDataset), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return NewLoader(dir)
}

func TestLoadSection(t *testing.T) {
	l := writeSample(t)

	sec, err := l.LoadSection("ww3000_bk3", 1)
	if err != nil {
		t.Fatalf("LoadSection: %v", err)
	}
	if len(sec.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(sec.Entries))
	}
	if sec.Entries[0].Word != "credit" || sec.Entries[1].Word != "rigged" {
		t.Errorf("entry order not preserved: %q, %q", sec.Entries[0].Word, sec.Entries[1].Word)
	}
	if sec.Entries[0].DefNum != nil {
		t.Errorf("def_num should be nil when absent")
	}
	if sec.Entries[1].DefNum == nil || *sec.Entries[1].DefNum != 2 {
		t.Errorf("def_num not parsed")
	}
}

func TestSectionNotFound(t *testing.T) {
	l := writeSample(t)

	_, err := l.LoadSection("ww3000_bk3", 99)
	if !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("got %v, want ErrSectionNotFound", err)
	}
}

func TestMissingDatasetFile(t *testing.T) {
	l := NewLoader(t.TempDir())
	if _, err := l.Load("nope"); err == nil {
		t.Error("expected error for missing dataset file")
	}
}

func TestCorruptDatasetFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewLoader(dir).Load("bad"); err == nil {
		t.Error("expected error for corrupt dataset file")
	}
}
