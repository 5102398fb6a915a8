package cache

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cindysoftware/hero/internal/worksheet"
)

func testFingerprint() worksheet.Fingerprint {
	return worksheet.Fingerprint{
		SourceDataset:  "ww3000_bk3",
		ReadingSegment: "fp_C",
		Section:        6,
		Theme:          "kpop",
		Model:          "gpt-5-mini",
		Seed:           3,
	}
}

func testDocument() *worksheet.Document {
	return &worksheet.Document{
		SourceDataset: "ww3000_bk3",
		ReadingLevel:  worksheet.ReadingLevel{System: "fp", Level: "C"},
		Section:       6,
		Theme:         "kpop",
		Model:         "gpt-5-mini",
		Seed:          3,
		WorksheetID:   "a3-b184-a1a2",
		DocKey:        "ww3000_bk3|fp-C|6|kpop|gpt-5-mini|3",
		DocChecksum:   "0123456789abcdef",
		Data: []*worksheet.VocabEntry{
			{Word: "credit", PartOfSpeech: "noun", Definition: "praise", Checksum: "c1", Output: &worksheet.EntryOutput{Sentence: "Give ### where due."}},
		},
		Output: &worksheet.DocOutput{Subtitle: "sub"},
	}
}

func TestPathLayout(t *testing.T) {
	s := NewStore("/data/store")
	got := s.Path(testFingerprint())
	want := filepath.Join("/data/store", "ww3000_bk3", "fp_C", "6", "kpop", "gpt-5-mini", "3.json")
	if got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}
}

func TestLookupAbsent(t *testing.T) {
	s := NewStore(t.TempDir())
	doc, ok, err := s.Lookup(testFingerprint())
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if ok || doc != nil {
		t.Errorf("expected absent, got %+v", doc)
	}
}

func TestStoreThenLookup(t *testing.T) {
	s := NewStore(t.TempDir())
	fp := testFingerprint()
	want := testDocument()

	if err := s.Store(fp, want); err != nil {
		t.Fatalf("Store: %v", err)
	}
	got, ok, err := s.Lookup(fp)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !ok {
		t.Fatal("expected hit")
	}
	if got.DocKey != want.DocKey || got.Output.Subtitle != "sub" || len(got.Data) != 1 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Data[0].Output == nil || got.Data[0].Output.Sentence != "Give ### where due." {
		t.Errorf("entry output lost: %+v", got.Data[0])
	}
}

func TestStoreIsDeterministic(t *testing.T) {
	s := NewStore(t.TempDir())
	fp := testFingerprint()
	doc := testDocument()

	if err := s.Store(fp, doc); err != nil {
		t.Fatalf("Store: %v", err)
	}
	first, err := os.ReadFile(s.Path(fp))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := s.Store(fp, doc); err != nil {
		t.Fatalf("Store: %v", err)
	}
	second, err := os.ReadFile(s.Path(fp))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(first) != string(second) {
		t.Error("re-storing the same document changed its bytes")
	}
}

func TestLookupCorruption(t *testing.T) {
	s := NewStore(t.TempDir())
	fp := testFingerprint()
	path := s.Path(fp)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("{truncated"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, _, err := s.Lookup(fp)
	if !errors.Is(err, ErrCorruption) {
		t.Errorf("got %v, want ErrCorruption (never a silent miss)", err)
	}
}

func TestNoTempFilesLeftBehind(t *testing.T) {
	s := NewStore(t.TempDir())
	fp := testFingerprint()
	if err := s.Store(fp, testDocument()); err != nil {
		t.Fatalf("Store: %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(s.Path(fp)))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "3.json" {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("unexpected directory contents: %v", names)
	}
}

// Concurrent stores and lookups of the same fingerprint must never
// surface a partially written document: a reader sees absence, the old
// document, or the new one.
func TestConcurrentStoreLookup(t *testing.T) {
	s := NewStore(t.TempDir())
	fp := testFingerprint()
	doc := testDocument()

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if err := s.Store(fp, doc); err != nil {
					errs <- err
					return
				}
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				got, ok, err := s.Lookup(fp)
				if err != nil {
					errs <- err
					return
				}
				if ok && got.DocKey != doc.DocKey {
					errs <- errors.New("observed torn document")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent access: %v", err)
	}
}

func TestLockBuildExcludes(t *testing.T) {
	s := NewStore(t.TempDir())
	fp := testFingerprint()

	release, err := s.LockBuild(context.Background(), fp)
	if err != nil {
		t.Fatalf("LockBuild: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	acquired := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		release2, err := s.LockBuild(ctx, fp)
		if err == nil {
			release2()
			close(acquired)
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second LockBuild acquired while first held")
	default:
	}
	cancel()
	<-done

	if err := release(); err != nil {
		t.Fatalf("release: %v", err)
	}

	// Lock is reacquirable after release.
	release3, err := s.LockBuild(context.Background(), fp)
	if err != nil {
		t.Fatalf("re-LockBuild: %v", err)
	}
	release3()
}

func TestStoredEntryIsValidJSON(t *testing.T) {
	s := NewStore(t.TempDir())
	fp := testFingerprint()
	if err := s.Store(fp, testDocument()); err != nil {
		t.Fatalf("Store: %v", err)
	}
	data, err := os.ReadFile(s.Path(fp))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("stored entry unparsable: %v", err)
	}
	if _, ok := raw["doc_checksum"]; !ok {
		t.Error("stored entry missing doc_checksum")
	}
}
