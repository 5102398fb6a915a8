package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cindysoftware/hero/internal/cache"
	"github.com/cindysoftware/hero/internal/catalog"
	"github.com/cindysoftware/hero/internal/dataset"
	"github.com/cindysoftware/hero/internal/worksheet"
)

func testCatalogs(t *testing.T) *catalog.Set {
	t.Helper()
	mk := func(name string, keys ...string) *catalog.Catalog {
		entries := make([]catalog.Entry, len(keys))
		for i, k := range keys {
			entries[i] = catalog.Entry{KeyName: k}
		}
		c, err := catalog.New(name, entries)
		if err != nil {
			t.Fatal(err)
		}
		return c
	}
	return &catalog.Set{
		Datasets: mk("source_datasets", "ww3000_bk1", "ww3000_bk2", "ww3000_bk3"),
		Themes:   mk("themes", "none", "kpop", "minecraft"),
		Models:   mk("models", "gpt-5-mini", "gpt-4o"),
	}
}

func writeTestDataset(t *testing.T, dir string) {
	t.Helper()
	data := `{
		"sections": [
			{
				"section": 6,
				"entries": [
					{"word": "mend", "part_of_speech": "verb", "definition": "to repair"},
					{"word": "rigid", "part_of_speech": "adjective", "definition": "stiff"},
					{"word": "soggy", "part_of_speech": "adjective", "definition": "soaked with liquid"}
				]
			}
		]
	}`
	if err := os.WriteFile(filepath.Join(dir, "ww3000_bk3.json"), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

// echoAdapter answers every checksum in the payload and counts calls.
type echoAdapter struct {
	calls atomic.Int64
	fail  error
}

func (a *echoAdapter) Generate(_ context.Context, doc *worksheet.Document) (*worksheet.GenerationResult, error) {
	a.calls.Add(1)
	if a.fail != nil {
		return nil, a.fail
	}
	res := &worksheet.GenerationResult{
		Subtitle:    "Test Subtitle",
		DocChecksum: doc.DocChecksum,
	}
	for _, e := range doc.Data {
		res.Data = append(res.Data, worksheet.GeneratedSentence{
			Checksum: e.Checksum,
			Sentence: fmt.Sprintf("A sentence using %s.", e.Word),
		})
	}
	return res, nil
}

func testService(t *testing.T, adapter *echoAdapter) (*Service, *cache.Store) {
	t.Helper()
	datasetDir := t.TempDir()
	writeTestDataset(t, datasetDir)
	store := cache.NewStore(t.TempDir())
	svc := New(Config{
		Catalogs: testCatalogs(t),
		Datasets: dataset.NewLoader(datasetDir),
		Cache:    store,
		Adapter:  adapter,
	})
	return svc, store
}

func testRequest() worksheet.Request {
	return worksheet.Request{
		SourceDataset: "ww3000_bk3",
		Theme:         "kpop",
		Model:         "gpt-5-mini",
		ReadingLevel:  worksheet.ReadingLevel{System: "fp", Level: "C"},
		Section:       6,
		Seed:          3,
	}
}

func TestGenerateBuildsAndCaches(t *testing.T) {
	adapter := &echoAdapter{}
	svc, store := testService(t, adapter)
	ctx := context.Background()

	res, err := svc.Generate(ctx, testRequest(), nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if res.Cached {
		t.Error("first call should not report cached")
	}
	if res.WorksheetID == "" || res.Document.WorksheetID != res.WorksheetID {
		t.Errorf("worksheet id mismatch: %q vs %q", res.WorksheetID, res.Document.WorksheetID)
	}
	if res.Document.Output == nil || res.Document.Output.Subtitle != "Test Subtitle" {
		t.Error("document output missing after build")
	}
	for _, e := range res.Document.Data {
		if e.Output == nil || e.Output.Sentence == "" {
			t.Errorf("entry %q missing generated sentence", e.Word)
		}
	}

	if _, ok, err := store.Lookup(testRequest().Fingerprint()); err != nil || !ok {
		t.Fatalf("document not persisted: ok=%v err=%v", ok, err)
	}

	// Second call is served from the cache without another build.
	res2, err := svc.Generate(ctx, testRequest(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !res2.Cached {
		t.Error("second call should report cached")
	}
	if got := adapter.calls.Load(); got != 1 {
		t.Errorf("adapter called %d times, want 1", got)
	}
	if res2.Document.DocChecksum != res.Document.DocChecksum {
		t.Error("cached document differs from built document")
	}
}

func TestGenerateFailureLeavesNoCacheEntry(t *testing.T) {
	adapter := &echoAdapter{fail: errors.New("service down")}
	svc, store := testService(t, adapter)

	if _, err := svc.Generate(context.Background(), testRequest(), nil); err == nil {
		t.Fatal("expected error from failing adapter")
	}
	if _, ok, err := store.Lookup(testRequest().Fingerprint()); err != nil {
		t.Fatal(err)
	} else if ok {
		t.Error("failed build must not publish a cache entry")
	}

	// No leftover temp or lock residue blocking a later successful build.
	adapter.fail = nil
	res, err := svc.Generate(context.Background(), testRequest(), nil)
	if err != nil {
		t.Fatalf("rebuild after failure: %v", err)
	}
	if res.Cached {
		t.Error("rebuild should not report cached")
	}
}

func TestGenerateDeduplicatesConcurrentBuilds(t *testing.T) {
	adapter := &echoAdapter{}
	svc, _ := testService(t, adapter)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*Result, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Generate(context.Background(), testRequest(), nil)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if results[i].Document.Output == nil {
			t.Errorf("caller %d got incomplete document", i)
		}
	}
	if got := adapter.calls.Load(); got != 1 {
		t.Errorf("adapter called %d times for one fingerprint, want 1", got)
	}
}

func TestGenerateAttachesInterpolatedPresentation(t *testing.T) {
	adapter := &echoAdapter{}
	svc, store := testService(t, adapter)

	pres := &worksheet.Presentation{
		Header: "Vocabulary Episode {episode}",
		Footer: "{source_title} / seed {seed}",
	}
	res, err := svc.Generate(context.Background(), testRequest(), pres)
	if err != nil {
		t.Fatal(err)
	}
	if res.Document.Presentation == nil {
		t.Fatal("presentation not attached")
	}
	if got := res.Document.Presentation.Header; got != "Vocabulary Episode 3" {
		t.Errorf("Header = %q", got)
	}
	if got := res.Document.Presentation.Footer; got != "Ww3000 Bk3 / seed 3" {
		t.Errorf("Footer = %q", got)
	}
	if res.Document.Presentation.Section != 6 {
		t.Errorf("Section = %d", res.Document.Presentation.Section)
	}

	// The cached copy stays presentation-free.
	cached, ok, err := store.Lookup(testRequest().Fingerprint())
	if err != nil || !ok {
		t.Fatalf("lookup: ok=%v err=%v", ok, err)
	}
	if cached.Presentation != nil {
		t.Error("cache must not carry caller presentation")
	}
}

func TestGenerateRejectsUnknownCatalogKeys(t *testing.T) {
	adapter := &echoAdapter{}
	svc, _ := testService(t, adapter)

	req := testRequest()
	req.Model = "claude-haiku"
	if _, err := svc.Generate(context.Background(), req, nil); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected catalog.ErrNotFound, got %v", err)
	}
	if adapter.calls.Load() != 0 {
		t.Error("adapter must not be called for invalid requests")
	}
}

func TestResolveRoundTrip(t *testing.T) {
	svc, _ := testService(t, &echoAdapter{})

	req := testRequest()
	id, err := svc.EncodeID(req)
	if err != nil {
		t.Fatal(err)
	}
	got, err := svc.Resolve(id)
	if err != nil {
		t.Fatal(err)
	}
	if got != req {
		t.Errorf("Resolve(%q) = %+v, want %+v", id, got, req)
	}
}

func TestLookupByID(t *testing.T) {
	svc, _ := testService(t, &echoAdapter{})
	ctx := context.Background()

	id, err := svc.EncodeID(testRequest())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok, err := svc.Lookup(id); err != nil {
		t.Fatal(err)
	} else if ok {
		t.Error("lookup before build should miss")
	}

	if _, err := svc.Generate(ctx, testRequest(), nil); err != nil {
		t.Fatal(err)
	}
	doc, ok, err := svc.Lookup(id)
	if err != nil || !ok {
		t.Fatalf("lookup after build: ok=%v err=%v", ok, err)
	}
	if doc.WorksheetID != id {
		t.Errorf("WorksheetID = %q, want %q", doc.WorksheetID, id)
	}
}
