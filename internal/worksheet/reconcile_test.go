package worksheet

import (
	"errors"
	"reflect"
	"testing"
)

func reconcileDoc() *Document {
	return &Document{
		DocChecksum: "doc0",
		Data: []*VocabEntry{
			{Word: "credit", Checksum: "c1"},
			{Word: "rigged", Checksum: "c2"},
			{Word: "chasm", Checksum: "c3"},
		},
	}
}

func TestReconcileSuccess(t *testing.T) {
	doc := reconcileDoc()
	res := &GenerationResult{
		Subtitle:    "Gusts over a chasm, we rig the schedule.",
		DocChecksum: "doc0",
		Data: []GeneratedSentence{
			// Response order intentionally differs from entry order.
			{Checksum: "c3", Sentence: "The bridge spans a deep ###."},
			{Checksum: "c1", Sentence: "Give Hana ### for the chorus."},
			{Checksum: "c2", Sentence: "They ### the schedule."},
		},
	}

	if err := Reconcile(doc, res); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if doc.Output == nil || doc.Output.Subtitle != res.Subtitle {
		t.Errorf("subtitle not merged: %+v", doc.Output)
	}
	for i, want := range []string{"Give Hana ### for the chorus.", "They ### the schedule.", "The bridge spans a deep ###."} {
		if doc.Data[i].Output == nil || doc.Data[i].Output.Sentence != want {
			t.Errorf("entry %d sentence = %+v, want %q", i, doc.Data[i].Output, want)
		}
	}
}

func TestReconcileDocChecksumMismatch(t *testing.T) {
	doc := reconcileDoc()
	res := &GenerationResult{DocChecksum: "other"}

	err := Reconcile(doc, res)
	var mismatch *DocChecksumMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("got %v, want DocChecksumMismatchError", err)
	}
	if mismatch.Expected != "doc0" || mismatch.Actual != "other" {
		t.Errorf("mismatch = %+v", mismatch)
	}
}

func TestReconcileDuplicateChecksum(t *testing.T) {
	doc := reconcileDoc()
	res := &GenerationResult{
		DocChecksum: "doc0",
		Data: []GeneratedSentence{
			{Checksum: "c1", Sentence: "a"},
			{Checksum: "c1", Sentence: "b"},
		},
	}

	err := Reconcile(doc, res)
	var dup *DuplicateChecksumError
	if !errors.As(err, &dup) {
		t.Fatalf("got %v, want DuplicateChecksumError", err)
	}
	if dup.Checksum != "c1" {
		t.Errorf("checksum = %q, want c1", dup.Checksum)
	}
}

func TestReconcileMissingReportsAll(t *testing.T) {
	doc := reconcileDoc()
	res := &GenerationResult{
		DocChecksum: "doc0",
		Data:        []GeneratedSentence{{Checksum: "c2", Sentence: "only one"}},
	}

	err := Reconcile(doc, res)
	var missing *MissingChecksumsError
	if !errors.As(err, &missing) {
		t.Fatalf("got %v, want MissingChecksumsError", err)
	}
	if want := []string{"c1", "c3"}; !reflect.DeepEqual(missing.Checksums, want) {
		t.Errorf("missing = %v, want %v (all of them, sorted)", missing.Checksums, want)
	}

	// A failed reconciliation leaves the document untouched.
	if doc.Output != nil {
		t.Error("subtitle attached despite failure")
	}
	for i, e := range doc.Data {
		if e.Output != nil {
			t.Errorf("entry %d mutated despite failure", i)
		}
	}
}

func TestReconcileExtraReportsAll(t *testing.T) {
	doc := &Document{
		DocChecksum: "doc0",
		Data: []*VocabEntry{
			{Checksum: "c1"},
			{Checksum: "c2"},
		},
	}
	res := &GenerationResult{
		DocChecksum: "doc0",
		Data: []GeneratedSentence{
			{Checksum: "c1", Sentence: "a"},
			{Checksum: "c2", Sentence: "b"},
			{Checksum: "c9", Sentence: "hallucinated"},
			{Checksum: "c4", Sentence: "also hallucinated"},
		},
	}

	err := Reconcile(doc, res)
	var extra *ExtraChecksumsError
	if !errors.As(err, &extra) {
		t.Fatalf("got %v, want ExtraChecksumsError", err)
	}
	if want := []string{"c4", "c9"}; !reflect.DeepEqual(extra.Checksums, want) {
		t.Errorf("extra = %v, want %v (sorted)", extra.Checksums, want)
	}
}

func TestReconcileMissingTakesPrecedenceOverExtra(t *testing.T) {
	doc := reconcileDoc()
	res := &GenerationResult{
		DocChecksum: "doc0",
		Data: []GeneratedSentence{
			{Checksum: "c1", Sentence: "a"},
			{Checksum: "c9", Sentence: "unexpected"},
		},
	}

	err := Reconcile(doc, res)
	var missing *MissingChecksumsError
	if !errors.As(err, &missing) {
		t.Fatalf("got %v, want MissingChecksumsError first", err)
	}
}

func TestReconcileEmptyDocument(t *testing.T) {
	doc := &Document{DocChecksum: "doc0"}
	res := &GenerationResult{DocChecksum: "doc0", Subtitle: "sub"}
	if err := Reconcile(doc, res); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if doc.Output == nil || doc.Output.Subtitle != "sub" {
		t.Errorf("output = %+v", doc.Output)
	}
}
