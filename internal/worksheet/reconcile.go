package worksheet

import "sort"

// Reconcile validates a generation result against the canonical document
// and merges it in. The validation is exhaustive rather than fail-fast:
// after the document checksum and duplicate checks, every missing and
// every unexpected checksum is collected before an error is returned, so
// a single report covers everything the generation step dropped or
// hallucinated. The document is only mutated on success.
func Reconcile(doc *Document, res *GenerationResult) error {
	if res.DocChecksum != doc.DocChecksum {
		return &DocChecksumMismatchError{Expected: doc.DocChecksum, Actual: res.DocChecksum}
	}

	byChecksum := make(map[string]GeneratedSentence, len(res.Data))
	for _, item := range res.Data {
		if _, ok := byChecksum[item.Checksum]; ok {
			return &DuplicateChecksumError{Checksum: item.Checksum}
		}
		byChecksum[item.Checksum] = item
	}

	expected := make(map[string]struct{}, len(doc.Data))
	var missing []string
	for _, entry := range doc.Data {
		expected[entry.Checksum] = struct{}{}
		if _, ok := byChecksum[entry.Checksum]; !ok {
			missing = append(missing, entry.Checksum)
		}
	}

	var extra []string
	for checksum := range byChecksum {
		if _, ok := expected[checksum]; !ok {
			extra = append(extra, checksum)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return &MissingChecksumsError{Checksums: missing}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return &ExtraChecksumsError{Checksums: extra}
	}

	for _, entry := range doc.Data {
		item := byChecksum[entry.Checksum]
		entry.Output = &EntryOutput{Sentence: item.Sentence}
	}
	doc.Output = &DocOutput{Subtitle: res.Subtitle}
	return nil
}
