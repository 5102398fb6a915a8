package worksheet

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/cindysoftware/hero/internal/dataset"
)

// checksumLen is the retained hex prefix length of the SHA-256 digest
// used for doc and entry checksums.
const checksumLen = 16

// keyDelimiter joins key fields; words and definitions never contain it
// in practice, and the checksum contract tolerates the ambiguity anyway
// since keys are compared whole.
const keyDelimiter = "|"

// Checksum returns the fixed-length hash prefix of a key string.
func Checksum(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:checksumLen]
}

// DocKey builds the document key from the request's identifying fields
// in the canonical order.
func DocKey(req Request) string {
	return strings.Join([]string{
		req.SourceDataset,
		req.ReadingLevel.Token(),
		strconv.Itoa(req.Section),
		req.Theme,
		req.Model,
		strconv.Itoa(req.Seed),
	}, keyDelimiter)
}

// Expand builds the canonical document for a request from the requested
// section's entries. Entry order is semantically meaningful (datasets
// order entries for presentation) and is preserved exactly.
//
// The per-entry keys chain off the doc key, so a sentence generated for
// one worksheet can never satisfy the checksum of another.
func Expand(req Request, worksheetID string, entries []dataset.Entry) (*Document, error) {
	docKey := DocKey(req)

	doc := &Document{
		SourceDataset: req.SourceDataset,
		ReadingLevel:  req.ReadingLevel,
		Section:       req.Section,
		Theme:         req.Theme,
		Model:         req.Model,
		Seed:          req.Seed,
		WorksheetID:   worksheetID,
		DocKey:        docKey,
		DocChecksum:   Checksum(docKey),
		Data:          make([]*VocabEntry, 0, len(entries)),
	}

	for _, e := range entries {
		key := strings.Join([]string{docKey, e.Word, e.PartOfSpeech, e.Definition}, keyDelimiter)
		entry := &VocabEntry{
			Word:         e.Word,
			PartOfSpeech: e.PartOfSpeech,
			Definition:   e.Definition,
			DefNum:       e.DefNum,
			Key:          key,
			Checksum:     Checksum(key),
		}
		doc.Data = append(doc.Data, entry)
	}

	return doc, nil
}
