// Package worksheet holds the worksheet domain model: the request and its
// reversible identity encoding, the canonical checksum-annotated document,
// reconciliation of generation responses, and presentation variable
// interpolation.
package worksheet

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Reading level systems.
const (
	SystemFP    = "fp"    // Fountas & Pinnell letter levels
	SystemGrade = "grade" // numeric grade levels
)

// gradeOffset keeps grade-system ids clear of the fp letter ranks (0-25)
// within the shared numeric range.
const gradeOffset = 30

// ReadingLevel identifies a reading level within a leveling system.
// Level holds the letter for "fp" and the decimal grade for "grade".
type ReadingLevel struct {
	System string `json:"system"`
	Level  string `json:"level"`
}

// UnmarshalJSON accepts both string and numeric levels; the original
// request format carries grade levels as bare integers.
func (r *ReadingLevel) UnmarshalJSON(data []byte) error {
	var raw struct {
		System string          `json:"system"`
		Level  json.RawMessage `json:"level"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.System = raw.System
	if len(raw.Level) == 0 {
		r.Level = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(raw.Level, &s); err == nil {
		r.Level = s
		return nil
	}
	var n int
	if err := json.Unmarshal(raw.Level, &n); err != nil {
		return fmt.Errorf("reading_level.level must be a string or integer")
	}
	r.Level = strconv.Itoa(n)
	return nil
}

// ID returns the numeric reading level id packed into worksheet ids.
func (r ReadingLevel) ID() (int, error) {
	if r.System == "" || r.Level == "" {
		return 0, &InvalidFieldError{Field: "reading_level", Reason: "system and level are required"}
	}
	switch r.System {
	case SystemFP:
		level := strings.ToUpper(r.Level)
		if len(level) != 1 || level[0] < 'A' || level[0] > 'Z' {
			return 0, &InvalidFieldError{Field: "reading_level.level", Reason: fmt.Sprintf("fp level must be a letter, got %q", r.Level)}
		}
		return int(level[0] - 'A'), nil
	case SystemGrade:
		grade, err := strconv.Atoi(r.Level)
		if err != nil {
			return 0, &InvalidFieldError{Field: "reading_level.level", Reason: fmt.Sprintf("grade level must be an integer, got %q", r.Level)}
		}
		return grade + gradeOffset, nil
	default:
		return 0, &UnsupportedReadingSystemError{System: r.System}
	}
}

// ReadingLevelForID reverses ReadingLevel.ID. Ids 0-25 are fp letters,
// ids >= gradeOffset are grades; the gap in between is unassigned.
func ReadingLevelForID(id int) (ReadingLevel, error) {
	switch {
	case id >= 0 && id < 26:
		return ReadingLevel{System: SystemFP, Level: string(rune('A' + id))}, nil
	case id >= gradeOffset && id < 1<<readingBits:
		return ReadingLevel{System: SystemGrade, Level: strconv.Itoa(id - gradeOffset)}, nil
	default:
		return ReadingLevel{}, &InvalidFieldError{Field: "reading_level_id", Reason: fmt.Sprintf("id %d maps to no reading level", id)}
	}
}

// Segment returns the cache path segment form, e.g. "fp_C".
func (r ReadingLevel) Segment() string {
	return r.System + "_" + r.Level
}

// Token returns the doc_key form, e.g. "fp-C".
func (r ReadingLevel) Token() string {
	return r.System + "-" + r.Level
}

// Request identifies one worksheet to produce. All fields participate in
// the identity encoding and the cache fingerprint.
type Request struct {
	SourceDataset string       `json:"source_dataset"`
	Theme         string       `json:"theme"`
	Model         string       `json:"model"`
	ReadingLevel  ReadingLevel `json:"reading_level"`
	Section       int          `json:"section"`
	Seed          int          `json:"seed"`
}

// Fingerprint is the identifying tuple used to derive a cache location.
// Requests with equal fingerprints name the same worksheet.
type Fingerprint struct {
	SourceDataset  string
	ReadingSegment string
	Section        int
	Theme          string
	Model          string
	Seed           int
}

// Fingerprint derives the cache fingerprint for the request.
func (r Request) Fingerprint() Fingerprint {
	return Fingerprint{
		SourceDataset:  r.SourceDataset,
		ReadingSegment: r.ReadingLevel.Segment(),
		Section:        r.Section,
		Theme:          r.Theme,
		Model:          r.Model,
		Seed:           r.Seed,
	}
}

// Key returns the fingerprint's components joined in path-segment order.
// Used as the build serialization key; the cache store derives the same
// layout on disk.
func (f Fingerprint) Key() string {
	return strings.Join([]string{
		f.SourceDataset,
		f.ReadingSegment,
		strconv.Itoa(f.Section),
		f.Theme,
		f.Model,
		strconv.Itoa(f.Seed),
	}, "/")
}

// VocabEntry is one vocabulary item in a canonical document. Key and
// Checksum are content-derived at expansion time and never recomputed;
// the generation step must echo Checksum back.
type VocabEntry struct {
	Word         string       `json:"word"`
	PartOfSpeech string       `json:"part_of_speech"`
	Definition   string       `json:"definition"`
	DefNum       *int         `json:"def_num,omitempty"`
	Key          string       `json:"key"`
	Checksum     string       `json:"checksum"`
	Output       *EntryOutput `json:"output,omitempty"`
}

// EntryOutput is the generated payload for one entry.
type EntryOutput struct {
	Sentence string `json:"sentence"`
}

// DocOutput is the generated document-level payload.
type DocOutput struct {
	Subtitle string `json:"subtitle"`
}

// Presentation carries caller-supplied template strings and section
// metadata. It is cosmetic: excluded from the generation payload and
// interpolated best-effort after a document is produced.
type Presentation struct {
	Section         int    `json:"section"`
	Header          string `json:"header,omitempty"`
	Footer          string `json:"footer,omitempty"`
	AnswerKeyFooter string `json:"answer_key_footer,omitempty"`
}

// Document is the canonical, fully expanded representation of one
// worksheet. It is created on cache miss, completed by reconciliation,
// then persisted; cached documents are read back whole and not mutated.
type Document struct {
	SourceDataset string        `json:"source_dataset"`
	ReadingLevel  ReadingLevel  `json:"reading_level"`
	Section       int           `json:"section"`
	Theme         string        `json:"theme"`
	Model         string        `json:"model"`
	Seed          int           `json:"seed"`
	WorksheetID   string        `json:"worksheet_id"`
	DocKey        string        `json:"doc_key"`
	DocChecksum   string        `json:"doc_checksum"`
	Presentation  *Presentation `json:"presentation_metadata,omitempty"`
	Data          []*VocabEntry `json:"data"`
	Output        *DocOutput    `json:"output,omitempty"`
}

// GenerationPayload returns a copy of the document stripped of
// presentation metadata and any prior output, the exact shape sent to
// the generation service.
func (d *Document) GenerationPayload() *Document {
	out := *d
	out.Presentation = nil
	out.Output = nil
	out.Data = make([]*VocabEntry, len(d.Data))
	for i, e := range d.Data {
		entry := *e
		entry.Output = nil
		out.Data[i] = &entry
	}
	return &out
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := *d
	if d.Presentation != nil {
		pres := *d.Presentation
		out.Presentation = &pres
	}
	if d.Output != nil {
		o := *d.Output
		out.Output = &o
	}
	out.Data = make([]*VocabEntry, len(d.Data))
	for i, e := range d.Data {
		entry := *e
		if e.DefNum != nil {
			n := *e.DefNum
			entry.DefNum = &n
		}
		if e.Output != nil {
			o := *e.Output
			entry.Output = &o
		}
		out.Data[i] = &entry
	}
	return &out
}

// GenerationResult is the generation service's response: one sentence
// per input checksum plus a document subtitle.
type GenerationResult struct {
	Subtitle    string              `json:"subtitle"`
	DocChecksum string              `json:"doc_checksum"`
	Data        []GeneratedSentence `json:"data"`
}

// GeneratedSentence pairs a generated sentence with the input entry
// checksum it answers.
type GeneratedSentence struct {
	Checksum string `json:"checksum"`
	Sentence string `json:"sentence"`
}
