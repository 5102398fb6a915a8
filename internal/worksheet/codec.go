package worksheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cindysoftware/hero/internal/catalog"
)

// Bit widths of the packed worksheet id fields, 40 bits total.
const (
	datasetBits = 7
	themeBits   = 7
	modelBits   = 5
	readingBits = 6
	sectionBits = 7
	seedBits    = 8

	packedBits = datasetBits + themeBits + modelBits + readingBits + sectionBits + seedBits
)

// Field offsets, seed in the low bits through dataset in the high bits,
// contiguous with no gaps.
const (
	seedShift    = 0
	sectionShift = seedShift + seedBits
	readingShift = sectionShift + sectionBits
	modelShift   = readingShift + readingBits
	themeShift   = modelShift + modelBits
	datasetShift = themeShift + themeBits
)

// obfuscationMask is XORed into the packed integer before rendering.
// This hides the obvious counter structure of low seeds and indices;
// it is explicitly not a secrecy mechanism.
const obfuscationMask uint64 = 0xA5A5A5A5A5

// idHexDigits is the minimum rendered width: 40 bits, zero-padded.
const idHexDigits = packedBits / 4

// Codec encodes worksheet requests into opaque, reversible ids and back.
// Ids are positional: they store catalog indices, so a catalog edit
// between encode and decode changes an id's meaning.
type Codec struct {
	Catalogs *catalog.Set
}

// NewCodec returns a codec over the given catalog set.
func NewCodec(catalogs *catalog.Set) *Codec {
	return &Codec{Catalogs: catalogs}
}

// Decoded is the result of decoding a worksheet id. Indices are catalog
// positions at decode time; the key fields are their resolutions.
type Decoded struct {
	DatasetIndex   int
	ThemeIndex     int
	ModelIndex     int
	ReadingLevelID int
	Section        int
	Seed           int

	SourceDataset string
	Theme         string
	Model         string
	ReadingLevel  ReadingLevel
}

// Encode packs the request's six identifying fields into a worksheet id
// of the form "xx-xxxx-xxxxxx".
func (c *Codec) Encode(req Request) (string, error) {
	datasetIdx, err := c.Catalogs.Datasets.IndexOf(req.SourceDataset)
	if err != nil {
		return "", err
	}
	themeIdx, err := c.Catalogs.Themes.IndexOf(req.Theme)
	if err != nil {
		return "", err
	}
	modelIdx, err := c.Catalogs.Models.IndexOf(req.Model)
	if err != nil {
		return "", err
	}
	readingID, err := req.ReadingLevel.ID()
	if err != nil {
		return "", err
	}

	fields := []struct {
		name  string
		value int
		bits  uint
		shift uint
	}{
		{"seed", req.Seed, seedBits, seedShift},
		{"section", req.Section, sectionBits, sectionShift},
		{"reading_level", readingID, readingBits, readingShift},
		{"model", modelIdx, modelBits, modelShift},
		{"theme", themeIdx, themeBits, themeShift},
		{"source_dataset", datasetIdx, datasetBits, datasetShift},
	}

	var packed uint64
	for _, f := range fields {
		max := 1<<f.bits - 1
		if f.value < 0 || f.value > max {
			return "", &RangeOverflowError{Field: f.name, Value: f.value, Max: max}
		}
		packed |= uint64(f.value) << f.shift
	}

	return formatID(packed ^ obfuscationMask), nil
}

// Decode reverses Encode, resolving catalog indices back to keys
// against the current catalogs.
func (c *Codec) Decode(id string) (*Decoded, error) {
	packed, err := parseID(id)
	if err != nil {
		return nil, err
	}
	packed ^= obfuscationMask

	d := &Decoded{
		Seed:           extract(packed, seedShift, seedBits),
		Section:        extract(packed, sectionShift, sectionBits),
		ReadingLevelID: extract(packed, readingShift, readingBits),
		ModelIndex:     extract(packed, modelShift, modelBits),
		ThemeIndex:     extract(packed, themeShift, themeBits),
		DatasetIndex:   extract(packed, datasetShift, datasetBits),
	}

	if d.SourceDataset, err = c.Catalogs.Datasets.KeyAt(d.DatasetIndex); err != nil {
		return nil, err
	}
	if d.Theme, err = c.Catalogs.Themes.KeyAt(d.ThemeIndex); err != nil {
		return nil, err
	}
	if d.Model, err = c.Catalogs.Models.KeyAt(d.ModelIndex); err != nil {
		return nil, err
	}
	if d.ReadingLevel, err = ReadingLevelForID(d.ReadingLevelID); err != nil {
		return nil, err
	}
	return d, nil
}

// Request rebuilds a worksheet request from decoded fields.
func (d *Decoded) Request() Request {
	return Request{
		SourceDataset: d.SourceDataset,
		Theme:         d.Theme,
		Model:         d.Model,
		ReadingLevel:  d.ReadingLevel,
		Section:       d.Section,
		Seed:          d.Seed,
	}
}

func extract(packed uint64, shift, bits uint) int {
	return int((packed >> shift) & (1<<bits - 1))
}

// formatID renders the obfuscated integer as lowercase hex, left-padded
// to 10 digits and regrouped 2-4-4 with dashes.
func formatID(v uint64) string {
	s := fmt.Sprintf("%0*x", idHexDigits, v)
	return s[:2] + "-" + s[2:6] + "-" + s[6:]
}

// parseID accepts the dashed form and raw hex. Ids are exactly 10 hex
// digits; a truncated or padded string must not fall through to field
// extraction, where garbage indices could resolve to a real worksheet.
func parseID(id string) (uint64, error) {
	s := strings.ReplaceAll(id, "-", "")
	if len(s) != idHexDigits {
		return 0, &MalformedIDError{ID: id, Reason: fmt.Sprintf("want %d hex digits, got %d", idHexDigits, len(s))}
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, &MalformedIDError{ID: id, Reason: "not parsable as hex"}
	}
	return v, nil
}
