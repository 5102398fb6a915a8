// Package render turns a finished worksheet document into a printable
// PDF: a question sheet with a word bank followed by an answer key page.
// Layout is deliberately plain.
package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/cindysoftware/hero/internal/worksheet"
)

// ErrIncomplete indicates the document has not been through generation
// and reconciliation yet.
var ErrIncomplete = errors.New("document is missing generated output")

// Letter paper in points, lower-left origin.
const (
	pageW = 612.0
	pageH = 792.0

	marginLeft   = 47.0
	marginTop    = 58.0
	marginBottom = 47.0

	titleSize    = 24
	subtitleSize = 13
	labelSize    = 13
	textSize     = 12
	footerSize   = 10

	lineHeight       = textSize + 6
	questionGap      = 24.0
	extraBeforeFirst = 60.0

	// Helvetica at 12pt averages around 6pt per character over the
	// 518pt content width.
	wrapWidth = 85
)

const instructions = "Fill in each blank with the correct word. Use each word as many times as shown in the Word Bank. Don't forget to review your answers."

// The answer key carries a QR code linking to the next episode.
const (
	shareURLBase = "http://cindysoftware.com/id="

	qrSide   = 40.0 // points on the page
	qrPixels = 256  // rendered PNG resolution
)

// pdfcpu create-JSON primitives.

type pdfFont struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type pdfText struct {
	Value  string   `json:"value"`
	X      float64  `json:"x,omitempty"`
	Y      float64  `json:"y,omitempty"`
	Dy     float64  `json:"dy,omitempty"`
	Anchor string   `json:"anchor,omitempty"`
	Font   *pdfFont `json:"font,omitempty"`
}

type pdfBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type pdfImage struct {
	Src    string  `json:"src"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type pdfContent struct {
	Text  []pdfText  `json:"text,omitempty"`
	Box   []pdfBox   `json:"box,omitempty"`
	Image []pdfImage `json:"image,omitempty"`
}

type pdfPage struct {
	Content pdfContent `json:"content"`
}

type createDoc struct {
	Paper  string             `json:"paper"`
	Origin string             `json:"origin"`
	Pages  map[string]pdfPage `json:"pages"`
}

// WorksheetPDF renders the question pages and answer key for a
// completed document and writes the PDF to w.
func WorksheetPDF(w io.Writer, doc *worksheet.Document) error {
	if doc.Output == nil {
		return ErrIncomplete
	}
	for _, e := range doc.Data {
		if e.Output == nil {
			return fmt.Errorf("%w: entry %q has no sentence", ErrIncomplete, e.Word)
		}
	}

	questions := buildQuestions(doc)
	bank := wordBank(questions)

	header := fmt.Sprintf("Section %d", doc.Section)
	footer, answerFooter := "", ""
	if doc.Presentation != nil {
		if doc.Presentation.Header != "" {
			header = normalizeASCII(doc.Presentation.Header)
		}
		footer = normalizeASCII(doc.Presentation.Footer)
		answerFooter = normalizeASCII(doc.Presentation.AnswerKeyFooter)
	}
	subtitle := fmt.Sprintf("Episode %d: %s", doc.Seed, normalizeASCII(doc.Output.Subtitle))

	wrapped := make([][]string, len(questions))
	for i, q := range questions {
		wrapped[i] = wrapText(q.Sentence, wrapWidth)
	}

	pages := make(map[string]pdfPage)

	// Question sheet. Page one carries the instructions and word bank;
	// overflow questions continue on further pages.
	first := newPageBuilder()
	first.title(header)
	first.subtitle(subtitle)
	first.instructions()
	first.wordBank(bank)
	first.footer(footer)

	next := first.questions(wrapped, 0, 1)
	pageNum := 1
	pages[strconv.Itoa(pageNum)] = first.page()

	for next < len(wrapped) {
		pageNum++
		pb := newPageBuilder()
		pb.title(header)
		pb.subtitle(subtitle)
		pb.y -= extraBeforeFirst
		pb.footer(footer)
		next = pb.questions(wrapped, next, next+1)
		pages[strconv.Itoa(pageNum)] = pb.page()
	}

	// Answer key, answers in question order. The QR code links readers
	// to the next episode; a failed QR render just drops the code.
	pageNum++
	key := newPageBuilder()
	key.title(header + " (Answer Key)")
	key.subtitle(subtitle)
	key.answers(questions)
	key.footer(answerFooter)
	if qrPath, cleanup := writeShareQR(doc.WorksheetID); qrPath != "" {
		defer cleanup()
		key.shareQR(qrPath, nextEpisodeCaption(doc.Seed))
	}
	pages[strconv.Itoa(pageNum)] = key.page()

	data, err := json.Marshal(createDoc{Paper: "Letter", Origin: "lowerLeft", Pages: pages})
	if err != nil {
		return fmt.Errorf("building page description: %w", err)
	}
	if err := api.Create(nil, bytes.NewReader(data), w, nil); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

// pageBuilder accumulates primitives for one page, tracking the cursor
// from the top margin down.
type pageBuilder struct {
	content pdfContent
	y       float64
}

func newPageBuilder() *pageBuilder {
	return &pageBuilder{y: pageH - marginTop}
}

func (b *pageBuilder) page() pdfPage {
	return pdfPage{Content: b.content}
}

func (b *pageBuilder) text(value string, x float64, size int, bold bool) {
	name := "Helvetica"
	if bold {
		name = "Helvetica-Bold"
	}
	b.content.Text = append(b.content.Text, pdfText{
		Value: value,
		X:     x,
		Y:     b.y,
		Font:  &pdfFont{Name: name, Size: size},
	})
}

func (b *pageBuilder) centered(value string, size int, name string) {
	b.content.Text = append(b.content.Text, pdfText{
		Value:  value,
		Anchor: "tc",
		Dy:     b.y - pageH,
		Font:   &pdfFont{Name: name, Size: size},
	})
}

func (b *pageBuilder) title(s string) {
	b.centered(s, titleSize, "Helvetica-Bold")
	b.y -= titleSize + 6
}

func (b *pageBuilder) subtitle(s string) {
	b.centered(s, subtitleSize, "Helvetica-Oblique")
	b.y -= subtitleSize + 16
}

func (b *pageBuilder) instructions() {
	for _, line := range wrapText(instructions, wrapWidth) {
		b.text(line, marginLeft, textSize, false)
		b.y -= lineHeight
	}
	b.y -= 8
}

func (b *pageBuilder) wordBank(bank []wordCount) {
	b.text("Word Bank (number of uses):", marginLeft, labelSize, true)
	b.y -= labelSize + 8

	// Two columns inside a full-width box.
	const padding = 10.0
	rowH := float64(textSize + 6)
	split := (len(bank) + 1) / 2
	rows := split
	if len(bank)-split > rows {
		rows = len(bank) - split
	}
	boxH := 2*padding + float64(rows)*rowH
	boxTop := b.y
	b.content.Box = append(b.content.Box, pdfBox{
		X:      marginLeft,
		Y:      boxTop - boxH,
		Width:  pageW - 2*marginLeft,
		Height: boxH,
	})

	col2 := marginLeft + (pageW-2*marginLeft)/2
	yy := boxTop - padding - textSize
	for i := 0; i < rows; i++ {
		y := yy - float64(i)*rowH
		if i < split {
			b.content.Text = append(b.content.Text, pdfText{
				Value: fmt.Sprintf("%s (%d)", bank[i].Word, bank[i].Count),
				X:     marginLeft + padding, Y: y,
				Font: &pdfFont{Name: "Helvetica", Size: textSize},
			})
		}
		if split+i < len(bank) {
			b.content.Text = append(b.content.Text, pdfText{
				Value: fmt.Sprintf("%s (%d)", bank[split+i].Word, bank[split+i].Count),
				X:     col2, Y: y,
				Font: &pdfFont{Name: "Helvetica", Size: textSize},
			})
		}
	}

	b.y = boxTop - boxH - extraBeforeFirst
}

// questions draws items starting at start until the page runs out of
// room, returning the index of the first undrawn item. At least one
// item is drawn per page so oversized sentences cannot stall paging.
func (b *pageBuilder) questions(wrapped [][]string, start, firstNumber int) int {
	i := start
	for i < len(wrapped) {
		needed := float64(len(wrapped[i]))*lineHeight + questionGap
		if b.y-needed < marginBottom && i > start {
			break
		}
		for n, line := range wrapped[i] {
			if n == 0 {
				line = fmt.Sprintf("%d) %s", firstNumber+(i-start), line)
			}
			b.text(line, marginLeft, textSize, false)
			b.y -= lineHeight
		}
		b.y -= questionGap
		i++
	}
	return i
}

func (b *pageBuilder) answers(questions []question) {
	b.text("Answers:", marginLeft, textSize, false)
	b.y -= textSize + 10

	for i, q := range questions {
		b.text(fmt.Sprintf("%d) ", i+1), marginLeft, textSize, false)
		b.text(q.Word, marginLeft+28, textSize, true)
		b.content.Text = append(b.content.Text, pdfText{
			Value: fmt.Sprintf("%s (%s)", q.Definition, q.PartOfSpeech),
			X:     marginLeft + 140, Y: b.y,
			Font: &pdfFont{Name: "Helvetica-Oblique", Size: footerSize},
		})
		b.y -= textSize + 6
	}
}

// shareQR places the QR image near the bottom-left corner with its
// caption on the footer baseline beneath it.
func (b *pageBuilder) shareQR(src, caption string) {
	b.content.Image = append(b.content.Image, pdfImage{
		Src:    src,
		X:      marginLeft,
		Y:      marginBottom/2 - qrSide/2 + 50,
		Width:  qrSide,
		Height: qrSide,
	})
	b.content.Text = append(b.content.Text, pdfText{
		Value: caption,
		X:     marginLeft,
		Y:     marginBottom / 2,
		Font:  &pdfFont{Name: "Helvetica", Size: footerSize},
	})
}

func shareURL(worksheetID string) string {
	return shareURLBase + worksheetID
}

func nextEpisodeCaption(seed int) string {
	return fmt.Sprintf("Get Episode %d", seed+1)
}

// writeShareQR renders the share link as a QR PNG in a temp file and
// returns its path with a remove func. Any failure returns an empty
// path; worksheets print fine without the code.
func writeShareQR(worksheetID string) (string, func()) {
	if worksheetID == "" {
		return "", nil
	}
	f, err := os.CreateTemp("", "hero-qr-*.png")
	if err != nil {
		return "", nil
	}
	path := f.Name()
	f.Close()
	if err := qrcode.WriteFile(shareURL(worksheetID), qrcode.Medium, qrPixels, path); err != nil {
		os.Remove(path)
		return "", nil
	}
	return path, func() { os.Remove(path) }
}

func (b *pageBuilder) footer(s string) {
	if s == "" {
		return
	}
	b.content.Text = append(b.content.Text, pdfText{
		Value:  s,
		Anchor: "bc",
		Dy:     marginBottom / 2,
		Font:   &pdfFont{Name: "Helvetica", Size: footerSize},
	})
}
