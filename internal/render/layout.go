package render

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/cindysoftware/hero/internal/worksheet"
)

// blank is drawn in place of the removed word.
const blank = "______"

// blankMarker is what generated sentences carry where the word belongs.
const blankMarker = "###"

// asciiReplacements maps typographic punctuation the generation service
// tends to emit onto ASCII-safe forms the base PDF fonts can render.
var asciiReplacements = strings.NewReplacer(
	"‘", "'", "’", "'",
	"“", `"`, "”", `"`,
	"–", "-", "—", "-", "…", "...",
	"•", "-", "·", "-",
)

func normalizeASCII(s string) string {
	return asciiReplacements.Replace(s)
}

func withBlank(sentence string) string {
	return strings.ReplaceAll(sentence, blankMarker, blank)
}

// question is one printable fill-in-the-blank item.
type question struct {
	Word         string
	PartOfSpeech string
	Definition   string
	Sentence     string
}

// buildQuestions shuffles the document's entries with the worksheet seed
// and produces print-ready questions. The shuffle is the only place
// entry order changes; the same seed always yields the same order.
func buildQuestions(doc *worksheet.Document) []question {
	rng := rand.New(rand.NewSource(int64(doc.Seed)))
	perm := rng.Perm(len(doc.Data))

	questions := make([]question, len(doc.Data))
	for i, j := range perm {
		e := doc.Data[j]
		q := question{
			Word:         normalizeASCII(e.Word),
			PartOfSpeech: normalizeASCII(e.PartOfSpeech),
			Definition:   normalizeASCII(e.Definition),
		}
		if e.Output != nil {
			q.Sentence = withBlank(normalizeASCII(e.Output.Sentence))
		}
		questions[i] = q
	}
	return questions
}

// wordCount is one word bank line: the displayed form and how many
// blanks it fills.
type wordCount struct {
	Word  string
	Count int
}

// baseForm groups near-identical word forms for the word bank. A word
// ending in "ed" has the suffix stripped and a doubled final consonant
// reduced, so "rigged" counts with "rig".
func baseForm(word string) string {
	w := strings.ToLower(strings.TrimSpace(word))
	if strings.HasSuffix(w, "ed") && len(w) >= 4 {
		base := w[:len(w)-2]
		if len(base) >= 2 && base[len(base)-1] == base[len(base)-2] {
			base = base[:len(base)-1]
		}
		return base
	}
	return w
}

// wordBank counts questions by base form and labels each count with the
// most frequent displayed form, alphabetically ordered.
func wordBank(questions []question) []wordCount {
	counts := make(map[string]int)
	forms := make(map[string]map[string]int)
	for _, q := range questions {
		base := baseForm(q.Word)
		counts[base]++
		if forms[base] == nil {
			forms[base] = make(map[string]int)
		}
		forms[base][q.Word]++
	}

	bank := make([]wordCount, 0, len(counts))
	for base, count := range counts {
		label, best := "", 0
		for form, n := range forms[base] {
			if n > best || (n == best && form < label) {
				label, best = form, n
			}
		}
		bank = append(bank, wordCount{Word: label, Count: count})
	}
	sort.Slice(bank, func(i, j int) bool {
		return strings.ToLower(bank[i].Word) < strings.ToLower(bank[j].Word)
	})
	return bank
}

// wrapText breaks text into lines of at most width characters, splitting
// on spaces. Words longer than the width get a line of their own.
func wrapText(text string, width int) []string {
	var lines []string
	var line string
	for _, word := range strings.Fields(text) {
		trial := word
		if line != "" {
			trial = line + " " + word
		}
		if len(trial) <= width || line == "" {
			line = trial
			continue
		}
		lines = append(lines, line)
		line = word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
