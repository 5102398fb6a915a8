package generate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cindysoftware/hero/internal/worksheet"
)

// readingLevelPhrase renders a reading level as the prose form the
// system prompt embeds, e.g. "Fountas & Pinnell level C" or
// "3rd-grade reading level".
func readingLevelPhrase(rl worksheet.ReadingLevel) (string, error) {
	switch rl.System {
	case worksheet.SystemFP:
		if rl.Level == "" {
			return "", &worksheet.InvalidFieldError{Field: "reading_level.level", Reason: "missing"}
		}
		return "Fountas & Pinnell level " + strings.ToUpper(rl.Level), nil
	case worksheet.SystemGrade:
		grade, err := strconv.Atoi(rl.Level)
		if err != nil {
			return "", &worksheet.InvalidFieldError{Field: "reading_level.level", Reason: fmt.Sprintf("grade level must be an integer, got %q", rl.Level)}
		}
		return ordinal(grade) + "-grade reading level", nil
	default:
		return "", &worksheet.UnsupportedReadingSystemError{System: rl.System}
	}
}

// ordinal renders 1 -> "1st", 2 -> "2nd", 3 -> "3rd", 11 -> "11th".
func ordinal(n int) string {
	s := strconv.Itoa(n)
	if n%100 >= 11 && n%100 <= 13 {
		return s + "th"
	}
	switch n % 10 {
	case 1:
		return s + "st"
	case 2:
		return s + "nd"
	case 3:
		return s + "rd"
	default:
		return s + "th"
	}
}

// systemPrompt loads the prompt file and substitutes the
// "{reading_level}" placeholder for the document's level.
func systemPrompt(promptPath string, rl worksheet.ReadingLevel) (string, error) {
	raw, err := os.ReadFile(promptPath)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file %s: %w", promptPath, err)
	}
	phrase, err := readingLevelPhrase(rl)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(string(raw), "{reading_level}", phrase), nil
}

// themeContent loads "{themesDir}/{theme}.txt" when the document names a
// theme. A document without a theme needs no theme content; a named
// theme with no themes directory is an error.
func themeContent(themesDir, theme string) (string, error) {
	if theme == "" {
		return "", nil
	}
	if themesDir == "" {
		return "", fmt.Errorf("document names theme %q but no themes directory is configured", theme)
	}
	path := filepath.Join(themesDir, theme+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read theme file %s: %w", path, err)
	}
	return string(data), nil
}

// buildInput assembles the user-level model input: the generation
// payload JSON, then the raw theme text. The prompt file explains both
// blocks to the model.
func buildInput(doc *worksheet.Document, theme string) (string, error) {
	payload, err := json.MarshalIndent(doc.GenerationPayload(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal generation payload: %w", err)
	}

	var b strings.Builder
	b.WriteString("REQUEST JSON:\n")
	b.Write(payload)
	if theme != "" {
		b.WriteString("\n\nTHEME:\n")
		b.WriteString(theme)
	}
	return b.String(), nil
}
