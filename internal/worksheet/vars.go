package worksheet

import (
	"fmt"
	"strings"

	"github.com/cindysoftware/hero/internal/catalog"
)

// Variables maps presentation variable names to values for template
// interpolation.
type Variables map[string]any

// Interpolate replaces every "{name}" placeholder in the template with
// the stringified value. Placeholders with no matching variable are left
// verbatim; this is a cosmetic best-effort step, not a validation one.
func Interpolate(template string, vars Variables) string {
	out := template
	for name, value := range vars {
		out = strings.ReplaceAll(out, "{"+name+"}", fmt.Sprint(value))
	}
	return out
}

// DocumentVariables builds the standard presentation variable set for a
// document: request fields, the worksheet id, and catalog display
// metadata for the source dataset and theme. Catalog misses contribute
// nothing rather than failing; a renamed catalog entry should not block
// rendering a cached worksheet.
func DocumentVariables(doc *Document, catalogs *catalog.Set) Variables {
	vars := Variables{
		"section":        doc.Section,
		"reading_system": doc.ReadingLevel.System,
		"reading_level":  doc.ReadingLevel.Level,
		"model":          doc.Model,
		"seed":           doc.Seed,
		"episode":        doc.Seed,
		"worksheet_id":   doc.WorksheetID,
	}
	if catalogs == nil {
		return vars
	}
	if e, err := catalogs.Datasets.Get(doc.SourceDataset); err == nil {
		vars["source_title"] = e.Title
		vars["source_abbr"] = e.TitleAbbr
	}
	if e, err := catalogs.Themes.Get(doc.Theme); err == nil {
		vars["theme_title"] = e.Title
		vars["theme_abbr"] = e.TitleAbbr
	}
	return vars
}

// InterpolatePresentation applies the variable set to every template in
// the presentation block, returning a new block.
func InterpolatePresentation(pres Presentation, vars Variables) Presentation {
	pres.Header = Interpolate(pres.Header, vars)
	pres.Footer = Interpolate(pres.Footer, vars)
	pres.AnswerKeyFooter = Interpolate(pres.AnswerKeyFooter, vars)
	return pres
}
