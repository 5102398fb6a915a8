package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cindysoftware/hero/internal/render"
	"github.com/cindysoftware/hero/internal/worksheet"
)

var (
	genDataset       string
	genTheme         string
	genModel         string
	genReadingSystem string
	genReadingLevel  string
	genSection       int
	genSeed          int

	genHeader          string
	genFooter          string
	genAnswerKeyFooter string

	genOut      string
	genJSONOnly bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a worksheet",
	Long: `Generate a worksheet for the given inputs, reusing the cached copy
when one exists, and write the rendered PDF.

Examples:
  hero generate --dataset ww3000_bk3 --reading-system fp --reading-level C \
    --section 6 --theme kpop --model gpt-5-mini --seed 3
  hero generate --dataset ww3000_bk3 --reading-system grade --reading-level 3 \
    --section 6 --seed 1 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}

		req := worksheet.Request{
			SourceDataset: genDataset,
			Theme:         genTheme,
			Model:         genModel,
			ReadingLevel:  worksheet.ReadingLevel{System: genReadingSystem, Level: genReadingLevel},
			Section:       genSection,
			Seed:          genSeed,
		}

		var pres *worksheet.Presentation
		if genHeader != "" || genFooter != "" || genAnswerKeyFooter != "" {
			pres = &worksheet.Presentation{
				Header:          genHeader,
				Footer:          genFooter,
				AnswerKeyFooter: genAnswerKeyFooter,
			}
		}

		res, err := e.service.Generate(cmd.Context(), req, pres)
		if err != nil {
			return err
		}
		e.logger.Info("worksheet ready", "worksheet_id", res.WorksheetID, "cached", res.Cached)

		if genJSONOnly {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res.Document)
		}

		out := genOut
		if out == "" {
			out = filepath.Join(resolvedPaths(e.home, e.cfg).exports, res.WorksheetID+".pdf")
		}
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return err
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := render.WorksheetPDF(f, res.Document); err != nil {
			return err
		}
		fmt.Printf("%s\n", out)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&genDataset, "dataset", "", "source dataset key (required)")
	generateCmd.Flags().StringVar(&genTheme, "theme", "", "theme key")
	generateCmd.Flags().StringVar(&genModel, "model", "", "model key (required)")
	generateCmd.Flags().StringVar(&genReadingSystem, "reading-system", "fp", `reading level system: "fp" or "grade"`)
	generateCmd.Flags().StringVar(&genReadingLevel, "reading-level", "", "reading level within the system (required)")
	generateCmd.Flags().IntVar(&genSection, "section", 0, "dataset section number (required)")
	generateCmd.Flags().IntVar(&genSeed, "seed", 0, "variation seed")

	generateCmd.Flags().StringVar(&genHeader, "header", "", "worksheet header template")
	generateCmd.Flags().StringVar(&genFooter, "footer", "", "page footer template")
	generateCmd.Flags().StringVar(&genAnswerKeyFooter, "answer-key-footer", "", "answer key footer template")

	generateCmd.Flags().StringVar(&genOut, "out", "", "PDF output path (default: exports dir)")
	generateCmd.Flags().BoolVar(&genJSONOnly, "json", false, "print the document JSON instead of rendering a PDF")

	cobra.CheckErr(generateCmd.MarkFlagRequired("dataset"))
	cobra.CheckErr(generateCmd.MarkFlagRequired("model"))
	cobra.CheckErr(generateCmd.MarkFlagRequired("reading-level"))
	cobra.CheckErr(generateCmd.MarkFlagRequired("section"))

	rootCmd.AddCommand(generateCmd)
}
