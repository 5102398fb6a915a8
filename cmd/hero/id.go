package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cindysoftware/hero/internal/worksheet"
)

var idCmd = &cobra.Command{
	Use:   "id",
	Short: "Encode and decode worksheet identities",
}

var idEncodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Compute the worksheet id for a set of inputs",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}

		id, err := e.service.EncodeID(worksheet.Request{
			SourceDataset: genDataset,
			Theme:         genTheme,
			Model:         genModel,
			ReadingLevel:  worksheet.ReadingLevel{System: genReadingSystem, Level: genReadingLevel},
			Section:       genSection,
			Seed:          genSeed,
		})
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

var idDecodeCmd = &cobra.Command{
	Use:   "decode <worksheet-id>",
	Short: "Decode a worksheet id back into its inputs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}

		req, err := e.service.Resolve(args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(req)
	},
}

func init() {
	idEncodeCmd.Flags().StringVar(&genDataset, "dataset", "", "source dataset key (required)")
	idEncodeCmd.Flags().StringVar(&genTheme, "theme", "", "theme key")
	idEncodeCmd.Flags().StringVar(&genModel, "model", "", "model key (required)")
	idEncodeCmd.Flags().StringVar(&genReadingSystem, "reading-system", "fp", `reading level system: "fp" or "grade"`)
	idEncodeCmd.Flags().StringVar(&genReadingLevel, "reading-level", "", "reading level within the system (required)")
	idEncodeCmd.Flags().IntVar(&genSection, "section", 0, "dataset section number (required)")
	idEncodeCmd.Flags().IntVar(&genSeed, "seed", 0, "variation seed")

	cobra.CheckErr(idEncodeCmd.MarkFlagRequired("dataset"))
	cobra.CheckErr(idEncodeCmd.MarkFlagRequired("model"))
	cobra.CheckErr(idEncodeCmd.MarkFlagRequired("reading-level"))
	cobra.CheckErr(idEncodeCmd.MarkFlagRequired("section"))

	idCmd.AddCommand(idEncodeCmd)
	idCmd.AddCommand(idDecodeCmd)
	rootCmd.AddCommand(idCmd)
}
