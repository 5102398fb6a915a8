package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cindysoftware/hero/internal/config"
	"github.com/cindysoftware/hero/internal/home"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the hero home directory",
	Long: `Create the home directory layout and a default config file.

The layout:
  ~/.hero/config.yaml        configuration
  ~/.hero/reference_data/    catalog files (source_datasets.json, themes.json, models.json)
  ~/.hero/source_datasets/   per-book dataset files
  ~/.hero/themes/            per-theme content files
  ~/.hero/prompts/           generation prompt
  ~/.hero/datastore/         cached worksheets
  ~/.hero/exports/           rendered PDFs`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		if h.ConfigExists() {
			fmt.Printf("config already exists at %s\n", h.ConfigPath())
			return nil
		}
		if err := config.WriteDefault(h.ConfigPath()); err != nil {
			return err
		}
		fmt.Printf("initialized %s\n", h.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
