package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cindysoftware/hero/internal/catalog"
	"github.com/cindysoftware/hero/internal/config"
	"github.com/cindysoftware/hero/internal/home"
)

var catalogsCmd = &cobra.Command{
	Use:   "catalogs",
	Short: "List the configured catalogs",
	Long: `List every entry of the source dataset, theme, and model catalogs
with its index. Indexes are part of worksheet identities: reordering or
removing catalog entries breaks previously issued ids.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		file := cfgFile
		if file == "" && h.ConfigExists() {
			file = h.ConfigPath()
		}
		mgr, err := config.NewManager(file)
		if err != nil {
			return err
		}

		set, err := catalog.LoadDir(resolvedPaths(h, mgr.Get()).referenceData)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, c := range []*catalog.Catalog{set.Datasets, set.Themes, set.Models} {
			fmt.Fprintf(w, "%s\n", c.Name())
			for i, e := range c.Entries() {
				fmt.Fprintf(w, "  %d\t%s\t%s\n", i, e.KeyName, e.Title)
			}
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(catalogsCmd)
}
