package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <worksheet-id>",
	Short: "Fetch a cached worksheet by id",
	Long:  "Print the cached document for a worksheet id without generating anything.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}

		doc, ok, err := e.service.Lookup(args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("worksheet %s is not cached", args[0])
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}
