package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sawpanic/catalystrun/internal/persistence"
)

var (
	exportOutput    string
	exportNoRatings bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all events with their ratings to a JSON file",
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportOutput, "output", "catalyst_export.json", "Output path")
	exportCmd.Flags().BoolVar(&exportNoRatings, "no-ratings", false, "Export events without nested ratings")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := persistence.ExportJSON(store, exportOutput, !exportNoRatings); err != nil {
		return err
	}
	fmt.Printf("[+] Exported to %s\n", exportOutput)
	return nil
}
