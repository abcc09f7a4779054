package main

import (
	"github.com/spf13/cobra"

	"github.com/sawpanic/catalystrun/internal/interfaces/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only report API",
	Long: `Serve a read-only JSON API over the event store: /events, /ratings,
/export and /stats. The API never mutates the store; use the CLI commands
for that.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	addr := cfg.Serve.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	return httpapi.NewServer(addr, store).ListenAndServe()
}
