package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteEventID string

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a tracked event",
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().StringVar(&deleteEventID, "event-id", "", "Event id to delete (required)")
	_ = deleteCmd.MarkFlagRequired("event-id")
}

func runDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	removed, err := store.DeleteEvent(deleteEventID)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Printf("No event with id %s\n", deleteEventID)
		return nil
	}
	fmt.Printf("[+] Deleted %s\n", deleteEventID)
	return nil
}
