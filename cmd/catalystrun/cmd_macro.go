package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sawpanic/catalystrun/internal/infrastructure/market"
)

var macroCmd = &cobra.Command{
	Use:   "macro [code]",
	Short: "List tracked macro release codes",
	Long: `With no argument, list every macro release code usable as the
description of a macro_release event. With a code, print its description.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMacro,
}

func init() {
	rootCmd.AddCommand(macroCmd)
}

func runMacro(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		fmt.Println(market.DescribeMacroEvent(args[0]))
		return nil
	}
	for _, code := range market.MacroCalendar() {
		fmt.Printf("%-8s %s\n", code, market.DescribeMacroEvent(code))
	}
	return nil
}
