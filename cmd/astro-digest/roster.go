package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Print the faculty roster used by roster-mode runs",
	Long: `Roster scrapes the department directory page, falls back to the static
roster file when the scrape yields nothing, and prints the deduplicated
name list. Useful for checking what roster-mode queries will be built from.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		roster, err := loadRoster(cmd.Context())
		if err != nil {
			return err
		}
		for _, e := range roster {
			fmt.Println(e.DisplayName())
		}
		fmt.Printf("%d names\n", len(roster))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rosterCmd)
}
