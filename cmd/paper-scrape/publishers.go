package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meshintel/paper-scrape/internal/doi"
	"github.com/meshintel/paper-scrape/internal/scrape"
)

var publishersCmd = &cobra.Command{
	Use:   "publishers",
	Short: "List supported publishers",
	Run: func(cmd *cobra.Command, args []string) {
		for _, s := range scrape.Registered() {
			prefixes := strings.Join(doi.PrefixesFor(s.Key()), ", ")
			fmt.Printf("%-10s %-22s DOI prefixes: %s\n", s.Key(), s.DisplayName(), prefixes)
		}
	},
}

func init() {
	rootCmd.AddCommand(publishersCmd)
}
