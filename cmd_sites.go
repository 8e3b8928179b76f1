package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spacex-dash/launches"
)

var sitesCmd = &cobra.Command{
	Use:   "sites [query]",
	Short: "List the site dropdown options matching a search text",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSites,
}

func runSites(cmd *cobra.Command, args []string) error {
	ds, _, closeData, err := loadDataset(cmd.Context(), cfg.Data, logger)
	if err != nil {
		return err
	}
	defer closeData()

	out := cmd.OutOrStdout()
	for _, o := range launches.SearchSites(ds, strings.Join(args, " ")) {
		fmt.Fprintf(out, "%-14s %s\n", o.Value, o.Label)
	}
	return nil
}
