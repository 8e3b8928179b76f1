package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"spacex-dash/launches"
)

var summaryFlags struct {
	site string
	min  float64
	max  float64
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the success/failure counts for a site and payload range",
	RunE:  runSummary,
}

func init() {
	f := summaryCmd.Flags()
	f.StringVar(&summaryFlags.site, "site", launches.AllSites, "Launch site, or ALL")
	f.Float64Var(&summaryFlags.min, "min", 0, "Lowest payload mass in kg (default: dataset minimum)")
	f.Float64Var(&summaryFlags.max, "max", 0, "Highest payload mass in kg (default: dataset maximum)")
}

func runSummary(cmd *cobra.Command, _ []string) error {
	ds, _, closeData, err := loadDataset(cmd.Context(), cfg.Data, logger)
	if err != nil {
		return err
	}
	defer closeData()

	cs := launches.DefaultControls(ds)
	cs.Site = summaryFlags.site
	if cmd.Flags().Changed("min") {
		cs.Payload.Low = summaryFlags.min
	}
	if cmd.Flags().Changed("max") {
		cs.Payload.High = summaryFlags.max
	}
	cs, err = cs.Normalize(ds)
	if err != nil {
		return err
	}

	v := launches.Compute(ds, cs, cfg.Engine.Policy())
	writeSummary(cmd, v)
	return nil
}

func writeSummary(cmd *cobra.Command, v launches.View) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", v.PieTitle)
	fmt.Fprintf(out, "Payload range: %s – %s kg\n",
		humanize.Commaf(v.Controls.Payload.Low), humanize.Commaf(v.Controls.Payload.High))
	if v.PieNoData {
		return
	}
	total := v.Summary.Total()
	for _, s := range v.Slices {
		fmt.Fprintf(out, "  %-8s %4d  (%.1f%%)\n", s.Outcome, s.Count, 100*float64(s.Count)/float64(total))
	}
	fmt.Fprintf(out, "  %-8s %4d\n", "Total", total)
}
