package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent playback runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if a.hst == nil {
			return fmt.Errorf("playback history unavailable")
		}
		entries, err := a.hst.Recent(historyLimit)
		if err != nil {
			return err
		}

		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(entries)
		}
		if len(entries) == 0 {
			fmt.Println("No playback history yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tFILE\tPROGRESS\tSTATUS")
		for _, e := range entries {
			status := "stopped"
			if e.Finished {
				status = "finished"
			}
			fmt.Fprintf(w, "%s\t%s\t%s / %s\t%s\n",
				humanize.Time(e.PlayedAt),
				filepath.Base(e.File),
				formatSeconds(e.Position),
				formatSeconds(e.Duration),
				status,
			)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of entries to show")
	rootCmd.AddCommand(historyCmd)
}
