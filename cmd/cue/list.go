package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tracked sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		sessions := a.svc.Sessions()
		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(sessions)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions. Play something, or run 'cue scan'.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TITLE\tSEASON\tPROGRESS\tLAST PLAYED\tPATH")
		for _, sess := range sessions {
			seasonCol := "-"
			if sess.Metadata.SeasonNumber != nil {
				seasonCol = fmt.Sprintf("S%02d", *sess.Metadata.SeasonNumber)
			}
			progress := "unplayed"
			switch {
			case sess.Playback.IsFinished:
				progress = fmt.Sprintf("ep %d finished", sess.Playback.LastPlayedIndex+1)
			case sess.Playback.LastPlayedFile != "":
				progress = fmt.Sprintf("ep %d at %s",
					sess.Playback.LastPlayedIndex+1,
					formatSeconds(sess.Playback.Position))
			}
			played := "-"
			if !sess.Playback.Timestamp.IsZero() && sess.Playback.LastPlayedFile != "" {
				played = humanize.Time(sess.Playback.Timestamp)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				sess.Metadata.CleanTitle, seasonCol, progress, played, sess.Filepath)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
