package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/cue/internal/session"
)

var playFind bool

var playCmd = &cobra.Command{
	Use:   "play <path|title>",
	Short: "Play a file or series, resuming where you left off",
	Long: `Play a file or series, resuming where you left off.

A finished item advances to the next episode from its beginning;
an unfinished one resumes at the stored position. The command blocks
until the player exits, then records the final position.

Examples:
  cue play /media/series/Breaking\ Bad
  cue play ~/movies/heat.mkv
  cue play --find "breaking bad"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		path := args[0]
		if playFind {
			m, sess := a.svc.FindByTitle(args[0])
			if sess == nil {
				return fmt.Errorf("no session matches %q", args[0])
			}
			fmt.Fprintf(os.Stderr, "matched %q (%s confidence)\n", m.Title, m.Confidence)
			path = sess.Filepath
		} else if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}

		state, err := a.svc.Launch(path)
		if err != nil {
			return err
		}

		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(state)
		}
		printState(state)
		return nil
	},
}

func printState(state session.PlaybackState) {
	if state.LastPlayedFile == "" {
		fmt.Println("Nothing played.")
		return
	}
	status := "in progress"
	if state.IsFinished {
		status = "finished"
	}
	fmt.Printf("%s\n  %s / %s (%s)\n",
		filepath.Base(state.LastPlayedFile),
		formatSeconds(state.Position),
		formatSeconds(state.Duration),
		status,
	)
}

func formatSeconds(s float64) string {
	if s <= 0 {
		return "--:--"
	}
	d := time.Duration(s * float64(time.Second)).Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	sec := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

func init() {
	playCmd.Flags().BoolVar(&playFind, "find", false, "Treat the argument as a title to fuzzy-match")
	rootCmd.AddCommand(playCmd)
}
