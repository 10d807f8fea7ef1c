package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/cue/pkg/guess"
)

var guessCmd = &cobra.Command{
	Use:   "guess <name>",
	Short: "Show what would be guessed from a file name (local, no state)",
	Long: `Show what would be guessed from a file name.

Examples:
  cue guess "Breaking.Bad.S02E05.1080p.BluRay.x264-GROUP.mkv"
  cue guess /media/series/Dark\ Season\ 3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result := guess.Guess(args[0])

		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(result)
		}
		if result == nil {
			fmt.Println("No guess.")
			return nil
		}
		if result.Season != nil {
			fmt.Printf("%s (season %d)\n", result.Title, *result.Season)
		} else {
			fmt.Println(result.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(guessCmd)
}
