package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vmunix/cue/internal/library"
)

var (
	titleValue  string
	titleSeason int
	titleLock   bool
	titleUnlock bool
)

var setTitleCmd = &cobra.Command{
	Use:   "set-title <path>",
	Short: "Edit a session's title or season",
	Long: `Edit a session's title or season.

--lock protects the title from future automatic guesses; a locked
title can only be rewritten by passing --unlock in the same call.

Examples:
  cue set-title /media/series/bb --title "Breaking Bad" --lock
  cue set-title /media/series/bb --season 3
  cue set-title /media/series/bb --title "Fixed" --unlock`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if titleLock && titleUnlock {
			return fmt.Errorf("--lock and --unlock are mutually exclusive")
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		path := args[0]
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}

		upd := library.MetadataUpdate{}
		if cmd.Flags().Changed("title") {
			upd.Title = &titleValue
		}
		if cmd.Flags().Changed("season") {
			upd.Season = &titleSeason
		}
		if titleLock {
			v := true
			upd.LockTitle = &v
		}
		if titleUnlock {
			v := false
			upd.LockTitle = &v
		}

		sess, err := a.svc.UpdateMetadata(path, upd)
		if err != nil {
			return err
		}

		lockNote := ""
		if sess.Metadata.IsUserLockedTitle {
			lockNote = " (locked)"
		}
		fmt.Printf("%s%s\n", sess.Metadata.CleanTitle, lockNote)
		return nil
	},
}

func init() {
	setTitleCmd.Flags().StringVar(&titleValue, "title", "", "New title")
	setTitleCmd.Flags().IntVar(&titleSeason, "season", 0, "Season number")
	setTitleCmd.Flags().BoolVar(&titleLock, "lock", false, "Protect the title from automatic guesses")
	setTitleCmd.Flags().BoolVar(&titleUnlock, "unlock", false, "Clear the title lock")
	rootCmd.AddCommand(setTitleCmd)
}
