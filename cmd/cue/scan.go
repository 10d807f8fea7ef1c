package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan [root]",
	Short: "Create sessions for every item under a library root",
	Long: `Create sessions for every item under a library root.

Each subdirectory holding media files becomes a series session, each
top-level media file a standalone one. Titles are guessed from the
names. Existing sessions are left alone. With no argument the
configured library root is scanned.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		root := a.cfg.Library.Root
		if len(args) == 1 {
			root = args[0]
		}
		if root == "" {
			return fmt.Errorf("no root given and library.root not configured")
		}
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}

		created, err := a.svc.Scan(root)
		if err != nil {
			return err
		}
		fmt.Printf("Created %d new sessions under %s\n", created, root)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
