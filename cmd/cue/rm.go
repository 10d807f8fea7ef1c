package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Forget a session and its playback progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		path := args[0]
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if err := a.svc.Delete(path); err != nil {
			return err
		}
		fmt.Printf("Forgot %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
