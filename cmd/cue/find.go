package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find <title>",
	Short: "Fuzzy-find a session by title",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		m, sess := a.svc.FindByTitle(args[0])
		if sess == nil {
			return fmt.Errorf("no session matches %q", args[0])
		}

		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(map[string]any{
				"title":      m.Title,
				"score":      m.Score,
				"confidence": m.Confidence.String(),
				"session":    sess,
			})
		}
		fmt.Printf("%s (%s confidence, %.2f)\n  %s\n", m.Title, m.Confidence, m.Score, sess.Filepath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(findCmd)
}
