// ABOUTME: Restore command for undoing saved edits
// ABOUTME: Replaces the saved collection with the original snapshot

package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/newsdesk/internal/articles"
)

var restoreCmd = &cobra.Command{
	Use:     "restore",
	Aliases: []string{"undo"},
	Short:   "Restore the original snapshot",
	Long: `Replace the saved collection with the snapshot captured at the first
successful fetch, discarding all saved edits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		restored, err := svc.Restore(cmd.Context())
		if errors.Is(err, articles.ErrNoSnapshotAvailable) {
			return errors.New("nothing to restore: no articles have been fetched yet (try: newsdesk fetch)")
		}
		if err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d articles from the original snapshot\n", green("✓ Restored"), len(restored))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}
