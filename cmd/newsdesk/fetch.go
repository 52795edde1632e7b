// ABOUTME: Fetch command for pulling fresh articles from the news source
// ABOUTME: Ignores the saved collection; --save replaces it with the result

package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/newsdesk/internal/view"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch fresh articles from the news source",
	Long: `Fetch articles from the configured news source, ignoring any saved
collection. The first successful fetch is kept as the original snapshot
that restore returns to. Use --save to replace the saved collection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		save, _ := cmd.Flags().GetBool("save")

		fetched, err := svc.Refresh(cmd.Context(), topic)
		if err != nil {
			return fmt.Errorf("failed to fetch articles: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(fetched) == 0 {
			fmt.Fprintln(out, "No articles found.")
			return nil
		}
		renderPage(out, view.New(fetched, view.WithPageSize(len(fetched))).View(), "", false, time.Now())

		if save {
			if err := svc.Save(cmd.Context(), fetched); err != nil {
				return fmt.Errorf("failed to save articles: %w", err)
			}
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Fprintf(out, "%s %d articles\n", green("✓ Saved"), len(fetched))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringP("topic", "t", "", "topic to search (default: technology top headlines)")
	fetchCmd.Flags().Bool("save", false, "replace the saved collection with the fetched articles")
}
