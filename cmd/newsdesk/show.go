// ABOUTME: Show command for reading one article
// ABOUTME: Renders the article as Markdown in the terminal with glamour

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/newsdesk/internal/config"
	"github.com/harper/newsdesk/internal/content"
	"github.com/harper/newsdesk/internal/view"
)

var showCmd = &cobra.Command{
	Use:     "show <index>",
	Aliases: []string{"read"},
	Short:   "Show one article",
	Long:    "Display an article by the index shown in list output, with its description rendered as Markdown",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q: must be a number", args[0])
		}
		raw, _ := cmd.Flags().GetBool("raw")

		list, err := svc.Session(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load articles: %w", err)
		}
		a, err := view.New(list).Article(index)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		markdown := content.ArticleMarkdown(a)
		if raw {
			fmt.Fprint(out, markdown)
			return nil
		}

		faint := color.New(color.Faint).SprintFunc()
		fmt.Fprintln(out, strings.Repeat("─", config.SeparatorWidth))
		rendered, err := glamour.Render(markdown, "dark")
		if err != nil {
			fmt.Fprintf(out, "%s\n", faint("(markdown rendering unavailable, showing plain text)"))
			fmt.Fprintf(out, "\n%s\n", markdown)
		} else {
			fmt.Fprint(out, rendered)
		}
		fmt.Fprintln(out, strings.Repeat("─", config.SeparatorWidth))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().Bool("raw", false, "print Markdown without terminal rendering")
}
