// ABOUTME: List command for viewing the article collection
// ABOUTME: Filters, sorts, and paginates through the view model with color formatting

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/newsdesk/internal/articles"
	"github.com/harper/newsdesk/internal/config"
	"github.com/harper/newsdesk/internal/content"
	"github.com/harper/newsdesk/internal/timeutil"
	"github.com/harper/newsdesk/internal/view"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List articles",
	Long: `List the article collection. The saved collection is shown when one
exists; otherwise articles are fetched from the configured news source and
kept as the saved collection, so show and edit address the indices listed.
Use "newsdesk clear" to fetch fresh articles on the next list.

Sort keys: publishedAt-desc (default), publishedAt-asc, title-asc, title-desc,
author-asc, author-desc, source-asc, source-desc, or newest, oldest,
source-az, source-za.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, _ := cmd.Flags().GetString("filter")
		sortFlag, _ := cmd.Flags().GetString("sort")
		page, _ := cmd.Flags().GetInt("page")
		pageSize, _ := cmd.Flags().GetInt("page-size")
		topic, _ := cmd.Flags().GetString("topic")
		descriptions, _ := cmd.Flags().GetBool("descriptions")

		key, err := view.ParseSortKey(sortFlag)
		if err != nil {
			return err
		}

		list, origin, err := svc.LoadWithOrigin(cmd.Context(), topic)
		if err != nil {
			return fmt.Errorf("failed to load articles: %w", err)
		}
		// Each command runs in its own process, so a listed fetch is kept
		// for show and edit to address by the indices printed here.
		if origin == articles.OriginRemote && len(list) > 0 {
			if err := svc.Save(cmd.Context(), list); err != nil {
				return fmt.Errorf("failed to keep fetched articles: %w", err)
			}
		}

		m := view.New(list, view.WithPageSize(pageSize))
		m.SetFilter(filter)
		if err := m.SetSort(key); err != nil {
			return err
		}
		m.SetPage(page)
		p := m.View()

		out := cmd.OutOrStdout()
		if p.Total == 0 {
			fmt.Fprintln(out, "No articles found.")
			return nil
		}
		renderPage(out, p, string(origin), descriptions, time.Now())
		return nil
	},
}

func renderPage(out io.Writer, p view.Page, origin string, descriptions bool, now time.Time) {
	faint := color.New(color.Faint).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Page %d/%d · %d articles · %s", p.Page, p.TotalPages, p.Total, p.Sort)))

	for _, row := range p.Rows {
		a := row.Article
		fmt.Fprintf(out, "%s %s\n", faint(fmt.Sprintf("[%d]", row.Index)), bold(a.Title))

		source := a.Source.Name
		if source == "" {
			source = "Unknown Source"
		}
		meta := cyan(source)
		if author := a.AuthorName(); author != "" {
			meta += faint(" · ") + author
		}
		meta += faint(" · " + timeutil.Describe(a.PublishedAt, now))
		fmt.Fprintf(out, "    %s\n", meta)

		if descriptions && a.Description != "" {
			fmt.Fprintf(out, "    %s\n", faint(content.Summary(a.Description, config.SummaryWidth)))
		}
	}

	if origin != "" {
		fmt.Fprintln(out, faint(fmt.Sprintf("(from %s)", origin)))
	}
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("filter", "f", "", "show only articles whose title or author contains this text")
	listCmd.Flags().StringP("sort", "s", string(view.DefaultSort), "sort key")
	listCmd.Flags().IntP("page", "p", 1, "page number")
	listCmd.Flags().IntP("page-size", "n", config.DefaultViewPageSize, "articles per page")
	listCmd.Flags().StringP("topic", "t", "", "topic to fetch when nothing is saved")
	listCmd.Flags().BoolP("descriptions", "d", false, "show a one-line description under each article")
}
