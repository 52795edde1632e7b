// ABOUTME: Edit command for changing an article's title or author
// ABOUTME: Applies edits by backing index and saves the whole collection

package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/newsdesk/internal/models"
	"github.com/harper/newsdesk/internal/view"
)

var editCmd = &cobra.Command{
	Use:   "edit <index>",
	Short: "Edit an article's title or author",
	Long: `Change the title and/or author of the article at <index> (as shown by list)
and save the collection. Other articles keep their indices.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q: must be a number", args[0])
		}

		type change struct {
			field models.Field
			value string
		}
		var changes []change
		if cmd.Flags().Changed("title") {
			v, _ := cmd.Flags().GetString("title")
			changes = append(changes, change{models.FieldTitle, v})
		}
		if cmd.Flags().Changed("author") {
			v, _ := cmd.Flags().GetString("author")
			changes = append(changes, change{models.FieldAuthor, v})
		}
		if len(changes) == 0 {
			return errors.New("nothing to change: pass --title and/or --author")
		}

		list, err := svc.Session(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load articles: %w", err)
		}
		m := view.New(list)
		for _, c := range changes {
			if err := m.EditField(index, c.field, c.value); err != nil {
				return err
			}
		}
		if err := svc.Save(cmd.Context(), m.Articles()); err != nil {
			return fmt.Errorf("failed to save articles: %w", err)
		}

		a, _ := m.Article(index)
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(cmd.OutOrStdout(), "%s [%d] %s\n", green("✓ Saved"), index, a.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().String("title", "", "new title")
	editCmd.Flags().String("author", "", "new author")
}
