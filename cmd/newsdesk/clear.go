// ABOUTME: Clear command for deleting the saved collection
// ABOUTME: Asks for confirmation unless --yes is given; the original snapshot is kept

package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the saved articles",
	Long: `Delete the saved collection. The next load fetches fresh articles.
The original snapshot is kept, so restore still works.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		out := cmd.OutOrStdout()

		if !yes {
			fmt.Fprint(out, "Are you sure you want to clear all saved articles? [y/N] ")
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			answer = strings.ToLower(strings.TrimSpace(answer))
			if answer != "y" && answer != "yes" {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}
		}

		if err := svc.Clear(cmd.Context()); err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintln(out, green("✓ Saved articles cleared"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolP("yes", "y", false, "skip confirmation")
}
