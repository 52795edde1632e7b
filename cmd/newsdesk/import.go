// ABOUTME: Import command for replacing the saved collection from JSON
// ABOUTME: Reads a JSON array of articles from a file or stdin

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/newsdesk/internal/config"
)

// maxImportBytes caps how much input import reads.
var maxImportBytes int64 = config.MaxRequestBodyBytes * 16

var importCmd = &cobra.Command{
	Use:   "import [file|-]",
	Short: "Replace the saved collection with a JSON array",
	Long: `Replace the saved collection with the JSON array of articles in file,
or read from stdin when file is "-" or omitted. The whole collection is
replaced; nothing is merged.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()
			r = f
		}

		body, err := io.ReadAll(io.LimitReader(r, maxImportBytes+1))
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if int64(len(body)) > maxImportBytes {
			return fmt.Errorf("input too large (exceeds %d bytes)", maxImportBytes)
		}
		saved, err := svc.SaveJSON(cmd.Context(), body)
		if err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d articles\n", green("✓ Imported"), len(saved))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
