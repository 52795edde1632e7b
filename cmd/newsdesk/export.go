// ABOUTME: Export command for writing the collection as JSON
// ABOUTME: Output matches what import and POST /articles accept

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the collection as JSON",
	Long:  "Write the current collection (saved, or fetched when nothing is saved) as a JSON array.",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		list, err := svc.Load(cmd.Context(), "")
		if err != nil {
			return fmt.Errorf("failed to load articles: %w", err)
		}
		data, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode articles: %w", err)
		}
		data = append(data, '\n')

		if output == "" || output == "-" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(output, data, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		logger.Info("exported articles", "count", len(list), "path", output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("output", "o", "", "file to write (default: stdout)")
}
