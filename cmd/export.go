package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/convolog/conversations"
	"github.com/iksnae/convolog/internal"
	"github.com/iksnae/convolog/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOut    string
	exportIndex  int
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <archive>",
	Short: "Export conversations to file",
	Long: `Export conversations from an archive to various formats (jsonl, md, yaml, json).

Each conversation is written to its own file in the output directory.
Use --index to export a single conversation instead of the whole archive.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, err := conversations.Load(args[0])
		if err != nil {
			return fmt.Errorf("failed to load archive: %w", err)
		}

		// Create exporter
		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		// Pick which conversations to export
		var indices []int
		if exportIndex >= 0 {
			if _, err := archive.Get(exportIndex); err != nil {
				return err
			}
			indices = []int{exportIndex}
		} else {
			indices = make([]int, archive.NumConversations())
			for i := range indices {
				indices[i] = i
			}
		}
		if len(indices) == 0 {
			return fmt.Errorf("archive %s has no conversations", args[0])
		}

		// Ensure output directory exists
		if err := os.MkdirAll(exportOut, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		// Export conversations with progress
		ctx := context.Background()
		exported := 0
		err = internal.ShowProgress(ctx, fmt.Sprintf("Exporting %d conversation(s) to %s", len(indices), exportOut), func() error {
			for _, i := range indices {
				conversation, err := archive.Get(i)
				if err != nil {
					internal.LogError("Failed to read conversation %d: %v", i, err)
					continue
				}
				filename := fmt.Sprintf("conversation_%04d.%s", i, exporter.Extension())
				filepath := filepath.Join(exportOut, filename)

				file, err := os.Create(filepath)
				if err != nil {
					internal.LogError("Failed to create file %s: %v", filepath, err)
					continue
				}

				if err := exporter.Export(conversation, file); err != nil {
					_ = file.Close()
					internal.LogError("Failed to export conversation %d: %v", i, err)
					continue
				}

				if err := file.Close(); err != nil {
					internal.LogWarn("Failed to close file %s: %v", filepath, err)
				}
				exported++
			}
			return nil
		})
		if err != nil {
			return err
		}

		internal.PrintSuccess(fmt.Sprintf("Export complete: %d conversation(s) exported to %s", exported, exportOut))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "./exports", "Output directory")
	exportCmd.Flags().IntVarP(&exportIndex, "index", "i", -1, "Export only the conversation at this index")
}
