package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iksnae/tourmate/internal"
	"github.com/iksnae/tourmate/internal/export"
	"github.com/spf13/cobra"
)

var (
	format    string
	outputDir string
	sessionID string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export archived sessions to files",
	Long: `Export sessions from the SQLite archive to ` + strings.Join(export.Formats, ", ") + ` files.

Each session is written to <out>/session_<id>.<ext>. Use --session-id to
export a single session; 'tourmate list' shows the archived IDs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		var sessions []*internal.Session
		err = internal.ShowProgress(cmd.Context(), "Reading archive", func() error {
			var loadErr error
			sessions, loadErr = loadArchived(cmd.Context(), archivePath)
			return loadErr
		})
		if err != nil {
			return err
		}

		if sessionID != "" {
			var match []*internal.Session
			for _, session := range sessions {
				if session.ID == sessionID {
					match = append(match, session)
					break
				}
			}
			if len(match) == 0 {
				return fmt.Errorf("session not found: %s (use 'tourmate list' to see archived sessions)", sessionID)
			}
			sessions = match
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		written := 0
		for _, session := range sessions {
			path := filepath.Join(outputDir, fmt.Sprintf("session_%s.%s", session.ID, exporter.Extension()))
			if err := writeSession(exporter, session, path); err != nil {
				internal.LogError("Failed to export session %s: %v", session.ID, err)
				continue
			}
			written++
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Export complete: %d session(s) exported to %s\n", written, outputDir)
		if written < len(sessions) {
			return fmt.Errorf("%d session(s) failed to export", len(sessions)-written)
		}
		return nil
	},
}

func writeSession(exporter export.Exporter, session *internal.Session, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := exporter.Export(session, file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format ("+strings.Join(export.Formats, ", ")+")")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "./exports", "Output directory")
	exportCmd.Flags().StringVar(&sessionID, "session-id", "", "Export a specific session by ID")
}
