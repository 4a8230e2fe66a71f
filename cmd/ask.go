package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/iksnae/tourmate/internal"
	"github.com/iksnae/tourmate/internal/assistant"
	"github.com/spf13/cobra"
)

var askJSON bool

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a single travel question",
	Long: `Ask TourMate one question and print the answer.

Example:
  tourmate ask "Khách sạn giá rẻ gần chợ Bến Thành"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := buildService(cmd)
		if err != nil {
			return err
		}

		question := strings.Join(args, " ")
		var reply internal.Reply
		_ = internal.ShowProgress(cmd.Context(), "Đang tìm câu trả lời...", func() error {
			reply = svc.Chat(cmd.Context(), assistant.ChatRequest{Message: question})
			return nil
		})

		out := cmd.OutOrStdout()
		if askJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			if err := enc.Encode(reply); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(out, internal.FormatReply(reply, out == os.Stdout && internal.IsTerminal(os.Stdout)))
		}

		if !reply.Success {
			return fmt.Errorf("no answer: %s", reply.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Print the full reply as JSON")
	addCollaboratorFlags(askCmd)
}
