package cmd

import (
	"os"

	"github.com/iksnae/tourmate/internal"
	"github.com/lithammer/shortuuid/v4"
	"github.com/spf13/cobra"
)

var chatSessionID string

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive travel chat",
	Long: `Start an interactive chat with TourMate.

The conversation is remembered for follow-up questions until you
/clear it, /quit, or it sits idle past memory.session_timeout.
Type /help inside the chat for the available commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := buildService(cmd)
		if err != nil {
			return err
		}
		svc.Start(cmd.Context())
		defer func() { _ = svc.Shutdown() }()

		sessionID := chatSessionID
		if sessionID == "" {
			sessionID = "cli_" + shortuuid.New()
		}

		out := cmd.OutOrStdout()
		r := &repl{
			svc:       svc,
			sessionID: sessionID,
			archive:   archivePath,
			in:        cmd.InOrStdin(),
			out:       out,
			styled:    out == os.Stdout && internal.IsTerminal(os.Stdout),
		}
		return r.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatSessionID, "session", "", "Session ID to use (default: generated)")
	addCollaboratorFlags(chatCmd)
}
