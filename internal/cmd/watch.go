package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/noirtty/noirtty-server/internal/terminal"
	"github.com/noirtty/noirtty-server/internal/tui"
	"github.com/noirtty/noirtty-server/internal/watchclient"
)

var (
	watchURL         string
	watchToken       string
	watchBinary      bool
	watchInteractive bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <session-id>",
	Short: "Attach to a session and print its frame stream",
	Long: `# Watch

Connects to a running **noirtty-server** and renders every frame broadcast
for the given session id, for debugging without a browser.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchURL, "url", "http://localhost:3000", "base URL of the server")
	watchCmd.Flags().StringVar(&watchToken, "token", "", "access token, if the server's gate is enabled")
	watchCmd.Flags().BoolVar(&watchBinary, "binary", false, "use the CBOR wire format instead of JSON")
	watchCmd.Flags().BoolVarP(&watchInteractive, "interactive", "i", false, "render inside an interactive bubbletea program instead of printing frames")
}

// ExecuteWatch runs the watch command as a standalone binary, independent
// of the noirtty-server root command tree.
func ExecuteWatch() {
	watchCmd.Use = "noirtty-watch <session-id>"
	if err := watchCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	sessionID := args[0]

	format := terminal.FormatJSON
	if watchBinary {
		format = terminal.FormatBinary
	}

	client := watchclient.New(format)

	if watchInteractive {
		model := tui.NewWatchModel(client, sessionID)
		if err := client.Connect(watchURL, sessionID, watchToken); err != nil {
			return err
		}
		defer client.Close()
		if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			return err
		}
		return model.Err()
	}

	errCh := make(chan error, 1)
	client.OnFrame(func(msg terminal.ServerMessage) {
		fmt.Print("\x1b[H\x1b[2J")
		fmt.Print(watchclient.RenderFrame(msg.Frame()))
	})
	client.OnError(func(err error) { errCh <- err })

	if err := client.Connect(watchURL, sessionID, watchToken); err != nil {
		return err
	}
	defer client.Close()

	client.Wait()
	select {
	case err := <-errCh:
		return fmt.Errorf("connection closed: %w", err)
	default:
		return nil
	}
}
