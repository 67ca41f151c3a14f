// Package cmd implements the noirtty-server and noirtty-watch command lines.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersionInfo sets build-time version metadata from the main package.
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "noirtty-server",
	Short: "A browser-accessible terminal server",
	Long: `# noirtty-server

**Spawns PTY-backed shell sessions and streams their screen state to any
number of browser or CLI subscribers.**

## Components

- A PTY per session, running a real login shell
- A VT/ANSI emulator maintaining each session's screen state
- A WebSocket endpoint broadcasting rendered frames to every attached client

Run **noirtty-server serve** to start listening.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(versionCmd)
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderMarkdownHelp(cmd)
	})
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("noirtty-server version %s\n", version)
		if commit != "none" && commit != "" {
			fmt.Printf("commit: %s\n", commit)
		}
		if date != "unknown" && date != "" {
			fmt.Printf("built: %s\n", date)
		}
	},
}

func renderMarkdownHelp(cmd *cobra.Command) {
	var b strings.Builder

	if cmd.Long != "" {
		b.WriteString(cmd.Long)
		b.WriteString("\n\n")
	} else if cmd.Short != "" {
		b.WriteString("# " + cmd.Short + "\n\n")
	}

	b.WriteString("## Usage\n\n```bash\n" + cmd.UseLine() + "\n```\n\n")

	if cmd.HasAvailableSubCommands() {
		b.WriteString("## Available Commands\n\n")
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() {
				fmt.Fprintf(&b, "- **%s** - %s\n", sub.Name(), sub.Short)
			}
		}
		b.WriteString("\n")
	}

	if cmd.HasAvailableFlags() {
		if usages := cmd.Flags().FlagUsages(); usages != "" {
			b.WriteString("## Flags\n\n```\n" + usages + "```\n\n")
		}
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		_ = cmd.Help()
		return
	}
	rendered, err := renderer.Render(b.String())
	if err != nil {
		_ = cmd.Help()
		return
	}
	fmt.Print(rendered)
}
