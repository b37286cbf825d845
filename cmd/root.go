package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/glance/internal/calendar"
)

// rootCmd represents the base command for the glance application
var rootCmd = &cobra.Command{
	Use:   "glance",
	Short: "Your Google tasks, calendar and starred files at a glance",
	Long: `glance is a personal Google dashboard. It shows the tasks of your first
task list, the events of the coming days and your starred Drive files.

It can run as:
  - A command line tool (default)
  - An HTTP dashboard API
  - An MCP (Model Context Protocol) server for AI assistants

Configuration is read from glance.yaml, GLANCE_* environment variables and
flags, in increasing order of precedence.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// configFile is the --config flag.
var configFile string

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "glance version %s\n" .Version}}`)

	// If no subcommand is provided, show the dashboard
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "dashboard")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Config file (default: glance.yaml in ., $XDG_CONFIG_HOME/glance or $HOME/.glance)")
	pf.String("log-level", "info", "Log level: debug, info, warn or error")
	pf.String("log-format", "text", "Log format: text or json")
	pf.String("storage", "file", "Credential storage: memory, file, sqlite or redis")
	pf.String("storage-dir", "", "Directory of the file and sqlite credential storage")
	pf.String("calendar", calendar.PrimaryCalendar, "Calendar to show")
	pf.Int("calendar-days", calendar.DefaultWindowDays, "Number of days of upcoming events")

	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newRefreshCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newTasksCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMCPCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
