package cli

import (
	"os"

	"github.com/spf13/cobra"

	"go-atm/console"
	"go-atm/telemetry"
)

func init() {
	rootCmd.AddCommand(consoleCmd)
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Use the ATM interactively",
	Long:  `Run the menu-driven ATM on this terminal. Logs go to stderr at warn level and above.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		level := cfg.Log.Level
		if telemetry.ParseLevel(level) < telemetry.ParseLevel("warn") {
			level = "warn"
		}
		log := telemetry.NewLogger(level, cfg.Log.Format, os.Stderr)

		a := build(cfg, log)
		return console.New(a.service, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
	},
}
