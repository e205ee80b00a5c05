// Package cli is the go-atm command tree.
package cli

import (
	"github.com/spf13/cobra"

	"go-atm/config"
)

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a TOML config file")
}

var rootCmd = &cobra.Command{
	Use:   "go-atm",
	Short: "ATM ledger and transaction engine",
	Long: `go-atm runs a bank ATM backend: customer registration from a pool of
default credentials, single-session access in arrival order, and balance
inquiry, withdrawal and transfer under minimum-balance rules.

Serve it over HTTP with 'go-atm serve' or use it interactively with
'go-atm console'.`,
	SilenceUsage: true,
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}
