// Package cli implements the orderdesk command tree.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile    string
	appVersion string // set in Execute, displayed by serve
)

// Execute creates the root command tree and runs it.
func Execute(version, commit, date string) error {
	appVersion = version
	rootCmd := newRootCmd(version, commit, date)
	return rootCmd.Execute()
}

func newRootCmd(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orderdesk",
		Short: "Order management back office",
		Long: `OrderDesk: an authenticated back office for order management.

OrderDesk serves a REST API where every order operation sits behind an
authentication gate. It supports stateless bearer tokens or revocable
server-side sessions, selected per deployment, and stores its state in
SQLite, Postgres, or MySQL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./orderdesk.yaml)")
	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory for SQLite storage (default: ~/.orderdesk)")

	cobra.OnInitialize(initConfig)

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newStopCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newAdminCmd())
	cmd.AddCommand(newOrderCmd())
	cmd.AddCommand(newVersionCmd(version, commit, date))

	return cmd
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("orderdesk")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.orderdesk")
	}

	viper.SetEnvPrefix("ORDERDESK")
	viper.AutomaticEnv()
	viper.ReadInConfig() // Ignore error - config file is optional
}
