// Package cmd implements the CLI commands for pricewatch.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "pricewatch",
	Short: "Track product prices and get alerted on drops",
	Long: "pricewatch periodically checks the prices of tracked product URLs,\n" +
		"records every change in a price history, and notifies owners when a\n" +
		"price drops or reaches their target.",
}

func init() {
	cobra.OnInitialize(initEnv)

	rootCmd.PersistentFlags().
		String("config", "config.yaml", "config file path")
	cobra.CheckErr(viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")))

	rootCmd.AddCommand(versionCommand())
}

func initEnv() {
	// PRICEWATCH_CONFIG etc. override flags.
	viper.SetEnvPrefix("PRICEWATCH")
	viper.AutomaticEnv()
}

// configPath resolves the config file location from flag or environment.
func configPath() string {
	return viper.GetString("config")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
