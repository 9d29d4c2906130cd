package cmd

import (
	"github.com/spf13/cobra"
)

var (
	configFile  string
	catalogFile string
	output      string
)

var rootCmd = &cobra.Command{
	Use:   "rulecanvas",
	Short: "rulecanvas rule document tooling",
	Long:  `rulecanvas validates, renumbers and inspects visually composed rule documents.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "catalog file with known fields, functions and rules")
	rootCmd.PersistentFlags().StringVar(&output, "output", "", "output format (table, json)")
}

func Execute() error {
	return rootCmd.Execute()
}
