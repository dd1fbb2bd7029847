package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reachly/reachly/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.Load(cfgFile); err != nil {
			return err
		}
		fmt.Printf("Configuration %s is valid\n", cfgFile)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
}
