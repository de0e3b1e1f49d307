package cmd

import (
	"context"
	"os"

	"github.com/emrgen/pagepurge/internal/config"
	"github.com/spf13/cobra"
)

var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pagepurge",
	Short: "permanent page deletion tool",
	Example: `pagepurge db migrate
pagepurge check --ns 0 --title Foo
pagepurge delete --ns 0 --title Foo --actor Admin
pagepurge worker
pagepurge serve`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/pagepurge/config.yaml)")

	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}

// loadConfig loads the configuration and applies its logging section.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if err := config.ConfigureLogging(cfg.Logging); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadApp wires the purge service from the configuration.
func loadApp(ctx context.Context) (*config.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	return config.NewApp(ctx, cfg)
}
