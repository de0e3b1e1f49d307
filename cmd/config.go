package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/emrgen/pagepurge/internal/config"
	"github.com/fatih/color"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "config commands",
}

func init() {
	configCmd.AddCommand(initConfigCommand())
	configCmd.AddCommand(currentConfigCommand())
}

// writes the default configuration to ~/.config/pagepurge/config.yaml
func initConfigCommand() *cobra.Command {
	var force bool

	command := &cobra.Command{
		Use:   "init",
		Short: "write the default config file",
		Run: func(cmd *cobra.Command, args []string) {
			path := configPath
			if path == "" {
				path = config.GetDefaultConfigPath()
			}

			if _, err := os.Stat(path); err == nil && !force {
				color.Red("config file exists: %s (use --force to overwrite)", path)
				return
			}

			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				fmt.Println("error creating config directory: ", err)
				return
			}

			var settings map[string]any
			if err := mapstructure.Decode(config.GetDefaultConfig(), &settings); err != nil {
				fmt.Println("error encoding config: ", err)
				return
			}

			v := viper.New()
			v.SetConfigType("yaml")
			if err := v.MergeConfigMap(settings); err != nil {
				fmt.Println("error encoding config: ", err)
				return
			}

			if err := v.WriteConfigAs(path); err != nil {
				fmt.Println("error writing config file: ", err)
				return
			}

			color.Green("config saved to %s", path)
		},
	}

	command.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")

	return command
}

func currentConfigCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "current",
		Short: "show the effective config",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := loadConfig()
			if err != nil {
				color.Red("%v", err)
				return
			}

			printField("Database", cfg.Database.Type+" "+cfg.Database.DSN)
			printField("Repository", cfg.Repository.Type)
			printField("Cache", cfg.Cache.Type)
			printField("Jobs", cfg.Jobs.Backend)
			printField("Content", fmt.Sprintf("delete unreachable: %v", cfg.Purge.DeleteContent))
			printField("Namespaces", fmt.Sprintf("%v", cfg.Purge.Namespaces))
		},
	}

	return command
}
