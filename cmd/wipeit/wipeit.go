package main

import (
	"fmt"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"strings"
	"unicode"
	"wipeit/internal/cli/inventory"
	"wipeit/internal/cli/serve"
	"wipeit/internal/cli/version"
	"wipeit/internal/cli/wipe"
	"wipeit/internal/env"
)

var rootCmd = &cobra.Command{
	Use:   "wipeit [command] [flags]",
	Short: "Inventory and bulk deletion of AWS resources",
	Run: func(c *cobra.Command, _ []string) {
		if err := c.Help(); err != nil {
			log.Debug().Msgf("ignoring cobra error %q", err.Error())
		}
	},
	PersistentPreRunE: func(c *cobra.Command, _ []string) error {
		if err := env.LoadConfig(viper.New()); err != nil {
			return err
		}
		return configureLogLevel()
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Debug().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func Usage(cmd *cobra.Command) error {
	if cmd == nil {
		return fmt.Errorf("nil command")
	}

	usage := []string{fmt.Sprintf("Usage: %s", cmd.UseLine())}

	if cmd.HasAvailableSubCommands() {
		usage = append(usage, "\nCommands:")
		for _, subCommand := range cmd.Commands() {
			if subCommand.IsAvailableCommand() {
				usage = append(usage, fmt.Sprintf("  %s %-30s  %s", cmd.CommandPath(), subCommand.Name(), subCommand.Short))
			}
		}
	}

	if len(cmd.Aliases) > 0 {
		usage = append(usage, "\nAliases: "+cmd.NameAndAliases())
	}

	if len(cmd.LocalNonPersistentFlags().FlagUsages()) != 0 {
		usage = append(usage, "\nFlags:")
		usage = append(usage, strings.TrimRightFunc(cmd.LocalNonPersistentFlags().FlagUsages(), unicode.IsSpace))
	}

	usage = append(usage, "\nCommon flags:")
	if len(cmd.PersistentFlags().FlagUsages()) != 0 {
		usage = append(usage, strings.TrimRightFunc(cmd.PersistentFlags().FlagUsages(), unicode.IsSpace))
	}
	if len(cmd.InheritedFlags().FlagUsages()) != 0 {
		usage = append(usage, strings.TrimRightFunc(cmd.InheritedFlags().FlagUsages(), unicode.IsSpace))
	}

	if cmd.HasAvailableSubCommands() {
		usage = append(usage, fmt.Sprintf("\nUse \"%s [command] --help\" for more information about a command.", cmd.CommandPath()))
	}

	fmt.Fprintln(cmd.OutOrStderr(), strings.Join(usage, "\n"))
	return nil
}

func init() {
	rootCmd.AddCommand(inventory.Inventory)
	rootCmd.AddCommand(wipe.Wipe)
	rootCmd.AddCommand(serve.Serve)
	rootCmd.AddCommand(version.Version)

	rootCmd.PersistentFlags().BoolP("help", "h", false, "help for this command")
	rootCmd.PersistentFlags().StringVarP(&env.Config.Provider, "provider", "c", "aws", "Cloud provider")
	rootCmd.PersistentFlags().StringVarP(&env.Config.Profile, "profile", "p", "", "AWS profile")
	rootCmd.PersistentFlags().StringVarP(&env.Config.Region, "region", "r", "", "Region")
	rootCmd.PersistentFlags().StringVar(&env.Config.ConfigFile, "config", "", "Config file (default $HOME/.wipeit.yaml)")
	rootCmd.SetUsageFunc(Usage)
}

func configureLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
}

// configureLogLevel applies LOG_LEVEL, or the configured level when it is unset.
func configureLogLevel() error {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = env.Config.LogLevel
	}
	if logLevel == "" {
		return nil
	}
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	return nil
}

func main() {
	configureLogging()
	Execute()
}
