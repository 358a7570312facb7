package main

import (
	"fmt"
	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: dedent.Dedent(`
		To load completions in the current shell:

		  bash:  source <(wipeit completion bash)
		  zsh:   wipeit completion zsh > "${fpath[1]}/_wipeit"
		  fish:  wipeit completion fish | source

		Start a new shell for the zsh setup to take effect.
	`),
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(out)
		case "zsh":
			return cmd.Root().GenZshCompletion(out)
		case "fish":
			return cmd.Root().GenFishCompletion(out, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletion(out)
		default:
			return fmt.Errorf("autocompletion for %s not supported", args[0])
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
