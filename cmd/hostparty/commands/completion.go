package commands

import "github.com/spf13/cobra"

// Completion returns the completion command for shell autocompletion.
func Completion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for hostparty.

To load completions:

Bash:
  $ source <(hostparty completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ hostparty completion bash > /etc/bash_completion.d/hostparty
  # macOS:
  $ hostparty completion bash > $(brew --prefix)/etc/bash_completion.d/hostparty

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  # To load completions for each session, execute once:
  $ hostparty completion zsh > "${fpath[1]}/_hostparty"
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ hostparty completion fish | source
  # To load completions for each session, execute once:
  $ hostparty completion fish > ~/.config/fish/completions/hostparty.fish

PowerShell:
  PS> hostparty completion powershell | Out-String | Invoke-Expression
  # To load completions for every new session, run:
  PS> hostparty completion powershell > hostparty.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}
	return cmd
}
