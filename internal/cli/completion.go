package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/palette"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/segment"
)

// shells maps each supported shell to its completion generator.
var shells = map[string]func(cmd *cobra.Command) error{
	"bash": func(cmd *cobra.Command) error { return cmd.Root().GenBashCompletionV2(cmd.OutOrStdout(), true) },
	"zsh":  func(cmd *cobra.Command) error { return cmd.Root().GenZshCompletion(cmd.OutOrStdout()) },
	"fish": func(cmd *cobra.Command) error { return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true) },
	"powershell": func(cmd *cobra.Command) error {
		return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
	},
}

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for blockify.

  $ source <(blockify completion bash)
  $ blockify completion zsh > "${fpath[1]}/_blockify"
  $ blockify completion fish > ~/.config/fish/completions/blockify.fish
  PS> blockify completion powershell | Out-String | Invoke-Expression

Flag values such as --mode, --palette-method and --format complete too.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, ok := shells[args[0]]
			if !ok {
				return fmt.Errorf("unsupported shell %q", args[0])
			}
			return gen(cmd)
		},
	}
}

// registerValueCompletions offers the fixed values of the enum flags.
func registerValueCompletions(cmd *cobra.Command, withOutput bool) {
	fixed := func(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return values, cobra.ShellCompDirectiveNoFileComp
		}
	}
	_ = cmd.RegisterFlagCompletionFunc("mode", fixed(string(segment.ModeAuto), string(segment.ModeSingle), string(segment.ModePairs)))
	_ = cmd.RegisterFlagCompletionFunc("palette-method", fixed(string(palette.MethodDominant), string(palette.MethodKMeans)))
	if withOutput {
		_ = cmd.RegisterFlagCompletionFunc("format", fixed("svg", "png", "json", "svg,png", "svg,json"))
	}
}
