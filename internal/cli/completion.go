package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/facture/pkg/addressbook"
	"github.com/matzehuels/facture/pkg/invoice"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for facture.

Besides commands and flags, the scripts complete client keys from the address
book (facture generate <TAB>), document kinds (--kind), item layouts (--mode)
and document languages (--lang). Client keys are read from the files named by
the configuration or by --provider, --clients and --items.

Bash:
  $ source <(facture completion bash)
  $ facture completion bash > /etc/bash_completion.d/facture

Zsh:
  $ facture completion zsh > "${fpath[1]}/_facture"

Fish:
  $ facture completion fish > ~/.config/fish/completions/facture.fish

PowerShell:
  PS> facture completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// registerCompletions wires the dynamic completions of the source flags and
// of the [name] argument.
func (f *sourceFlags) registerCompletions(c *CLI, cmd *cobra.Command) {
	cmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 || f.name != "" {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return f.completeNames(c, toComplete)
	}
	_ = cmd.RegisterFlagCompletionFunc("name", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return f.completeNames(c, toComplete)
	})
	_ = cmd.RegisterFlagCompletionFunc("kind", completeKinds)
	_ = cmd.RegisterFlagCompletionFunc("mode", completeModes)
	_ = cmd.RegisterFlagCompletionFunc("from", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
	})
	for _, flag := range []string{"provider", "clients", "items"} {
		_ = cmd.RegisterFlagCompletionFunc(flag, func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
		})
	}
}

// completeNames lists the address-book keys starting with prefix. A book that
// cannot be loaded completes nothing.
func (f *sourceFlags) completeNames(c *CLI, prefix string) ([]string, cobra.ShellCompDirective) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	book, err := addressbook.Load(dataPaths(cfg, f.provider, f.clients, f.items))
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var out []string
	for _, name := range book.Names() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		client, _ := book.Client(name)
		out = append(out, name+"\t"+client.ToAddress().Summary)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func completeKinds(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{
		string(invoice.KindInvoice) + "\tinvoice",
		string(invoice.KindQuote) + "\tquote",
	}, cobra.ShellCompDirectiveNoFileComp
}

func completeModes(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{
		invoice.ModeUnits.String() + "\tunits: quantity, unit price, total",
		invoice.ModeAuthorRights.String() + "\tauthor rights: rights, sale price, total",
	}, cobra.ShellCompDirectiveNoFileComp
}

func completeLanguages(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return languageNames(), cobra.ShellCompDirectiveNoFileComp
}
