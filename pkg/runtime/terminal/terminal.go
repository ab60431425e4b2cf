package terminal

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/netops-tools/netaudit/pkg/runtime/terminal/commands"
)

// CLI represents the command-line interface
type CLI struct {
	reporter *Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		reporter: NewReporter(opts.Output),
	}
	cli.rootCmd = cli.newRootCmd(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "netaudit",
		Short: "Network configuration compliance auditor",
		Long: "Audits router and switch running configurations against a " +
			"compliance rule set and reports violations per device.",
	}

	cmd.AddCommand(commands.NewAuditCmd(out, cli.reporter))
	cmd.AddCommand(commands.NewRulesCmd(out))
	cmd.AddCommand(commands.NewDevicesCmd(out))
	cmd.AddCommand(commands.NewHistoryCmd(out))

	return cmd
}
