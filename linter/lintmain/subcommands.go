package lintmain

import (
	"fmt"

	"github.com/go-hamlint/hamlint/linter/lintmain/internal/lintdoc"
	"github.com/spf13/cobra"
)

// subCommands describes all supported sub-commands.
func (m *mainCommand) subCommands() []*cobra.Command {
	checkCmd := &cobra.Command{
		Use:   "check [flags] [haml-files]",
		Short: "run linter over specified targets",
		RunE:  m.check,
	}
	m.bindCheckFlags(checkCmd)

	return []*cobra.Command{
		checkCmd,
		{
			Use:   "version",
			Short: "print linter version",
			Args:  cobra.NoArgs,
			RunE:  m.version,
		},
		{
			Use:   "doc [linter]",
			Short: "print linter documentation",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return lintdoc.Main(m.stdout, m.reg, args)
			},
		},
	}
}

func (m *mainCommand) version(cmd *cobra.Command, args []string) error {
	_, err := fmt.Fprintf(m.stdout, "%s %s\n", m.cfg.Name, m.cfg.Version)
	return err
}
