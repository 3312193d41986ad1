package command

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

func newValidateCommand(params *globalParams) (cmd *cobra.Command) {
	cmd = &cobra.Command{
		Use:   "validate PATCH",
		Short: "Check the shape of every operation in a patch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := readPatch(args[0], cmd.InOrStdin())
			if err != nil {
				return report(cmd.ErrOrStderr(), err)
			}

			if err := patch.Validate(); err != nil {
				if merr, ok := err.(*multierror.Error); ok {
					for _, e := range merr.Errors {
						_ = report(cmd.ErrOrStderr(), e)
					}
					return err
				}
				return report(cmd.ErrOrStderr(), err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d operations ok\n", args[0], len(patch))
			return nil
		},
	}

	return cmd
}
