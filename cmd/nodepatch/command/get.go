package command

import (
	"github.com/spf13/cobra"

	"github.com/sanity-io/nodepatch"
)

func newGetCommand(params *globalParams) (cmd *cobra.Command) {
	cmd = &cobra.Command{
		Use:     "get DOCUMENT POINTER",
		Short:   "Print the value at a JSON Pointer",
		Example: `nodepatch get doc.yaml /items/0/name`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := readDocument(args[0], cmd.InOrStdin())
			if err != nil {
				return report(cmd.ErrOrStderr(), err)
			}

			v, err := nodepatch.GetValueAtPath(root, args[1])
			if err != nil {
				return report(cmd.ErrOrStderr(), err)
			}

			return writeJSON(cmd.OutOrStdout(), v)
		},
	}

	return cmd
}
