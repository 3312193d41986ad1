package command

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sanity-io/nodepatch"
)

func newApplyCommand(params *globalParams) (cmd *cobra.Command) {
	var validate bool

	cmd = &cobra.Command{
		Use:     "apply DOCUMENT PATCH",
		Short:   "Apply a patch to a document and print the result",
		Example: `nodepatch apply doc.json patch.yaml`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := readDocument(args[0], cmd.InOrStdin())
			if err != nil {
				return report(cmd.ErrOrStderr(), err)
			}
			patch, err := readPatch(args[1], cmd.InOrStdin())
			if err != nil {
				return report(cmd.ErrOrStderr(), err)
			}

			if validate {
				if err := patch.Validate(); err != nil {
					return report(cmd.ErrOrStderr(), err)
				}
			}

			options := nodepatch.DefaultOptions.WithLogger(params.logger)
			if err := options.Apply(root, patch); err != nil {
				params.logger.Warn("patch failed",
					zap.String("document", args[0]),
					zap.String("patch", args[1]),
					zap.Error(err))
				return report(cmd.ErrOrStderr(), err)
			}

			return writeJSON(cmd.OutOrStdout(), root.Value())
		},
	}

	cmd.Flags().BoolVar(&validate, "validate", true, "check the shape of every operation before applying any")

	return cmd
}
