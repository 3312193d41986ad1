package command

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sanity-io/nodepatch/pkg/nodepatchmsgpack"
)

func newEncodeCommand(params *globalParams) (cmd *cobra.Command) {
	var to string

	cmd = &cobra.Command{
		Use:     "encode PATCH",
		Short:   "Convert a patch between JSON, YAML and msgpack",
		Example: `nodepatch encode patch.yaml --to msgpack > patch.msgpack`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := readPatch(args[0], cmd.InOrStdin())
			if err != nil {
				return report(cmd.ErrOrStderr(), err)
			}

			switch to {
			case "json":
				return writeJSON(cmd.OutOrStdout(), patch)
			case "msgpack":
				b, err := nodepatchmsgpack.Marshal(patch)
				if err != nil {
					return report(cmd.ErrOrStderr(), err)
				}
				_, err = cmd.OutOrStdout().Write(b)
				return errors.Wrap(err, "writing output")
			default:
				return report(cmd.ErrOrStderr(), errors.Errorf("unknown output format %q (supported: json, msgpack)", to))
			}
		},
	}

	cmd.Flags().StringVar(&to, "to", "json", "output format: json or msgpack")

	return cmd
}
