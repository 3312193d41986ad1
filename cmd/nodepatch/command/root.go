// Package command implements the nodepatch CLI.
package command

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sanity-io/nodepatch"
)

type globalParams struct {
	verbose bool
	logger  *zap.Logger
}

// NewCommand returns the root command for the nodepatch CLI
func NewCommand() (cmd *cobra.Command) {
	params := &globalParams{}

	cmd = &cobra.Command{
		Use:           "nodepatch",
		Short:         "Apply JSON Patch documents to files",
		Long:          `nodepatch applies RFC 6902 patches to JSON, YAML and msgpack documents and inspects patches.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
			if params.verbose {
				params.logger, err = zap.NewDevelopment()
			} else {
				params.logger, err = zap.NewProduction()
			}
			return errors.Wrap(err, "building logger")
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if params.logger != nil {
				_ = params.logger.Sync()
			}
		},
	}

	cmd.AddCommand(
		newApplyCommand(params),
		newValidateCommand(params),
		newGetCommand(params),
		newEncodeCommand(params),
	)

	cmd.PersistentFlags().BoolVarP(&params.verbose, "verbose", "v", false, "log every operation at debug level")

	return cmd
}

// report prints err on w. Patch failures are printed as their JSON detail
// payload so that callers can correct the operation and retry.
func report(w io.Writer, err error) error {
	var perr *nodepatch.Error
	if errors.As(err, &perr) {
		b, merr := json.MarshalIndent(perr.Detail(), "", "  ")
		if merr == nil {
			fmt.Fprintln(w, string(b))
			return err
		}
	}
	fmt.Fprintln(w, err)
	return err
}
