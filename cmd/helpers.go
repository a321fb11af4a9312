package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramalinga365/DevOps-Tool-Installer/internal/catalog"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/config"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/guide"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/instructions"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/util"
)

func options() (*config.Options, error) {
	return config.Current()
}

func respond(cmd *cobra.Command, opts *config.Options, success bool, message string, data interface{}) error {
	if opts.JSONOutput {
		payload := util.StructuredResult(success, message, data)
		return util.PrintJSON(cmd.OutOrStdout(), payload)
	}
	if message != "" {
		fmt.Fprintln(cmd.OutOrStdout(), message)
	}
	return nil
}

// localLoader reads guides from the workspace instructions directory.
func localLoader(opts *config.Options, parser *guide.Parser) *instructions.Loader {
	return instructions.NewLoader(instructions.NewFileSource(opts), parser)
}

// catalogError maps catalog failures onto exit codes.
func catalogError(err error) error {
	var invalid *catalog.InvalidFileError
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return WrapCLIError(ExitCodeNotFound, err)
	case errors.As(err, &invalid):
		return WrapCLIError(ExitCodeSchema, err)
	default:
		return WrapCLIError(ExitCodeFilesystem, err)
	}
}

// guideError maps guide loading failures onto exit codes.
func guideError(err error) error {
	switch {
	case errors.Is(err, instructions.ErrNotFound):
		return WrapCLIError(ExitCodeNotFound, err)
	case errors.Is(err, instructions.ErrInvalidID):
		return WrapCLIError(ExitCodeValidation, err)
	default:
		return WrapCLIError(ExitCodeRender, err)
	}
}
