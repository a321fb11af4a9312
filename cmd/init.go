package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ramalinga365/DevOps-Tool-Installer/internal/catalog"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/config"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/util"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/validator"
)

type workspaceFile struct {
	path string
	data []byte
}

func newInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a workspace with the built-in catalog and schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options()
			if err != nil {
				return err
			}

			workspace := workspacePath(opts)
			exists, err := util.FileExists(filepath.Join(workspace, "catalog.yaml"))
			if err != nil {
				return WrapCLIError(ExitCodeFilesystem, err)
			}
			if exists && !force {
				detail := fmt.Sprintf("workspace already initialised at %s. Use --force to re-create catalog.yaml and the schema; guides are kept.", config.WorkspaceDir)
				if opts.JSONOutput {
					if err := respond(cmd, opts, false, detail, map[string]interface{}{
						"path":       workspace,
						"force_hint": true,
					}); err != nil {
						return err
					}
				}
				return NewCLIError(ExitCodeValidation, detail)
			}

			files, err := workspaceFiles()
			if err != nil {
				return WrapCLIError(ExitCodeFilesystem, err)
			}
			written := make([]string, 0, len(files))
			for _, f := range files {
				written = append(written, f.path)
			}

			if opts.DryRun {
				message := fmt.Sprintf("Dry-run: workspace would be created at %s", workspace)
				return respond(cmd, opts, true, message, map[string]interface{}{
					"path":    workspace,
					"files":   written,
					"written": false,
				})
			}

			if err := os.MkdirAll(filepath.Join(workspace, "instructions"), 0o750); err != nil {
				return WrapCLIError(ExitCodeFilesystem, fmt.Errorf("failed to create instructions directory: %w", err))
			}
			for _, f := range files {
				target := filepath.Join(workspace, f.path)
				if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
					return WrapCLIError(ExitCodeFilesystem, err)
				}
				if err := util.WriteFileAtomic(target, f.data, 0o644); err != nil {
					return WrapCLIError(ExitCodeFilesystem, err)
				}
			}
			opts.Logger().WithFields(logrus.Fields{
				"component": "init",
				"path":      workspace,
				"force":     force,
			}).Info("Workspace initialised")

			message := fmt.Sprintf("Workspace initialised at %s. Run `dti sync all` to fetch guides.", workspace)
			return respond(cmd, opts, true, message, map[string]interface{}{
				"path":    workspace,
				"files":   written,
				"written": true,
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite catalog.yaml and the schema of an existing workspace")
	return cmd
}

// workspacePath returns the .dti directory for the configured root.
func workspacePath(opts *config.Options) string {
	if filepath.Base(opts.RootDir) == config.WorkspaceDir {
		return opts.RootDir
	}
	return filepath.Join(opts.RootDir, config.WorkspaceDir)
}

func workspaceFiles() ([]workspaceFile, error) {
	data, err := catalog.Default().Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode built-in catalog: %w", err)
	}
	return []workspaceFile{
		{path: "catalog.yaml", data: data},
		{path: filepath.Join("schemas", "catalog.schema.json"), data: validator.DefaultSchema()},
	}, nil
}
