package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramalinga365/DevOps-Tool-Installer/internal/catalog"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/indexer"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/util"
)

// defaultIndexFile is written relative to the workspace root.
const defaultIndexFile = "INDEX.md"

func newIndexCommand() *cobra.Command {
	var format string
	var output string
	var verbosity int
	var quiet bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Generate the tools index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options()
			if err != nil {
				return err
			}
			format = strings.ToLower(format)
			if format == "" {
				format = "md"
			}

			target := output
			if target == "" && (format == "md" || format == "markdown") {
				target = defaultIndexFile
			}

			gen := indexer.NewGenerator(catalog.NewManager(opts), localLoader(opts, nil))
			data, err := gen.Build(cmd.Context())
			if err != nil {
				return catalogError(err)
			}

			// Change detection only applies to markdown indexes written to disk.
			var diff *indexer.Diff
			if format == "md" || format == "markdown" {
				var oldData *indexer.Data
				if target != "" && target != "-" {
					absPath := filepath.Join(opts.RootDir, target)
					// #nosec G304 -- absPath is scoped to opts.RootDir which is validated during Init
					if oldContent, err := os.ReadFile(absPath); err == nil {
						oldData, _ = indexer.ParseMarkdown(string(oldContent))
					}
				}
				diff = indexer.ComputeDiff(oldData, data)
			}

			var content string
			switch format {
			case "md", "markdown":
				content, err = gen.Markdown(data)
			case "json":
				content, err = gen.JSON(data)
			case "html":
				content, err = gen.HTML(data)
			default:
				return WrapCLIError(ExitCodeValidation, fmt.Errorf("unknown format %s", format))
			}
			if err != nil {
				return WrapCLIError(ExitCodeRender, err)
			}

			if opts.JSONOutput {
				payload := map[string]interface{}{
					"format":    format,
					"generated": data.Generated,
					"total":     len(data.Tools),
				}
				if diff != nil {
					payload["changes"] = changesPayload(diff)
				}
				if target != "" && target != "-" {
					payload["path"] = target
					payload["written"] = !opts.DryRun
					if !opts.DryRun {
						if err := util.WriteFileAtomic(filepath.Join(opts.RootDir, target), []byte(content), 0o644); err != nil {
							return WrapCLIError(ExitCodeFilesystem, err)
						}
					}
				} else {
					payload["written"] = false
					payload["content"] = content
				}
				return respond(cmd, opts, true, "index generated", payload)
			}

			if target == "" || target == "-" {
				fmt.Fprint(cmd.OutOrStdout(), content)
				return nil
			}

			absPath := filepath.Join(opts.RootDir, target)
			relPath, _ := filepath.Rel(opts.RootDir, absPath)
			if opts.DryRun {
				message := fmt.Sprintf("Dry-run: index would be written to %s", relPath)
				return respond(cmd, opts, true, message, map[string]interface{}{
					"format":  format,
					"path":    relPath,
					"written": false,
				})
			}

			if err := util.WriteFileAtomic(absPath, []byte(content), 0o644); err != nil {
				return WrapCLIError(ExitCodeFilesystem, err)
			}

			if quiet && diff != nil && !diff.HasChanges() {
				return nil
			}

			message := formatIndexOutput(diff, data, relPath, verbosity)
			dataMap := map[string]interface{}{
				"format":  format,
				"path":    relPath,
				"written": true,
			}
			if diff != nil {
				dataMap["changes"] = changesPayload(diff)
			}
			return respond(cmd, opts, true, message, dataMap)
		},
	}

	cmd.Flags().StringVar(&format, "format", "md", "Index format: md, json, html")
	cmd.Flags().StringVar(&output, "output", "", "Output destination relative to the workspace, - for stdout (default: INDEX.md for md format)")
	cmd.Flags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity level (-v, -vv)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only output if there are changes")
	return cmd
}

func changesPayload(diff *indexer.Diff) map[string]interface{} {
	return map[string]interface{}{
		"added":         diff.Added,
		"removed":       diff.Removed,
		"recategorized": diff.Recategorized,
		"changed":       diff.Changed,
	}
}

// formatIndexOutput formats the output message based on verbosity level and changes.
func formatIndexOutput(diff *indexer.Diff, data *indexer.Data, relPath string, verbosity int) string {
	var b strings.Builder

	if diff == nil {
		b.WriteString(fmt.Sprintf("Index written to %s\n", relPath))
		return b.String()
	}

	switch verbosity {
	case 0:
		if !diff.HasChanges() {
			b.WriteString(fmt.Sprintf("✓ No changes (%d tools indexed)\n", len(data.Tools)))
		} else {
			b.WriteString(fmt.Sprintf("✓ %s\n", diff.FormatSummary()))
			b.WriteString(totalLine(data))
		}
		b.WriteString(fmt.Sprintf("\nIndex written to %s", relPath))
	case 1:
		if !diff.HasChanges() {
			b.WriteString(fmt.Sprintf("✓ No changes detected (%d tools indexed)\n\n", len(data.Tools)))
		} else {
			b.WriteString(fmt.Sprintf("✓ Changes detected: %s\n\n", diff.FormatSummary()))
			b.WriteString(diff.FormatVerbose())
			b.WriteString("\n")
		}
		b.WriteString("\n" + totalLine(data))
		b.WriteString(fmt.Sprintf("Index written to %s", relPath))
	default:
		b.WriteString("Changes:\n\n")
		b.WriteString(diff.FormatVeryVerbose())
		b.WriteString("\n\n")
		b.WriteString(totalLine(data))
		b.WriteString(fmt.Sprintf("Index written to %s", relPath))
	}
	return b.String()
}

func totalLine(data *indexer.Data) string {
	categories := make([]string, 0, len(data.Summary))
	for category := range data.Summary {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	parts := make([]string, 0, len(categories))
	for _, category := range categories {
		parts = append(parts, fmt.Sprintf("%d %s", data.Summary[category], category))
	}
	return fmt.Sprintf("Total: %d tools (%s)\n", len(data.Tools), strings.Join(parts, ", "))
}
