package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramalinga365/DevOps-Tool-Installer/internal/catalog"
)

func newToolsCommand() *cobra.Command {
	var category string
	var categoriesOnly bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options()
			if err != nil {
				return err
			}

			c, err := catalog.NewManager(opts).Catalog()
			if err != nil {
				return catalogError(err)
			}
			categories := c.Categories()

			if categoriesOnly {
				if opts.JSONOutput {
					return respond(cmd, opts, true, "categories", map[string]interface{}{
						"categories": categories,
					})
				}
				for _, name := range categories {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}

			tools := c.Filter(category)
			if category != "" && len(tools) == 0 {
				return WrapCLIError(ExitCodeNotFound, fmt.Errorf("no tools in category %q (available: %s)", category, strings.Join(categories, ", ")))
			}

			if opts.JSONOutput {
				return respond(cmd, opts, true, fmt.Sprintf("%d tools", len(tools)), map[string]interface{}{
					"tools":      tools,
					"categories": categories,
				})
			}

			printTools(cmd, tools)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only list tools of this category (case-insensitive)")
	cmd.Flags().BoolVar(&categoriesOnly, "categories", false, "List categories instead of tools")
	return cmd
}

func printTools(cmd *cobra.Command, tools []catalog.Tool) {
	idWidth, nameWidth := len("ID"), len("NAME")
	for _, tool := range tools {
		idWidth = max(idWidth, len(tool.ID))
		nameWidth = max(nameWidth, len(tool.Name))
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-*s  %-*s  %s\n", idWidth, "ID", nameWidth, "NAME", "CATEGORY")
	for _, tool := range tools {
		fmt.Fprintf(out, "%-*s  %-*s  %s\n", idWidth, tool.ID, nameWidth, tool.Name, tool.Category)
	}
}
