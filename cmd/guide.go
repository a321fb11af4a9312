package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramalinga365/DevOps-Tool-Installer/internal/guide"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/instructions"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/util"
)

// plainRenderer keeps prose as markdown for terminal output.
type plainRenderer struct{}

func (plainRenderer) Render(markdown string) (string, error) {
	return markdown, nil
}

func newGuideCommand() *cobra.Command {
	var format string
	var tocOnly bool
	var sanitize bool
	var hardWraps bool
	var extensions []string

	cmd := &cobra.Command{
		Use:   "guide <id>",
		Short: "Show the installation guide of a tool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options()
			if err != nil {
				return err
			}
			id := args[0]
			format = strings.ToLower(format)
			if opts.JSONOutput {
				format = "json"
			}

			var renderer guide.Renderer
			switch format {
			case "text", "":
				format = "text"
				renderer = plainRenderer{}
			case "json", "html":
				renderer = guide.NewGoldmarkRenderer(guide.RenderOptions{
					Extensions: extensions,
					HardWraps:  hardWraps,
					Sanitize:   sanitize,
				})
			default:
				return WrapCLIError(ExitCodeValidation, fmt.Errorf("unknown format %s", format))
			}

			loader := localLoader(opts, guide.NewParser(renderer))
			g, err := loader.Load(cmd.Context(), id)
			if err != nil {
				return guideError(err)
			}

			out := cmd.OutOrStdout()
			switch {
			case format == "json":
				var payload interface{} = g
				if tocOnly {
					payload = map[string]interface{}{"tool": g.ToolID, "toc": g.TOC}
				}
				if opts.JSONOutput {
					return respond(cmd, opts, true, "guide "+g.ToolID, payload)
				}
				return util.PrintJSON(out, payload)
			case format == "html":
				page, err := instructions.RenderHTML(g)
				if err != nil {
					return WrapCLIError(ExitCodeRender, err)
				}
				fmt.Fprint(out, page)
				return nil
			case tocOnly:
				printTOC(out, g.TOC)
				return nil
			default:
				printGuide(out, g)
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json, html")
	cmd.Flags().BoolVar(&tocOnly, "toc", false, "Only print the table of contents")
	cmd.Flags().BoolVar(&sanitize, "sanitize", false, "Strip unsafe HTML from rendered prose")
	cmd.Flags().BoolVar(&hardWraps, "hard-wraps", false, "Render soft line breaks as <br>")
	cmd.Flags().StringSliceVar(&extensions, "extension", nil, "Goldmark extensions to enable (default: gfm, linkify, tasklist)")
	return cmd
}

func printTOC(out io.Writer, toc []guide.TOCEntry) {
	for _, entry := range toc {
		fmt.Fprintf(out, "- %s (#%s)\n", entry.Title, entry.Anchor)
		for _, step := range entry.Steps {
			fmt.Fprintf(out, "    - %s\n", step)
		}
	}
}

func printGuide(out io.Writer, g *instructions.Guide) {
	title := g.FrontMatter.Title
	if title == "" {
		title = g.ToolID
	}
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, strings.Repeat("=", len(title)))
	if g.FrontMatter.Description != "" {
		fmt.Fprintln(out, g.FrontMatter.Description)
	}

	for _, section := range g.Sections {
		fmt.Fprintf(out, "\n## %s\n", section.Title)
		if section.Content != "" {
			fmt.Fprintf(out, "\n%s\n", section.Content)
		}
		for i, step := range section.Steps {
			fmt.Fprintf(out, "\n%d. %s\n", i+1, step.Description)
			if step.HasCode() && step.Code != "" {
				fmt.Fprintf(out, "   [%s]\n", step.Language)
				for _, line := range strings.Split(step.Code, "\n") {
					fmt.Fprintf(out, "   %s\n", line)
				}
			}
		}
	}
}
