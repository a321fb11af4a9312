package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ramalinga365/DevOps-Tool-Installer/internal/catalog"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/validator"
)

func newValidateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate [id|all]",
		Short: "Validate catalog entries and lint their installation guides",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options()
			if err != nil {
				return err
			}
			target := "all"
			if len(args) == 1 {
				target = args[0]
			}

			mgr := catalog.NewManager(opts)
			v, err := validator.New(opts, mgr, localLoader(opts, nil))
			if err != nil {
				return WrapCLIError(ExitCodeSchema, err)
			}

			if target == "all" {
				summary, err := v.ValidateAll(cmd.Context())
				if err != nil {
					return catalogError(err)
				}
				warnings := countWarnings(summary)
				failed := summary.HasErrors() || (strict && warnings > 0)

				if opts.JSONOutput {
					payload := buildSummaryPayload(summary, target)
					return respond(cmd, opts, !failed, "validation complete", payload)
				}

				printSummaryIssues(cmd, summary)
				if summary.HasErrors() {
					return WrapCLIError(ExitCodeValidation, fmt.Errorf("validation failed for %d tools", summary.Invalid))
				}
				if failed {
					return WrapCLIError(ExitCodeValidation, fmt.Errorf("validation produced %d warnings in strict mode", warnings))
				}

				message := fmt.Sprintf("Validated %d tools", summary.Total)
				if warnings > 0 {
					message = fmt.Sprintf("Validated %d tools (%d warnings)", summary.Total, warnings)
				}
				data := map[string]interface{}{
					"total":    summary.Total,
					"invalid":  summary.Invalid,
					"warnings": warnings,
				}
				return respond(cmd, opts, true, message, data)
			}

			result, err := v.ValidateID(cmd.Context(), target)
			if err != nil {
				return catalogError(err)
			}
			failed := len(result.Errors) > 0 || (strict && len(result.Warnings) > 0)

			if opts.JSONOutput {
				payload := map[string]interface{}{
					"id":       target,
					"errors":   result.Errors,
					"warnings": result.Warnings,
					"category": result.Tool.Category,
				}
				return respond(cmd, opts, !failed, "validation complete", payload)
			}

			printResult(cmd, target, result)
			if failed {
				return WrapCLIError(ExitCodeValidation, fmt.Errorf("validation failed for %s", target))
			}

			message := fmt.Sprintf("%s passed validation", target)
			return respond(cmd, opts, true, message, map[string]interface{}{"id": target})
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Treat guide warnings as failures")
	return cmd
}

func countWarnings(summary *validator.Summary) int {
	total := 0
	for _, res := range summary.Results {
		total += len(res.Warnings)
	}
	return total
}

func printSummaryIssues(cmd *cobra.Command, summary *validator.Summary) {
	ids := make([]string, 0)
	for id, res := range summary.Results {
		if len(res.Errors) > 0 || len(res.Warnings) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		printResult(cmd, id, summary.Results[id])
	}
}

func printResult(cmd *cobra.Command, id string, res validator.Result) {
	if len(res.Errors) == 0 && len(res.Warnings) == 0 {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s:\n", id)
	for _, msg := range res.Errors {
		fmt.Fprintf(out, "  - %s\n", msg)
	}
	for _, msg := range res.Warnings {
		fmt.Fprintf(out, "  ! %s\n", msg)
	}
}

func buildSummaryPayload(summary *validator.Summary, target string) map[string]interface{} {
	results := make(map[string]interface{})
	for id, res := range summary.Results {
		results[id] = map[string]interface{}{
			"errors":   res.Errors,
			"warnings": res.Warnings,
			"category": res.Tool.Category,
		}
	}
	return map[string]interface{}{
		"target":   target,
		"total":    summary.Total,
		"invalid":  summary.Invalid,
		"valid":    summary.Valid,
		"warnings": countWarnings(summary),
		"results":  results,
	}
}
