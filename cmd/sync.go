package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ramalinga365/DevOps-Tool-Installer/internal/catalog"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/config"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/guidediff"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/instructions"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/lock"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/util"
)

const (
	syncLockName = "sync"
	syncLockTTL  = 10 * time.Minute
)

// remoteSource is an upstream guide store that can enumerate its guides.
type remoteSource interface {
	instructions.Source
	List(ctx context.Context) ([]string, error)
}

var (
	newRemoteSource = func(opts *config.Options) remoteSource {
		return instructions.NewGitHubSource(opts)
	}
	isInteractive = util.IsInteractive
	useColor      = util.StderrIsTerminal
)

func newSyncCommand() *cobra.Command {
	var yes bool
	var forceLock bool

	cmd := &cobra.Command{
		Use:   "sync [id|all]",
		Short: "Fetch installation guides from the upstream repository",
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

			ctx := cmd.Context()
			local := instructions.NewFileSource(opts)
			remote := newRemoteSource(opts)

			ids, err := syncIDs(ctx, opts, local, remote, target)
			if err != nil {
				return err
			}

			plan, err := guidediff.Plan(ctx, local, remote, ids)
			if err != nil {
				return WrapCLIError(ExitCodeUpstream, err)
			}

			if target != "all" && plan.Get(target) == nil {
				return NewCLIError(ExitCodeNotFound, fmt.Sprintf("guide %s not found locally or upstream", target))
			}

			if !plan.HasChanges() {
				message := fmt.Sprintf("All %d guides are up to date", len(plan.Unchanged))
				return respond(cmd, opts, true, message, planPayload(plan, 0))
			}

			if !opts.JSONOutput && !yes && !opts.DryRun && !isInteractive() {
				return NewCLIError(ExitCodeValidation, "sync needs a terminal to confirm changes; pass --yes to apply them")
			}

			locks := lock.NewManager(opts)
			if _, err := locks.Acquire(syncLockName, syncLockTTL, forceLock); err != nil {
				if errors.Is(err, lock.ErrHeld) {
					return WrapCLIError(ExitCodeLockConflict, err)
				}
				return WrapCLIError(ExitCodeFilesystem, err)
			}
			defer func() {
				if rerr := locks.Release(syncLockName); rerr != nil {
					opts.Logger().WithError(rerr).Warn("Failed to release sync lock")
				}
			}()

			applied, err := applySync(cmd, opts, local, plan, yes)
			if err != nil {
				return WrapCLIError(ExitCodeFilesystem, err)
			}

			message := fmt.Sprintf("Applied %d of %d guide changes", applied, plan.TotalChanges())
			if opts.DryRun {
				message = fmt.Sprintf("Dry-run: %d guide changes would be applied", plan.TotalChanges())
			}
			if len(plan.LocalOnly) > 0 && !opts.JSONOutput {
				message += fmt.Sprintf("\nKept local-only guides: %s", strings.Join(diffIDs(plan.LocalOnly), ", "))
			}
			return respond(cmd, opts, true, message, planPayload(plan, applied))
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Apply every change without prompting")
	cmd.Flags().BoolVar(&forceLock, "force-lock", false, "Take over a sync lock held by another process")
	return cmd
}

// syncIDs resolves the guides to compare. "all" covers the catalog, the
// upstream listing and every local guide.
func syncIDs(ctx context.Context, opts *config.Options, local *instructions.FileSource, remote remoteSource, target string) ([]string, error) {
	if target != "all" {
		if err := instructions.ValidateID(target); err != nil {
			return nil, WrapCLIError(ExitCodeValidation, err)
		}
		return []string{target}, nil
	}

	c, err := catalog.NewManager(opts).Catalog()
	if err != nil {
		return nil, catalogError(err)
	}
	remoteIDs, err := remote.List(ctx)
	if err != nil {
		return nil, WrapCLIError(ExitCodeUpstream, err)
	}
	localIDs, err := local.List()
	if err != nil {
		return nil, WrapCLIError(ExitCodeFilesystem, err)
	}

	seen := map[string]bool{}
	ids := make([]string, 0, len(c.Tools)+len(remoteIDs))
	add := func(id string) {
		if seen[id] || instructions.ValidateID(id) != nil {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}
	for _, tool := range c.Tools {
		add(tool.ID)
	}
	for _, id := range remoteIDs {
		add(id)
	}
	for _, id := range localIDs {
		add(id)
	}
	sort.Strings(ids)
	return ids, nil
}

func applySync(cmd *cobra.Command, opts *config.Options, local *instructions.FileSource, plan *guidediff.SyncPlan, yes bool) (int, error) {
	applied := 0
	applyAll := yes || opts.JSONOutput || opts.DryRun
	in := bufio.NewReader(cmd.InOrStdin())
	errOut := cmd.ErrOrStderr()

	for _, d := range plan.Pending() {
		if !opts.JSONOutput {
			printGuideDiff(errOut, d)
		}
		if !applyAll {
			ok, err := util.PromptYesNo(in, errOut, fmt.Sprintf("Apply %s?", d.ID))
			if err != nil {
				return applied, err
			}
			if !ok {
				continue
			}
		}
		if err := local.Save(d.ID, d.RemoteContent); err != nil {
			return applied, fmt.Errorf("failed to write guide %s: %w", d.ID, err)
		}
		if !opts.DryRun {
			applied++
		}
	}
	return applied, nil
}

func printGuideDiff(out io.Writer, d guidediff.GuideDiff) {
	fmt.Fprintln(out, strings.Repeat("-", 60))
	switch d.Status {
	case guidediff.StatusAdded:
		fmt.Fprintf(out, "New guide: %s (%s)\n", d.ID, d.StructureSummary())
		fmt.Fprintln(out, strings.Repeat("-", 60))
	default:
		fmt.Fprintf(out, "Modified guide: %s (%s)\n", d.ID, d.StructureSummary())
		fmt.Fprintln(out, strings.Repeat("-", 60))
		fmt.Fprintln(out, util.ColorizeDiff(d.UnifiedDiff, useColor()))
	}
}

func diffIDs(diffs []guidediff.GuideDiff) []string {
	ids := make([]string, 0, len(diffs))
	for _, d := range diffs {
		ids = append(ids, d.ID)
	}
	return ids
}

func planPayload(plan *guidediff.SyncPlan, applied int) map[string]interface{} {
	return map[string]interface{}{
		"added":      diffIDs(plan.Added),
		"modified":   diffIDs(plan.Modified),
		"local_only": diffIDs(plan.LocalOnly),
		"unchanged":  diffIDs(plan.Unchanged),
		"applied":    applied,
	}
}
