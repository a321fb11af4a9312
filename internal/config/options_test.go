package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unset %s: %v", key, err)
	}
}

func clearUpstreamEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvGitHubToken, EnvUpstreamRepo, EnvUpstreamPath, EnvUpstreamRef} {
		unsetEnv(t, key)
	}
}

func TestOptionsInitWithExplicitRoot(t *testing.T) {
	clearUpstreamEnv(t)
	root := t.TempDir()

	opts := New()
	if err := opts.Init(root, true, false, true, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertSamePath(t, opts.RootDir, root)
	if !opts.JSONOutput || !opts.DryRun {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if opts.Upstream.Owner != "ramalinga365" || opts.Upstream.Repo != "DevOps-Tool-Installer" {
		t.Fatalf("unexpected default upstream: %+v", opts.Upstream)
	}
	if opts.Upstream.Path != DefaultUpstreamPath {
		t.Fatalf("unexpected upstream path: %s", opts.Upstream.Path)
	}
	if opts.CatalogPath() != filepath.Join(opts.RootDir, "catalog.yaml") {
		t.Fatalf("unexpected catalog path: %s", opts.CatalogPath())
	}
	if opts.InstructionsDir() != filepath.Join(opts.RootDir, "instructions") {
		t.Fatalf("unexpected instructions dir: %s", opts.InstructionsDir())
	}
	if err := opts.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestOptionsInitPrefersWorkspaceDir(t *testing.T) {
	clearUpstreamEnv(t)
	root := t.TempDir()
	workspace := filepath.Join(root, WorkspaceDir)
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	opts := New()
	if err := opts.Init(root, false, false, false, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertSamePath(t, opts.RootDir, workspace)
}

func TestOptionsInitInfersRootFromCWD(t *testing.T) {
	clearUpstreamEnv(t)
	root := t.TempDir()
	cwd, _ := os.Getwd()
	if err := os.Chdir(root); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	defer os.Chdir(cwd)

	opts := New()
	if err := opts.Init("", false, false, false, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertSamePath(t, opts.RootDir, root)
}

func TestOptionsInitLoadsDotEnv(t *testing.T) {
	clearUpstreamEnv(t)
	root := t.TempDir()
	env := "DTI_UPSTREAM_REPO=acme/guides\nDTI_UPSTREAM_PATH=/docs/install/\nDTI_UPSTREAM_REF=main\nDTI_GITHUB_TOKEN=secret\n"
	if err := os.WriteFile(filepath.Join(root, ".env"), []byte(env), 0o600); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	opts := New()
	if err := opts.Init(root, false, false, false, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Upstream{Owner: "acme", Repo: "guides", Path: "docs/install", Ref: "main", Token: "secret"}
	if opts.Upstream != want {
		t.Fatalf("unexpected upstream: %+v", opts.Upstream)
	}
}

func TestOptionsInitEnvBeatsDotEnv(t *testing.T) {
	clearUpstreamEnv(t)
	t.Setenv(EnvUpstreamRepo, "real/repo")
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".env"), []byte("DTI_UPSTREAM_REPO=file/repo\n"), 0o600); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	opts := New()
	if err := opts.Init(root, false, false, false, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Upstream.Owner != "real" || opts.Upstream.Repo != "repo" {
		t.Fatalf("process environment should win: %+v", opts.Upstream)
	}
}

func TestOptionsInitRejectsBadUpstream(t *testing.T) {
	clearUpstreamEnv(t)
	t.Setenv(EnvUpstreamRepo, "no-slash")

	opts := New()
	if err := opts.Init(t.TempDir(), false, false, false, ""); err == nil {
		t.Fatalf("expected error for malformed upstream repo")
	}
}

func TestOptionsInitWithLogFile(t *testing.T) {
	clearUpstreamEnv(t)
	root := t.TempDir()
	logPath := filepath.Join(root, "cli.log")
	opts := New()
	if err := opts.Init(root, false, true, false, logPath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	opts.Logger().Info("hello")
	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("expected log file: %v", err)
	}
	if err := opts.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestOptionsInitErrors(t *testing.T) {
	clearUpstreamEnv(t)
	opts := New()
	if err := opts.Init("/no/such/root", false, false, false, ""); err == nil {
		t.Fatalf("expected error for invalid root")
	}

	SetCurrent(nil)
	if _, err := Current(); err == nil {
		t.Fatalf("expected error when current not set")
	}

	goodOpts := New()
	if err := goodOpts.Init(t.TempDir(), false, false, false, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	SetCurrent(goodOpts)
	cur, err := Current()
	if err != nil || cur != goodOpts {
		t.Fatalf("unexpected current: %v %v", cur, err)
	}
	SetCurrent(nil)
}

func TestOptionsContextRoundTrip(t *testing.T) {
	clearUpstreamEnv(t)
	opts := New()
	if err := opts.Init(t.TempDir(), false, false, false, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	SetCurrent(nil)
	defer SetCurrent(nil)

	ctx := opts.WithContext(context.Background())
	got, err := FromContext(ctx)
	if err != nil || got != opts {
		t.Fatalf("expected options from context: %v %v", got, err)
	}
	//nolint:staticcheck // nil context is part of the contract under test
	if _, err := FromContext(nil); err == nil {
		t.Fatalf("expected error for nil context")
	}
	if _, err := FromContext(context.Background()); err == nil {
		t.Fatalf("expected error without stored options")
	}
}

func assertSamePath(t *testing.T, actual, expected string) {
	t.Helper()
	actualResolved, err := filepath.EvalSymlinks(actual)
	if err != nil {
		t.Fatalf("failed to resolve path %s: %v", actual, err)
	}
	expectedResolved, err := filepath.EvalSymlinks(expected)
	if err != nil {
		t.Fatalf("failed to resolve path %s: %v", expected, err)
	}
	if actualResolved != expectedResolved {
		t.Fatalf("expected root %s, got %s", expectedResolved, actualResolved)
	}
}
