package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/ramalinga365/DevOps-Tool-Installer/cmd"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/config"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/testutil"
)

func TestRunSuccessAndFailure(t *testing.T) {
	fix := testutil.NewFixture(t)

	root := cmd.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"--root", fix.Root, "index", "--format", "json", "--output", "-"})
	if code := run(); code != 0 {
		t.Fatalf("expected success, got %d", code)
	}
	if !bytes.Contains(out.Bytes(), []byte(`"docker"`)) {
		t.Fatalf("expected index json on stdout, got %s", out.String())
	}

	root.SetArgs([]string{"--root", fix.Root, "index", "--format", "invalid"})
	if code := run(); code != cmd.ExitCodeValidation {
		t.Fatalf("expected validation exit, got %d", code)
	}

	root.SetArgs([]string{"--root", fix.Root, "guide", "terraform"})
	if code := run(); code != cmd.ExitCodeNotFound {
		t.Fatalf("expected not found exit, got %d", code)
	}

	root.SetArgs(nil)
	config.SetCurrent(nil)
}
