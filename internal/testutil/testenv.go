package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ramalinga365/DevOps-Tool-Installer/internal/config"
)

// CatalogYAML is the catalog written into every fixture workspace.
const CatalogYAML = `tools:
  - id: docker
    name: Docker
    description: Containerization platform for building, shipping, and running applications
    category: Containers
    tags: [containers, runtime]
    homepage: https://www.docker.com
  - id: kubernetes
    name: Kubernetes
    description: Container orchestration platform for automating deployment and scaling
    category: Containers
    tags: [orchestration]
  - id: terraform
    name: Terraform
    description: Infrastructure as Code tool for building and managing cloud infrastructure
    category: Infrastructure
`

// DockerGuide is the instructions document for the docker fixture tool.
const DockerGuide = `---
title: Install Docker
description: Docker Engine on Linux
version: "27.0"
platforms:
  - ubuntu
  - debian
updated: "2024-05-01"
---
# Docker

## Prerequisites

A 64-bit Linux host with **sudo** access.

## Installation

### Update the package index

` + "```bash\nsudo apt-get update\n```" + `

### Install Docker Engine

` + "```\nsudo apt-get install -y docker-ce\n```\n```yaml\nservices:\n  web:\n    image: nginx\n```" + `

### Verify

Run the hello-world image to confirm the install.
`

// KubernetesGuide has no front-matter.
const KubernetesGuide = "## Install kubectl\n\n### Download\n\n```bash\ncurl -LO https://dl.k8s.io/release/stable/bin/linux/amd64/kubectl\n```\n"

// CatalogSchema mirrors the schema embedded in the validator package.
const CatalogSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id", "name", "description", "category"],
  "properties": {
    "id": {"type": "string", "pattern": "^[a-z0-9][a-z0-9-]*$"},
    "name": {"type": "string", "minLength": 1},
    "description": {"type": "string", "minLength": 1},
    "category": {"type": "string", "minLength": 1},
    "tags": {"type": "array", "items": {"type": "string"}},
    "homepage": {"type": "string", "pattern": "^https?://"}
  },
  "additionalProperties": false
}
`

// Fixture provides a temporary workspace with the directory structure expected by the CLI.
type Fixture struct {
	Root string
}

// NewFixture initialises a workspace with a catalog, a schema and two guides.
// The terraform tool deliberately has no instructions file.
func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	root := t.TempDir()

	workspace := filepath.Join(root, config.WorkspaceDir)
	for _, dir := range []string{"instructions", "schemas"} {
		if err := os.MkdirAll(filepath.Join(workspace, dir), 0o750); err != nil {
			t.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}

	fix := &Fixture{Root: root}
	fix.WriteFile(t, "catalog.yaml", []byte(CatalogYAML))
	fix.WriteFile(t, filepath.Join("schemas", "catalog.schema.json"), []byte(CatalogSchema))
	fix.WriteFile(t, filepath.Join("instructions", "docker.md"), []byte(DockerGuide))
	fix.WriteFile(t, filepath.Join("instructions", "kubernetes.md"), []byte(KubernetesGuide))
	return fix
}

// Options returns cli options initialised for the fixture.
func (f *Fixture) Options(t *testing.T, jsonOut, verbose, dry bool) *config.Options {
	t.Helper()
	opts := config.New()
	if err := opts.Init(f.Root, jsonOut, verbose, dry, ""); err != nil {
		t.Fatalf("failed to init options: %v", err)
	}
	return opts
}

// WriteFile writes a file relative to the workspace.
func (f *Fixture) WriteFile(t *testing.T, relative string, data []byte) {
	t.Helper()
	path := f.Path(relative)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

// Remove deletes a file relative to the workspace.
func (f *Fixture) Remove(t *testing.T, relative string) {
	t.Helper()
	if err := os.Remove(f.Path(relative)); err != nil {
		t.Fatalf("failed to remove %s: %v", relative, err)
	}
}

// Path resolves a path relative to the workspace.
func (f *Fixture) Path(parts ...string) string {
	workspace := filepath.Join(f.Root, config.WorkspaceDir)
	return filepath.Join(append([]string{workspace}, parts...)...)
}
