package instructions

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramalinga365/DevOps-Tool-Installer/internal/guide"
	"github.com/ramalinga365/DevOps-Tool-Installer/internal/testutil"
)

func TestValidateID(t *testing.T) {
	for _, id := range []string{"docker", "aws-cli", "k8s", "0x"} {
		assert.NoError(t, ValidateID(id), id)
	}
	for _, id := range []string{"", "Docker", "-docker", "../etc/passwd", "a/b", "docker.md", "with space"} {
		assert.ErrorIs(t, ValidateID(id), ErrInvalidID, id)
	}
}

func TestFileSourceFetch(t *testing.T) {
	fix := testutil.NewFixture(t)
	src := NewFileSource(fix.Options(t, false, false, false))
	ctx := context.Background()

	data, err := src.Fetch(ctx, "docker")
	require.NoError(t, err)
	assert.Equal(t, testutil.DockerGuide, string(data))
	assert.Equal(t, fix.Path("instructions", "docker.md"), src.Path("docker"))

	_, err = src.Fetch(ctx, "terraform")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = src.Fetch(ctx, "../catalog")
	assert.ErrorIs(t, err, ErrInvalidID)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = src.Fetch(cancelled, "docker")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileSourceListAndSave(t *testing.T) {
	fix := testutil.NewFixture(t)
	fix.WriteFile(t, filepath.Join("instructions", "README.txt"), []byte("ignored"))
	fix.WriteFile(t, filepath.Join("instructions", "Bad_Name.md"), []byte("ignored"))
	src := NewFileSource(fix.Options(t, false, false, false))

	ids, err := src.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"docker", "kubernetes"}, ids)

	require.NoError(t, src.Save("helm", []byte("## Helm\n")))
	data, err := os.ReadFile(fix.Path("instructions", "helm.md"))
	require.NoError(t, err)
	assert.Equal(t, "## Helm\n", string(data))

	assert.ErrorIs(t, src.Save("../x", nil), ErrInvalidID)
}

func TestFileSourceSaveDryRun(t *testing.T) {
	fix := testutil.NewFixture(t)
	src := NewFileSource(fix.Options(t, false, false, true))

	require.NoError(t, src.Save("helm", []byte("## Helm\n")))
	_, err := os.Stat(fix.Path("instructions", "helm.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileSourceListMissingDir(t *testing.T) {
	fix := testutil.NewFixture(t)
	require.NoError(t, os.RemoveAll(fix.Path("instructions")))
	src := NewFileSource(fix.Options(t, false, false, false))

	ids, err := src.List()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSplitFrontMatter(t *testing.T) {
	meta, body, err := SplitFrontMatter([]byte(testutil.DockerGuide))
	require.NoError(t, err)
	assert.Equal(t, FrontMatter{
		Title:       "Install Docker",
		Description: "Docker Engine on Linux",
		Version:     "27.0",
		Platforms:   []string{"ubuntu", "debian"},
		Updated:     "2024-05-01",
	}, meta)
	assert.NotContains(t, body, "title:")
	assert.Contains(t, body, "## Prerequisites")

	meta, body, err = SplitFrontMatter([]byte(testutil.KubernetesGuide))
	require.NoError(t, err)
	assert.Equal(t, FrontMatter{}, meta)
	assert.Equal(t, testutil.KubernetesGuide, body)

	_, _, err = SplitFrontMatter([]byte("---\ntitle: [unclosed\n---\n## A\n"))
	assert.Error(t, err)
}

func TestLoaderLoad(t *testing.T) {
	fix := testutil.NewFixture(t)
	loader := NewLoader(NewFileSource(fix.Options(t, false, false, false)), nil)

	g, err := loader.Load(context.Background(), "docker")
	require.NoError(t, err)
	assert.Equal(t, "docker", g.ToolID)
	assert.Equal(t, "Install Docker", g.FrontMatter.Title)

	require.Len(t, g.Sections, 2)
	assert.Equal(t, "Prerequisites", g.Sections[0].Title)
	assert.Equal(t, "<p>A 64-bit Linux host with <strong>sudo</strong> access.</p>\n", g.Sections[0].Content)
	assert.Empty(t, g.Sections[0].Steps)

	assert.Equal(t, "Installation", g.Sections[1].Title)
	assert.Equal(t, []guide.Step{
		{Description: "Update the package index", Code: "sudo apt-get update", Language: "bash"},
		{Description: "Install Docker Engine", Code: "sudo apt-get install -y docker-ce", Language: "bash"},
		{Description: "Install Docker Engine", Code: "services:\n  web:\n    image: nginx", Language: "yaml"},
		{Description: "Verify"},
	}, g.Sections[1].Steps)

	assert.Equal(t, guide.Stats{Sections: 2, Steps: 4, Commands: 3, Languages: []string{"bash", "yaml"}}, g.Stats)
	require.Len(t, g.TOC, 2)
	assert.Equal(t, "installation", g.TOC[1].Anchor)
	assert.Equal(t, []string{"Update the package index", "Install Docker Engine", "Verify"}, g.TOC[1].Steps)

	_, err = loader.Load(context.Background(), "terraform")
	assert.ErrorIs(t, err, ErrNotFound)
}

type stubSource map[string]string

func (s stubSource) Fetch(_ context.Context, id string) ([]byte, error) {
	raw, ok := s[id]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(raw), nil
}

type brokenRenderer struct{}

func (brokenRenderer) Render(string) (string, error) { return "", errors.New("renderer down") }

func TestLoaderPropagatesRendererFailure(t *testing.T) {
	loader := NewLoader(stubSource{"x": "## A\nprose\n"}, guide.NewParser(brokenRenderer{}))
	_, err := loader.Load(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "renderer down")
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestLoaderEmptyGuide(t *testing.T) {
	loader := NewLoader(stubSource{"empty": ""}, nil)
	g, err := loader.Load(context.Background(), "empty")
	require.NoError(t, err)
	assert.NotNil(t, g.Sections)
	assert.Empty(t, g.Sections)
	assert.Empty(t, g.TOC)
}

func TestDigest(t *testing.T) {
	a := Digest([]byte("## A\n"))
	assert.Len(t, a, 64)
	assert.Equal(t, a, Digest([]byte("## A\n")))
	assert.NotEqual(t, a, Digest([]byte("## B\n")))
}
