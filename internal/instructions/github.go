package instructions

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/sirupsen/logrus"

	"github.com/ramalinga365/DevOps-Tool-Installer/internal/config"
)

// GitHubSource reads guides from the upstream repository through the
// contents API.
type GitHubSource struct {
	client   *github.Client
	upstream config.Upstream
	log      *logrus.Entry
}

// NewGitHubSource constructs a source for the configured upstream,
// authenticating when a token is set.
func NewGitHubSource(opts *config.Options) *GitHubSource {
	client := github.NewClient(nil)
	if opts.Upstream.Token != "" {
		client = client.WithAuthToken(opts.Upstream.Token)
	}
	return NewGitHubSourceWithClient(opts, client)
}

// NewGitHubSourceWithClient uses a preconfigured client, e.g. one pointing
// at a GitHub Enterprise host.
func NewGitHubSourceWithClient(opts *config.Options, client *github.Client) *GitHubSource {
	return &GitHubSource{
		client:   client,
		upstream: opts.Upstream,
		log:      opts.Logger().WithField("component", "github"),
	}
}

// Upstream returns the repository the source reads from.
func (s *GitHubSource) Upstream() config.Upstream {
	return s.upstream
}

// Fetch downloads the guide for id.
func (s *GitHubSource) Fetch(ctx context.Context, id string) ([]byte, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	filePath := path.Join(s.upstream.Path, id+Extension)
	s.log.WithFields(logrus.Fields{
		"repo": s.upstream.Owner + "/" + s.upstream.Repo,
		"path": filePath,
		"ref":  s.upstream.Ref,
	}).Debug("Fetching instructions")

	file, _, resp, err := s.client.Repositories.GetContents(ctx, s.upstream.Owner, s.upstream.Repo, filePath, s.contentOptions())
	if err != nil {
		if isNotFound(resp) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to fetch %s from %s/%s: %w", filePath, s.upstream.Owner, s.upstream.Repo, err)
	}
	if file == nil {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, filePath)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filePath, err)
	}
	return []byte(content), nil
}

// List returns the ids of every guide in the upstream directory, sorted.
func (s *GitHubSource) List(ctx context.Context) ([]string, error) {
	_, entries, resp, err := s.client.Repositories.GetContents(ctx, s.upstream.Owner, s.upstream.Repo, s.upstream.Path, s.contentOptions())
	if err != nil {
		if isNotFound(resp) {
			return nil, fmt.Errorf("%w: directory %s", ErrNotFound, s.upstream.Path)
		}
		return nil, fmt.Errorf("failed to list %s/%s: %w", s.upstream.Owner, s.upstream.Repo, err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.GetName()
		if entry.GetType() != "file" || !strings.HasSuffix(name, Extension) {
			continue
		}
		id := strings.TrimSuffix(name, Extension)
		if ValidateID(id) != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *GitHubSource) contentOptions() *github.RepositoryContentGetOptions {
	if s.upstream.Ref == "" {
		return nil
	}
	return &github.RepositoryContentGetOptions{Ref: s.upstream.Ref}
}

func isNotFound(resp *github.Response) bool {
	return resp != nil && resp.StatusCode == http.StatusNotFound
}
