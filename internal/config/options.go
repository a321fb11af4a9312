package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// WorkspaceDir is the directory name that holds a dti workspace inside a repository.
const WorkspaceDir = ".dti"

// Defaults for the upstream repository guides are synced from.
const (
	DefaultUpstreamRepo = "ramalinga365/DevOps-Tool-Installer"
	DefaultUpstreamPath = "src/app/tools/instructions"
)

// Environment variables read from the process and the workspace .env file.
const (
	EnvGitHubToken  = "DTI_GITHUB_TOKEN"
	EnvUpstreamRepo = "DTI_UPSTREAM_REPO"
	EnvUpstreamPath = "DTI_UPSTREAM_PATH"
	EnvUpstreamRef  = "DTI_UPSTREAM_REF"
)

// ctxKeyOptions is used to store options within a cobra command context.
type ctxKeyOptions struct{}

// Upstream describes the GitHub repository guides are synced from.
type Upstream struct {
	Owner string
	Repo  string
	Path  string
	Ref   string
	Token string
}

// Options contains global flags shared by all commands.
type Options struct {
	RootDir    string
	JSONOutput bool
	Verbose    bool
	DryRun     bool
	LogFile    string
	Upstream   Upstream

	logger   *logrus.Logger
	logClose func() error
}

var (
	optionsMu sync.RWMutex
	current   *Options
)

// New creates a new Options instance populated with defaults.
func New() *Options {
	return &Options{}
}

// Init resolves the workspace root, loads the environment and configures logging.
func (o *Options) Init(root string, jsonOut, verbose, dry bool, logFile string) error {
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine current directory: %w", err)
		}
		root = cwd
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve root path: %w", err)
	}

	if _, err := os.Stat(absRoot); err != nil {
		return fmt.Errorf("root path invalid: %w", err)
	}

	if filepath.Base(absRoot) != WorkspaceDir {
		workspace := filepath.Join(absRoot, WorkspaceDir)
		if info, err := os.Stat(workspace); err == nil && info.IsDir() {
			absRoot = workspace
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to inspect workspace: %w", err)
		}
	}

	if err := loadDotEnv(absRoot); err != nil {
		return err
	}

	upstream, err := upstreamFromEnv()
	if err != nil {
		return err
	}

	o.RootDir = absRoot
	o.JSONOutput = jsonOut
	o.Verbose = verbose
	o.DryRun = dry
	o.LogFile = logFile
	o.Upstream = upstream

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	if verbose {
		logger.SetLevel(logrus.InfoLevel)
		var output io.Writer = os.Stderr
		if logFile != "" {
			// #nosec G304 -- log file path provided via command flag
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			output = f
			o.logClose = f.Close
		}
		logger.SetOutput(output)
	} else {
		logger.SetLevel(logrus.WarnLevel)
		logger.SetOutput(io.Discard)
	}

	o.logger = logger
	SetCurrent(o)

	return nil
}

// loadDotEnv loads <root>/.env without overriding variables already set.
func loadDotEnv(root string) error {
	path := filepath.Join(root, ".env")
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to inspect %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func upstreamFromEnv() (Upstream, error) {
	repo := strings.TrimSpace(os.Getenv(EnvUpstreamRepo))
	if repo == "" {
		repo = DefaultUpstreamRepo
	}
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Upstream{}, fmt.Errorf("%s must be owner/name, got %q", EnvUpstreamRepo, repo)
	}

	path := strings.Trim(strings.TrimSpace(os.Getenv(EnvUpstreamPath)), "/")
	if path == "" {
		path = DefaultUpstreamPath
	}

	return Upstream{
		Owner: owner,
		Repo:  name,
		Path:  path,
		Ref:   strings.TrimSpace(os.Getenv(EnvUpstreamRef)),
		Token: strings.TrimSpace(os.Getenv(EnvGitHubToken)),
	}, nil
}

// SetCurrent stores the provided options as the globally accessible configuration.
func SetCurrent(o *Options) {
	optionsMu.Lock()
	defer optionsMu.Unlock()
	current = o
}

// Current retrieves the globally stored options.
func Current() (*Options, error) {
	optionsMu.RLock()
	defer optionsMu.RUnlock()
	if current == nil {
		return nil, fmt.Errorf("configuration not initialised")
	}
	return current, nil
}

// Close releases any resources held by options (e.g., log files).
func (o *Options) Close() error {
	if o.logClose != nil {
		return o.logClose()
	}
	return nil
}

// WithContext returns a new context with the options stored.
func (o *Options) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKeyOptions{}, o)
}

// FromContext extracts Options from command context.
func FromContext(ctx context.Context) (*Options, error) {
	if ctx == nil {
		return nil, fmt.Errorf("nil context provided")
	}
	if opts, ok := ctx.Value(ctxKeyOptions{}).(*Options); ok {
		return opts, nil
	}
	return Current()
}

// Logger exposes the configured logger.
func (o *Options) Logger() *logrus.Logger {
	return o.logger
}

// InstructionsDir returns the directory holding the markdown guides.
func (o *Options) InstructionsDir() string {
	return filepath.Join(o.RootDir, "instructions")
}

// CatalogPath returns the path of the tool catalog.
func (o *Options) CatalogPath() string {
	return filepath.Join(o.RootDir, "catalog.yaml")
}

// SchemaPath returns the path of an optional catalog JSON schema override.
func (o *Options) SchemaPath() string {
	return filepath.Join(o.RootDir, "schemas", "catalog.schema.json")
}
