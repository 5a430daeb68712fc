package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/akarpov87/patchnote/internal/adapter/cli"
	"github.com/akarpov87/patchnote/internal/adapter/git"
	githubadapter "github.com/akarpov87/patchnote/internal/adapter/github"
	"github.com/akarpov87/patchnote/internal/adapter/httpapi"
	"github.com/akarpov87/patchnote/internal/adapter/llm/anthropic"
	"github.com/akarpov87/patchnote/internal/adapter/llm/openai"
	"github.com/akarpov87/patchnote/internal/adapter/store/sqlite"
	"github.com/akarpov87/patchnote/internal/config"
	"github.com/akarpov87/patchnote/internal/event"
	"github.com/akarpov87/patchnote/internal/patch"
	"github.com/akarpov87/patchnote/internal/usecase/reaper"
	"github.com/akarpov87/patchnote/internal/usecase/review"
	"github.com/akarpov87/patchnote/internal/version"
)

func main() {
	if err := run(); err != nil {
		// Redact API keys from URLs in error messages before logging
		log.Println(httpapi.RedactURLSecrets(err.Error()))
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "pn",
		EnvPrefix:   "PN",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	logger := buildLogger(cfg.Observability.Logging)

	// Workflow event payload supplies PR coordinates when flags do not.
	defaults := resolveEventDefaults()

	gitEngine := git.NewEngine(".")

	var reviewStore review.Store
	if cfg.Store.Enabled {
		storeDir := filepath.Dir(cfg.Store.Path)
		if err := os.MkdirAll(storeDir, 0755); err != nil {
			log.Printf("warning: failed to create store directory: %v", err)
		} else {
			sqliteStore, err := sqlite.NewStore(cfg.Store.Path)
			if err != nil {
				log.Printf("warning: failed to initialize store: %v", err)
			} else {
				reviewStore = sqliteStore
				defer sqliteStore.Close()
			}
		}
	}

	newReviewer := func(owner, repo string, pullNumber int) (cli.PullRequestReviewer, error) {
		if cfg.GitHub.Token == "" {
			return nil, fmt.Errorf("github token missing; set GITHUB_TOKEN or github.token")
		}

		client := githubadapter.NewClient(cfg.GitHub.Token, owner, repo, pullNumber)
		if cfg.GitHub.BaseURL != "" {
			client.SetBaseURL(cfg.GitHub.BaseURL)
		}
		client.SetRetryConfig(retryConfigFromHTTP(cfg.HTTP))

		provider, err := buildProvider(cfg, logger)
		if err != nil {
			return nil, err
		}

		// nil interfaces must stay nil, not wrap a nil pointer
		var reaperLogger reaper.Logger
		var reviewLogger review.Logger
		if logger != nil {
			reaperLogger = logger
			reviewLogger = logger
		}

		botReaper := reaper.New(
			githubadapter.NewCommentStore(client),
			reaper.UsernamePredicate(cfg.GitHub.BotUsername),
			reaperLogger,
		)

		return review.NewOrchestrator(review.OrchestratorDeps{
			Diff:      client,
			Provider:  provider,
			Poster:    client,
			Reaper:    botReaper,
			Store:     reviewStore,
			Logger:    reviewLogger,
			SkipRules: patch.SkipRules(cfg.Patch.SkipPatterns),
		})
	}

	root := cli.NewRootCommand(cli.Dependencies{
		NewReviewer:       newReviewer,
		ResolveHeadSHA:    gitEngine.HeadSHA,
		DefaultOwner:      defaults.owner,
		DefaultRepo:       defaults.repo,
		DefaultPullNumber: defaults.pullNumber,
		DefaultCommitSHA:  defaults.commitSHA,
		Version:           version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

// prDefaults holds PR coordinates recovered from the environment.
type prDefaults struct {
	owner      string
	repo       string
	pullNumber int
	commitSHA  string
}

// resolveEventDefaults reads the Actions event payload and repository
// environment so the pr command works without flags inside a workflow.
func resolveEventDefaults() prDefaults {
	var defaults prDefaults

	if full := os.Getenv("GITHUB_REPOSITORY"); full != "" {
		defaults.owner, defaults.repo = splitRepository(full)
	}

	eventPath := os.Getenv("GITHUB_EVENT_PATH")
	if eventPath == "" {
		return defaults
	}

	payload, err := event.Load(eventPath)
	if err != nil {
		log.Printf("warning: unreadable event payload: %v", err)
		return defaults
	}

	if payload.Repository != nil && payload.Repository.FullName != "" {
		defaults.owner, defaults.repo = splitRepository(payload.Repository.FullName)
	}

	switch payload.Type() {
	case event.TypePullRequest:
		defaults.pullNumber = payload.PullRequest.Number
		if defaults.pullNumber == 0 {
			defaults.pullNumber = payload.Number
		}
		defaults.commitSHA = payload.PullRequest.Head.SHA
	default:
		log.Printf("event type %q is not a pull request; pass --pr-number explicitly", payload.Type())
	}

	return defaults
}

func splitRepository(full string) (owner, repo string) {
	parts := strings.SplitN(full, "/", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], parts[1]
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "pn"))
	}
	return paths
}

// buildLogger creates the structured logger. Format "auto" picks human
// output on a terminal and JSON otherwise.
func buildLogger(cfg config.LoggingConfig) *httpapi.DefaultLogger {
	if !cfg.Enabled {
		return nil
	}

	level := httpapi.LogLevelInfo
	switch cfg.Level {
	case "debug":
		level = httpapi.LogLevelDebug
	case "error":
		level = httpapi.LogLevelError
	}

	format := httpapi.LogFormatHuman
	switch cfg.Format {
	case "json":
		format = httpapi.LogFormatJSON
	case "human":
		format = httpapi.LogFormatHuman
	default:
		if !term.IsTerminal(int(os.Stderr.Fd())) {
			format = httpapi.LogFormatJSON
		}
	}

	return httpapi.NewDefaultLogger(level, format)
}

// buildProvider constructs the configured LLM provider.
func buildProvider(cfg config.Config, logger *httpapi.DefaultLogger) (review.Provider, error) {
	providerCfg, ok := cfg.Providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("provider %q not configured; add a providers.%s section", cfg.Provider, cfg.Provider)
	}
	if providerCfg.APIKey == "" {
		return nil, fmt.Errorf("provider %q missing API key", cfg.Provider)
	}

	pricing := httpapi.NewPricing()
	retryConf := retryConfigFromHTTP(cfg.HTTP)

	var providerLogger httpapi.Logger
	if logger != nil {
		providerLogger = logger
	}

	switch cfg.Provider {
	case "openai":
		client := openai.NewClient(providerCfg.APIKey, providerCfg.Model, providerCfg.Temperature, review.SystemPrompt)
		client.SetRetryConfig(retryConf)
		return openai.NewProvider(providerCfg.Model, client, pricing, providerLogger), nil
	case "anthropic":
		client := anthropic.NewClient(providerCfg.APIKey, providerCfg.Model, providerCfg.Temperature, review.SystemPrompt)
		client.SetRetryConfig(retryConf)
		return anthropic.NewProvider(providerCfg.Model, client, pricing, providerLogger), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q; supported providers: openai, anthropic", cfg.Provider)
	}
}

// retryConfigFromHTTP maps the config retry settings onto the shared
// retry schedule, keeping defaults for unset or invalid values.
func retryConfigFromHTTP(cfg config.HTTPConfig) httpapi.RetryConfig {
	conf := httpapi.DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		conf.MaxRetries = cfg.MaxRetries
	}
	if d, err := time.ParseDuration(cfg.InitialBackoff); err == nil && d > 0 {
		conf.InitialBackoff = d
	}
	if d, err := time.ParseDuration(cfg.MaxBackoff); err == nil && d > 0 {
		conf.MaxBackoff = d
	}
	if cfg.BackoffMultiplier > 0 {
		conf.Multiplier = cfg.BackoffMultiplier
	}
	return conf
}

// Compile-time interface compliance checks
var _ review.DiffFetcher = (*githubadapter.Client)(nil)
var _ review.CommentPoster = (*githubadapter.Client)(nil)
var _ review.Provider = (*openai.Provider)(nil)
var _ review.Provider = (*anthropic.Provider)(nil)
var _ review.Store = (*sqlite.Store)(nil)
var _ reaper.CommentStore = (*githubadapter.CommentStore)(nil)
var _ cli.PullRequestReviewer = (*review.Orchestrator)(nil)
