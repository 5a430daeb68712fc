package config

// Config represents the full application configuration.
type Config struct {
	// Provider selects which LLM backend reviews the PR.
	Provider      string                    `yaml:"provider"`
	Providers     map[string]ProviderConfig `yaml:"providers"`
	HTTP          HTTPConfig                `yaml:"http"`
	GitHub        GitHubConfig              `yaml:"github"`
	Patch         PatchConfig               `yaml:"patch"`
	Store         StoreConfig               `yaml:"store"`
	Observability ObservabilityConfig       `yaml:"observability"`
}

// ProviderConfig configures a single LLM provider.
type ProviderConfig struct {
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"apiKey"`
	Temperature float64 `yaml:"temperature"`
}

// HTTPConfig holds global HTTP client retry settings.
type HTTPConfig struct {
	Timeout           string  `yaml:"timeout"`
	MaxRetries        int     `yaml:"maxRetries"`
	InitialBackoff    string  `yaml:"initialBackoff"`
	MaxBackoff        string  `yaml:"maxBackoff"`
	BackoffMultiplier float64 `yaml:"backoffMultiplier"`
}

// GitHubConfig configures the GitHub adapter.
type GitHubConfig struct {
	// Token is the API token; normally ${GITHUB_TOKEN} from Actions.
	Token string `yaml:"token"`

	// BaseURL overrides the API endpoint (GitHub Enterprise).
	BaseURL string `yaml:"baseURL"`

	// BotUsername is the author login the reaper treats as its own.
	// Comments from any other author are never deleted.
	BotUsername string `yaml:"botUsername"`
}

// PatchConfig configures patch annotation.
type PatchConfig struct {
	// SkipPatterns are case-insensitive path suffixes whose hunk bodies
	// are elided from the annotated diff.
	SkipPatterns []string `yaml:"skipPatterns"`
}

// StoreConfig configures the optional run-history store.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ObservabilityConfig configures logging.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`  // debug, info, error
	Format  string `yaml:"format"` // json, human, auto (human on a TTY)
}
