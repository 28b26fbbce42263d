package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/root-daemon/auto-resume/pkg/github"
	"github.com/root-daemon/auto-resume/pkg/linkedin"
	"github.com/root-daemon/auto-resume/pkg/render"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when no config path is given and the file exists.
const DefaultConfigFile = "auto-resume.yaml"

// DefaultRequestTimeout bounds each HTTP call.
const DefaultRequestTimeout = 30 * time.Second

// Environment variables recognized by Load.
const (
	EnvGitHubToken        = "GITHUB_TOKEN"
	EnvGitHubTokenLegacy  = "TOKEN"
	EnvLinkedInAPIKey     = "LINKEDIN_API_KEY"
	EnvLinkedInProfileURL = "LINKEDIN_PROFILE_URL"
	EnvLocal              = "LOCAL"
	EnvTemplateFile       = "TEMPLATE_FILE"
	EnvOutputFile         = "OUTPUT_FILE"
	EnvGitHubDataFile     = "GITHUB_DATA_FILE"
	EnvLinkedInDataFile   = "LINKEDIN_DATA_FILE"
	EnvRequestTimeout     = "REQUEST_TIMEOUT"
)

// Config represents the application configuration.
type Config struct {
	GitHub         GitHubConfig   `yaml:"github"`
	LinkedIn       LinkedInConfig `yaml:"linkedin"`
	Local          bool           `yaml:"local"`
	TemplatePath   string         `yaml:"template_path"`
	OutputPath     string         `yaml:"output_path"`
	RequestTimeout time.Duration  `yaml:"request_timeout"`
	Render         render.Style   `yaml:"render"`
}

// GitHubConfig holds source A settings.
type GitHubConfig struct {
	Token     string `yaml:"token"`
	Endpoint  string `yaml:"endpoint"`
	CachePath string `yaml:"cache_path"`
}

// LinkedInConfig holds source B settings.
type LinkedInConfig struct {
	APIKey     string `yaml:"api_key"`
	APIHost    string `yaml:"api_host"`
	Endpoint   string `yaml:"endpoint"`
	ProfileURL string `yaml:"profile_url"`
	CachePath  string `yaml:"cache_path"`
}

// ConfigurationError reports a missing or invalid configuration value.
type ConfigurationError struct {
	Field  string
	EnvVar string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.EnvVar == "" {
		return fmt.Sprintf("%s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s %s (set %s or %s in the config file)", e.Field, e.Reason, e.EnvVar, e.Field)
}

// Default returns a configuration with every optional value filled in.
func Default() (cfg Config) {
	cfg = Config{
		GitHub: GitHubConfig{
			Endpoint:  github.GraphQLEndpoint,
			CachePath: "github_data.json",
		},
		LinkedIn: LinkedInConfig{
			APIHost:   linkedin.APIHost,
			Endpoint:  linkedin.APIEndpoint,
			CachePath: "linkedin_data.json",
		},
		TemplatePath:   filepath.Join("misc", "template.tex"),
		OutputPath:     "resume.tex",
		RequestTimeout: DefaultRequestTimeout,
		Render:         render.DefaultStyle(),
	}
	return cfg
}

// Load reads the configuration and validates the result.
func Load(configPath string) (cfg Config, err error) {
	cfg, err = Read(configPath)
	if err != nil {
		return cfg, err
	}

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

// Read layers defaults, the config file and environment overrides without validating.
// .env is loaded first so its variables count as environment overrides.
func Read(configPath string) (cfg Config, err error) {
	// A missing .env is fine; the variables may come from the real environment
	_ = godotenv.Load()

	cfg = Default()

	path := configPath
	if path == "" {
		_, statErr := os.Stat(DefaultConfigFile)
		if statErr == nil {
			path = DefaultConfigFile
		}
	}

	if path != "" {
		err = readFile(path, &cfg)
		if err != nil {
			return cfg, err
		}
	}

	err = applyEnv(&cfg)
	return cfg, err
}

// readFile overlays the YAML config file on cfg.
func readFile(path string, cfg *Config) (err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.Errorf("config file not found: %s (run 'auto-resume init' to create)", path)
			return err
		}
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return err
	}

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse config file: %s", path)
		return err
	}

	return err
}

// applyEnv overrides cfg with any environment variables that are set.
func applyEnv(cfg *Config) (err error) {
	if token := os.Getenv(EnvGitHubToken); token != "" {
		cfg.GitHub.Token = token
	} else if token := os.Getenv(EnvGitHubTokenLegacy); token != "" {
		cfg.GitHub.Token = token
	}

	overrides := map[string]*string{
		EnvLinkedInAPIKey:     &cfg.LinkedIn.APIKey,
		EnvLinkedInProfileURL: &cfg.LinkedIn.ProfileURL,
		EnvTemplateFile:       &cfg.TemplatePath,
		EnvOutputFile:         &cfg.OutputPath,
		EnvGitHubDataFile:     &cfg.GitHub.CachePath,
		EnvLinkedInDataFile:   &cfg.LinkedIn.CachePath,
	}
	for name, target := range overrides {
		if value := os.Getenv(name); value != "" {
			*target = value
		}
	}

	if local := os.Getenv(EnvLocal); local != "" {
		cfg.Local, err = strconv.ParseBool(local)
		if err != nil {
			err = &ConfigurationError{Field: "local", EnvVar: EnvLocal, Reason: fmt.Sprintf("must be a boolean, got %q", local)}
			return err
		}
	}

	if timeout := os.Getenv(EnvRequestTimeout); timeout != "" {
		cfg.RequestTimeout, err = time.ParseDuration(timeout)
		if err != nil {
			err = &ConfigurationError{Field: "request_timeout", EnvVar: EnvRequestTimeout, Reason: fmt.Sprintf("must be a duration, got %q", timeout)}
			return err
		}
	}

	return err
}

// Validate checks that all required configuration is present.
func (c *Config) Validate() (err error) {
	if c.TemplatePath == "" {
		err = &ConfigurationError{Field: "template_path", EnvVar: EnvTemplateFile, Reason: "is required"}
		return err
	}

	if c.OutputPath == "" {
		err = &ConfigurationError{Field: "output_path", EnvVar: EnvOutputFile, Reason: "is required"}
		return err
	}

	// Credentials are only needed when the source will actually be called
	if c.NeedsFetch(c.GitHub.CachePath) {
		if c.GitHub.Token == "" {
			err = &ConfigurationError{Field: "github.token", EnvVar: EnvGitHubToken, Reason: "is required"}
			return err
		}
	}

	if c.NeedsFetch(c.LinkedIn.CachePath) {
		if c.LinkedIn.APIKey == "" {
			err = &ConfigurationError{Field: "linkedin.api_key", EnvVar: EnvLinkedInAPIKey, Reason: "is required"}
			return err
		}
		if c.LinkedIn.ProfileURL == "" {
			err = &ConfigurationError{Field: "linkedin.profile_url", EnvVar: EnvLinkedInProfileURL, Reason: "is required"}
			return err
		}
	}

	if c.RequestTimeout <= 0 {
		err = &ConfigurationError{Field: "request_timeout", EnvVar: EnvRequestTimeout, Reason: "must be positive"}
		return err
	}

	if c.Render.ListStyle != render.ListComma && c.Render.ListStyle != render.ListBullets {
		err = &ConfigurationError{Field: "render.list_style", Reason: fmt.Sprintf("must be %q or %q", render.ListComma, render.ListBullets)}
		return err
	}

	if c.Render.TopRepositories < 0 {
		err = &ConfigurationError{Field: "render.top_repositories", Reason: "must not be negative"}
		return err
	}

	return err
}

// NeedsFetch reports whether a source with the given cache file must be fetched over the network.
func (c *Config) NeedsFetch(cachePath string) (needed bool) {
	if !c.Local || cachePath == "" {
		needed = true
		return needed
	}
	_, err := os.Stat(cachePath)
	needed = err != nil
	return needed
}

// InitConfig creates a starter configuration file.
func InitConfig(configPath string) (err error) {
	path := configPath
	if path == "" {
		path = DefaultConfigFile
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return err
	}

	// Check if file already exists
	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return err
	}

	starter := Default()
	starter.GitHub.Token = "ghp_..."
	starter.LinkedIn.APIKey = "your-rapidapi-key"
	starter.LinkedIn.ProfileURL = "https://www.linkedin.com/in/your-handle"

	var data []byte
	data, err = yaml.Marshal(starter)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return err
	}

	return err
}
