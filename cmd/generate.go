package cmd

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/root-daemon/auto-resume/pkg/config"
	"github.com/root-daemon/auto-resume/pkg/fetch"
	"github.com/root-daemon/auto-resume/pkg/github"
	"github.com/root-daemon/auto-resume/pkg/linkedin"
	"github.com/root-daemon/auto-resume/pkg/render"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var local bool

//nolint:gochecknoglobals // Cobra boilerplate
var templatePath string

//nolint:gochecknoglobals // Cobra boilerplate
var outputPath string

//nolint:gochecknoglobals // Cobra boilerplate
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Fetch profile data and render the resume",
	Long: `Fetch GitHub repositories and the LinkedIn profile, then substitute the
placeholders of the LaTeX template and write the result.

With --local (or LOCAL=true) each source is read from its cache file when one
exists, and fresh responses are written back to it for offline runs.

Example:
  auto-resume generate
  auto-resume generate --local --output build/resume.tex`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().BoolVar(&local, "local", false, "Use cached source data when available (default from LOCAL)")
	generateCmd.Flags().StringVar(&templatePath, "template", "", "Template file (default from config)")
	generateCmd.Flags().StringVar(&outputPath, "output", "", "Output file (default from config)")
}

func runGenerate(cmd *cobra.Command, args []string) (err error) {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	// Load configuration
	var cfg config.Config
	cfg, err = loadConfig()
	if err != nil {
		return err
	}

	log := logrus.WithField("run", uuid.NewString())
	log.WithFields(logrus.Fields{
		"local":    cfg.Local,
		"template": cfg.TemplatePath,
		"output":   cfg.OutputPath,
	}).Debug("configuration loaded")

	err = generate(ctx, cfg)
	if err != nil {
		return err
	}

	log.Infof("LaTeX file updated: %s", cfg.OutputPath)
	return err
}

// loadConfig reads the config, applies command line overrides, then validates.
func loadConfig() (cfg config.Config, err error) {
	cfg, err = config.Read(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return cfg, err
	}

	if local {
		cfg.Local = true
	}
	if templatePath != "" {
		cfg.TemplatePath = templatePath
	}
	if outputPath != "" {
		cfg.OutputPath = outputPath
	}

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return cfg, err
	}

	return cfg, err
}

// generate runs the fetch, render and write steps in order.
func generate(ctx context.Context, cfg config.Config) (err error) {
	ghClient := github.NewClient(cfg.GitHub.Token, cfg.GitHub.Endpoint, cfg.RequestTimeout, fetch.CacheOptions{
		Local: cfg.Local,
		Path:  cfg.GitHub.CachePath,
	})

	var ghProfile github.Profile
	ghProfile, err = ghClient.FetchProfile(ctx, github.DefaultQuery)
	if err != nil {
		return err
	}

	liClient := linkedin.NewClient(linkedin.Options{
		APIKey:     cfg.LinkedIn.APIKey,
		Host:       cfg.LinkedIn.APIHost,
		Endpoint:   cfg.LinkedIn.Endpoint,
		ProfileURL: cfg.LinkedIn.ProfileURL,
		Timeout:    cfg.RequestTimeout,
		Cache: fetch.CacheOptions{
			Local: cfg.Local,
			Path:  cfg.LinkedIn.CachePath,
		},
	})

	var liProfile linkedin.Profile
	liProfile, err = liClient.FetchProfile(ctx)
	if err != nil {
		return err
	}

	var template string
	template, err = render.ReadTemplate(cfg.TemplatePath)
	if err != nil {
		return err
	}

	var output string
	output, err = render.Render(template, ghProfile, liProfile, cfg.Render)
	if err != nil {
		err = errors.Wrap(err, "failed to render template")
		return err
	}

	err = render.WriteOutput(output, cfg.OutputPath)
	return err
}
