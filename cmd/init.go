package cmd

import (
	"github.com/pkg/errors"
	"github.com/root-daemon/auto-resume/pkg/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long: `Write a starter auto-resume.yaml (or the path given by --config) with the
default endpoints, cache files and render style. Fill in the credentials, or
leave them blank and set GITHUB_TOKEN, LINKEDIN_API_KEY and LINKEDIN_PROFILE_URL.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) (err error) {
	path := getConfigFile()
	if path == "" {
		path = config.DefaultConfigFile
	}

	err = config.InitConfig(path)
	if err != nil {
		err = errors.Wrap(err, "failed to create config")
		return err
	}

	logrus.Infof("Config written to %s", path)
	return err
}
