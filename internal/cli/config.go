package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/HartBrook/penman/internal/config"
	"github.com/HartBrook/penman/internal/github"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		Long: `Prints the configuration after defaults are applied, and whether the
provider credential was found in the environment. Credentials are never
printed; a configured Redis password is shown as "***".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.OutOrStdout())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), configFilePath())
		},
	})

	return cmd
}

func configFilePath() string {
	if path := os.Getenv(config.EnvConfigFile); path != "" {
		return path
	}
	return config.NewPaths().ConfigFile
}

// redacted is printed in place of secrets stored in the config file.
const redacted = "***"

func runConfigShow(out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	path := configFilePath()
	if _, err := os.Stat(path); err != nil {
		printInfo(out, "Config file", path+" "+dim("(not found, using defaults)"))
	} else {
		printInfo(out, "Config file", path)
	}

	credential := warningIcon + " not set"
	if cfg.APIKey != "" {
		credential = successIcon + " set"
	}
	printInfo(out, cfg.APIKeyEnv(), credential)
	if cfg.Team.Repo != "" {
		printInfo(out, "Team repo", cfg.Team.Repo)
		printInfo(out, "GitHub auth", github.AuthMethod())
	}
	fmt.Fprintln(out)

	shown := *cfg
	if shown.Store.RedisPassword != "" {
		shown.Store.RedisPassword = redacted
	}
	data, err := yaml.Marshal(&shown)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = out.Write(data)
	return err
}
