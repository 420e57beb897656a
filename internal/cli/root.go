// Package cli implements the penman command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/HartBrook/penman/internal/config"
	"github.com/HartBrook/penman/internal/llm"
	"github.com/HartBrook/penman/internal/profile"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "dev"

	// Output helpers.
	successIcon = color.New(color.FgGreen).Sprint("✓")
	warningIcon = color.New(color.FgYellow).Sprint("⚠")
	errorIcon   = color.New(color.FgRed).Sprint("✗")

	heading = color.New(color.Bold).SprintFunc()
	info    = color.New(color.FgCyan).SprintFunc()
	dim     = color.New(color.Faint).SprintFunc()
)

// newGenerator builds the model client. Tests swap it for a scripted one.
var newGenerator = func(cfg *config.Config) (llm.Generator, error) {
	return llm.New(llm.SettingsFromConfig(cfg))
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "penman",
		Short: "Write LinkedIn posts in your own voice",
		Long: `Penman learns a writing style from a few of your past posts, saves it as a
named profile, and drafts new posts and hashtags in that style.

The model provider and profile store are set in ~/.config/penman/config.yaml.
The provider credential is read from its environment variable (GOOGLE_API_KEY
for the default Gemini provider).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewProfilesCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "penman %s\n", Version)
		},
	}
}

// Execute runs the CLI.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		printErr(os.Stderr, err)
		return err
	}
	return nil
}

// printErr prints an error with its hint, if it carries one.
func printErr(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %s\n", errorIcon, err.Error())
	if he, ok := err.(interface{ HintText() string }); ok {
		if hint := he.HintText(); hint != "" {
			fmt.Fprintf(w, "  %s\n", dim(hint))
		}
	}
}

// openStore loads configuration and opens the configured profile store.
func openStore(ctx context.Context) (*config.Config, profile.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	store, err := profile.Open(ctx, cfg.Store)
	if err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}

// printSuccess prints a success message.
func printSuccess(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", successIcon, fmt.Sprintf(format, args...))
}

// printWarning prints a warning message.
func printWarning(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", warningIcon, fmt.Sprintf(format, args...))
}

// printInfo prints an info line.
func printInfo(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s: %s\n", dim(label), value)
}

// printHeading prints a section heading preceded by a blank line.
func printHeading(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", heading(title))
}
