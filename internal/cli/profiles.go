package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/HartBrook/penman/internal/config"
	"github.com/HartBrook/penman/internal/flow"
	"github.com/HartBrook/penman/internal/github"
	"github.com/HartBrook/penman/internal/profile"
	"github.com/spf13/cobra"
)

// newRemoteSource connects to GitHub for profiles pull. Tests swap it for a fake.
var newRemoteSource = func() (profile.RemoteSource, error) {
	client, err := github.NewAuthenticatedClient()
	if err != nil {
		return nil, err
	}
	return client, nil
}

// NewProfilesCmd creates the profiles command group.
func NewProfilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profiles",
		Aliases: []string{"profile"},
		Short:   "Manage saved style profiles",
		Long: `Commands for listing, inspecting, and creating saved writing style profiles.

Profiles live in the configured store (a directory of JSON files by default).
A profile can also be pulled from a team repository on GitHub.`,
	}

	cmd.AddCommand(newProfilesListCmd())
	cmd.AddCommand(newProfilesShowCmd())
	cmd.AddCommand(newProfilesCreateCmd())
	cmd.AddCommand(newProfilesPullCmd())

	return cmd
}

func newProfilesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved profiles",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfilesList(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func newProfilesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Print a profile's style summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfilesShow(cmd.Context(), args[0], cmd.OutOrStdout())
		},
	}
}

func newProfilesCreateCmd() *cobra.Command {
	var posts []string
	var postsFile string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Analyze sample posts and save the style as a profile",
		Long: `Analyzes 2-10 sample posts and saves the style summary under NAME,
without writing a new post. An existing profile with the same name is replaced.`,
		Example: `  penman profiles create alice --posts-file alice.txt
  penman profiles create alice --post "First post" --post "Second post"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			all := append([]string(nil), posts...)
			if postsFile != "" {
				fromFile, err := readPostsFile(postsFile)
				if err != nil {
					return err
				}
				all = append(all, fromFile...)
			}
			if len(all) == 0 && stdinIsTerminal() {
				p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				count := p.promptInt("How many past posts do you want to provide?", minPostCount, maxPostCount, defaultPostCount)
				for i := 0; i < count; i++ {
					all = append(all, p.promptMultiline(fmt.Sprintf("Post #%d", i+1)))
				}
			}
			return runProfilesCreate(cmd.Context(), args[0], all, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringArrayVar(&posts, "post", nil, "Sample post (repeatable)")
	cmd.Flags().StringVar(&postsFile, "posts-file", "", "File of sample posts separated by lines containing only \".\"")

	return cmd
}

func newProfilesPullCmd() *cobra.Command {
	var repoFlag, pathFlag, branchFlag string

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Pull shared profiles from a GitHub repository",
		Long: `Fetches every <name>.json profile document from a directory of a GitHub
repository into the local store. Local profiles with the same name are replaced.

The repository defaults to team.repo in config.yaml. Authentication uses the
gh CLI, falling back to the PENMAN_GITHUB_TOKEN environment variable.`,
		Example: `  penman profiles pull
  penman profiles pull --repo acme/voices --path profiles --branch main`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfilesPull(cmd.Context(), repoFlag, pathFlag, branchFlag, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&repoFlag, "repo", "", "Repository (owner/repo or GitHub URL), overrides team.repo")
	cmd.Flags().StringVar(&pathFlag, "path", "", "Directory in the repository, overrides team.path")
	cmd.Flags().StringVar(&branchFlag, "branch", "", "Branch, overrides team.branch")

	return cmd
}

func runProfilesList(ctx context.Context, out io.Writer) error {
	_, store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	names, err := profile.Names(ctx, store)
	if err != nil {
		return err
	}

	if len(names) == 0 {
		fmt.Fprintln(out, "No saved profiles.")
		fmt.Fprintf(out, "  %s Run '%s' to create one\n", dim("Tip:"), info("penman generate --name NAME"))
		return nil
	}

	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}

func runProfilesShow(ctx context.Context, name string, out io.Writer) error {
	_, store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Get(ctx, name)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, heading(name))
	fmt.Fprintln(out, summary)
	return nil
}

func runProfilesCreate(ctx context.Context, name string, posts []string, out io.Writer) error {
	cfg, store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	summary, err := flow.NewRunner(gen, store).CreateProfile(ctx, name, posts)
	if err != nil {
		return err
	}

	printHeading(out, "Writing Style Summary")
	fmt.Fprintln(out, summary)
	fmt.Fprintln(out)
	printSuccess(out, "Profile saved: %s", name)
	return nil
}

func runProfilesPull(ctx context.Context, repoFlag, pathFlag, branchFlag string, out io.Writer) error {
	cfg, store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if repoFlag != "" {
		cfg.Team.Repo = repoFlag
	}
	if pathFlag != "" {
		cfg.Team.Path = pathFlag
	}
	if branchFlag != "" {
		cfg.Team.Branch = branchFlag
	}

	owner, repo, err := cfg.TeamOwnerRepo()
	if err != nil {
		return err
	}

	src, err := newRemoteSource()
	if err != nil {
		return err
	}

	paths := config.NewPaths()
	metaFile := paths.PullMetadataFile(owner, repo)
	if prev, err := profile.ReadPullMetadata(metaFile); err == nil && prev != nil {
		fmt.Fprintf(out, "Last pulled from %s %s\n", prev.RepoString(), dim(prev.Age()))
	}

	fmt.Fprintf(out, "Pulling profiles from %s/%s/%s...\n", owner, repo, cfg.Team.Path)

	report, err := profile.Pull(ctx, src, store, profile.PullOptions{
		Owner:  owner,
		Repo:   repo,
		Path:   cfg.Team.Path,
		Branch: cfg.Team.Branch,
	})
	if err != nil {
		return err
	}

	for _, name := range report.Saved {
		printSuccess(out, "%s", name)
	}

	skipped := make([]string, 0, len(report.Skipped))
	for file := range report.Skipped {
		skipped = append(skipped, file)
	}
	sort.Strings(skipped)
	for _, file := range skipped {
		printWarning(out, "Skipped %s: %s", file, report.Skipped[file])
	}

	if len(report.Saved) == 0 {
		printWarning(out, "No profiles found in %s/%s/%s", owner, repo, cfg.Team.Path)
		return nil
	}

	if err := profile.WritePullMetadata(metaFile, report.Metadata); err != nil {
		printWarning(out, "Failed to record pull metadata: %v", err)
	}

	fmt.Fprintln(out)
	printSuccess(out, "Pulled %d profiles", len(report.Saved))
	return nil
}
