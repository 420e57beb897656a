package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/HartBrook/penman/internal/config"
	"github.com/HartBrook/penman/internal/flow"
	"github.com/HartBrook/penman/internal/profile"
	"github.com/HartBrook/penman/internal/prompt"
	"github.com/HartBrook/penman/internal/render"
	"github.com/HartBrook/penman/internal/style"
	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/spf13/cobra"
)

const (
	createNewOption = "Create New"

	minPostCount     = 2
	maxPostCount     = 10
	defaultPostCount = 3

	expectedHashtags = 5
)

// clipboardOut receives the OSC52 sequence for --copy.
var clipboardOut io.Writer = os.Stderr

type generateOptions struct {
	profile   string
	name      string
	posts     []string
	postsFile string
	topic     string
	tone      string
	noInput   bool
	copy      bool
	html      string
	verbose   bool
}

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Write a new post in a learned style",
		Long: `Writes a new LinkedIn post about a topic, in the style of a saved profile or
of 2-10 sample posts, then suggests hashtags for it.

Anything not given by flags is asked for interactively when stdin is a
terminal. Sample posts are entered one at a time, each ending with a line
containing only ".". A posts file uses the same separator.`,
		Example: `  penman generate
  penman generate --profile alice --topic "our new office" --tone witty
  penman gen --posts-file posts.txt --name alice --topic "hiring" --no-input
  penman gen --profile alice --topic "launch" --copy --html preview.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var p *prompter
			if !opts.noInput && stdinIsTerminal() {
				p = newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			}
			return runGenerate(cmd.Context(), opts, p, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.profile, "profile", "p", "", "Use a saved style profile")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "Save the analyzed style under this profile name")
	cmd.Flags().StringArrayVar(&opts.posts, "post", nil, "Sample post (repeatable)")
	cmd.Flags().StringVar(&opts.postsFile, "posts-file", "", "File of sample posts separated by lines containing only \".\"")
	cmd.Flags().StringVarP(&opts.topic, "topic", "t", "", "What the new post should be about")
	cmd.Flags().StringVar(&opts.tone, "tone", "", "Tone: Default, Inspirational, Professional, Friendly, or Witty")
	cmd.Flags().BoolVar(&opts.noInput, "no-input", false, "Never prompt, use flags only")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "Copy the post to the clipboard (OSC52)")
	cmd.Flags().StringVar(&opts.html, "html", "", "Write an HTML preview to this file")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show provider and store details")

	return cmd
}

// runGenerate collects input, runs the flow, and renders each stage as it completes.
// A nil prompter means non-interactive.
func runGenerate(ctx context.Context, opts *generateOptions, p *prompter, out io.Writer) error {
	cfg, store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	req, err := collectRequest(ctx, opts, p, store, out)
	if err != nil {
		return err
	}

	if err := flow.Check(req); err != nil {
		return err
	}

	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	if opts.verbose {
		printInfo(out, "Provider", gen.Name())
		printInfo(out, "Model", gen.Model())
		printInfo(out, "Store", cfg.Store.Backend)
	}

	res, err := flow.NewRunner(gen, store).Run(ctx, req, &display{out: out})
	if err != nil {
		return err
	}

	fmt.Fprintln(out)

	if opts.copy {
		if err := copyToClipboard(res.Post); err != nil {
			printWarning(out, "Could not copy to clipboard: %v", err)
		} else {
			printSuccess(out, "Copied to clipboard!")
		}
	}

	if opts.html != "" {
		if err := writePreview(opts.html, req.Topic, res); err != nil {
			return err
		}
		printSuccess(out, "Preview written to %s", opts.html)
	}

	return nil
}

// collectRequest merges flags, the posts file, and interactive answers.
func collectRequest(ctx context.Context, opts *generateOptions, p *prompter, store profile.Store, out io.Writer) (flow.Request, error) {
	req := flow.Request{
		Profile:        opts.profile,
		NewProfileName: opts.name,
		Posts:          append([]string(nil), opts.posts...),
		Topic:          opts.topic,
	}

	if opts.postsFile != "" {
		posts, err := readPostsFile(opts.postsFile)
		if err != nil {
			return req, err
		}
		req.Posts = append(req.Posts, posts...)
	}

	if req.Profile != "" && len(req.Posts) > 0 {
		printWarning(out, "Using profile %q, sample posts are ignored", req.Profile)
		req.Posts = nil
	}
	if req.Profile != "" && req.NewProfileName != "" {
		printWarning(out, "Using profile %q, --name %q is ignored", req.Profile, req.NewProfileName)
		req.NewProfileName = ""
	}

	if p != nil && req.Profile == "" && len(req.Posts) == 0 {
		if err := askStyleSource(ctx, p, store, &req); err != nil {
			return req, err
		}
	}

	if req.Topic == "" && p != nil {
		fmt.Fprintln(p.out)
		req.Topic = p.promptString("What should your next post be about?")
	}

	tone, err := prompt.ParseTone(opts.tone)
	if err != nil {
		return req, err
	}
	if opts.tone == "" && p != nil {
		fmt.Fprintln(p.out)
		tone = prompt.Tones[p.promptChoice("Optional: Adjust the tone of your post", prompt.ToneNames(), 0)]
	}
	req.Tone = tone

	return req, nil
}

// askStyleSource offers "Create New" plus every saved profile. Creating new
// asks for an optional profile name and 2-10 sample posts.
func askStyleSource(ctx context.Context, p *prompter, store profile.Store, req *flow.Request) error {
	names, err := profile.Names(ctx, store)
	if err != nil {
		return err
	}

	items := append([]string{createNewOption}, names...)
	choice := p.promptChoice("Choose a profile or create new:", items, 0)
	if choice > 0 {
		req.Profile = names[choice-1]
		if req.NewProfileName != "" {
			printWarning(p.out, "Using profile %q, --name %q is ignored", req.Profile, req.NewProfileName)
			req.NewProfileName = ""
		}
		return nil
	}

	if req.NewProfileName == "" {
		req.NewProfileName = p.promptString("Enter a name for your new style profile (leave empty to skip saving):")
	}

	fmt.Fprintln(p.out)
	count := p.promptInt("How many past posts do you want to provide?", minPostCount, maxPostCount, defaultPostCount)
	for i := 0; i < count; i++ {
		fmt.Fprintln(p.out)
		if post := p.promptMultiline(fmt.Sprintf("Post #%d", i+1)); strings.TrimSpace(post) != "" {
			req.Posts = append(req.Posts, post)
		}
	}
	return nil
}

func readPostsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read posts file: %w", err)
	}
	defer f.Close()

	posts, err := splitPosts(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read posts file: %w", err)
	}
	return posts, nil
}

// display prints each flow stage as soon as it completes.
type display struct {
	out io.Writer
}

func (d *display) ProfileLoaded(name string) {
	printSuccess(d.out, "Loaded profile: %s", name)
}

func (d *display) StyleAnalyzed(summary string) {
	printSuccess(d.out, "Style analysis complete!")
	printHeading(d.out, "Writing Style Summary")
	fmt.Fprintln(d.out, summary)
}

func (d *display) ProfileSaved(name string) {
	fmt.Fprintln(d.out)
	printSuccess(d.out, "Profile saved: %s", name)
}

func (d *display) PostGenerated(post string) {
	printHeading(d.out, "Your New LinkedIn Post")
	fmt.Fprintln(d.out, post)
}

func (d *display) HashtagsSuggested(hashtags string) {
	printHeading(d.out, "Suggested Hashtags")
	fmt.Fprintf(d.out, "#%s\n", hashtags)
	if n := style.CountHashtags(hashtags); n != expectedHashtags {
		printWarning(d.out, "Model suggested %d hashtags instead of %d", n, expectedHashtags)
	}
}

// copyToClipboard writes an OSC52 sequence so the terminal copies text,
// wrapping it for tmux or screen when running inside one.
func copyToClipboard(text string) error {
	seq := osc52.New(text)
	switch {
	case os.Getenv("TMUX") != "":
		seq = seq.Tmux()
	case os.Getenv("STY") != "":
		seq = seq.Screen()
	}
	_, err := seq.WriteTo(clipboardOut)
	return err
}

func writePreview(path, topic string, res *flow.Result) error {
	preview := render.Preview{
		Title:    topic,
		Post:     res.Post,
		Hashtags: res.Hashtags,
	}
	if res.Analyzed {
		preview.Style = res.Style
	}

	page, err := render.Page(preview)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, page, config.DefaultFileMode); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	return nil
}
