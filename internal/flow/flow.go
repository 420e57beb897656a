// Package flow runs the post generation sequence:
// collect input, analyze style (when no profile is selected), generate the
// post, suggest hashtags. Stages run strictly in order and the first failure
// aborts the rest.
package flow

import (
	"context"
	"strings"

	"github.com/HartBrook/penman/internal/errors"
	"github.com/HartBrook/penman/internal/llm"
	"github.com/HartBrook/penman/internal/profile"
	"github.com/HartBrook/penman/internal/prompt"
	"github.com/HartBrook/penman/internal/style"
)

// Request is the collected input for one run.
type Request struct {
	// Profile selects a saved style. Empty means analyze Posts instead.
	Profile string
	// NewProfileName, when set, saves a freshly analyzed style under this name.
	NewProfileName string
	Posts          []string
	Topic          string
	Tone           prompt.Tone
}

// Result is the generated artifact plus the style it was written in.
type Result struct {
	Style    string
	Analyzed bool
	SavedAs  string
	Post     string
	Hashtags string
}

// Observer is told about each stage as soon as it completes, so output
// appears progressively and survives a later failure.
type Observer interface {
	ProfileLoaded(name string)
	StyleAnalyzed(summary string)
	ProfileSaved(name string)
	PostGenerated(post string)
	HashtagsSuggested(hashtags string)
}

// Runner wires the stages to a model and a profile store.
type Runner struct {
	store    profile.Store
	analyzer *style.Analyzer
	writer   *style.PostGenerator
	tagger   *style.HashtagSuggester
}

// NewRunner creates a Runner that sends every stage to gen.
func NewRunner(gen llm.Generator, store profile.Store) *Runner {
	return &Runner{
		store:    store,
		analyzer: style.NewAnalyzer(gen),
		writer:   style.NewPostGenerator(gen),
		tagger:   style.NewHashtagSuggester(gen),
	}
}

// SamplePosts drops blank entries; only non-empty posts count toward the minimum.
func SamplePosts(posts []string) []string {
	var out []string
	for _, p := range posts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// Check applies the guard: a topic is required, plus either a selected
// profile or at least two non-empty sample posts.
func Check(req Request) error {
	if strings.TrimSpace(req.Topic) == "" {
		return errors.MissingInput("a topic for the new post is required")
	}
	if req.Profile == "" && len(SamplePosts(req.Posts)) < style.MinSamplePosts {
		return errors.MissingInput("select a saved profile or provide at least 2 sample posts")
	}
	return nil
}

// Run executes the flow. A guard rejection runs no stage. A profile saved
// before a failing stage stays saved.
func (r *Runner) Run(ctx context.Context, req Request, obs Observer) (*Result, error) {
	if err := Check(req); err != nil {
		return nil, err
	}
	if obs == nil {
		obs = nopObserver{}
	}

	res := &Result{}

	if req.Profile != "" {
		summary, err := r.store.Get(ctx, req.Profile)
		if err != nil {
			return nil, err
		}
		res.Style = summary
		obs.ProfileLoaded(req.Profile)
	} else {
		summary, err := r.analyzer.Analyze(ctx, SamplePosts(req.Posts))
		if err != nil {
			return nil, err
		}
		res.Style = summary
		res.Analyzed = true
		obs.StyleAnalyzed(summary)

		if req.NewProfileName != "" {
			if err := r.store.Save(ctx, req.NewProfileName, summary); err != nil {
				return res, err
			}
			res.SavedAs = req.NewProfileName
			obs.ProfileSaved(req.NewProfileName)
		}
	}

	post, err := r.writer.Generate(ctx, res.Style, req.Topic, req.Tone)
	if err != nil {
		return res, err
	}
	res.Post = post
	obs.PostGenerated(post)

	hashtags, err := r.tagger.Suggest(ctx, post)
	if err != nil {
		return res, err
	}
	res.Hashtags = hashtags
	obs.HashtagsSuggested(hashtags)

	return res, nil
}

// CreateProfile analyzes posts and saves the summary without generating a post.
func (r *Runner) CreateProfile(ctx context.Context, name string, posts []string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.MissingInput("profile name is required")
	}
	posts = SamplePosts(posts)
	summary, err := r.analyzer.Analyze(ctx, posts)
	if err != nil {
		return "", err
	}
	if err := r.store.Save(ctx, name, summary); err != nil {
		return summary, err
	}
	return summary, nil
}

type nopObserver struct{}

func (nopObserver) ProfileLoaded(string)     {}
func (nopObserver) StyleAnalyzed(string)     {}
func (nopObserver) ProfileSaved(string)      {}
func (nopObserver) PostGenerated(string)     {}
func (nopObserver) HashtagsSuggested(string) {}
