// Package style turns prompts into model calls: style analysis, post
// generation, and hashtag suggestion.
package style

import (
	"context"
	"strings"

	"github.com/HartBrook/penman/internal/errors"
	"github.com/HartBrook/penman/internal/llm"
	"github.com/HartBrook/penman/internal/prompt"
)

// MinSamplePosts is the fewest sample posts a style can be analyzed from.
const MinSamplePosts = 2

// HashtagSeparator replaces each newline in the model's hashtag list.
const HashtagSeparator = "  •  #"

// Analyzer summarizes a writing style from sample posts.
type Analyzer struct {
	gen llm.Generator
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(gen llm.Generator) *Analyzer {
	return &Analyzer{gen: gen}
}

// Analyze embeds every post into the analysis prompt and returns the trimmed summary.
func (a *Analyzer) Analyze(ctx context.Context, posts []string) (string, error) {
	if len(posts) < MinSamplePosts {
		return "", errors.MissingInput("at least 2 sample posts are required to analyze a style")
	}

	p, err := prompt.Analyze(posts)
	if err != nil {
		return "", err
	}
	return complete(ctx, a.gen, p)
}

// PostGenerator drafts a post in a given style.
type PostGenerator struct {
	gen llm.Generator
}

// NewPostGenerator creates a PostGenerator.
func NewPostGenerator(gen llm.Generator) *PostGenerator {
	return &PostGenerator{gen: gen}
}

// Generate returns the trimmed post text.
func (g *PostGenerator) Generate(ctx context.Context, style, topic string, tone prompt.Tone) (string, error) {
	p, err := prompt.Generate(style, topic, tone)
	if err != nil {
		return "", err
	}
	return complete(ctx, g.gen, p)
}

// HashtagSuggester asks for hashtags for a post.
type HashtagSuggester struct {
	gen llm.Generator
}

// NewHashtagSuggester creates a HashtagSuggester.
func NewHashtagSuggester(gen llm.Generator) *HashtagSuggester {
	return &HashtagSuggester{gen: gen}
}

// Suggest returns the model's hashtags formatted for display. The count is not
// checked against the five requested.
func (h *HashtagSuggester) Suggest(ctx context.Context, post string) (string, error) {
	p, err := prompt.Hashtags(post)
	if err != nil {
		return "", err
	}
	text, err := complete(ctx, h.gen, p)
	if err != nil {
		return "", err
	}
	return FormatHashtags(text), nil
}

// FormatHashtags joins newline-separated tags with HashtagSeparator.
// The first tag is left without a '#'; the display adds it.
func FormatHashtags(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), "\n", HashtagSeparator)
}

// CountHashtags reports how many tags a formatted hashtag string holds.
func CountHashtags(formatted string) int {
	if strings.TrimSpace(formatted) == "" {
		return 0
	}
	return strings.Count(formatted, HashtagSeparator) + 1
}

func complete(ctx context.Context, gen llm.Generator, p string) (string, error) {
	text, err := gen.Generate(ctx, p)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
