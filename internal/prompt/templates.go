// Package prompt holds the fixed instruction templates sent to the language model.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// PostSeparator joins sample posts inside the analysis prompt.
const PostSeparator = "\n\n"

const analyzeTemplate = `You are a writing style analyzer. Analyze the following LinkedIn posts and summarize the author's writing style.

Posts:
{{join .Posts}}

Return:
- Tone
- Sentence style
- Emoji or formatting patterns
- Common structure (e.g., hooks, storytelling, advice, questions)
- Typical vocabulary or phrases
`

const generateTemplate = `You are an AI that writes LinkedIn posts in a person's custom writing style.

Writing Style:
{{.Style}}

Write a new LinkedIn post based on this prompt:
"{{.Topic}}"

Tone: {{.Tone.Directive}}

Keep it natural and consistent with the writing style.
`

const hashtagTemplate = `Suggest 5 relevant LinkedIn hashtags (without # symbols) for this post:

{{.Post}}`

var funcs = template.FuncMap{
	"join": func(posts []string) string { return strings.Join(posts, PostSeparator) },
}

var (
	analyzeTmpl  = template.Must(template.New("analyze").Funcs(funcs).Parse(analyzeTemplate))
	generateTmpl = template.Must(template.New("generate").Parse(generateTemplate))
	hashtagTmpl  = template.Must(template.New("hashtags").Parse(hashtagTemplate))
)

// AnalyzeVars holds variables for the style analysis prompt.
type AnalyzeVars struct {
	Posts []string
}

// GenerateVars holds variables for the post generation prompt.
type GenerateVars struct {
	Style string
	Topic string
	Tone  Tone
}

// HashtagVars holds variables for the hashtag prompt.
type HashtagVars struct {
	Post string
}

// Analyze renders the style analysis prompt with every post embedded verbatim.
func Analyze(posts []string) (string, error) {
	return render(analyzeTmpl, AnalyzeVars{Posts: posts})
}

// Generate renders the post generation prompt.
func Generate(style, topic string, tone Tone) (string, error) {
	return render(generateTmpl, GenerateVars{Style: style, Topic: topic, Tone: tone})
}

// Hashtags renders the hashtag suggestion prompt.
func Hashtags(post string) (string, error) {
	return render(hashtagTmpl, HashtagVars{Post: post})
}

func render(tmpl *template.Template, vars any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
