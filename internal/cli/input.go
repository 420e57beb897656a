package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
)

// postTerminator ends a multi-line post, both at the prompt and in posts files.
const postTerminator = "."

// prompter reads answers from one buffered reader so typed-ahead input is
// not lost between questions.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// stdinIsTerminal reports whether prompts can be shown.
func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (p *prompter) readLine() (string, bool) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

// promptString prompts for a string input.
func (p *prompter) promptString(prompt string) string {
	fmt.Fprintf(p.out, "%s ", prompt)
	line, _ := p.readLine()
	return strings.TrimSpace(line)
}

// promptChoice shows a numbered list and returns the chosen index.
// An empty answer picks def; an invalid one asks again until input runs out.
func (p *prompter) promptChoice(prompt string, items []string, def int) int {
	fmt.Fprintln(p.out, prompt)
	for i, item := range items {
		marker := " "
		if i == def {
			marker = "*"
		}
		fmt.Fprintf(p.out, "  %s %d. %s\n", marker, i+1, item)
	}

	for {
		fmt.Fprintf(p.out, "Choose [1-%d] (default %d): ", len(items), def+1)
		line, ok := p.readLine()
		input := strings.TrimSpace(line)
		if input == "" {
			return def
		}
		if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(items) {
			return n - 1
		}
		for i, item := range items {
			if strings.EqualFold(item, input) {
				return i
			}
		}
		if !ok {
			return def
		}
		fmt.Fprintf(p.out, "  %s\n", dim("Invalid option"))
	}
}

// promptInt asks for a number within [lo, hi].
func (p *prompter) promptInt(prompt string, lo, hi, def int) int {
	for {
		fmt.Fprintf(p.out, "%s [%d-%d] (default %d): ", prompt, lo, hi, def)
		line, ok := p.readLine()
		input := strings.TrimSpace(line)
		if input == "" {
			return def
		}
		if n, err := strconv.Atoi(input); err == nil && n >= lo && n <= hi {
			return n
		}
		if !ok {
			return def
		}
		fmt.Fprintf(p.out, "  %s\n", dim(fmt.Sprintf("Enter a number from %d to %d", lo, hi)))
	}
}

// promptMultiline reads lines until one containing only "." or end of input.
// The text is returned as typed.
func (p *prompter) promptMultiline(prompt string) string {
	fmt.Fprintf(p.out, "%s %s\n", prompt, dim("(end with a line containing only \".\")"))
	var lines []string
	for {
		line, ok := p.readLine()
		if !ok || strings.TrimSpace(line) == postTerminator {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// splitPosts splits a posts file into posts. Posts are separated by lines
// containing only "."; trailing text without a terminator is the last post.
func splitPosts(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var posts []string
	var current []string
	flush := func() {
		if post := strings.Join(current, "\n"); strings.TrimSpace(post) != "" {
			posts = append(posts, post)
		}
		current = current[:0]
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == postTerminator {
			flush()
			continue
		}
		current = append(current, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return posts, nil
}
