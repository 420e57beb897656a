package config

import (
	"regexp"
	"strings"

	"github.com/HartBrook/penman/internal/errors"
)

// repoPattern matches owner/repo format.
var repoPattern = regexp.MustCompile(`^([a-zA-Z0-9_.-]+)/([a-zA-Z0-9_.-]+)$`)

// ParseRepo extracts owner and repo from a GitHub URL or owner/repo string.
func ParseRepo(repoStr string) (owner, repo string, err error) {
	if repoStr == "" {
		return "", "", errors.InvalidRepo(repoStr)
	}

	original := repoStr
	repoStr = strings.TrimPrefix(repoStr, "https://")
	repoStr = strings.TrimPrefix(repoStr, "http://")
	repoStr = strings.TrimPrefix(repoStr, "github.com/")

	repoStr = strings.TrimSuffix(repoStr, "/")
	repoStr = strings.TrimSuffix(repoStr, ".git")

	// owner/repo/tree/main and similar collapse to owner/repo
	parts := strings.Split(repoStr, "/")
	if len(parts) >= 2 {
		repoStr = parts[0] + "/" + parts[1]
	}

	matches := repoPattern.FindStringSubmatch(repoStr)
	if matches == nil {
		return "", "", errors.InvalidRepo(original)
	}

	return matches[1], matches[2], nil
}
