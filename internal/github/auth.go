// Package github provides GitHub API integration.
package github

import (
	"os"
	"os/exec"
	"strings"

	"github.com/HartBrook/penman/internal/errors"
)

const (
	// EnvGitHubToken is the environment variable for fallback token auth.
	EnvGitHubToken = "PENMAN_GITHUB_TOKEN"
)

// GetTokenFromGHCLI executes `gh auth token` to get token.
func GetTokenFromGHCLI() (string, error) {
	cmd := exec.Command("gh", "auth", "token")
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// GetTokenFromEnv reads PENMAN_GITHUB_TOKEN.
func GetTokenFromEnv() string {
	return os.Getenv(EnvGitHubToken)
}

// AuthMethod returns a string describing the current auth method.
func AuthMethod() string {
	if _, err := GetTokenFromGHCLI(); err == nil {
		return "gh CLI"
	}
	if GetTokenFromEnv() != "" {
		return EnvGitHubToken
	}
	return "none"
}

// NewAuthenticatedClient tries go-gh's automatic auth first and falls back
// to PENMAN_GITHUB_TOKEN.
func NewAuthenticatedClient() (*Client, error) {
	client, err := NewClient()
	if err == nil {
		return client, nil
	}
	token := GetTokenFromEnv()
	if token == "" {
		return nil, errors.GitHubAuthFailed(err)
	}
	client, err = NewClientWithToken(token)
	if err != nil {
		return nil, errors.GitHubAuthFailed(err)
	}
	return client, nil
}
