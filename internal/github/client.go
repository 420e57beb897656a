package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/cli/go-gh/v2/pkg/api"
)

// Client wraps the GitHub API for reading shared profile repositories.
type Client struct {
	rest *api.RESTClient
}

// FetchResult contains the result of a fetch operation.
type FetchResult struct {
	Content string
	SHA     string
}

// NewClient creates a GitHub client using go-gh (automatic auth).
func NewClient() (*Client, error) {
	client, err := api.DefaultRESTClient()
	if err != nil {
		return nil, err
	}
	return &Client{rest: client}, nil
}

// NewClientWithToken creates a GitHub client with explicit token.
func NewClientWithToken(token string) (*Client, error) {
	return NewClientWithOptions(api.ClientOptions{
		AuthToken: token,
	})
}

// NewClientWithOptions creates a GitHub client from raw go-gh options.
func NewClientWithOptions(opts api.ClientOptions) (*Client, error) {
	client, err := api.NewRESTClient(opts)
	if err != nil {
		return nil, err
	}
	return &Client{rest: client}, nil
}

// fileContentsResponse represents GitHub's contents API response.
type fileContentsResponse struct {
	Type     string `json:"type"`
	Encoding string `json:"encoding"`
	Size     int    `json:"size"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	Content  string `json:"content"`
	SHA      string `json:"sha"`
}

func contentsEndpoint(owner, repo, path, branch string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	endpoint := fmt.Sprintf("repos/%s/%s/contents/%s", owner, repo, strings.Join(segments, "/"))
	if branch != "" {
		endpoint += "?ref=" + url.QueryEscape(branch)
	}
	return endpoint
}

// FetchFile fetches a file from a repo.
func (c *Client) FetchFile(ctx context.Context, owner, repo, path, branch string) (*FetchResult, error) {
	if owner == "" || repo == "" || path == "" {
		return nil, fmt.Errorf("owner, repo, and path are required")
	}

	var response fileContentsResponse
	if err := c.rest.DoWithContext(ctx, http.MethodGet, contentsEndpoint(owner, repo, path, branch), nil, &response); err != nil {
		return nil, err
	}

	// The contents API wraps base64 at 60 columns.
	content, err := base64.StdEncoding.DecodeString(stripNewlines(response.Content))
	if err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}

	return &FetchResult{
		Content: string(content),
		SHA:     response.SHA,
	}, nil
}

// RepoExists checks if a repository exists and is accessible.
func (c *Client) RepoExists(ctx context.Context, owner, repo string) (bool, error) {
	var response struct {
		ID int `json:"id"`
	}

	err := c.rest.DoWithContext(ctx, http.MethodGet, fmt.Sprintf("repos/%s/%s", owner, repo), nil, &response)
	if err != nil {
		if httpErr, ok := err.(*api.HTTPError); ok && httpErr.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// DirectoryEntry represents an item in a directory listing.
type DirectoryEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"` // "file" or "dir"
	SHA  string `json:"sha"`
}

// ListDirectory lists contents of a directory in a repo.
// Returns nil, nil if the directory doesn't exist.
func (c *Client) ListDirectory(ctx context.Context, owner, repo, path, branch string) ([]DirectoryEntry, error) {
	var response []DirectoryEntry
	err := c.rest.DoWithContext(ctx, http.MethodGet, contentsEndpoint(owner, repo, path, branch), nil, &response)
	if err != nil {
		if httpErr, ok := err.(*api.HTTPError); ok && httpErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	return response, nil
}

func stripNewlines(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}
