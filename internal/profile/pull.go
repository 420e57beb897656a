package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/HartBrook/penman/internal/errors"
	"github.com/HartBrook/penman/internal/github"
)

// RemoteSource reads profile documents from a repository.
type RemoteSource interface {
	RepoExists(ctx context.Context, owner, repo string) (bool, error)
	ListDirectory(ctx context.Context, owner, repo, path, branch string) ([]github.DirectoryEntry, error)
	FetchFile(ctx context.Context, owner, repo, path, branch string) (*github.FetchResult, error)
}

// PullOptions names the repository directory to pull from.
type PullOptions struct {
	Owner  string
	Repo   string
	Path   string
	Branch string
}

// PullMetadata records the last pull from a repository.
type PullMetadata struct {
	Owner      string            `json:"owner"`
	Repo       string            `json:"repo"`
	Branch     string            `json:"branch,omitempty"`
	SHAs       map[string]string `json:"shas"`
	LastPulled time.Time         `json:"last_pulled"`
}

// PullReport summarizes one pull.
type PullReport struct {
	Saved    []string
	Skipped  map[string]string // file name -> reason
	Metadata *PullMetadata
}

// Pull copies every <name>.json profile document found under opts.Path into
// store. Existing local profiles with the same name are overwritten.
// Files that are not valid style documents are skipped and reported.
func Pull(ctx context.Context, src RemoteSource, store Store, opts PullOptions) (*PullReport, error) {
	repoString := opts.Owner + "/" + opts.Repo

	exists, err := src.RepoExists(ctx, opts.Owner, opts.Repo)
	if err != nil {
		return nil, errors.GitHubFetchFailed(repoString, err)
	}
	if !exists {
		return nil, errors.GitHubFetchFailed(repoString, fmt.Errorf("repository not found or not accessible"))
	}

	entries, err := src.ListDirectory(ctx, opts.Owner, opts.Repo, opts.Path, opts.Branch)
	if err != nil {
		return nil, errors.GitHubFetchFailed(repoString, err)
	}

	report := &PullReport{
		Skipped: map[string]string{},
		Metadata: &PullMetadata{
			Owner:  opts.Owner,
			Repo:   opts.Repo,
			Branch: opts.Branch,
			SHAs:   map[string]string{},
		},
	}

	for _, entry := range entries {
		if entry.Type != "file" || !strings.HasSuffix(entry.Name, FileExt) {
			continue
		}
		name := strings.TrimSuffix(entry.Name, FileExt)

		filePath := entry.Path
		if filePath == "" {
			filePath = path.Join(opts.Path, entry.Name)
		}

		res, err := src.FetchFile(ctx, opts.Owner, opts.Repo, filePath, opts.Branch)
		if err != nil {
			return report, errors.GitHubFetchFailed(repoString, err)
		}

		var doc document
		if err := json.Unmarshal([]byte(res.Content), &doc); err != nil {
			report.Skipped[entry.Name] = "not valid JSON"
			continue
		}
		if strings.TrimSpace(doc.Style) == "" {
			report.Skipped[entry.Name] = `missing "style"`
			continue
		}

		if err := store.Save(ctx, name, doc.Style); err != nil {
			return report, err
		}
		report.Saved = append(report.Saved, name)
		report.Metadata.SHAs[name] = res.SHA
	}

	report.Metadata.LastPulled = time.Now()
	return report, nil
}

// WritePullMetadata stores metadata as a JSON sidecar, creating its directory.
func WritePullMetadata(file string, meta *PullMetadata) error {
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0644)
}

// ReadPullMetadata loads a metadata sidecar. A missing file returns nil, nil.
func ReadPullMetadata(file string) (*PullMetadata, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var meta PullMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// RepoString returns "owner/repo" format.
func (m *PullMetadata) RepoString() string {
	return fmt.Sprintf("%s/%s", m.Owner, m.Repo)
}

// Age returns human-readable age string.
func (m *PullMetadata) Age() string {
	duration := time.Since(m.LastPulled)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		mins := int(duration.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	default:
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}
