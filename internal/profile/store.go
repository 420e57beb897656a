// Package profile persists named writing-style summaries.
//
// A profile maps a name to a free-text style summary. Saving an existing name
// overwrites it (last write wins); there is no update or delete path and no
// locking between concurrent writers.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"sort"
	"strings"

	"github.com/HartBrook/penman/internal/config"
	"github.com/HartBrook/penman/internal/errors"
)

// Profile is a named, persisted style summary.
type Profile struct {
	Name  string
	Style string
}

// Store is key/value persistence from profile name to style summary.
type Store interface {
	// Save writes style under name, silently replacing any existing entry.
	Save(ctx context.Context, name, style string) error

	// Get returns the stored style, or a ProfileNotFound error.
	Get(ctx context.Context, name string) (string, error)

	// List lazily yields every stored name in no particular order.
	// Each call starts a fresh scan.
	List(ctx context.Context) iter.Seq2[string, error]

	Close() error
}

// document is the persisted shape of a profile, shared by every backend.
type document struct {
	Style string `json:"style"`
}

// decodeDocument parses a stored document. A document without a "style" key
// is ProfileInvalid.
func decodeDocument(name string, data []byte) (string, error) {
	var doc struct {
		Style *string `json:"style"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", errors.ProfileInvalid(name, err)
	}
	if doc.Style == nil {
		return "", errors.ProfileInvalid(name, fmt.Errorf(`missing "style" key`))
	}
	return *doc.Style, nil
}

// Open creates the store selected by the configured backend.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case config.BackendFile, "":
		s, err = NewFileStore(cfg.Dir)
	case config.BackendSQLite:
		s, err = OpenSQLite(cfg.SQLitePath)
	case config.BackendRedis:
		s, err = OpenRedis(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			Prefix:   cfg.RedisPrefix,
		})
	default:
		return nil, errors.ConfigInvalid("unknown store backend " + cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Names collects every stored name into a sorted slice.
func Names(ctx context.Context, s Store) ([]string, error) {
	var names []string
	for name, err := range s.List(ctx) {
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// checkName rejects names that cannot identify an entry. Everything else is trusted.
func checkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.MissingInput("profile name is required")
	}
	return nil
}
