package profile

import (
	"context"
	"encoding/json"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/HartBrook/penman/internal/errors"
)

// FileExt is the extension of a profile file.
const FileExt = ".json"

// listBatch bounds how many directory entries List reads at a time.
const listBatch = 64

// FileStore keeps one JSON document per profile under a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the store, creating dir if it does not exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.StoreFailed("init", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory holding profile files.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+FileExt)
}

// Save writes {"style": style} to <dir>/<name>.json.
func (s *FileStore) Save(_ context.Context, name, style string) error {
	if err := checkName(name); err != nil {
		return err
	}

	data, err := json.Marshal(document{Style: style})
	if err != nil {
		return errors.StoreFailed("save", err)
	}

	if err := os.WriteFile(s.path(name), data, 0644); err != nil {
		return errors.StoreFailed("save", err)
	}
	return nil
}

// Get reads a profile file. Missing or unreadable files are ProfileNotFound;
// documents without a "style" key are ProfileInvalid.
func (s *FileStore) Get(_ context.Context, name string) (string, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return "", errors.ProfileNotFound(name, err)
	}
	return decodeDocument(name, data)
}

// List reads the directory in batches and yields names of .json files.
func (s *FileStore) List(_ context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		dir, err := os.Open(s.dir)
		if err != nil {
			if os.IsNotExist(err) {
				return
			}
			yield("", errors.StoreFailed("list", err))
			return
		}
		defer dir.Close()

		for {
			entries, err := dir.ReadDir(listBatch)
			for _, entry := range entries {
				if entry.IsDir() || !strings.HasSuffix(entry.Name(), FileExt) {
					continue
				}
				if !yield(strings.TrimSuffix(entry.Name(), FileExt), nil) {
					return
				}
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				yield("", errors.StoreFailed("list", err))
				return
			}
		}
	}
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}
