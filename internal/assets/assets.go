package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamnet/pkg/logger"
)

// Store keeps uploaded images (profile pictures, logos, post images)
type Store interface {
	// Save writes an asset and returns its public path
	Save(ctx context.Context, ext string, data []byte) (string, error)
	// Remove deletes the asset behind a public path. Paths that do not
	// point into the store are ignored.
	Remove(ctx context.Context, publicPath string) error
}

// FileStore keeps assets on the local filesystem under a single
// directory, served by the API at /assets/
type FileStore struct {
	dir    string
	logger *zap.Logger
}

const publicPrefix = "/assets/"

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create asset directory: %w", err)
	}
	return &FileStore{dir: dir, logger: logger.Get()}, nil
}

// Dir returns the backing directory, for static file serving
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) Save(ctx context.Context, ext string, data []byte) (string, error) {
	name := uuid.New().String()
	if ext != "" {
		name += "." + strings.TrimPrefix(ext, ".")
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to store asset: %w", err)
	}
	return publicPrefix + name, nil
}

func (s *FileStore) Remove(ctx context.Context, publicPath string) error {
	name, ok := strings.CutPrefix(publicPath, publicPrefix)
	if !ok || name == "" || strings.Contains(name, "/") {
		// External URLs and empty fields have nothing to remove
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove asset: %w", err)
	}
	return nil
}

// NoopStore discards writes; used in tests
type NoopStore struct{}

func (NoopStore) Save(ctx context.Context, ext string, data []byte) (string, error) {
	return "", nil
}

func (NoopStore) Remove(ctx context.Context, publicPath string) error {
	return nil
}
