package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lunashop/storefront/internal/domain"
)

// NewFileStorage creates cart storage that keeps one JSON file per cart under dir.
// Suited to single-node deployments and local development.
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cart storage dir: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

type FileStorage struct {
	dir string
}

func (f *FileStorage) Load(_ context.Context, cartID string) ([]domain.CartLine, error) {
	data, err := os.ReadFile(f.path(cartID))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read cart file: %w", err)
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}

	return lines, nil
}

func (f *FileStorage) Save(_ context.Context, cartID string, lines []domain.CartLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	// Write to a temp file first so a crash mid-write never leaves a corrupt cart
	tmp := f.path(cartID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cart file: %w", err)
	}
	if err := os.Rename(tmp, f.path(cartID)); err != nil {
		return fmt.Errorf("rename cart file: %w", err)
	}
	return nil
}

func (f *FileStorage) Clear(_ context.Context, cartID string) error {
	err := os.Remove(f.path(cartID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove cart file: %w", err)
	}
	return nil
}

func (f *FileStorage) path(cartID string) string {
	return filepath.Join(f.dir, cartID+".json")
}
