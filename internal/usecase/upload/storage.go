package upload

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	apperrors "image-classifier-service/pkg/errors"
	"image-classifier-service/pkg/logger"
	"image-classifier-service/pkg/security"
)

// Storage failure messages.
const (
	MsgCreateDirFailed = "Failed to create upload directory"
	MsgSaveFailed      = "Failed to save file"
)

// DiskStorage writes uploads into a single directory.
type DiskStorage struct {
	dir string
	log *zap.Logger
}

// NewDiskStorage creates a DiskStorage rooted at dir.
func NewDiskStorage(dir string, log *zap.Logger) *DiskStorage {
	return &DiskStorage{dir: dir, log: log}
}

// Save stores src under the sanitized filename and returns the stored path.
// If a file with that name already exists its bytes are kept and src is
// discarded.
func (s *DiskStorage) Save(ctx context.Context, filename string, src io.Reader) (string, error) {
	log := logger.WithContext(ctx, s.log)

	name := security.SecureFilename(filename)
	if name == "" {
		return "", apperrors.NewStorageError(MsgSaveFailed, errors.New("filename is empty after sanitizing"))
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		log.Error("failed to create upload directory", zap.String("dir", s.dir), zap.Error(err))
		return "", apperrors.NewStorageError(MsgCreateDirFailed, err)
	}

	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			log.Debug("upload already stored, reusing", zap.String("path", path))
			return path, nil
		}
		log.Error("failed to open upload file", zap.String("path", path), zap.Error(err))
		return "", apperrors.NewStorageError(MsgSaveFailed, err)
	}

	if _, err := io.Copy(f, src); err != nil {
		err = multierr.Combine(err, f.Close(), os.Remove(path))
		log.Error("failed to write upload file", zap.String("path", path), zap.Error(err))
		return "", apperrors.NewStorageError(MsgSaveFailed, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", apperrors.NewStorageError(MsgSaveFailed, err)
	}

	log.Info("upload stored", zap.String("path", path))
	return path, nil
}
