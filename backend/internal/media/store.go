package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"relation-kg/backend/internal/constants"
	"relation-kg/backend/internal/utils"
	apperrors "relation-kg/backend/pkg/errors"
)

// LocalStorage keeps portrait files flat in one directory on the local filesystem
type LocalStorage struct {
	basePath string // absolute path of the image directory
	logger   *zap.Logger
}

// NewLocalStorage creates the image directory if needed
func NewLocalStorage(dir string, l *zap.Logger) (*LocalStorage, error) {
	absBasePath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid image directory '%s': %w", dir, err)
	}

	if err := os.MkdirAll(absBasePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory '%s': %w", absBasePath, err)
	}

	l.Info("Initialized image storage", zap.String("path", absBasePath))
	return &LocalStorage{basePath: absBasePath, logger: l}, nil
}

// Dir returns the absolute image directory
func (ls *LocalStorage) Dir() string {
	return ls.basePath
}

// Save writes data to filename inside the image directory
func (ls *LocalStorage) Save(filename string, data io.Reader) error {
	fullPath, err := ls.FullPath(filename)
	if err != nil {
		return err
	}

	outFile, err := os.Create(fullPath)
	if err != nil {
		return apperrors.NewPersistence("create", fullPath, err)
	}

	if _, err := io.Copy(outFile, data); err != nil {
		outFile.Close()
		os.Remove(fullPath)
		return apperrors.NewPersistence("write", fullPath, err)
	}
	if err := outFile.Close(); err != nil {
		os.Remove(fullPath)
		return apperrors.NewPersistence("close", fullPath, err)
	}

	ls.logger.Debug("Saved image", zap.String("path", fullPath))
	return nil
}

// Open returns the stored file for reading
func (ls *LocalStorage) Open(filename string) (*os.File, os.FileInfo, error) {
	fullPath, err := ls.FullPath(filename)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, apperrors.NewNotFound(constants.ResourceImage, filename)
		}
		return nil, nil, apperrors.NewPersistence("open", fullPath, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, apperrors.NewPersistence("stat", fullPath, err)
	}
	if info.IsDir() {
		file.Close()
		return nil, nil, apperrors.NewNotFound(constants.ResourceImage, filename)
	}

	return file, info, nil
}

// Delete removes a stored file. A file that is already gone is not an error.
func (ls *LocalStorage) Delete(filename string) error {
	fullPath, err := ls.FullPath(filename)
	if err != nil {
		return err
	}

	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return apperrors.NewPersistence("delete", fullPath, err)
	}
	if err == nil {
		ls.logger.Debug("Deleted image", zap.String("path", fullPath))
	}
	return nil
}

// FullPath resolves filename inside the image directory, rejecting anything
// that is not a single plain path element
func (ls *LocalStorage) FullPath(filename string) (string, error) {
	if !utils.IsPlainFilename(filename) {
		return "", apperrors.NewNotFound(constants.ResourceImage, filename)
	}

	fullPath := filepath.Join(ls.basePath, filename)
	if !strings.HasPrefix(fullPath, ls.basePath+string(filepath.Separator)) {
		return "", apperrors.NewNotFound(constants.ResourceImage, filename)
	}
	return fullPath, nil
}
