package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	storageerr "prompt_galeri/internal/storage"
)

// BlobStorage is the binary-asset store behind the upload endpoint. Save
// returns the public URL of the stored object.
type BlobStorage interface {
	Save(ctx context.Context, r io.Reader, filename string) (publicURL string, size int64, err error)
	Delete(ctx context.Context, filename string) error
	GetFullPath(filename string) string
	BaseURL() string
	GetBaseDir() string
}

// LocalBlobStorage реализация для локальной файловой системы
type LocalBlobStorage struct {
	baseDir string // base directory, e.g. "./uploads"
	baseURL string // public prefix, e.g. "http://localhost:8080/uploads"
	maxSize int64  // 0 disables the limit
}

func NewLocalBlobStorage(baseDir, baseURL string, maxSize int64) (*LocalBlobStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalBlobStorage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
		maxSize: maxSize,
	}, nil
}

func (s *LocalBlobStorage) Save(ctx context.Context, r io.Reader, filename string) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	// keep only the base name, uploads never escape baseDir
	filename = filepath.Base(filename)
	if filename == "." || filename == string(filepath.Separator) {
		return "", 0, storageerr.ErrInvalidFileType
	}

	// рандомный суффикс, повторная загрузка не перетирает чужой файл
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	filename = fmt.Sprintf("%s_%s%s", stem, uuid.NewString(), ext)

	filePath := filepath.Join(s.baseDir, filename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if s.maxSize > 0 {
		r = io.LimitReader(r, s.maxSize+1)
	}

	done := make(chan struct{})
	var size int64
	var copyErr error

	go func() {
		size, copyErr = io.Copy(dst, r)
		close(done)
	}()

	select {
	case <-done:
		if copyErr != nil {
			_ = os.Remove(filePath)
			return "", 0, fmt.Errorf("failed to copy file: %w", copyErr)
		}
	case <-ctx.Done():
		_ = os.Remove(filePath)
		return "", 0, ctx.Err()
	}

	if s.maxSize > 0 && size > s.maxSize {
		_ = os.Remove(filePath)
		return "", 0, storageerr.ErrFileTooLarge
	}

	return s.publicURL(filename), size, nil
}

// Delete удаляет файл из хранилища
func (s *LocalBlobStorage) Delete(ctx context.Context, filename string) error {
	fullPath := filepath.Join(s.baseDir, filepath.Base(filename))
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return storageerr.ErrFileNotFound
		}
		return err
	}
	return nil
}

// GetFullPath возвращает полный путь к файлу на диске
func (s *LocalBlobStorage) GetFullPath(filename string) string {
	return filepath.Join(s.baseDir, filepath.Base(filename))
}

func (s *LocalBlobStorage) BaseURL() string {
	return s.baseURL
}

func (s *LocalBlobStorage) GetBaseDir() string {
	return s.baseDir
}

func (s *LocalBlobStorage) publicURL(filename string) string {
	return s.baseURL + "/" + path.Join(url.PathEscape(filename))
}
