package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/fadilmartias/hiring-assistant/internal/config"
	"github.com/fadilmartias/hiring-assistant/internal/extractor"
)

var ErrFileTooLarge = errors.New("file exceeds the upload size limit")

type StoredFile struct {
	OriginalName string
	Path         string
	Size         int64
}

type FileStorage interface {
	Save(file *multipart.FileHeader) (*StoredFile, error)
	Remove(path string) error
}

type localStorage struct {
	uploadDir string
	maxSize   int64
}

func NewFileStorage(cfg *config.StorageConfig) (FileStorage, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &localStorage{uploadDir: cfg.UploadDir, maxSize: cfg.MaxUploadSize}, nil
}

func (s *localStorage) Save(file *multipart.FileHeader) (*StoredFile, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return nil, fmt.Errorf("%w: %q", extractor.ErrUnsupportedFile, file.Filename)
	}
	if s.maxSize > 0 && file.Size > s.maxSize {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrFileTooLarge, file.Size, s.maxSize)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	path := filepath.Join(s.uploadDir, uuid.NewString()+ext)
	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}

	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &StoredFile{
		OriginalName: filepath.Base(file.Filename),
		Path:         path,
		Size:         n,
	}, nil
}

func (s *localStorage) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
