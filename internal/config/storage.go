package config

import (
	"strings"
	"sync"
)

const (
	PDFEngineFitz = "fitz"
	PDFEnginePure = "pure"
)

type StorageConfig struct {
	UploadDir      string
	MaxUploadSize  int64
	PDFEngine      string
	PDFOCRFallback bool
}

var (
	storageConfig *StorageConfig
	storageOnce   sync.Once
)

func LoadStorageConfig() *StorageConfig {
	storageOnce.Do(func() {
		storageConfig = &StorageConfig{
			UploadDir:      getString("UPLOAD_DIR", "./uploads"),
			MaxUploadSize:  getInt64("MAX_UPLOAD_SIZE", 5*1024*1024),
			PDFEngine:      strings.ToLower(getString("PDF_ENGINE", PDFEngineFitz)),
			PDFOCRFallback: getBool("PDF_OCR_FALLBACK", false),
		}
	})
	return storageConfig
}
