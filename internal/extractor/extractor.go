// Package extractor pulls plain text out of uploaded CV files.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/fadilmartias/hiring-assistant/internal/config"
	"github.com/fadilmartias/hiring-assistant/internal/logger"
	"github.com/fadilmartias/hiring-assistant/internal/util"
)

var (
	ErrNoText          = errors.New("no text could be extracted from the document")
	ErrUnsupportedFile = errors.New("only PDF files are supported")
	ErrUnreadableFile  = errors.New("file could not be opened as a PDF")
)

type Document struct {
	Text   string
	Pages  int
	Engine string
}

type Extractor interface {
	Extract(ctx context.Context, path string) (*Document, error)
}

// New returns the extractor selected by cfg.PDFEngine.
func New(cfg *config.StorageConfig, log *zap.Logger) Extractor {
	log = logger.OrNop(log)
	if cfg.PDFEngine == config.PDFEnginePure {
		return &pureExtractor{log: log}
	}
	return &fitzExtractor{ocrFallback: cfg.PDFOCRFallback, log: log}
}

func checkPath(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Base(path))
	}
	return nil
}

func finish(raw string, pages int, engine string) (*Document, error) {
	text := util.NormalizeText(raw)
	if text == "" {
		return nil, ErrNoText
	}
	return &Document{Text: text, Pages: pages, Engine: engine}, nil
}
