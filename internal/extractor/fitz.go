package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

const EngineFitz = "fitz"

type fitzExtractor struct {
	ocrFallback bool
	log         *zap.Logger
}

func (e *fitzExtractor) Extract(ctx context.Context, path string) (*Document, error) {
	if err := checkPath(path); err != nil {
		return nil, err
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	var sb strings.Builder
	for n := 0; n < pages; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := doc.Text(n)
		if err != nil {
			e.log.Warn("failed to read page text", zap.Int("page", n+1), zap.Error(err))
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}

	if strings.TrimSpace(sb.String()) == "" && e.ocrFallback {
		e.log.Info("no text layer, falling back to OCR", zap.String("path", path))
		text, err := ocrDocument(ctx, doc, e.log)
		if err != nil {
			return nil, err
		}
		return finish(text, pages, EngineFitz+"+ocr")
	}

	return finish(sb.String(), pages, EngineFitz)
}
