package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

const EnginePure = "pure"

// pureExtractor needs no MuPDF libraries but copes less well with unusual
// font encodings.
type pureExtractor struct {
	log *zap.Logger
}

func (e *pureExtractor) Extract(ctx context.Context, path string) (*Document, error) {
	if err := checkPath(path); err != nil {
		return nil, err
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer f.Close()

	var sb strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			e.log.Warn("failed to read page text", zap.Int("page", i), zap.Error(err))
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}

	return finish(sb.String(), total, EnginePure)
}
