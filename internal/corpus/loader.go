// Package corpus loads the PDF document corpus and splits it into
// overlapping chunks for embedding.
package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/krishisathi/sathi/internal/domain"
)

// Loader reads every PDF under a data directory into per-page documents.
// One unreadable file or page is logged and skipped; it never aborts the
// rest of the load.
type Loader struct {
	dataDir string
	logger  *zap.Logger
}

// NewLoader creates a corpus loader for the given directory.
func NewLoader(dataDir string, logger *zap.Logger) *Loader {
	return &Loader{dataDir: dataDir, logger: logger}
}

// Load returns one Document per readable PDF page, tagged with provenance.
// A missing data directory yields an empty corpus, not an error.
func (l *Loader) Load(ctx context.Context) ([]domain.Document, error) {
	entries, err := os.ReadDir(l.dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Warn("Data directory does not exist", zap.String("dir", l.dataDir))
			return nil, nil
		}
		return nil, fmt.Errorf("read data dir %s: %w", l.dataDir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		files = append(files, filepath.Join(l.dataDir, e.Name()))
	}
	sort.Strings(files)

	l.logger.Info("Found PDF files to process", zap.Int("count", len(files)))

	var documents []domain.Document
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("corpus load cancelled: %w", err)
		}

		docs, err := l.loadFile(path)
		if err != nil {
			l.logger.Error("Skipping unreadable PDF",
				zap.String("file", path), zap.Error(err))
			continue
		}

		l.logger.Info("Loaded PDF",
			zap.String("file", filepath.Base(path)), zap.Int("pages", len(docs)))
		documents = append(documents, docs...)
	}

	l.logger.Info("Corpus loaded", zap.Int("documents", len(documents)))
	return documents, nil
}

func (l *Loader) loadFile(path string) ([]domain.Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	source := filepath.Base(path)
	total := r.NumPage()

	var docs []domain.Document
	for i := 1; i <= total; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			l.logger.Warn("Skipping unreadable page",
				zap.String("file", source), zap.Int("page", i), zap.Error(err))
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		docs = append(docs, domain.Document{
			Text:   text,
			Source: source,
			File:   path,
			Page:   i,
		})
	}

	return docs, nil
}
