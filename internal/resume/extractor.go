// Package resume extracts plain text from resume files.
package resume

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

// Extractor reads resume files and pulls their plain text.
type Extractor struct {
	logger *zap.Logger
}

func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{logger: logger}
}

// ExtractFile reads the resume at path, choosing the parser by file
// extension. Supported formats: .txt, .pdf, .docx.
func (e *Extractor) ExtractFile(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("resume path is required")
	}

	ext := strings.ToLower(filepath.Ext(path))

	var (
		text string
		err  error
	)

	switch ext {
	case ".txt":
		text, err = e.extractTxt(path)
	case ".pdf":
		text, err = e.extractPDF(path)
	case ".docx":
		text, err = e.extractDocx(path)
	default:
		return "", fmt.Errorf("unsupported resume format %q (supported: .txt, .pdf, .docx)", ext)
	}

	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text extracted from %s", path)
	}

	e.logger.Debug("extracted resume text",
		zap.String("path", path),
		zap.Int("length", len(text)),
	)

	return text, nil
}

func (e *Extractor) extractTxt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read resume: %w", err)
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	// Not UTF-8, assume Latin-1 as exported by older word processors.
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode resume: %w", err)
	}

	e.logger.Debug("resume decoded with latin-1 fallback", zap.String("path", path))

	return string(decoded), nil
}

func (e *Extractor) extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var parts []string

	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract pdf page %d: %w", pageIndex, err)
		}

		if strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}

	e.logger.Debug("parsed pdf resume",
		zap.String("path", path),
		zap.Int("pages", r.NumPage()),
	)

	return strings.Join(parts, "\n"), nil
}

func (e *Extractor) extractDocx(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat docx: %w", err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}

	var parts []string

	for _, item := range doc.Document.Body.Items {
		switch item.(type) {
		case *docx.Paragraph, *docx.Table:
			text := strings.TrimSpace(fmt.Sprint(item))
			if text != "" {
				parts = append(parts, text)
			}
		}
	}

	return strings.Join(parts, "\n"), nil
}
