package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"document-chat-platform/internal/logger"
)

// PDFExtractor extracts plain text from PDF files.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// PageMark records the rune offset at which a page starts in the joined
// text, so chunk source labels can name the page.
type PageMark struct {
	Page   int
	Offset int
}

// ExtractionResult contains the extracted text and its page layout.
type ExtractionResult struct {
	Text           string
	Pages          int
	PageMarks      []PageMark
	CharacterCount int
	WordCount      int
}

// PageAt returns the page number containing the given rune offset, or 0
// when no page layout is known.
func (r *ExtractionResult) PageAt(offset int) int {
	page := 0
	for _, mark := range r.PageMarks {
		if mark.Offset > offset {
			break
		}
		page = mark.Page
	}
	return page
}

// ExtractText reads the whole PDF and returns its text page by page,
// pages joined with a blank line.
func (e *PDFExtractor) ExtractText(ctx context.Context, filePath string) (*ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Cap extremely large files to avoid OOM
	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat PDF file: %w", err)
	}
	if stat.Size() > 200<<20 {
		return nil, fmt.Errorf("%w: pdf too large for in-memory extraction", ErrExtractionFailure)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF file: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailure, err)
	}

	var textBuilder strings.Builder
	var pageMarks []PageMark
	pages := reader.NumPage()

	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		fonts := make(map[string]*pdf.Font)
		text, err := page.GetPlainText(fonts)
		if err != nil {
			logger.Warn("failed to extract page text", "page", i, "error", err)
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if textBuilder.Len() > 0 {
			textBuilder.WriteString("\n\n")
		}
		pageMarks = append(pageMarks, PageMark{Page: i, Offset: len([]rune(textBuilder.String()))})
		textBuilder.WriteString(text)
	}

	extracted := textBuilder.String()
	if extracted == "" {
		return nil, fmt.Errorf("%w: no text extracted", ErrExtractionFailure)
	}

	return &ExtractionResult{
		Text:           extracted,
		Pages:          pages,
		PageMarks:      pageMarks,
		CharacterCount: len([]rune(extracted)),
		WordCount:      len(strings.Fields(extracted)),
	}, nil
}
