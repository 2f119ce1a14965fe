package intake

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// relaxedConfig builds the pdfcpu configuration for scanned uploads, which
// frequently fail strict validation.
func relaxedConfig() *model.Configuration {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return cfg
}

// PageCount returns the number of pages in a PDF.
func PageCount(path string) (int, error) {
	count, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("intake: count pages: %w", err)
	}
	return count, nil
}

// SplitPages optimizes a PDF into destDir and splits it into single-page
// documents, returning the per-page paths in page order.
func SplitPages(path, destDir string) ([]string, error) {
	optimized := filepath.Join(destDir, "optimized.pdf")
	if err := api.OptimizeFile(path, optimized, relaxedConfig()); err != nil {
		return nil, fmt.Errorf("intake: optimize pdf: %w", err)
	}

	count, err := api.PageCountFile(optimized)
	if err != nil {
		return nil, fmt.Errorf("intake: count pages: %w", err)
	}
	if err := api.SplitFile(optimized, destDir, 1, nil); err != nil {
		return nil, fmt.Errorf("intake: split pdf: %w", err)
	}

	base := strings.TrimSuffix(optimized, filepath.Ext(optimized))
	pages := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		pages = append(pages, fmt.Sprintf("%s_%d.pdf", base, i))
	}
	return pages, nil
}

// TextByPage extracts the embedded text layer of each page. Pages without
// extractable text yield empty strings; a fully scanned PDF returns all
// blanks and the document proceeds to recognition.
func TextByPage(path string) ([]string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("intake: open pdf: %w", err)
	}
	defer f.Close()

	texts := make([]string, reader.NumPage())
	for n := 1; n <= reader.NumPage(); n++ {
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		texts[n-1] = strings.TrimSpace(content)
	}
	return texts, nil
}
