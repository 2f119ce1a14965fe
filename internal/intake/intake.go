// Package intake validates selected form documents before any recognition
// work and prepares per-page resources: PDF page splitting, embedded text
// layers, and preview images.
package intake

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies an accepted upload format.
type Format string

const (
	FormatUnknown Format = ""
	FormatPDF     Format = "pdf"
	FormatPNG     Format = "png"
	FormatJPEG    Format = "jpeg"
	FormatTIFF    Format = "tiff"
	FormatBMP     Format = "bmp"
)

// DefaultMaxFileSize caps uploads at 5MB.
const DefaultMaxFileSize int64 = 5 << 20

var formatByExtension = map[string]Format{
	".pdf":  FormatPDF,
	".png":  FormatPNG,
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".tif":  FormatTIFF,
	".tiff": FormatTIFF,
	".bmp":  FormatBMP,
}

// DetectFormat maps a file extension onto an accepted format.
func DetectFormat(path string) Format {
	return formatByExtension[strings.ToLower(filepath.Ext(path))]
}

// MIME returns the media type recognition providers expect for the format.
func (f Format) MIME() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatTIFF:
		return "image/tiff"
	case FormatBMP:
		return "image/bmp"
	default:
		return ""
	}
}

// Report is the outcome of validating one selected file. Rejections carry
// the exact message shown to the user; accepted reports fill in the format,
// size, and page count.
type Report struct {
	Path      string
	Accepted  bool
	Format    Format
	Size      int64
	PageCount int
	Message   string
}

// Validator checks selected files against the accepted formats and the size
// limit. It runs before anything downstream touches the file, so a rejected
// selection never reaches recognition.
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a Validator. A non-positive limit falls back to
// DefaultMaxFileSize.
func NewValidator(maxFileSize int64) *Validator {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Validator{maxFileSize: maxFileSize}
}

// ValidateFile checks one selected file. Validation failures land in the
// report message, not in the returned error; the upload state stays intact
// and the user picks again.
func (v *Validator) ValidateFile(path string) (*Report, error) {
	report := &Report{Path: path}
	if err := v.check(report); err != nil {
		report.Message = err.Error()
		return report, nil
	}
	report.Accepted = true
	return report, nil
}

// check fills the report as it validates. Format and size checks run before
// the PDF content probe, so an oversized file is rejected without reading
// its content.
func (v *Validator) check(report *Report) error {
	if report.Path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	info, err := os.Stat(report.Path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", report.Path)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", report.Path)
	}

	report.Format = DetectFormat(report.Path)
	if report.Format == FormatUnknown {
		return fmt.Errorf("unsupported file type %q: accepted formats are PDF, PNG, JPEG, TIFF, BMP",
			filepath.Ext(report.Path))
	}

	report.Size = info.Size()
	if report.Size == 0 {
		return fmt.Errorf("file is empty: %s", report.Path)
	}
	if report.Size > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)", report.Size, v.maxFileSize)
	}

	report.PageCount = 1
	if report.Format == FormatPDF {
		pages, err := PageCount(report.Path)
		if err != nil {
			return fmt.Errorf("invalid PDF file: %v", err)
		}
		report.PageCount = pages
	}
	return nil
}
