package intake

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"intake.pdf", FormatPDF},
		{"SCAN.PDF", FormatPDF},
		{"page.png", FormatPNG},
		{"photo.jpg", FormatJPEG},
		{"photo.jpeg", FormatJPEG},
		{"scan.tif", FormatTIFF},
		{"scan.tiff", FormatTIFF},
		{"fax.bmp", FormatBMP},
		{"notes.docx", FormatUnknown},
		{"noextension", FormatUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectFormat(tt.path), tt.path)
	}
}

func TestFormatMIME(t *testing.T) {
	assert.Equal(t, "application/pdf", FormatPDF.MIME())
	assert.Equal(t, "image/png", FormatPNG.MIME())
	assert.Equal(t, "image/jpeg", FormatJPEG.MIME())
	assert.Equal(t, "image/tiff", FormatTIFF.MIME())
	assert.Equal(t, "image/bmp", FormatBMP.MIME())
	assert.Empty(t, FormatUnknown.MIME())
}

func TestValidateFileAcceptsImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.png")
	require.NoError(t, os.WriteFile(path, make([]byte, 1024), 0o644))

	report, err := NewValidator(0).ValidateFile(path)
	require.NoError(t, err)

	assert.True(t, report.Accepted)
	assert.Empty(t, report.Message)
	assert.Equal(t, FormatPNG, report.Format)
	assert.Equal(t, int64(1024), report.Size)
	assert.Equal(t, 1, report.PageCount)
}

func TestValidateFileAcceptsPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.pdf")
	writeMinimalPDF(t, path, 3)

	report, err := NewValidator(0).ValidateFile(path)
	require.NoError(t, err)

	assert.True(t, report.Accepted)
	assert.Equal(t, FormatPDF, report.Format)
	assert.Equal(t, 3, report.PageCount)
}

func TestValidateFileRejections(t *testing.T) {
	dir := t.TempDir()

	textPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(textPath, []byte("not a scan"), 0o644))

	emptyPath := filepath.Join(dir, "empty.png")
	require.NoError(t, os.WriteFile(emptyPath, nil, 0o644))

	fakePDFPath := filepath.Join(dir, "fake.pdf")
	require.NoError(t, os.WriteFile(fakePDFPath, []byte("not a pdf"), 0o644))

	tests := []struct {
		name    string
		path    string
		message string
	}{
		{"empty path", "", "path cannot be empty"},
		{"missing file", filepath.Join(dir, "missing.png"), "file does not exist"},
		{"directory", dir, "path is a directory"},
		{"unsupported type", textPath, "unsupported file type"},
		{"empty file", emptyPath, "file is empty"},
		{"pdf extension over garbage", fakePDFPath, "invalid PDF file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := NewValidator(0).ValidateFile(tt.path)
			require.NoError(t, err)

			assert.False(t, report.Accepted)
			assert.Contains(t, report.Message, tt.message)
		})
	}
}

func TestValidateFileRejectsOversizedBeforeContentProbe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.pdf")
	require.NoError(t, os.WriteFile(path, make([]byte, 6<<20), 0o644))

	report, err := NewValidator(0).ValidateFile(path)
	require.NoError(t, err)

	assert.False(t, report.Accepted)
	assert.Contains(t, report.Message, "file too large")
	assert.NotContains(t, report.Message, "invalid PDF",
		"the size check must fire before the content probe")
}

func TestValidatorCustomLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.png")
	require.NoError(t, os.WriteFile(path, make([]byte, 2048), 0o644))

	report, err := NewValidator(1024).ValidateFile(path)
	require.NoError(t, err)
	assert.False(t, report.Accepted)
	assert.Contains(t, report.Message, "file too large")

	report, err = NewValidator(4096).ValidateFile(path)
	require.NoError(t, err)
	assert.True(t, report.Accepted)
}
