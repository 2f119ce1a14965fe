// Package testsupport loads shared fixtures for contract tests: stored
// recognition results, exported draft documents, and golden files.
package testsupport

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/carelayer/scanform/pkg/recognition"
	"github.com/carelayer/scanform/pkg/template"
)

// MustLoadResult reads a stored recognition result fixture. Helpers fail the
// test on error to keep contract tests concise.
func MustLoadResult(t *testing.T, path string) *recognition.Result {
	t.Helper()

	res, err := LoadResult(path)
	if err != nil {
		t.Fatalf("load result: %v", err)
	}
	return res
}

// LoadResult returns a recognition result without requiring testing.T,
// allowing callers to wire fixtures in setup functions.
func LoadResult(path string) (*recognition.Result, error) {
	if path == "" {
		return nil, errors.New("testsupport: result path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read result: %w", err)
	}
	res, err := recognition.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("testsupport: decode result: %w", err)
	}
	return res, nil
}

// MustLoadDraft reads an exported draft fixture.
func MustLoadDraft(t *testing.T, path string) template.Draft {
	t.Helper()

	draft, err := LoadDraft(path)
	if err != nil {
		t.Fatalf("load draft: %v", err)
	}
	return draft
}

// LoadDraft reads a JSON fixture into a Draft, returning an error for
// callers managing setup outside of *testing.T.
func LoadDraft(path string) (template.Draft, error) {
	if path == "" {
		return template.Draft{}, errors.New("testsupport: draft path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return template.Draft{}, fmt.Errorf("testsupport: read draft: %w", err)
	}
	var draft template.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return template.Draft{}, fmt.Errorf("testsupport: unmarshal draft: %w", err)
	}
	return draft, nil
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}
