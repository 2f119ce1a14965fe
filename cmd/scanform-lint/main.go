package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/carelayer/scanform/pkg/template"
	"github.com/carelayer/scanform/pkg/validation"
)

type finding struct {
	file    string
	anchor  string
	message string
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [paths...]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(flag.CommandLine.Output(), "\nLint exported form template drafts for structural problems.\n")
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	var findings []finding
	for _, path := range paths {
		linted, err := lintFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lint %s: %v\n", path, err)
			os.Exit(1)
		}
		findings = append(findings, linted...)
	}

	if len(findings) > 0 {
		sort.Slice(findings, func(i, j int) bool {
			if findings[i].file == findings[j].file {
				if findings[i].anchor == findings[j].anchor {
					return findings[i].message < findings[j].message
				}
				return findings[i].anchor < findings[j].anchor
			}
			return findings[i].file < findings[j].file
		})
		for _, f := range findings {
			fmt.Fprintf(os.Stderr, "%s: %s -> %s\n", f.file, f.anchor, f.message)
		}
		os.Exit(1)
	}
}

func lintFile(path string) ([]finding, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var draft template.Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}

	result := validation.ValidateDraft(draft)
	findings := make([]finding, 0, len(result.Issues))
	for _, issue := range result.Issues {
		findings = append(findings, finding{file: path, anchor: anchorOf(issue), message: issue.Message})
	}
	return findings, nil
}

func anchorOf(issue validation.Issue) string {
	switch {
	case issue.Field != "":
		return "field " + issue.Field
	case issue.Section != "":
		return "section " + issue.Section
	default:
		return "draft"
	}
}
