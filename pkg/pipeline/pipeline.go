// Package pipeline orchestrates the recognition-to-template flow: a provider
// call, per-page row grouping and label matching, field synthesis, and
// section assembly into a draft. Pages are processed concurrently; output
// order always follows page order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/carelayer/scanform/internal/layout"
	"github.com/carelayer/scanform/internal/synth"
	"github.com/carelayer/scanform/pkg/recognition"
	"github.com/carelayer/scanform/pkg/template"
)

// DefaultDraftName is used when no draft name is configured.
const DefaultDraftName = "Generated Form"

const defaultConcurrency = 4

// ErrNoProvider is returned by Run when the pipeline was built without a
// recognition provider.
var ErrNoProvider = errors.New("pipeline: no recognition provider configured")

// Summary counts what each stage produced, for display after a run.
type Summary struct {
	Pages    int                 `json:"pages"`
	Elements int                 `json:"elements"`
	Rows     int                 `json:"rows"`
	Pairs    int                 `json:"pairs"`
	Fields   int                 `json:"fields"`
	Sections int                 `json:"sections"`
	Quality  recognition.Summary `json:"quality"`
}

// Outcome bundles the assembled draft with the recognition result it came
// from and the per-stage counts.
type Outcome struct {
	Draft       template.Draft
	Recognition *recognition.Result
	Summary     Summary
}

// Pipeline wires the synthesis stages together. Construct with New.
type Pipeline struct {
	provider    recognition.Provider
	grouper     *layout.Grouper
	synthesizer *synth.Synthesizer
	progress    *Progress
	draftName   string
	concurrency int
	sections    bool
	pageText    []string
}

// New builds a Pipeline with default stages; options override them.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		grouper:     layout.NewGrouper(),
		synthesizer: synth.New(),
		draftName:   DefaultDraftName,
		concurrency: defaultConcurrency,
		sections:    true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Run recognizes the document through the configured provider and assembles
// the response into a draft. The progress value, when configured, ticks while
// the provider call is pending and resets to zero on success and failure.
func (p *Pipeline) Run(ctx context.Context, doc recognition.Document, opts recognition.Options) (Outcome, error) {
	if p.provider == nil {
		return Outcome{}, ErrNoProvider
	}
	if p.progress != nil {
		p.progress.Start(ctx)
		defer p.progress.Finish()
	}

	res, err := p.provider.Recognize(ctx, doc, opts)
	if err != nil {
		return Outcome{}, fmt.Errorf("pipeline: recognize document: %w", err)
	}
	if res == nil {
		return Outcome{}, errors.New("pipeline: provider returned no result")
	}
	return p.Build(ctx, res)
}

// Build assembles an already-normalized recognition result into a draft.
// An empty result produces a draft with no fields and the single default
// section.
func (p *Pipeline) Build(ctx context.Context, res *recognition.Result) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	if res == nil {
		res = &recognition.Result{}
	}
	res = p.mergePageText(res)

	built := make([]pageBuild, len(res.Pages))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(p.concurrency)
	for i, page := range res.Pages {
		number := i + 1
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("page %d: %w", number, err)
			}
			built[number-1] = p.buildPage(page, number)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Outcome{}, fmt.Errorf("pipeline: synthesize fields: %w", err)
	}

	summary := Summary{Pages: len(res.Pages), Quality: recognition.Summarize(res)}

	var fields []template.Field
	var groups []template.Group
	var leading []string
	for _, pb := range built {
		summary.Elements += pb.elements
		summary.Rows += pb.rows
		summary.Pairs += pb.pairs
		fields = append(fields, pb.fields...)

		// Fields before a page's first header continue the section left
		// open by the previous page.
		if len(groups) == 0 {
			leading = append(leading, pb.leading...)
		} else {
			last := &groups[len(groups)-1]
			last.FieldIDs = append(last.FieldIDs, pb.leading...)
		}
		for _, seg := range pb.segments {
			groups = append(groups, template.Group{Key: seg.title, FieldIDs: seg.ids})
		}
	}
	if len(groups) > 0 && len(leading) > 0 {
		groups = append([]template.Group{{FieldIDs: leading}}, groups...)
	}

	draft := template.Assemble(p.draftName, fields, groups)
	summary.Fields = len(draft.Fields)
	summary.Sections = len(draft.Sections)

	return Outcome{Draft: draft, Recognition: res, Summary: summary}, nil
}

// mergePageText fills pages missing raw text from the configured page text,
// copying rather than mutating the caller's result.
func (p *Pipeline) mergePageText(res *recognition.Result) *recognition.Result {
	if len(p.pageText) == 0 {
		return res
	}
	merged := false
	for i := range res.Pages {
		if res.Pages[i].RawText == "" && i < len(p.pageText) && p.pageText[i] != "" {
			merged = true
			break
		}
	}
	if !merged {
		return res
	}

	pages := make([]recognition.Page, len(res.Pages))
	copy(pages, res.Pages)
	for i := range pages {
		if pages[i].RawText == "" && i < len(p.pageText) {
			pages[i].RawText = p.pageText[i]
		}
	}
	return &recognition.Result{Pages: pages}
}

type headedSegment struct {
	title string
	ids   []string
}

type pageBuild struct {
	elements int
	rows     int
	pairs    int
	fields   []template.Field
	leading  []string
	segments []headedSegment
}

// buildPage runs grouping, matching, and synthesis for one page. Section
// header rows open a new segment instead of producing a field.
func (p *Pipeline) buildPage(page recognition.Page, fallbackNumber int) pageBuild {
	number := page.Number
	if number < 1 {
		number = fallbackNumber
	}

	rows := p.grouper.GroupRows(page.Elements)
	pb := pageBuild{elements: len(page.Elements), rows: len(rows)}

	index := 0
	open := -1
	for _, row := range rows {
		if p.sections && isSectionHeader(row) {
			pb.segments = append(pb.segments, headedSegment{title: strings.TrimSpace(row.Elements[0].Text)})
			open = len(pb.segments) - 1
			continue
		}
		for _, match := range layout.MatchRow(row) {
			if match.Label != nil && match.Input != nil {
				pb.pairs++
			}
			field := p.synthesizer.FromMatch(match, number, index)
			index++
			pb.fields = append(pb.fields, field)
			if open >= 0 {
				pb.segments[open].ids = append(pb.segments[open].ids, field.ID)
			} else {
				pb.leading = append(pb.leading, field.ID)
			}
		}
	}
	return pb
}

// isSectionHeader reports whether a row reads as a section heading: a single
// label occupying the row on its own, with no colon or required marker tying
// it to an input.
func isSectionHeader(row layout.Row) bool {
	if len(row.Elements) != 1 {
		return false
	}
	el := row.Elements[0]
	if el.Kind != recognition.KindLabel {
		return false
	}
	text := strings.TrimSpace(el.Text)
	if text == "" {
		return false
	}
	return !strings.ContainsAny(text, ":*")
}
