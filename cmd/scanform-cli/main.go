package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/carelayer/scanform/internal/config"
	"github.com/carelayer/scanform/internal/intake"
	"github.com/carelayer/scanform/internal/synth"
	"github.com/carelayer/scanform/pkg/export"
	"github.com/carelayer/scanform/pkg/geometry"
	"github.com/carelayer/scanform/pkg/overlay"
	"github.com/carelayer/scanform/pkg/pipeline"
	"github.com/carelayer/scanform/pkg/recognition"
	"github.com/carelayer/scanform/pkg/recognition/vertex"
	"github.com/carelayer/scanform/pkg/review"
	"github.com/carelayer/scanform/pkg/template"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "scanform: %v\n", err)
		os.Exit(2)
	}
	if len(cfg.Args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: scanform [flags] <document>")
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		if errors.Is(err, review.ErrAborted) || errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "scanform: canceled")
			os.Exit(130)
		}
		logger.Error("Scan failed.", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	docPath := cfg.Args[0]

	report, err := intake.NewValidator(cfg.MaxUploadSize).ValidateFile(docPath)
	if err != nil {
		return fmt.Errorf("validate document: %w", err)
	}
	if !report.Accepted {
		return errors.New(report.Message)
	}
	logger.Info("Document accepted.",
		"path", report.Path,
		"format", string(report.Format),
		"pages", report.PageCount,
		"bytes", report.Size)

	provider, closeProvider, err := buildProvider(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeProvider()

	data, err := os.ReadFile(docPath)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	doc := recognition.Document{Bytes: data, MIME: report.Format.MIME()}

	progress := pipeline.NewProgress()
	popts := []pipeline.Option{
		pipeline.WithProvider(provider),
		pipeline.WithTolerance(cfg.Tolerance),
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithSectionDetection(cfg.SectionDetection),
		pipeline.WithDraftName(draftName(cfg, docPath)),
		pipeline.WithProgress(progress),
	}
	if report.Format == intake.FormatPDF {
		// Digital PDFs carry an embedded text layer worth keeping alongside
		// whatever recognition extracts from the rendered pages.
		if texts, terr := intake.TextByPage(docPath); terr != nil {
			logger.Warn("PDF text layer unavailable.", "error", terr)
		} else {
			popts = append(popts, pipeline.WithPageText(texts))
		}
	}
	pipe := pipeline.New(popts...)

	stopSpinner := startSpinner(progress)
	outcome, err := pipe.Run(ctx, doc, cfg.RecognitionOptions())
	stopSpinner()
	if err != nil {
		return err
	}

	if outcome.Recognition.Empty() {
		logger.Warn("No form elements were recognized; the template has no fields.")
	}
	logger.Info("Template assembled.",
		"fields", outcome.Summary.Fields,
		"sections", outcome.Summary.Sections,
		"pages", outcome.Summary.Pages,
		"meanConfidence", fmt.Sprintf("%.1f", outcome.Summary.Quality.Mean))

	draft := outcome.Draft
	if cfg.Review {
		result, err := review.NewSession(draft).Run(ctx)
		if err != nil {
			return err
		}
		draft = result.Draft
		if !result.Saved {
			logger.Info("Review canceled; keeping the generated draft.")
		}
	}

	var previews []intake.Preview
	if report.Format != intake.FormatPDF {
		previews, err = intake.NewPreviewer().Load(docPath)
		if err != nil {
			logger.Warn("Could not decode the page image.", "error", err)
			previews = nil
		}
	}

	if cfg.Overlay {
		dest, err := writeOverlay(cfg, outcome.Recognition, previews, exportBase(docPath))
		if err != nil {
			logger.Warn("Overlay snapshot skipped.", "error", err)
		} else {
			fmt.Printf("Wrote %s\n", dest)
		}
	}

	if err := writeExports(ctx, cfg, draft, previews, exportBase(docPath)); err != nil {
		return err
	}

	fmt.Printf("%d fields in %d sections from %d pages\n",
		len(draft.Fields), len(draft.Sections), outcome.Summary.Pages)
	return nil
}

// buildProvider selects the recognition backend. The returned closer is
// always safe to call.
func buildProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (recognition.Provider, func(), error) {
	switch cfg.Provider {
	case config.ProviderVertex:
		p, err := vertex.New(ctx, cfg.VertexProject, cfg.VertexRegion,
			vertex.WithModel(cfg.VertexModel),
			vertex.WithLogger(logger),
		)
		if err != nil {
			return nil, nil, err
		}
		closer := func() {
			if err := p.Close(); err != nil {
				logger.Warn("Closing the Vertex client failed.", "error", err)
			}
		}
		return p, closer, nil
	default:
		return recognition.NewFileProvider(cfg.RecognitionFile), func() {}, nil
	}
}

// draftName resolves the template name: the explicit flag wins, then the
// document file name, then the pipeline default.
func draftName(cfg *config.Config, docPath string) string {
	if cfg.DraftName != "" {
		return cfg.DraftName
	}
	if name := synth.FormatLabel(exportBase(docPath)); name != "" {
		return name
	}
	return pipeline.DefaultDraftName
}

func exportBase(docPath string) string {
	base := filepath.Base(docPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// startSpinner repaints the recognition progress on stderr until stopped.
func startSpinner(progress *pipeline.Progress) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", 32))
				return
			case <-ticker.C:
				if progress.Running() {
					fmt.Fprintf(os.Stderr, "\rAnalyzing document... %3.0f%%", progress.Value())
				}
			}
		}
	}()
	return func() { close(done) }
}

// writeOverlay renders the first page's recognition boxes onto the decoded
// page image and writes the snapshot PNG.
func writeOverlay(cfg *config.Config, res *recognition.Result, previews []intake.Preview, base string) (string, error) {
	if len(previews) == 0 {
		return "", errors.New("overlay snapshots need a decoded page image")
	}
	page := previews[0]

	renderer := overlay.NewRenderer(page.Size, overlay.WithMargin(cfg.MarginFactor))
	scene := renderer.BuildScene(overlay.Frame{
		Image:    page.Size,
		Elements: res.ElementsOn(0),
		View:     overlay.NewViewState(),
		Toggles:  overlay.Toggles{ShowBoxes: true, ShowConfidence: true},
	})
	img := overlay.Rasterize(scene, renderer.Viewport(), page.Image)

	dest := filepath.Join(cfg.OutputDir, base+".overlay.png")
	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dest, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encode %s: %w", dest, err)
	}
	return dest, nil
}

// writeExports runs every configured exporter and writes one file per format.
func writeExports(ctx context.Context, cfg *config.Config, draft template.Draft, previews []intake.Preview, base string) error {
	registry := export.NewDefaultRegistry()

	opts := export.Options{}
	if len(previews) > 0 {
		opts.PageSizes = map[int]geometry.Size{1: previews[0].Size}
	}
	themeCfg, err := export.ResolveTheme(export.DefaultThemes(), cfg.Theme, cfg.ThemeVariant)
	if err != nil {
		return err
	}
	opts.Theme = themeCfg

	for _, format := range cfg.Formats {
		exporter, err := registry.Get(format)
		if err != nil {
			return fmt.Errorf("unknown export format %q (available: %s)",
				format, strings.Join(registry.List(), ", "))
		}
		payload, err := exporter.Export(ctx, draft, opts)
		if err != nil {
			return fmt.Errorf("export %s: %w", format, err)
		}

		dest := filepath.Join(cfg.OutputDir, outputName(base, format))
		if err := os.WriteFile(dest, payload, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dest, err)
		}
		fmt.Printf("Wrote %s\n", dest)
	}
	return nil
}

// outputName picks the export file name. The OpenAPI document keeps a .json
// suffix so tooling opens it as JSON.
func outputName(base, format string) string {
	if format == "openapi" {
		return base + ".openapi.json"
	}
	return base + "." + format
}
