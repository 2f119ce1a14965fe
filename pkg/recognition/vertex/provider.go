// Package vertex adapts Vertex AI Gemini models to the recognition provider
// boundary. The model is instructed to return the flat-or-paged JSON shape
// the recognition package normalizes at ingestion.
package vertex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"github.com/carelayer/scanform/pkg/recognition"
)

// DefaultModel is the Gemini model used unless overridden.
const DefaultModel = "gemini-1.5-pro"

// ErrEmptyResponse is returned when the model produces no usable content.
var ErrEmptyResponse = errors.New("vertex: model returned an empty response")

const systemPrompt = "You are a form structure analyzer for scanned clinical documents. " +
	"You locate every visual element that belongs to a fillable form and report it as structured JSON. " +
	"Accuracy of bounding boxes and faithful transcription of printed text are of utmost importance."

const recognitionContract = `Analyze every page of the provided document and report the form elements you find.

Follow these rules precisely:
1. Classify each element as one of: "label" (printed text naming an input), "input" (a blank line, box, or writing area), "checkbox", "radio", "select", or "text" (any other printed content).
2. Transcribe the element's printed text exactly; use an empty string for blank inputs.
3. Report a confidence score from 0 to 100 for each element.
4. Report each element's bounding box as fractions of the page size: {"left", "top", "width", "height"}, each between 0 and 1, and set "normalized" to true.
5. Include every page, in order, with its full raw text transcript.

The final output MUST be a single valid JSON object of this exact shape, with no text before or after it:
{
  "pages": [
    {
      "rawText": "full transcript of the page",
      "elements": [
        {"text": "Patient Name", "type": "label", "confidence": 97, "boundingBox": {"left": 0.08, "top": 0.12, "width": 0.2, "height": 0.02}, "normalized": true}
      ]
    }
  ]
}`

// Provider calls a pre-configured Gemini model and decodes its JSON response
// into the canonical recognition result.
type Provider struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	logger    *slog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithModel overrides the Gemini model name.
func WithModel(name string) Option {
	return func(p *Provider) {
		if name != "" {
			p.modelName = name
		}
	}
}

// WithLogger overrides the provider's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New connects to Vertex AI and configures the recognition model for
// deterministic JSON output.
func New(ctx context.Context, projectID, region string, opts ...Option) (*Provider, error) {
	if projectID == "" || region == "" {
		return nil, errors.New("vertex: project id and region are required")
	}

	client, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("vertex: create client: %w", err)
	}

	p := &Provider{
		client:    client,
		modelName: DefaultModel,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	model := client.GenerativeModel(p.modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
	model.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.0),
	}
	p.model = model

	return p, nil
}

// Name identifies the provider.
func (p *Provider) Name() string { return "vertex" }

// Close releases the underlying client.
func (p *Provider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

// Recognize sends the document to the model and normalizes the JSON response.
func (p *Provider) Recognize(ctx context.Context, doc recognition.Document, opts recognition.Options) (*recognition.Result, error) {
	parts, err := documentParts(doc)
	if err != nil {
		return nil, err
	}
	parts = append(parts, genai.Text(recognitionPrompt(opts)))

	logCtx := p.logger.With("provider", "vertex", "model", p.modelName)
	logCtx.Info("Requesting document recognition.", "bytes", len(doc.Bytes), "ref", doc.Ref)

	resp, err := p.model.GenerateContent(ctx, parts...)
	if err != nil {
		logCtx.Error("Recognition call failed.", "error", err)
		return nil, fmt.Errorf("vertex: generate recognition: %w", err)
	}

	payload := responseText(resp)
	if payload == "" {
		logCtx.Error("Model returned no content.")
		return nil, ErrEmptyResponse
	}

	res, err := recognition.Decode([]byte(payload))
	if err != nil {
		logCtx.Error("Recognition response did not decode.", "error", err)
		return nil, fmt.Errorf("vertex: decode response: %w", err)
	}

	logCtx.Info("Recognition complete.", "pages", res.PageCount())
	return res, nil
}

// documentParts turns the document into model input: inline bytes when
// present, otherwise a file reference.
func documentParts(doc recognition.Document) ([]genai.Part, error) {
	mime := doc.MIME
	if mime == "" {
		mime = "application/pdf"
	}
	switch {
	case len(doc.Bytes) > 0:
		return []genai.Part{genai.Blob{MIMEType: mime, Data: doc.Bytes}}, nil
	case doc.Ref != "":
		return []genai.Part{genai.FileData{MIMEType: mime, FileURI: doc.Ref}}, nil
	default:
		return nil, errors.New("vertex: document has neither bytes nor a reference")
	}
}

// recognitionPrompt appends option-driven hints to the JSON contract.
func recognitionPrompt(opts recognition.Options) string {
	var b strings.Builder
	b.WriteString(recognitionContract)
	if len(opts.Languages) > 0 {
		fmt.Fprintf(&b, "\n\nThe document text is in: %s.", strings.Join(opts.Languages, ", "))
	}
	if opts.DetectTables {
		b.WriteString("\nTreat table cells as individual elements.")
	}
	if opts.DetectForms {
		b.WriteString("\nPrioritize fillable form structure over decorative content.")
	}
	if opts.EnhanceImage {
		b.WriteString("\nThe document may be a low-quality scan; transcribe conservatively and lower the confidence where unsure.")
	}
	return b.String()
}

// responseText extracts the raw text content from the model response,
// stripping markdown fences the model sometimes adds around JSON.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}
	txt, ok := candidate.Content.Parts[0].(genai.Text)
	if !ok {
		return ""
	}
	clean := strings.TrimSpace(string(txt))
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}
