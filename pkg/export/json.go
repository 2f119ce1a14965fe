package export

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/carelayer/scanform/pkg/template"
)

// JSONExporter writes the draft as indented JSON, the portal's template
// interchange format.
type JSONExporter struct{}

func (JSONExporter) Name() string { return "json" }

func (JSONExporter) ContentType() string { return "application/json" }

func (JSONExporter) Export(ctx context.Context, draft template.Draft, _ Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: marshal draft to JSON: %w", err)
	}

	return append(out, '\n'), nil
}
