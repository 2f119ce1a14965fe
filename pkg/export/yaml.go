package export

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/carelayer/scanform/pkg/template"
)

// YAMLExporter writes the draft as YAML for configuration-style delivery.
type YAMLExporter struct{}

func (YAMLExporter) Name() string { return "yaml" }

func (YAMLExporter) ContentType() string { return "application/yaml" }

func (YAMLExporter) Export(ctx context.Context, draft template.Draft, _ Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := yaml.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("export: marshal draft to YAML: %w", err)
	}

	return out, nil
}
