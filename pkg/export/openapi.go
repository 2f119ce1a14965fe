package export

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/carelayer/scanform/pkg/template"
)

// submissionSchemaName is the components key for the full-body schema the
// POST operation accepts.
const submissionSchemaName = "FormSubmission"

var nonAlnumKey = regexp.MustCompile(`[^a-z0-9]+`)

// OpenAPIExporter emits an OpenAPI 3.0 document describing the submission
// endpoint a backend would expose for the generated form: one component
// schema per section plus a POST /submissions operation that accepts the
// combined submission body. PHI and audit markers travel as x-phi and
// x-audit-required schema extensions.
type OpenAPIExporter struct{}

func (OpenAPIExporter) Name() string { return "openapi" }

func (OpenAPIExporter) ContentType() string { return "application/json" }

func (OpenAPIExporter) Export(ctx context.Context, draft template.Draft, options Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := buildSubmissionDocument(draft, options)

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: marshal OpenAPI document: %w", err)
	}

	return append(out, '\n'), nil
}

func buildSubmissionDocument(draft template.Draft, options Options) *openapi3.T {
	schemas := openapi3.Schemas{}

	submission := openapi3.NewObjectSchema()
	submission.Description = "Complete form submission grouped by section."

	for _, section := range draft.Sections {
		name := sectionSchemaName(section, schemas)
		schemas[name] = sectionSchema(draft, section).NewRef()

		key := submissionKey(section)
		submission.WithPropertyRef(key, openapi3.NewSchemaRef("#/components/schemas/"+name, nil))
		if hasRequiredField(draft, section) {
			submission.Required = append(submission.Required, key)
		}
	}

	schemas[submissionSchemaName] = submission.NewRef()

	requestBody := openapi3.NewRequestBody().
		WithRequired(true).
		WithJSONSchemaRef(openapi3.NewSchemaRef("#/components/schemas/"+submissionSchemaName, nil))

	operation := &openapi3.Operation{
		OperationID: "submitFormData",
		Summary:     "Submit captured form data",
		Description: "Accepts one submission for the generated form template.",
		RequestBody: &openapi3.RequestBodyRef{Value: requestBody},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(201, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Submission accepted."),
			}),
			openapi3.WithStatus(422, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Submission failed validation."),
			}),
		),
	}

	paths := openapi3.NewPaths()
	paths.Set("/submissions", &openapi3.PathItem{Post: operation})

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       documentTitle(draft, options),
			Description: "Submission contract generated from a scanned form.",
			Version:     "1.0.0",
		},
		Paths:      paths,
		Components: &openapi3.Components{Schemas: schemas},
	}
}

func sectionSchema(draft template.Draft, section template.Section) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Description = section.Name

	for _, field := range draft.SectionFields(section) {
		schema.WithProperty(field.Name, fieldSchema(field))
		if field.Required {
			schema.Required = append(schema.Required, field.Name)
		}
	}

	return schema
}

func fieldSchema(field template.Field) *openapi3.Schema {
	var schema *openapi3.Schema

	switch field.Type {
	case template.FieldTypeNumber:
		schema = openapi3.NewFloat64Schema()
	case template.FieldTypeYesNo, template.FieldTypeCheckbox:
		schema = openapi3.NewBoolSchema()
	case template.FieldTypeEmail:
		schema = openapi3.NewStringSchema().WithFormat("email")
	case template.FieldTypeDate:
		schema = openapi3.NewStringSchema().WithFormat("date")
	case template.FieldTypeTime:
		schema = openapi3.NewStringSchema().WithFormat("time")
	default:
		schema = openapi3.NewStringSchema()
	}

	schema.Title = field.Label

	for _, rule := range field.ValidationRules {
		if rule.Type == template.RulePattern && rule.Value != "" && schema.Pattern == "" {
			schema.Pattern = rule.Value
		}
	}

	if field.PHI || field.AuditRequired {
		extensions := make(map[string]any, 2)
		if field.PHI {
			extensions["x-phi"] = true
		}
		if field.AuditRequired {
			extensions["x-audit-required"] = true
		}
		schema.Extensions = extensions
	}

	return schema
}

// sectionSchemaName derives the components key for a section, disambiguating
// against names already taken.
func sectionSchemaName(section template.Section, taken openapi3.Schemas) string {
	name := pascalCase(section.Name)
	if name == "" || name == submissionSchemaName {
		name = fmt.Sprintf("Section%d", section.Order+1)
	}
	if _, exists := taken[name]; exists {
		name = fmt.Sprintf("%s%d", name, section.Order+1)
	}
	return name
}

func submissionKey(section template.Section) string {
	key := nonAlnumKey.ReplaceAllString(strings.ToLower(section.Name), "_")
	key = strings.Trim(key, "_")
	if key == "" {
		return section.ID
	}
	return key
}

func hasRequiredField(draft template.Draft, section template.Section) bool {
	for _, field := range draft.SectionFields(section) {
		if field.Required {
			return true
		}
	}
	return false
}

func pascalCase(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if upper {
				r = unicode.ToUpper(r)
				upper = false
			}
			b.WriteRune(r)
			continue
		}
		upper = true
	}
	return b.String()
}
