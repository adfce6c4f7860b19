// Package openapi derives questionnaire flows from OpenAPI documents. Each
// selected operation's request body schema becomes a flow: properties map to
// questions, enums to options and constraints to validation specs. It gives
// teams that already describe their intake payloads in OpenAPI a second
// authoring path besides flow documents.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-questflow/pkg/questionnaire"
)

// Options configures the importer.
type Options struct {
	// ResolveReferences permits external $ref resolution.
	ResolveReferences bool
	// FlowIDPrefix is prepended to the operation id when naming flows.
	FlowIDPrefix string
}

// Importer converts OpenAPI operations into questionnaire flows.
type Importer struct {
	options Options
}

// New constructs an Importer.
func New(options Options) *Importer {
	return &Importer{options: options}
}

// Import parses the document and returns one flow per operation carrying a
// JSON request body with an object schema. Operations without a usable body
// are skipped.
func (i *Importer) Import(ctx context.Context, data []byte) ([]questionnaire.Flow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("flows/openapi: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: i.options.ResolveReferences,
	}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("flows/openapi: load document: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("flows/openapi: document does not contain any paths")
	}

	var out []questionnaire.Flow
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range []*openapi3.Operation{item.Post, item.Put, item.Patch} {
			flow, ok := i.flowFromOperation(op)
			if ok {
				out = append(out, flow)
			}
		}
	}
	if len(out) == 0 {
		return nil, errors.New("flows/openapi: no operations with object request bodies")
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (i *Importer) flowFromOperation(op *openapi3.Operation) (questionnaire.Flow, bool) {
	if op == nil || op.OperationID == "" || op.RequestBody == nil || op.RequestBody.Value == nil {
		return questionnaire.Flow{}, false
	}
	media := op.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return questionnaire.Flow{}, false
	}
	schema := media.Schema.Value
	if firstType(schema.Type) != "object" || len(schema.Properties) == 0 {
		return questionnaire.Flow{}, false
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	flow := questionnaire.Flow{
		ID:          i.options.FlowIDPrefix + op.OperationID,
		Title:       op.Summary,
		Description: op.Description,
	}
	for _, name := range names {
		flow.Questions = append(flow.Questions, questionFromSchema(name, schema.Properties[name], required[name]))
	}
	return flow, true
}

func questionFromSchema(name string, ref *openapi3.SchemaRef, required bool) questionnaire.Question {
	q := questionnaire.Question{
		ID:       name,
		Type:     questionnaire.QuestionTypeText,
		Text:     labelFromName(name),
		Required: required,
	}
	if ref == nil || ref.Value == nil {
		return q
	}
	src := ref.Value

	if src.Title != "" {
		q.Text = src.Title
	}
	q.Description = src.Description
	q.Default = src.Default

	switch firstType(src.Type) {
	case "integer", "number":
		q.Type = questionnaire.QuestionTypeNumber
	case "boolean":
		q.Type = questionnaire.QuestionTypeBoolean
	case "array":
		q.Type = questionnaire.QuestionTypeMultiSelect
		if src.Items != nil && src.Items.Value != nil {
			q.Options = optionsFromEnum(src.Items.Value.Enum)
		}
	case "string":
		q.Type = questionnaire.QuestionTypeText
		switch src.Format {
		case "date", "date-time":
			q.Type = questionnaire.QuestionTypeDate
		case "binary":
			q.Type = questionnaire.QuestionTypeFile
		}
	}
	if len(src.Enum) > 0 && q.Type != questionnaire.QuestionTypeMultiSelect {
		q.Type = questionnaire.QuestionTypeSelect
		q.Options = optionsFromEnum(src.Enum)
	}

	q.Validation = validationFromSchema(src)
	return q
}

func validationFromSchema(src *openapi3.Schema) *questionnaire.ValidationSpec {
	spec := &questionnaire.ValidationSpec{}
	populated := false

	if src.Min != nil {
		value := *src.Min
		spec.Min = &value
		populated = true
	}
	if src.Max != nil {
		value := *src.Max
		spec.Max = &value
		populated = true
	}
	if src.MinLength != 0 {
		value := int(src.MinLength)
		spec.MinLength = &value
		populated = true
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		spec.MaxLength = &value
		populated = true
	}
	if src.Pattern != "" {
		spec.Pattern = src.Pattern
		populated = true
	}
	if !populated {
		return nil
	}
	return spec
}

func optionsFromEnum(enum []any) []questionnaire.Option {
	if len(enum) == 0 {
		return nil
	}
	options := make([]questionnaire.Option, 0, len(enum))
	for _, raw := range enum {
		value := fmt.Sprint(raw)
		options = append(options, questionnaire.Option{
			Value: value,
			Label: labelFromName(value),
		})
	}
	return options
}

func firstType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func labelFromName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	for idx, part := range parts {
		if part == "" {
			continue
		}
		parts[idx] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}
