package openapi

import (
	"context"
	"testing"

	"github.com/goliatone/go-questflow/pkg/questionnaire"
)

const sampleSpec = `{
  "openapi": "3.0.3",
  "info": {"title": "Intake", "version": "1.0.0"},
  "paths": {
    "/profiles": {
      "post": {
        "operationId": "createProfile",
        "summary": "Create profile",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["profession"],
                "properties": {
                  "profession": {"type": "string", "minLength": 2},
                  "experience_years": {"type": "integer", "minimum": 0, "maximum": 60},
                  "timeline_preference": {
                    "type": "string",
                    "enum": ["asap", "6months", "1year", "2years"]
                  },
                  "family_composition": {
                    "type": "array",
                    "items": {"type": "string", "enum": ["spouse", "children", "parents"]}
                  },
                  "has_job_offer": {"type": "boolean"}
                }
              }
            }
          }
        }
      }
    }
  }
}`

func TestImportBuildsFlowFromRequestBody(t *testing.T) {
	t.Parallel()

	imported, err := New(Options{FlowIDPrefix: "api_"}).Import(context.Background(), []byte(sampleSpec))
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if len(imported) != 1 {
		t.Fatalf("expected 1 flow, got %d", len(imported))
	}

	flow := imported[0]
	if flow.ID != "api_createProfile" {
		t.Fatalf("unexpected flow id %q", flow.ID)
	}
	if len(flow.Questions) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(flow.Questions))
	}

	profession, ok := flow.Question("profession")
	if !ok {
		t.Fatal("profession question missing")
	}
	if !profession.Required {
		t.Fatal("required property must produce a required question")
	}
	if profession.Validation == nil || profession.Validation.MinLength == nil || *profession.Validation.MinLength != 2 {
		t.Fatal("minLength constraint not carried over")
	}

	timeline, _ := flow.Question("timeline_preference")
	if timeline.Type != questionnaire.QuestionTypeSelect {
		t.Fatalf("enum string should map to select, got %q", timeline.Type)
	}
	if len(timeline.Options) != 4 {
		t.Fatalf("expected 4 options, got %d", len(timeline.Options))
	}

	family, _ := flow.Question("family_composition")
	if family.Type != questionnaire.QuestionTypeMultiSelect {
		t.Fatalf("array should map to multiselect, got %q", family.Type)
	}

	years, _ := flow.Question("experience_years")
	if years.Type != questionnaire.QuestionTypeNumber {
		t.Fatalf("integer should map to number, got %q", years.Type)
	}
	if years.Validation == nil || years.Validation.Max == nil || *years.Validation.Max != 60 {
		t.Fatal("maximum constraint not carried over")
	}
}

func TestImportRejectsDocumentsWithoutBodies(t *testing.T) {
	t.Parallel()

	const bare = `{
	  "openapi": "3.0.3",
	  "info": {"title": "t", "version": "1"},
	  "paths": {"/x": {"get": {"operationId": "listX", "responses": {"200": {"description": "ok"}}}}}
	}`

	if _, err := New(Options{}).Import(context.Background(), []byte(bare)); err == nil {
		t.Fatal("expected error when no operation has an object body")
	}
}
