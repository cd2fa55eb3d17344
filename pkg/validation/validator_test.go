package validation

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-onboard/pkg/openapi"
)

const sampleSchema = `{
  "type": "object",
  "required": ["zip", "year"],
  "properties": {
    "zip": {
      "type": "string",
      "minLength": 5,
      "maxLength": 5,
      "pattern": "^\\d+$",
      "x-messages": {
        "required": "Please enter a 5-digit ZIP code",
        "minLength": "Please enter a 5-digit ZIP code",
        "maxLength": "Please enter a 5-digit ZIP code",
        "pattern": "Please enter a valid ZIP code"
      }
    },
    "year": {
      "type": "integer",
      "minimum": 1900,
      "x-messages": {"default": "Please choose a year no earlier than 1900"}
    },
    "note": {"type": "string", "maxLength": 3}
  }
}`

func compileSample(t *testing.T, options ...Option) *Validator {
	t.Helper()
	v, err := Compile([]byte(sampleSchema), options...)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return v
}

func TestValidate_Messages(t *testing.T) {
	v := compileSample(t)

	cases := []struct {
		name   string
		values map[string]string
		field  string
		want   string
	}{
		{name: "missing zip", values: map[string]string{"year": "2000"}, field: "zip", want: "Please enter a 5-digit ZIP code"},
		{name: "blank zip is missing", values: map[string]string{"zip": "  ", "year": "2000"}, field: "zip", want: "Please enter a 5-digit ZIP code"},
		{name: "short zip", values: map[string]string{"zip": "123", "year": "2000"}, field: "zip", want: "Please enter a 5-digit ZIP code"},
		{name: "letters", values: map[string]string{"zip": "abcde", "year": "2000"}, field: "zip", want: "Please enter a valid ZIP code"},
		{name: "old year", values: map[string]string{"zip": "80202", "year": "1800"}, field: "year", want: "Please choose a year no earlier than 1900"},
		{name: "year not a number", values: map[string]string{"zip": "80202", "year": "soon"}, field: "year", want: "Please choose a year no earlier than 1900"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := v.Validate(tc.values)
			if result.Valid {
				t.Fatalf("expected invalid result")
			}
			if got := result.FirstError(tc.field); got != tc.want {
				t.Fatalf("FirstError(%q) = %q, want %q (all: %v)", tc.field, got, tc.want, result.Fields)
			}
		})
	}
}

func TestValidate_ValidSubmissionCoercesValues(t *testing.T) {
	result := compileSample(t).Validate(map[string]string{"zip": "80202", "year": "1999", "ignored": "x"})
	if !result.Valid {
		t.Fatalf("expected valid, got %v %v", result.Fields, result.Form)
	}
	want := map[string]any{"zip": "80202", "year": int64(1999)}
	if diff := cmp.Diff(want, result.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_FallbackMessage(t *testing.T) {
	v := compileSample(t, WithFallbackMessage("Too long"))
	result := v.Validate(map[string]string{"zip": "80202", "year": "1999", "note": "abcdef"})
	if got := result.FirstError("note"); got != "Too long" {
		t.Fatalf("expected fallback message, got %q", got)
	}
}

func TestValidateFields_ScopesToStep(t *testing.T) {
	v := compileSample(t)
	result := v.ValidateFields(map[string]string{"zip": "80202"}, []string{"zip"})
	if !result.Valid {
		t.Fatalf("expected zip-only step to be valid, got %v", result.Fields)
	}
	result = v.ValidateFields(map[string]string{"zip": "80202"}, []string{"zip", "year"})
	if result.Valid || result.FirstError("year") == "" {
		t.Fatalf("expected year to be reported, got %v", result.Fields)
	}
}

func TestRefinements(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	v := compileSample(t, WithRefinements(
		NotAfterYear("year", now, "Please choose the current year or a past year."),
		OneOf("zip", []string{"80202"}, "Unknown ZIP"),
	))

	result := v.Validate(map[string]string{"zip": "80202", "year": "2030"})
	if got := result.FirstError("year"); got != "Please choose the current year or a past year." {
		t.Fatalf("unexpected year message %q", got)
	}

	result = v.Validate(map[string]string{"zip": "10001", "year": "2024"})
	if got := result.FirstError("zip"); got != "Unknown ZIP" {
		t.Fatalf("unexpected zip message %q", got)
	}

	// Schema failures win over refinements on the same field.
	result = v.Validate(map[string]string{"zip": "1", "year": "2024"})
	if diff := cmp.Diff([]string{"Please enter a 5-digit ZIP code"}, result.Fields["zip"]); diff != "" {
		t.Fatalf("zip messages mismatch (-want +got):\n%s", diff)
	}
}

func TestDependsOn(t *testing.T) {
	check := DependsOn("category", "segment", map[string][]string{"1": {"10", "11"}}, "Please choose a valid category").Check
	if !check(map[string]any{"segment": int64(1), "category": int64(11)}) {
		t.Fatalf("expected category 11 to belong to segment 1")
	}
	if check(map[string]any{"segment": int64(2), "category": int64(11)}) {
		t.Fatalf("expected unknown segment to reject category")
	}
	if check(map[string]any{"segment": int64(1)}) {
		t.Fatalf("expected missing category to be rejected")
	}
}

func TestCompile_RejectsInvalidSchema(t *testing.T) {
	if _, err := Compile([]byte(`{"type": `)); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := Compile([]byte(`{"type": "object", "properties": {"a": {"minLength": "x"}}}`)); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestCompanySchemaMessages(t *testing.T) {
	catalog, err := openapi.Parse(context.Background(), openapi.DefaultDocument())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	raw, err := catalog.RequestSchema("createCompany")
	if err != nil {
		t.Fatalf("request schema: %v", err)
	}
	v, err := Compile(raw, WithName("company"))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	result := v.Validate(map[string]string{
		"repFirstName": "Mary-Jane",
		"repLastName":  "O1",
		"repPhone":     "12",
		"name":         "Acme",
		"address":      "123 Main St",
		"city":         "Denver",
		"state":        "C",
		"zip":          "80202",
	})
	want := map[string][]string{
		"repLastName": {"Please enter a valid last name"},
		"repPhone":    {"Please enter a valid phone number"},
		"state":       {"Please choose a state for your organization"},
	}
	if diff := cmp.Diff(want, result.Fields); diff != "" {
		t.Fatalf("field messages mismatch (-want +got):\n%s", diff)
	}

	result = v.Validate(map[string]string{
		"repFirstName": "Mary Jane",
		"repLastName":  "Smith",
		"repPhone":     "+1 (303) 555-1234",
		"name":         "Acme",
		"address":      "123 Main St",
		"city":         "Denver",
		"state":        "CO",
		"zip":          "80202",
	})
	if !result.Valid {
		t.Fatalf("expected valid company, got %v", result.Fields)
	}
}
