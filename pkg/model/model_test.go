package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultLabeler(t *testing.T) {
	cases := map[string]string{
		"repFirstName":     "Rep First Name",
		"start_year":       "Start Year",
		"zip":              "ZIP",
		"addressSecondary": "Address Secondary",
		"line2":            "Line 2",
		"":                 "",
	}
	for in, want := range cases {
		if got := DefaultLabeler(in); got != want {
			t.Fatalf("DefaultLabeler(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormModel_Subset(t *testing.T) {
	form := FormModel{
		OperationID: "createCompany",
		Fields: []Field{
			{Name: "city"},
			{Name: "name"},
			{Name: "zip"},
		},
	}

	sub := form.Subset([]string{"zip", "missing", "name"})
	if diff := cmp.Diff([]string{"zip", "name"}, sub.FieldNames()); diff != "" {
		t.Fatalf("subset mismatch (-want +got):\n%s", diff)
	}
	if sub.OperationID != "createCompany" {
		t.Fatalf("expected operation id preserved, got %q", sub.OperationID)
	}
	if len(form.Fields) != 3 {
		t.Fatalf("expected source form untouched")
	}
}

func TestField_RuleAndHint(t *testing.T) {
	field := Field{
		Validations: []ValidationRule{{Kind: ValidationRuleMaxLength, Params: map[string]string{"value": "100"}}},
		UIHints:     map[string]string{"inputType": "tel"},
	}
	rule, ok := field.Rule(ValidationRuleMaxLength)
	if !ok || rule.Params["value"] != "100" {
		t.Fatalf("expected maxLength rule, got %+v (ok=%v)", rule, ok)
	}
	if _, ok := field.Rule(ValidationRulePattern); ok {
		t.Fatalf("unexpected pattern rule")
	}
	if field.Hint("inputType") != "tel" || field.Hint("missing") != "" {
		t.Fatalf("unexpected hints: %v", field.UIHints)
	}
}
