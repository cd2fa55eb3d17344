package openapi

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-onboard/pkg/model"
)

func parseDefault(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := Parse(context.Background(), DefaultDocument())
	if err != nil {
		t.Fatalf("parse embedded document: %v", err)
	}
	return catalog
}

func TestParse_CollectsOperations(t *testing.T) {
	catalog := parseDefault(t)

	want := []string{
		"createCompany",
		"createLocation",
		"createUser",
		"listCompanies",
		"listLocations",
		"listSegments",
		"listUsers",
	}
	if diff := cmp.Diff(want, catalog.OperationIDs()); diff != "" {
		t.Fatalf("operation ids mismatch (-want +got):\n%s", diff)
	}

	op, ok := catalog.Operation("createCompany")
	if !ok {
		t.Fatalf("createCompany missing")
	}
	if op.Method != "POST" || op.Path != "/api/companies" {
		t.Fatalf("unexpected operation %s %s", op.Method, op.Path)
	}
	if catalog.Title() != "Onboarding API" {
		t.Fatalf("unexpected title %q", catalog.Title())
	}
}

func TestParse_RejectsEmptyAndInvalid(t *testing.T) {
	if _, err := Parse(context.Background(), Document{}); err == nil {
		t.Fatalf("expected error for empty document")
	}
	doc := MustNewDocument("inline", []byte("openapi: 3.0.3\ninfo: {title: x, version: '1'}\npaths: {}\n"))
	if _, err := Parse(context.Background(), doc); err == nil {
		t.Fatalf("expected error for document without paths")
	}
}

func TestParse_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Parse(ctx, DefaultDocument()); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestCatalog_FormOrdersFieldsByHint(t *testing.T) {
	form, err := parseDefault(t).Form("createCompany")
	if err != nil {
		t.Fatalf("form: %v", err)
	}

	want := []string{"repFirstName", "repLastName", "repPhone", "name", "address", "addressSecondary", "city", "state", "zip"}
	if diff := cmp.Diff(want, form.FieldNames()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	if form.Metadata["submitLabel"] != "Create Company" {
		t.Fatalf("expected submit label metadata, got %v", form.Metadata)
	}
}

func TestCatalog_FormFieldDetails(t *testing.T) {
	form, err := parseDefault(t).Form("createCompany")
	if err != nil {
		t.Fatalf("form: %v", err)
	}

	phone, ok := form.Field("repPhone")
	if !ok {
		t.Fatalf("repPhone missing")
	}
	if !phone.Required || phone.Label != "Phone Number" || phone.Placeholder != "(303) 555-1234" {
		t.Fatalf("unexpected phone field: %+v", phone)
	}
	if phone.Hint("inputType") != "tel" {
		t.Fatalf("expected tel input hint, got %v", phone.UIHints)
	}
	if _, ok := phone.Rule(model.ValidationRulePattern); !ok {
		t.Fatalf("expected pattern rule on phone")
	}
	if phone.Metadata["message.pattern"] != "Please enter a valid phone number" {
		t.Fatalf("unexpected phone messages: %v", phone.Metadata)
	}

	secondary, _ := form.Field("addressSecondary")
	if secondary.Required {
		t.Fatalf("addressSecondary must be optional")
	}
	rule, ok := secondary.Rule(model.ValidationRuleMaxLength)
	if !ok || rule.Params["value"] != "100" {
		t.Fatalf("expected maxLength 100, got %+v", rule)
	}
}

func TestCatalog_LocationIntegerFields(t *testing.T) {
	form, err := parseDefault(t).Form("createLocation")
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	year, _ := form.Field("startYear")
	if year.Type != model.FieldTypeInteger {
		t.Fatalf("expected integer startYear, got %q", year.Type)
	}
	rule, ok := year.Rule(model.ValidationRuleMin)
	if !ok || rule.Params["value"] != "1900" {
		t.Fatalf("expected min 1900, got %+v", rule)
	}
	category, _ := form.Field("category")
	if category.Hint("dependsOn") != "segment" {
		t.Fatalf("expected dependsOn hint, got %v", category.UIHints)
	}
}

func TestCatalog_FormErrors(t *testing.T) {
	catalog := parseDefault(t)
	if _, err := catalog.Form("missing"); err == nil {
		t.Fatalf("expected unknown operation error")
	}
	if _, err := catalog.Form("listSegments"); err == nil {
		t.Fatalf("expected error for operation without body")
	}
}

func TestCatalog_RequestSchema(t *testing.T) {
	raw, err := parseDefault(t).RequestSchema("createLocation")
	if err != nil {
		t.Fatalf("request schema: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	props, ok := decoded["properties"].(map[string]any)
	if !ok || props["startYear"] == nil {
		t.Fatalf("expected resolved properties, got %s", raw)
	}
	if strings.Contains(string(raw), "$ref") {
		t.Fatalf("expected references to be resolved, got %s", raw)
	}
}

func TestCatalog_Messages(t *testing.T) {
	messages := parseDefault(t).Messages("createLocation", "segment")
	if messages["default"] != "Please choose a valid segment" {
		t.Fatalf("unexpected messages %v", messages)
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{"api.yaml": {Data: DefaultDocument().Raw()}}
	doc, err := LoadFS(fsys, "api.yaml")
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if doc.Location() != "api.yaml" {
		t.Fatalf("unexpected location %q", doc.Location())
	}
	if _, err := LoadFS(fsys, "missing.yaml"); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestWithLabeler(t *testing.T) {
	catalog, err := Parse(context.Background(), DefaultDocument(), WithLabeler(strings.ToUpper))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	form, err := catalog.Form("createUser")
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if form.Fields[0].Label != "IDENTITYID" {
		t.Fatalf("expected custom labeler, got %q", form.Fields[0].Label)
	}
}
