package render_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-onboard/pkg/model"
	"github.com/goliatone/go-onboard/pkg/render"
)

func TestMapErrors(t *testing.T) {
	form := model.FormModel{Fields: []model.Field{{Name: "name"}, {Name: "zip"}}}
	payload := map[string][]string{
		"/body/zip":        {"Please enter a valid ZIP code"},
		"company.name":     {" Please enter the name of your organization ", ""},
		"name":             {"Please enter the name of your organization"},
		"non_field_errors": {"There was a problem..."},
		"location.segment": {"Please choose a valid segment"},
		"":                 {"   "},
	}

	mapped := render.MapErrors(form, payload)

	wantFields := map[string][]string{
		"zip":  {"Please enter a valid ZIP code"},
		"name": {"Please enter the name of your organization"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	wantForm := []string{"Please choose a valid segment", "There was a problem..."}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	if diff := cmp.Diff([]string{"First", "Second", "third"}, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldKeys(t *testing.T) {
	key := render.FieldKey("company", "zip")
	if key != "company.zip" {
		t.Fatalf("unexpected key %q", key)
	}
	step, field := render.SplitFieldKey(key)
	if step != "company" || field != "zip" {
		t.Fatalf("unexpected split %q %q", step, field)
	}
	if step, field := render.SplitFieldKey("action"); step != "" || field != "action" {
		t.Fatalf("expected bare key, got %q %q", step, field)
	}
}

func TestGroupAndCarryValues(t *testing.T) {
	grouped := render.GroupValues(map[string][]string{
		"about-you.repFirstName": {"Ada"},
		"company.name":           {"old", "Acme"},
		"action":                 {"next"},
		"company.":               {"ignored"},
	})
	want := map[string]map[string]string{
		"about-you": {"repFirstName": "Ada"},
		"company":   {"name": "Acme"},
	}
	if diff := cmp.Diff(want, grouped); diff != "" {
		t.Fatalf("grouped values mismatch (-want +got):\n%s", diff)
	}

	hidden := render.CarryFields(grouped, "company")
	if diff := cmp.Diff([]render.HiddenField{{Name: "about-you.repFirstName", Value: "Ada"}}, hidden); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry(t *testing.T) {
	registry := render.NewRegistry()
	first := stubRenderer{name: "html"}
	registry.MustRegister(first)
	if err := registry.Register(stubRenderer{name: "html"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := registry.Register(stubRenderer{}); err == nil {
		t.Fatalf("expected empty name error")
	}
	registry.MustRegister(stubRenderer{name: "tui"})

	got, err := registry.Get("")
	if err != nil || got.Name() != "html" {
		t.Fatalf("expected default renderer html, got %v (err=%v)", got, err)
	}
	if _, err := registry.Get("pdf"); err == nil {
		t.Fatalf("expected missing renderer error")
	}
	if diff := cmp.Diff([]string{"html", "tui"}, registry.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestStepView(t *testing.T) {
	view := render.StepView{Index: 2, Count: 3}
	if !view.IsLast() || view.Position() != 3 {
		t.Fatalf("unexpected view helpers: last=%v position=%d", view.IsLast(), view.Position())
	}
	if (render.StepView{}).IsLast() {
		t.Fatalf("empty view has no last step")
	}
}

type stubRenderer struct {
	name string
}

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) Render(context.Context, render.StepView, render.RenderOptions) ([]byte, error) {
	return []byte(s.name), nil
}
