package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/muesli/termenv"

	"github.com/goliatone/go-onboard/pkg/model"
	"github.com/goliatone/go-onboard/pkg/render"
	"github.com/goliatone/go-onboard/pkg/wizard"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	infoMessages []string
	inputErr     error
	inputPos     int
	selectPos    int
	confirmPos   int
	selects      []SelectConfig
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputErr != nil {
		return "", s.inputErr
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selects = append(s.selects, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) printed(fragment string) bool {
	for _, msg := range s.infoMessages {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

func newRenderer(t *testing.T, driver PromptDriver) *Renderer {
	t.Helper()
	r, err := New(WithPromptDriver(driver), WithOutput(&bytes.Buffer{}), WithColorProfile(termenv.Ascii))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func decode(t *testing.T, raw []byte) map[string]string {
	t.Helper()
	var out map[string]string
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestRender_InputsRetryOnLocalRules(t *testing.T) {
	driver := &stubDriver{inputs: []string{"", "Ada", "12", "(303) 555-1234"}}
	r := newRenderer(t, driver)

	view := render.StepView{
		Title:    "Tell Us About You",
		Index:    0,
		Count:    3,
		Progress: wizard.Progress(0, 3),
		Form: model.FormModel{Fields: []model.Field{
			{Name: "repFirstName", Label: "First Name", Required: true, Metadata: map[string]string{"message.required": "Please enter a first name"}},
			{Name: "repPhone", Label: "Phone Number", Validations: []model.ValidationRule{{Kind: model.ValidationRulePattern, Params: map[string]string{"pattern": `^\(?\d{3}\)?\s?\d{3}-\d{4}$`}}}, Metadata: map[string]string{"message.pattern": "Please enter a valid phone number"}},
		}},
	}
	out, err := r.Render(context.Background(), view, render.RenderOptions{
		Errors:     map[string][]string{"repFirstName": {"Please enter a valid first name"}},
		FormErrors: []string{"There was an issue setting up your company. Please try again."},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := map[string]string{"repFirstName": "Ada", "repPhone": "(303) 555-1234"}
	if diff := cmp.Diff(want, decode(t, out)); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	for _, fragment := range []string{
		"Step 1 of 3: Tell Us About You",
		"✗ Please enter a valid first name",
		"✗ Please enter a first name",
		"✗ Please enter a valid phone number",
		"Please try again.",
	} {
		if !driver.printed(fragment) {
			t.Fatalf("expected %q printed, got %v", fragment, driver.infoMessages)
		}
	}
}

func TestRender_DependentSelectAndConfirm(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{1, 0}, confirm: []bool{true}}
	r := newRenderer(t, driver)

	view := render.StepView{Title: "Location", Count: 1, Form: model.FormModel{Fields: []model.Field{
		{Name: "segment", Type: model.FieldTypeInteger, Options: []model.Option{{Value: "1", Label: "Retail"}, {Value: "2", Label: "Food Service"}}},
		{Name: "category", Type: model.FieldTypeInteger, UIHints: map[string]string{"dependsOn": "segment"}, Options: []model.Option{
			{Value: "10", Label: "Grocery", Group: "Retail"},
			{Value: "20", Label: "Cafe", Group: "Food Service"},
			{Value: "21", Label: "Bakery", Group: "Food Service"},
		}},
		{Name: "useCompanyDefaults", Type: model.FieldTypeBoolean},
	}}}
	out, err := r.Render(context.Background(), view, render.RenderOptions{Values: map[string]any{"segment": 1}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := map[string]string{"segment": "2", "category": "20", "useCompanyDefaults": "true"}
	if diff := cmp.Diff(want, decode(t, out)); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if driver.selects[0].DefaultIndex != 0 {
		t.Fatalf("expected prefilled segment selected, got %d", driver.selects[0].DefaultIndex)
	}
	if diff := cmp.Diff([]string{"Cafe", "Bakery"}, driver.selects[1].Options); diff != "" {
		t.Fatalf("category options mismatch (-want +got):\n%s", diff)
	}
}

func TestStyles_Progress(t *testing.T) {
	markers := wizard.Progress(1, 3)
	for i, title := range []string{"About You", "Company", "Location"} {
		markers[i].Title = title
	}
	styles := NewStyles(&bytes.Buffer{}, nil, termenv.Ascii)
	got := styles.Progress(markers)
	want := "✓ 1 About You ─── ● 2 Company ─── ○ 3 Location"
	if got != want {
		t.Fatalf("unexpected progress line\nwant %q\ngot  %q", want, got)
	}
}

type fakeWizard struct {
	flow      *wizard.Flow[string]
	submitted []map[string]string
	backs     int
}

func newFakeWizard() *fakeWizard {
	return &fakeWizard{flow: wizard.NewFlow([]wizard.Step[string]{
		{Title: "First", Content: "first"},
		{Title: "Second", Content: "second"},
	})}
}

func (f *fakeWizard) View(context.Context) (render.StepView, error) {
	step, _ := f.flow.Active()
	return render.StepView{
		StepID:   step.Content,
		Title:    step.Title,
		Index:    f.flow.Index(),
		Count:    f.flow.Len(),
		Progress: f.flow.Progress(),
		HasPrev:  f.flow.HasPrev(),
		HasNext:  f.flow.HasNext(),
		Form:     model.FormModel{Fields: []model.Field{{Name: "v"}}},
	}, nil
}

func (f *fakeWizard) RenderOptions(string) (render.RenderOptions, error) {
	return render.RenderOptions{}, nil
}

func (f *fakeWizard) Next(_ context.Context, values map[string]string) (bool, error) {
	f.submitted = append(f.submitted, values)
	valid := values["v"] != "bad"
	f.flow.Next(valid)
	return valid, nil
}

func (f *fakeWizard) Back(map[string]string) int {
	f.backs++
	return f.flow.Back()
}

func TestRun_NavigatesUntilLastStepIsValid(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"a", "bad", "x", "a2", "ok"},
		selectIdx: []int{0, 1, 0},
	}
	host := newFakeWizard()
	if err := newRenderer(t, driver).Run(context.Background(), host); err != nil {
		t.Fatalf("run: %v", err)
	}
	if host.backs != 1 || host.flow.Index() != 1 {
		t.Fatalf("unexpected navigation, backs=%d index=%d", host.backs, host.flow.Index())
	}
	want := []map[string]string{{"v": "a"}, {"v": "bad"}, {"v": "a2"}, {"v": "ok"}}
	if diff := cmp.Diff(want, host.submitted); diff != "" {
		t.Fatalf("submissions mismatch (-want +got):\n%s", diff)
	}
	if !driver.printed("Please correct the highlighted fields.") {
		t.Fatalf("expected correction hint, got %v", driver.infoMessages)
	}
	if diff := cmp.Diff([]string{"Submit", "Back"}, driver.selects[0].Options); diff != "" {
		t.Fatalf("navigation options mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_Aborted(t *testing.T) {
	driver := &stubDriver{inputErr: ErrAborted}
	err := newRenderer(t, driver).Run(context.Background(), newFakeWizard())
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestRender_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newRenderer(t, &stubDriver{}).Render(ctx, render.StepView{}, render.RenderOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
}
