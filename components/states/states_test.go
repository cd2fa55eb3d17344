package states

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadStates_DedupesSortsAndIgnoresComments(t *testing.T) {
	input := strings.NewReader(`
# Comment
ny New York
CO Colorado
NY Duplicate

CA California
`)

	states, err := LoadStates(input)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := []State{{Code: "CA", Name: "California"}, {Code: "CO", Name: "Colorado"}, {Code: "NY", Name: "New York"}}
	if diff := cmp.Diff(want, states); diff != "" {
		t.Fatalf("states mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadStates_RejectsInvalidCode(t *testing.T) {
	if _, err := LoadStates(strings.NewReader("COL Colorado")); err == nil {
		t.Fatalf("expected invalid code error")
	}
	if _, err := LoadStates(nil); err == nil {
		t.Fatalf("expected missing reader error")
	}
}

func TestDefaultStates_FiftyStatesAndDC(t *testing.T) {
	states, err := DefaultStates()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(states) != 51 {
		t.Fatalf("expected 51 entries, got %d", len(states))
	}
	if state, ok := Lookup(states, "co"); !ok || state.Name != "Colorado" {
		t.Fatalf("expected Colorado, got %+v", state)
	}
	states[0].Name = "mutated"
	again, _ := DefaultStates()
	if again[0].Name == "mutated" {
		t.Fatalf("expected DefaultStates to return a copy")
	}
}

func TestSearch_RanksCodeThenPrefixThenContains(t *testing.T) {
	states := []State{
		{Code: "KS", Name: "Kansas"},
		{Code: "AR", Name: "Arkansas"},
		{Code: "CA", Name: "California"},
		{Code: "NC", Name: "North Carolina"},
	}
	opts := NewOptions()

	got := Codes(Search(states, "ca", 10, opts))
	if diff := cmp.Diff([]string{"CA", "NC"}, got); diff != "" {
		t.Fatalf("search mismatch (-want +got):\n%s", diff)
	}
	got = Codes(Search(states, "kansas", 10, opts))
	if diff := cmp.Diff([]string{"KS", "AR"}, got); diff != "" {
		t.Fatalf("search mismatch (-want +got):\n%s", diff)
	}
}

func TestSearch_EmptyQueryModes(t *testing.T) {
	states := []State{{Code: "CA", Name: "California"}, {Code: "CO", Name: "Colorado"}}
	if got := Search(states, "", 0, NewOptions()); len(got) != 2 {
		t.Fatalf("expected all states for empty query, got %v", got)
	}
	if got := Search(states, " ", 1, NewOptions()); len(got) != 1 {
		t.Fatalf("expected limit applied, got %v", got)
	}
	if got := Search(states, "", 10, NewOptions(WithEmptySearchMode(EmptySearchNone))); got != nil {
		t.Fatalf("expected nil for empty query in none mode, got %v", got)
	}
}

func TestComponent_Codes(t *testing.T) {
	c := New(WithStates([]State{{Code: "CO", Name: "Colorado"}}))
	codes, err := c.Codes()
	if err != nil {
		t.Fatalf("codes: %v", err)
	}
	if diff := cmp.Diff([]string{"CO"}, codes); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
}
