package states

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

//go:embed data/us_states.txt
var dataFS embed.FS

const defaultListPath = "data/us_states.txt"

// State is a USPS state code and its name.
type State struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Option is the select option shape returned by the handler.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var (
	defaultOnce   sync.Once
	defaultStates []State
	defaultErr    error
)

// DefaultStates returns a copy of the embedded list, sorted by code.
func DefaultStates() ([]State, error) {
	defaultOnce.Do(func() {
		f, err := dataFS.Open(defaultListPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer func() { _ = f.Close() }()

		states, err := LoadStates(f)
		if err != nil {
			defaultErr = err
			return
		}
		defaultStates = states
	})

	if defaultErr != nil {
		return nil, defaultErr
	}
	return append([]State{}, defaultStates...), nil
}

// LoadStates parses "CODE Name" lines. Blank lines and # comments are
// skipped, codes are upper-cased and duplicates keep the first name.
func LoadStates(r io.Reader) ([]State, error) {
	if r == nil {
		return nil, fmt.Errorf("states: missing reader")
	}

	scanner := bufio.NewScanner(r)
	states := make([]State, 0, 64)
	seen := map[string]struct{}{}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		code, name, _ := strings.Cut(line, " ")
		code = strings.ToUpper(strings.TrimSpace(code))
		name = strings.TrimSpace(name)
		if len(code) != 2 {
			return nil, fmt.Errorf("states: invalid code %q", code)
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		if name == "" {
			name = code
		}
		states = append(states, State{Code: code, Name: name})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.Slice(states, func(i, j int) bool { return states[i].Code < states[j].Code })
	return states, nil
}

// Codes lists the codes of states in order.
func Codes(states []State) []string {
	out := make([]string, 0, len(states))
	for _, state := range states {
		out = append(out, state.Code)
	}
	return out
}

// ToOptions converts states into select options labelled by name.
func ToOptions(states []State) []Option {
	out := make([]Option, 0, len(states))
	for _, state := range states {
		out = append(out, Option{Value: state.Code, Label: state.Name})
	}
	return out
}
