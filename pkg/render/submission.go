package render

import (
	"fmt"
	"sort"
	"strings"
)

// FieldSeparator joins a step id and a field name in submitted form keys, so
// steps that share field names ("name", "address") stay distinct.
const FieldSeparator = "."

// HiddenField is a hidden input emitted alongside the visible step.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: fmt.Sprint(value)}
}

// FieldKey returns the submitted key of field within step.
func FieldKey(step, field string) string {
	if step == "" {
		return field
	}
	return step + FieldSeparator + field
}

// SplitFieldKey reverses FieldKey. Keys without a step prefix return an empty
// step.
func SplitFieldKey(key string) (step, field string) {
	if idx := strings.Index(key, FieldSeparator); idx > 0 {
		return key[:idx], key[idx+len(FieldSeparator):]
	}
	return "", key
}

// CarryFields emits hidden inputs for every step except current, so values
// entered on earlier pages travel with the next submission. Output is sorted
// for deterministic markup.
func CarryFields(values map[string]map[string]string, current string) []HiddenField {
	var fields []HiddenField
	for step, stepValues := range values {
		if step == current {
			continue
		}
		for name, value := range stepValues {
			if strings.TrimSpace(name) == "" {
				continue
			}
			fields = append(fields, HiddenField{Name: FieldKey(step, name), Value: value})
		}
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
	return fields
}

// GroupValues splits flat step-prefixed form values into per-step maps.
// Keys without a step prefix are ignored; control inputs such as "action"
// never reach the steps.
func GroupValues(form map[string][]string) map[string]map[string]string {
	out := make(map[string]map[string]string)
	for key, values := range form {
		step, field := SplitFieldKey(key)
		if step == "" || field == "" || len(values) == 0 {
			continue
		}
		if out[step] == nil {
			out[step] = make(map[string]string)
		}
		out[step][field] = values[len(values)-1]
	}
	return out
}
