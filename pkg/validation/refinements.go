package validation

import (
	"fmt"
	"strconv"
	"time"
)

// Refinement is a check that needs data the schema cannot express, such as
// reference lists or the current date. Check receives the coerced values and
// reports whether Field is acceptable. Refinements are skipped for fields
// that already failed a schema keyword.
type Refinement struct {
	Field   string
	Message string
	Check   func(values map[string]any) bool
}

// OneOf accepts field when its value is one of allowed.
func OneOf(field string, allowed []string, message string) Refinement {
	set := make(map[string]struct{}, len(allowed))
	for _, value := range allowed {
		set[value] = struct{}{}
	}
	return Refinement{
		Field:   field,
		Message: message,
		Check: func(values map[string]any) bool {
			value, ok := stringValue(values, field)
			if !ok {
				return false
			}
			_, found := set[value]
			return found
		},
	}
}

// DependsOn accepts field when its value is listed under the current value of
// parent in allowed.
func DependsOn(field, parent string, allowed map[string][]string, message string) Refinement {
	return Refinement{
		Field:   field,
		Message: message,
		Check: func(values map[string]any) bool {
			parentValue, ok := stringValue(values, parent)
			if !ok {
				return false
			}
			value, ok := stringValue(values, field)
			if !ok {
				return false
			}
			for _, candidate := range allowed[parentValue] {
				if candidate == value {
					return true
				}
			}
			return false
		},
	}
}

// NotAfterYear rejects years later than the current year reported by now.
func NotAfterYear(field string, now func() time.Time, message string) Refinement {
	if now == nil {
		now = time.Now
	}
	return Refinement{
		Field:   field,
		Message: message,
		Check: func(values map[string]any) bool {
			raw, ok := stringValue(values, field)
			if !ok {
				return false
			}
			year, err := strconv.Atoi(raw)
			if err != nil {
				return false
			}
			return year <= now().Year()
		},
	}
}

func stringValue(values map[string]any, field string) (string, bool) {
	value, ok := values[field]
	if !ok || value == nil {
		return "", false
	}
	return fmt.Sprint(value), true
}
