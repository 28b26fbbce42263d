package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field describes how one JSON object member is treated when it is missing or null.
type Field struct {
	Name     string
	Required bool
	// Default replaces a missing or null value. A nil Default leaves the member absent.
	Default json.RawMessage
	// Nested rules apply to the member's object value, or to every element when List is set.
	Nested []Field
	List   bool
	// Lenient members fall back to Default when their value is malformed.
	Lenient bool
}

// ValidationError reports a required member that is missing or has the wrong shape.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Path, e.Message)
}

// Literal defaults shared by the source tables.
//
//nolint:gochecknoglobals // Immutable JSON literals
var (
	EmptyString = json.RawMessage(`""`)
	EmptyList   = json.RawMessage(`[]`)
	Null        = json.RawMessage(`null`)
	Zero        = json.RawMessage(`0`)
)

// Normalize checks raw against fields and fills in defaults, returning the rewritten object.
func Normalize(raw json.RawMessage, fields []Field, path string) (out json.RawMessage, err error) {
	var obj map[string]json.RawMessage
	if isNull(raw) {
		err = &ValidationError{Path: path, Message: "expected an object, got null"}
		return out, err
	}
	err = json.Unmarshal(raw, &obj)
	if err != nil {
		err = &ValidationError{Path: path, Message: "expected an object"}
		return out, err
	}

	for _, field := range fields {
		fieldPath := path + "." + field.Name
		value, ok := obj[field.Name]

		if !ok || isNull(value) {
			if field.Required {
				err = &ValidationError{Path: fieldPath, Message: "required field is missing"}
				return out, err
			}
			if field.Default != nil {
				obj[field.Name] = field.Default
			}
			continue
		}

		if field.Nested == nil {
			continue
		}

		var normalized json.RawMessage
		normalized, err = normalizeValue(value, field, fieldPath)
		if err != nil {
			if !field.Lenient {
				return out, err
			}
			err = nil
			normalized = field.Default
			if normalized == nil {
				normalized = Null
			}
		}
		obj[field.Name] = normalized
	}

	out, err = json.Marshal(obj)
	if err != nil {
		err = &ValidationError{Path: path, Message: err.Error()}
		return out, err
	}

	return out, err
}

func normalizeValue(value json.RawMessage, field Field, path string) (out json.RawMessage, err error) {
	if !field.List {
		out, err = Normalize(value, field.Nested, path)
		return out, err
	}

	var items []json.RawMessage
	err = json.Unmarshal(value, &items)
	if err != nil {
		err = &ValidationError{Path: path, Message: "expected a list"}
		return out, err
	}

	normalized := make([]json.RawMessage, 0, len(items))
	for i, item := range items {
		var n json.RawMessage
		n, err = Normalize(item, field.Nested, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return out, err
		}
		normalized = append(normalized, n)
	}

	out, err = json.Marshal(normalized)
	return out, err
}

// Decode unmarshals normalized JSON into v, reporting type mismatches as ValidationError.
func Decode(raw json.RawMessage, v interface{}, path string) (err error) {
	err = json.Unmarshal(raw, v)
	if err != nil {
		err = &ValidationError{Path: path, Message: err.Error()}
		return err
	}
	return err
}

func isNull(raw json.RawMessage) (null bool) {
	trimmed := bytes.TrimSpace(raw)
	null = len(trimmed) == 0 || bytes.Equal(trimmed, Null)
	return null
}
