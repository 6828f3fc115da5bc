// Package validation checks untrusted JSON bodies against declarative
// schemas. Schemas are strict: undeclared keys are violations. Every
// violation is collected rather than stopping at the first.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Type is the JSON type a field must carry
type Type int

const (
	TypeString Type = iota
	TypeNumber
)

func (t Type) String() string {
	if t == TypeNumber {
		return "number"
	}
	return "string"
}

// Field declares one key of a schema. Rules run in order after the value is
// normalized and every failing rule is reported.
type Field struct {
	Name     string
	Label    string
	Type     Type
	Optional bool
	// EmptyIsAbsent drops an optional string that is empty after trimming
	EmptyIsAbsent bool
	Trim          bool
	Lower         bool
	Rules         []Rule
}

type Schema struct {
	Name   string
	Fields []Field
}

// Record is a validated, normalized input keyed by field name. Values are
// string or float64 according to the field type.
type Record map[string]any

func (r Record) String(name string) string {
	s, _ := r[name].(string)
	return s
}

func (r Record) Number(name string) float64 {
	n, _ := r[name].(float64)
	return n
}

func (r Record) Has(name string) bool {
	_, ok := r[name]
	return ok
}

// Validate decodes body and checks it against s. An empty body is treated
// as an empty object.
func (s *Schema) Validate(body []byte) (Record, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, Errors{{Message: "Malformed JSON body"}}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, Errors{{Message: "Malformed JSON body"}}
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, Errors{{Message: "Expected object, received " + jsonType(raw)}}
	}

	return s.validateObject(obj)
}

func (s *Schema) validateObject(obj map[string]any) (Record, error) {
	var errs Errors
	rec := make(Record, len(s.Fields))
	declared := make(map[string]struct{}, len(s.Fields))

	for _, f := range s.Fields {
		declared[f.Name] = struct{}{}

		v, present := obj[f.Name]
		if !present {
			if !f.Optional {
				errs = append(errs, FieldError{Path: f.Name, Message: f.Label + " is required"})
			}
			continue
		}

		value, fieldErrs := f.check(v)
		errs = append(errs, fieldErrs...)
		if len(fieldErrs) == 0 && value != nil {
			rec[f.Name] = value
		}
	}

	for _, key := range sortedKeys(obj) {
		if _, ok := declared[key]; !ok {
			errs = append(errs, FieldError{Path: key, Message: "Unrecognized field: " + key})
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return rec, nil
}

// check normalizes v and runs the field's rules. A nil value with no errors
// means an optional field that counts as absent.
func (f Field) check(v any) (any, Errors) {
	typeErr := Errors{{Path: f.Name, Message: fmt.Sprintf("Expected %s, received %s", f.Type, jsonType(v))}}

	var value any
	switch f.Type {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, typeErr
		}
		if f.Trim {
			s = strings.TrimSpace(s)
		}
		if f.Lower {
			s = strings.ToLower(s)
		}
		if s == "" && f.Optional && f.EmptyIsAbsent {
			return nil, nil
		}
		value = s
	case TypeNumber:
		n, ok := v.(json.Number)
		if !ok {
			return nil, typeErr
		}
		fv, err := n.Float64()
		if err != nil {
			return nil, typeErr
		}
		value = fv
	}

	var errs Errors
	for _, rule := range f.Rules {
		if !rule.Check(value) {
			errs = append(errs, FieldError{Path: f.Name, Message: rule.Message})
		}
	}
	return value, errs
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}
