// Package schema renders descriptors as JSON Schema documents describing the
// reduced form of coerced values, and validates reduced values against them.
package schema

import (
	"bytes"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
	santhosh "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/zacharyburnett/TypePigeon/pkg/descriptor"
	"github.com/zacharyburnett/TypePigeon/pkg/jsonshape"
)

// Draft is the JSON Schema dialect of rendered documents.
const Draft = "https://json-schema.org/draft/2020-12/schema"

var (
	// ErrInvalid is returned when a value does not satisfy a schema.
	ErrInvalid = errors.New("schema: value does not match")

	stringerType      = reflect.TypeFor[fmt.Stringer]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// FromDescriptor renders d as a JSON Schema. Everything except sequences and
// tuples admits null, since a None input coerces to None for those targets.
func FromDescriptor(d descriptor.Descriptor) (map[string]any, error) {
	s, err := render(d)
	if err != nil {
		return nil, err
	}
	s["$schema"] = Draft
	return s, nil
}

func render(d descriptor.Descriptor) (map[string]any, error) {
	switch x := d.(type) {
	case descriptor.Type:
		return scalar(x)
	case descriptor.Sequence:
		return array(x.Elems)
	case descriptor.Tuple:
		return array(x.Elems)
	case descriptor.Mapping:
		obj := map[string]any{"type": []any{"object", "null"}}
		if x.IsEmpty() {
			return obj, nil
		}
		val, err := render(x.Value)
		if err != nil {
			return nil, err
		}
		obj["additionalProperties"] = val
		if k, ok := x.Key.(descriptor.Type); ok && k.Kind == descriptor.KindInt {
			obj["propertyNames"] = map[string]any{"pattern": `^-?[0-9]+$`}
		}
		return obj, nil
	case *descriptor.Enum:
		names := make([]any, 0, len(x.Names())+1)
		for _, n := range x.Names() {
			names = append(names, n)
		}
		return map[string]any{"enum": append(names, nil)}, nil
	}
	return nil, fmt.Errorf("schema: cannot render %T", d)
}

func array(elems []descriptor.Descriptor) (map[string]any, error) {
	s := map[string]any{"type": "array"}
	switch len(elems) {
	case 0:
	case 1:
		item, err := render(elems[0])
		if err != nil {
			return nil, err
		}
		s["items"] = item
	default:
		prefix := make([]any, len(elems))
		for i, e := range elems {
			item, err := render(e)
			if err != nil {
				return nil, err
			}
			prefix[i] = item
		}
		s["prefixItems"] = prefix
		s["items"] = false
		s["minItems"] = len(elems)
	}
	return s, nil
}

func scalar(t descriptor.Type) (map[string]any, error) {
	switch t.Kind {
	case descriptor.KindNone:
		return map[string]any{"type": "null"}, nil
	case descriptor.KindAny:
		return map[string]any{}, nil
	case descriptor.KindInt:
		return typed("integer"), nil
	case descriptor.KindFloat, descriptor.KindDuration, descriptor.KindDecimal:
		return typed("number"), nil
	case descriptor.KindBool:
		return typed("boolean"), nil
	case descriptor.KindBytes:
		s := typed("array")
		s["items"] = map[string]any{"type": "integer", "minimum": 0, "maximum": 255}
		return s, nil
	case descriptor.KindList, descriptor.KindTuple:
		return typed("array"), nil
	case descriptor.KindDict:
		return typed("object"), nil
	case descriptor.KindDate:
		s := typed("string")
		s["format"] = "date"
		return s, nil
	case descriptor.KindUUID:
		s := typed("string")
		s["format"] = "uuid"
		return s, nil
	case descriptor.KindCustom:
		return custom(t.Go)
	}
	// Text, dates with times, versions, paths, geometries and CRSs all
	// reduce to text.
	return typed("string"), nil
}

func typed(name string) map[string]any {
	return map[string]any{"type": []any{name, "null"}}
}

// custom renders a Go type by the shape its values reduce to.
func custom(t reflect.Type) (map[string]any, error) {
	elem := t
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	textual := t.Implements(stringerType) || t.Implements(textMarshalerType)
	switch {
	case elem.Kind() == reflect.Struct && !textual:
		return reflectStruct(elem)
	case textual:
		return typed("string"), nil
	}
	switch elem.Kind() {
	case reflect.String:
		return typed("string"), nil
	case reflect.Bool:
		return typed("boolean"), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return typed("integer"), nil
	case reflect.Float32, reflect.Float64:
		return typed("number"), nil
	case reflect.Slice, reflect.Array:
		return typed("array"), nil
	case reflect.Map:
		return typed("object"), nil
	}
	return map[string]any{}, nil
}

func reflectStruct(t reflect.Type) (map[string]any, error) {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	data, err := json.Marshal(r.ReflectFromType(t))
	if err != nil {
		return nil, fmt.Errorf("schema: reflect %s: %w", t, err)
	}
	var s map[string]any
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("schema: reflect %s: %w", t, err)
	}
	delete(s, "$schema")
	delete(s, "$id")
	return map[string]any{"anyOf": []any{s, map[string]any{"type": "null"}}}, nil
}

// Validator checks reduced values against a compiled descriptor schema.
type Validator struct {
	target descriptor.Descriptor
	schema *santhosh.Schema
}

// Compile renders and compiles the schema for d.
func Compile(d descriptor.Descriptor) (*Validator, error) {
	doc, err := FromDescriptor(d)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("schema: encode: %w", err)
	}
	fp, err := descriptor.Fingerprint(d)
	if err != nil {
		return nil, err
	}
	c := santhosh.NewCompiler()
	c.Draft = santhosh.Draft2020
	url := "https://typepigeon.local/schema/" + fp + ".json"
	if err := c.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("schema: load %s: %w", d, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("schema: compile %s: %w", d, err)
	}
	return &Validator{target: d, schema: compiled}, nil
}

// Validate checks a value produced by jsonshape.Reducer.Reduce.
func (v *Validator) Validate(reduced any) error {
	data, err := jsonshape.MarshalReduced(reduced)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("schema: decode: %w", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("%w %s: %w", ErrInvalid, v.target, err)
	}
	return nil
}

// Validate compiles the schema for d and checks reduced against it.
func Validate(d descriptor.Descriptor, reduced any) error {
	v, err := Compile(d)
	if err != nil {
		return err
	}
	return v.Validate(reduced)
}
