package coerce

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/zacharyburnett/TypePigeon/pkg/value"
)

var errNotObject = errors.New("not a JSON object")

// decodeJSONObject decodes a JSON object keeping member order at every level.
// Integral numbers decode as int, others as float64.
func decodeJSONObject(s string) (*value.Map, error) {
	data := bytes.TrimSpace([]byte(s))
	if len(data) == 0 || data[0] != '{' {
		return nil, errNotObject
	}
	v, err := decodeJSON(data)
	if err != nil {
		return nil, err
	}
	return v.(*value.Map), nil
}

func decodeJSON(data []byte) (any, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty JSON value")
	}
	switch data[0] {
	case '{':
		raw := orderedmap.New[string, json.RawMessage]()
		if err := json.Unmarshal(data, raw); err != nil {
			return nil, err
		}
		out := value.NewMap()
		for p := raw.Oldest(); p != nil; p = p.Next() {
			v, err := decodeJSON(p.Value)
			if err != nil {
				return nil, err
			}
			out.Set(p.Key, v)
		}
		return out, nil
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		out := make([]any, len(raw))
		for i, r := range raw {
			v, err := decodeJSON(r)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if n, ok := v.(json.Number); ok {
		text := n.String()
		if !strings.ContainsAny(text, ".eE") {
			if i, err := strconv.Atoi(text); err == nil {
				return i, nil
			}
		}
		return n.Float64()
	}
	return v, nil
}
