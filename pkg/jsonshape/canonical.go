package jsonshape

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/gowebpki/jcs"

	"github.com/zacharyburnett/TypePigeon/pkg/literal"
	"github.com/zacharyburnett/TypePigeon/pkg/value"
)

// ErrDuplicateKey is returned when two mapping keys share a JSON spelling,
// such as 3 and "3".
var ErrDuplicateKey = errors.New("jsonshape: duplicate key after conversion to text")

// Marshal reduces v and encodes it as RFC 8785 canonical JSON. Non-text keys
// become their JSON spelling: 3 becomes "3", true "true" and nil "null".
func (r *Reducer) Marshal(v any) ([]byte, error) {
	reduced, err := r.Reduce(v)
	if err != nil {
		return nil, err
	}
	return MarshalReduced(reduced)
}

// MarshalReduced encodes an already reduced value as canonical JSON.
func MarshalReduced(reduced any) ([]byte, error) {
	doc, err := encodable(reduced)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("jsonshape: encode: %w", err)
	}
	out, err := jcs.Transform(data)
	if err != nil {
		return nil, fmt.Errorf("jsonshape: canonicalize: %w", err)
	}
	return out, nil
}

// encodable converts ordered maps to string-keyed Go maps for encoding/json.
func encodable(v any) (any, error) {
	switch x := v.(type) {
	case *value.Map:
		out := make(map[string]any, x.Len())
		for p := x.Oldest(); p != nil; p = p.Next() {
			key, err := keyText(p.Key)
			if err != nil {
				return nil, err
			}
			if _, dup := out[key]; dup {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
			}
			val, err := encodable(p.Value)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			out[key] = val
		}
		return out, nil
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			enc, err := encodable(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = enc
		}
		return out, nil
	case nil, bool, int, float64, string:
		return x, nil
	}
	return nil, fmt.Errorf("jsonshape: %s is not a reduced value", kindOf(v))
}

func keyText(k any) (string, error) {
	switch x := k.(type) {
	case string:
		return x, nil
	case int:
		return strconv.Itoa(x), nil
	case float64:
		return literal.FormatFloat(x), nil
	case bool:
		return strconv.FormatBool(x), nil
	case nil:
		return "null", nil
	}
	return "", fmt.Errorf("jsonshape: %s keys cannot be encoded", kindOf(k))
}
