package descriptor

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// Fingerprint computes a deterministic SHA-256 hash of d over its RFC 8785
// canonical JSON form. Equal descriptors share a fingerprint.
func Fingerprint(d Descriptor) (string, error) {
	data, err := json.Marshal(canonicalForm(d))
	if err != nil {
		return "", fmt.Errorf("descriptor: fingerprint %s: %w", str(d), err)
	}
	canonical, err := jcs.Transform(data)
	if err != nil {
		return "", fmt.Errorf("descriptor: fingerprint %s: %w", str(d), err)
	}
	hash := sha256.Sum256(canonical)
	return hex.EncodeToString(hash[:]), nil
}

func canonicalForm(d Descriptor) any {
	switch x := d.(type) {
	case nil:
		return nil
	case Type:
		form := map[string]any{"variant": "scalar", "kind": x.Kind.String(), "name": x.Name}
		if x.Go != nil {
			form["go"] = x.Go.PkgPath() + "." + x.Go.String()
		}
		return form
	case Sequence:
		return map[string]any{"variant": "sequence", "elems": canonicalAll(x.Elems)}
	case Tuple:
		return map[string]any{"variant": "tuple", "elems": canonicalAll(x.Elems)}
	case Mapping:
		return map[string]any{"variant": "mapping", "key": canonicalForm(x.Key), "value": canonicalForm(x.Value)}
	case *Enum:
		members := make([]any, len(x.Members))
		for i, m := range x.Members {
			members[i] = map[string]any{"name": m.MemberName(), "value": fmt.Sprint(m.MemberValue())}
		}
		return map[string]any{"variant": "enum", "name": x.Name, "members": members}
	}
	return map[string]any{"variant": "unknown", "text": d.String()}
}

func canonicalAll(ds []Descriptor) []any {
	out := make([]any, len(ds))
	for i, d := range ds {
		out[i] = canonicalForm(d)
	}
	return out
}
