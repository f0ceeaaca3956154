package descriptor

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Origin is the generic container an Annotation parametrizes.
type Origin int

const (
	OriginList Origin = iota + 1
	OriginTuple
	OriginDict
	OriginUnion
	OriginOptional
)

func (o Origin) String() string {
	switch o {
	case OriginList:
		return "List"
	case OriginTuple:
		return "Tuple"
	case OriginDict:
		return "Dict"
	case OriginUnion:
		return "Union"
	case OriginOptional:
		return "Optional"
	default:
		return "Unknown"
	}
}

// Annotation is a parametrized generic annotation such as List[str] or
// Dict[str, float]. Args hold any authoring form Normalize accepts.
type Annotation struct {
	Origin Origin
	Args   []any
}

func (a Annotation) String() string {
	if len(a.Args) == 0 {
		return a.Origin.String()
	}
	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		parts[i] = inputString(arg)
	}
	return a.Origin.String() + "[" + strings.Join(parts, ", ") + "]"
}

// origins maps generic container names in annotation text to their origin.
var origins = map[string]Origin{
	"List":            OriginList,
	"list":            OriginList,
	"typing.List":     OriginList,
	"Sequence":        OriginList,
	"typing.Sequence": OriginList,
	"Iterable":        OriginList,
	"Tuple":           OriginTuple,
	"tuple":           OriginTuple,
	"typing.Tuple":    OriginTuple,
	"Dict":            OriginDict,
	"dict":            OriginDict,
	"typing.Dict":     OriginDict,
	"Mapping":         OriginDict,
	"typing.Mapping":  OriginDict,
	"Union":           OriginUnion,
	"typing.Union":    OriginUnion,
	"Optional":        OriginOptional,
	"typing.Optional": OriginOptional,
}

type annTokKind int

const (
	annEOF annTokKind = iota
	annName
	annEllipsis
	annPunct
)

type annTok struct {
	kind annTokKind
	text string
	pos  int
}

// textParser reads annotation text: names, subscripted generics, list, tuple
// and dict literals of descriptors, and "|" alternations.
type textParser struct {
	n     *Normalizer
	src   string
	pos   int
	tok   annTok
	depth int
}

func (n *Normalizer) parseText(text string, depth int) (Descriptor, error) {
	p := &textParser{n: n, src: text, depth: depth}
	if err := p.advance(); err != nil {
		return nil, err
	}
	d, ellipsis, err := p.union()
	if err != nil {
		return nil, err
	}
	if ellipsis {
		return nil, p.errorf("'...' outside a tuple")
	}
	if p.tok.kind != annEOF {
		return nil, p.errorf("unexpected %q", p.tok.text)
	}
	return d, nil
}

func (p *textParser) errorf(format string, args ...any) error {
	return newError(p.src, ErrMalformedDescriptor, "%s at offset %d", fmt.Sprintf(format, args...), p.tok.pos)
}

func (p *textParser) advance() error {
	for p.pos < len(p.src) {
		r, w := utf8.DecodeRuneInString(p.src[p.pos:])
		if !unicode.IsSpace(r) {
			break
		}
		p.pos += w
	}
	start := p.pos
	if p.pos >= len(p.src) {
		p.tok = annTok{kind: annEOF, pos: start}
		return nil
	}
	if strings.HasPrefix(p.src[p.pos:], "...") {
		p.pos += 3
		p.tok = annTok{kind: annEllipsis, text: "...", pos: start}
		return nil
	}
	c := p.src[p.pos]
	if strings.IndexByte("[](){},:|", c) >= 0 {
		p.pos++
		p.tok = annTok{kind: annPunct, text: string(c), pos: start}
		return nil
	}
	for p.pos < len(p.src) {
		r, w := utf8.DecodeRuneInString(p.src[p.pos:])
		if r != '_' && r != '.' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		p.pos += w
	}
	if p.pos == start {
		return newError(p.src, ErrMalformedDescriptor, "invalid character %q at offset %d", c, start)
	}
	p.tok = annTok{kind: annName, text: p.src[start:p.pos], pos: start}
	return nil
}

func (p *textParser) punct(s string) bool {
	return p.tok.kind == annPunct && p.tok.text == s
}

func (p *textParser) expect(s string) error {
	if !p.punct(s) {
		if p.tok.kind == annEOF {
			return p.errorf("expected %q but found end of input", s)
		}
		return p.errorf("expected %q but found %q", s, p.tok.text)
	}
	return p.advance()
}

// union parses "a | b | c". Alternation parses but is unsupported.
func (p *textParser) union() (Descriptor, bool, error) {
	d, ellipsis, err := p.primary()
	if err != nil || !p.punct("|") {
		return d, ellipsis, err
	}
	for p.punct("|") {
		if err := p.advance(); err != nil {
			return nil, false, err
		}
		if _, _, err := p.primary(); err != nil {
			return nil, false, err
		}
	}
	return nil, false, newError(p.src, ErrUnsupportedDescriptor, "alternation of types")
}

func (p *textParser) primary() (Descriptor, bool, error) {
	if p.depth > p.n.maxDepth() {
		return nil, false, newError(p.src, ErrDescriptorDepth, "deeper than %d", p.n.maxDepth())
	}
	p.depth++
	defer func() { p.depth-- }()

	switch {
	case p.tok.kind == annEllipsis:
		return nil, true, p.advance()
	case p.tok.kind == annName:
		return p.named()
	case p.punct("["):
		if err := p.advance(); err != nil {
			return nil, false, err
		}
		args, err := p.args("]", false)
		if err != nil {
			return nil, false, err
		}
		return Sequence{Elems: args}, false, nil
	case p.punct("("):
		return p.tupleLiteral()
	case p.punct("{"):
		return p.dictLiteral()
	case p.tok.kind == annEOF:
		return nil, false, p.errorf("empty descriptor")
	}
	return nil, false, p.errorf("unexpected %q", p.tok.text)
}

func (p *textParser) named() (Descriptor, bool, error) {
	name := p.tok.text
	if err := p.advance(); err != nil {
		return nil, false, err
	}
	origin, generic := origins[name]

	if !p.punct("[") {
		// Bare lowercase builtins are scalar constructors; bare generics are
		// empty containers.
		if b, ok := builtinNames[name]; ok {
			return b, false, nil
		}
		if generic {
			d, err := fromOrigin(p.src, origin, nil)
			return d, false, err
		}
		if d, ok := p.n.registry().Lookup(name); ok {
			return d, false, nil
		}
		return nil, false, newError(name, ErrUnknownType, "")
	}

	if !generic {
		return nil, false, p.errorf("%s is not a generic type", name)
	}
	if err := p.advance(); err != nil {
		return nil, false, err
	}
	args, err := p.args("]", origin == OriginTuple)
	if err != nil {
		return nil, false, err
	}
	d, err := fromOrigin(p.src, origin, args)
	return d, false, err
}

// args parses a comma-separated descriptor list up to closer. In tuples a
// trailing "..." marks a homogeneous, variable-length tuple.
func (p *textParser) args(closer string, allowEllipsis bool) ([]Descriptor, error) {
	var out []Descriptor
	for !p.punct(closer) {
		d, ellipsis, err := p.union()
		if err != nil {
			return nil, err
		}
		if ellipsis {
			if !allowEllipsis || len(out) != 1 {
				return nil, p.errorf("'...' is only allowed as Tuple[T, ...]")
			}
		} else {
			out = append(out, d)
		}
		if p.punct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		if !p.punct(closer) {
			return nil, p.expect(closer)
		}
	}
	return out, p.advance()
}

func (p *textParser) tupleLiteral() (Descriptor, bool, error) {
	if err := p.advance(); err != nil {
		return nil, false, err
	}
	if p.punct(")") {
		return Tuple{}, false, p.advance()
	}
	first, ellipsis, err := p.union()
	if err != nil {
		return nil, false, err
	}
	if ellipsis {
		return nil, false, p.errorf("'...' outside a tuple")
	}
	if p.punct(")") {
		// Parentheses alone group; only a comma makes a tuple.
		return first, false, p.advance()
	}
	if err := p.expect(","); err != nil {
		return nil, false, err
	}
	rest, err := p.args(")", false)
	if err != nil {
		return nil, false, err
	}
	return Tuple{Elems: append([]Descriptor{first}, rest...)}, false, nil
}

func (p *textParser) dictLiteral() (Descriptor, bool, error) {
	if err := p.advance(); err != nil {
		return nil, false, err
	}
	if p.punct("}") {
		return Mapping{}, false, p.advance()
	}
	key, _, err := p.union()
	if err != nil {
		return nil, false, err
	}
	if err := p.expect(":"); err != nil {
		return nil, false, err
	}
	val, _, err := p.union()
	if err != nil {
		return nil, false, err
	}
	if key == nil || val == nil {
		return nil, false, p.errorf("'...' in a mapping")
	}
	if p.punct(",") {
		return nil, false, p.errorf("a mapping descriptor has exactly one entry")
	}
	if err := p.expect("}"); err != nil {
		return nil, false, err
	}
	return Mapping{Key: key, Value: val}, false, nil
}

// fromOrigin rebuilds a container descriptor from normalized arguments.
func fromOrigin(input any, origin Origin, args []Descriptor) (Descriptor, error) {
	switch origin {
	case OriginList:
		return Sequence{Elems: args}, nil
	case OriginTuple:
		return Tuple{Elems: args}, nil
	case OriginDict:
		switch len(args) {
		case 0:
			return Mapping{}, nil
		case 2:
			return Mapping{Key: args[0], Value: args[1]}, nil
		}
		return nil, newError(input, ErrMalformedDescriptor, "mapping takes 2 type arguments, got %d", len(args))
	case OriginUnion, OriginOptional:
		return nil, newError(input, ErrUnsupportedDescriptor, "alternation of types")
	}
	return nil, newError(input, ErrMalformedDescriptor, "unknown origin %d", int(origin))
}
