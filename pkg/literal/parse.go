// Package literal evaluates Python literal expressions ("[1, 2]", "(0, 1)",
// "{'a': 1}", "True", "None") into runtime values and renders runtime values
// back into the same textual forms.
//
// Parse distinguishes two failures. Text that is not valid expression syntax
// fails with ErrSyntax. Text that is a valid expression but not a literal, such
// as a bare name or a call, fails with ErrNotLiteral. Callers rely on the
// difference: a bare word is not a literal but still carries meaning.
package literal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/zacharyburnett/TypePigeon/pkg/value"
)

var (
	// ErrSyntax is returned for text that is not a valid expression.
	ErrSyntax = errors.New("literal: invalid syntax")
	// ErrNotLiteral is returned for valid expressions that are not literals.
	ErrNotLiteral = errors.New("literal: malformed node or string")
)

// Parse evaluates text as a literal expression. Lists become []any, tuples
// value.Tuple, dicts *value.Map, sets []any, bytes []byte, integers int and
// floats float64. A top-level comma-separated expression list is a tuple.
func Parse(text string) (any, error) {
	p := &parser{lex: newLexer(strings.TrimSpace(text))}
	if err := p.advance(); err != nil {
		return nil, err
	}
	v, err := p.exprList(tokEOF)
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.syntaxErr("unexpected %s", p.tok)
	}
	if p.nonLiteral != "" {
		return nil, fmt.Errorf("%w: %s", ErrNotLiteral, p.nonLiteral)
	}
	return v, nil
}

type parser struct {
	lex *lexer
	tok token

	// nonLiteral records the first valid but non-literal node; parsing
	// continues so that later syntax errors still win.
	nonLiteral string
	depth      int
}

// maxNesting bounds bracket and unary operator nesting.
const maxNesting = 200

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) syntaxErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d", ErrSyntax, fmt.Sprintf(format, args...), p.tok.pos)
}

func (p *parser) markNonLiteral(desc string) {
	if p.nonLiteral == "" {
		p.nonLiteral = desc
	}
}

// exprList parses "a, b, c" up to the closing token. A single expression
// without a trailing comma is returned as itself; anything else is a tuple.
func (p *parser) exprList(closer tokenKind) (any, error) {
	if p.tok.kind == closer {
		return nil, p.syntaxErr("unexpected %s", p.tok)
	}
	first, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokComma {
		return first, nil
	}
	items := value.Tuple{first}
	for p.tok.kind == tokComma {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind == closer {
			break
		}
		item, err := p.expr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// expr parses a unary/binary arithmetic chain. Only a lone operand is a
// literal; arithmetic is valid syntax but not a literal.
func (p *parser) expr() (any, error) {
	v, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOp {
		op := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.unary(); err != nil {
			return nil, err
		}
		p.markNonLiteral("binary operator " + op)
	}
	return v, nil
}

func (p *parser) unary() (any, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxNesting {
		return nil, p.syntaxErr("too many nested parentheses")
	}
	if p.tok.kind == tokOp && (p.tok.text == "-" || p.tok.text == "+") {
		neg := p.tok.text == "-"
		if err := p.advance(); err != nil {
			return nil, err
		}
		v, err := p.unary()
		if err != nil {
			return nil, err
		}
		switch n := v.(type) {
		case int:
			if neg {
				return -n, nil
			}
			return n, nil
		case float64:
			if neg {
				return -n, nil
			}
			return n, nil
		default:
			p.markNonLiteral("unary operator on non-number")
			return v, nil
		}
	}
	return p.primary()
}

func (p *parser) primary() (any, error) {
	t := p.tok
	switch t.kind {
	case tokInt:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return parseInt(t, p)
	case tokFloat:
		if err := p.advance(); err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(t.text, "_", ""), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, p.syntaxErr("invalid float %q", t.text)
		}
		return f, nil
	case tokString:
		return p.strings(false)
	case tokBytes:
		return p.strings(true)
	case tokName:
		return p.name()
	case tokLBracket:
		return p.list()
	case tokLParen:
		return p.tuple()
	case tokLBrace:
		return p.dictOrSet()
	}
	return nil, p.syntaxErr("unexpected %s", t)
}

func parseInt(t token, p *parser) (any, error) {
	text := strings.ReplaceAll(t.text, "_", "")
	base := 10
	switch {
	case strings.HasPrefix(text, "0x"), strings.HasPrefix(text, "0X"):
		base, text = 16, text[2:]
	case strings.HasPrefix(text, "0o"), strings.HasPrefix(text, "0O"):
		base, text = 8, text[2:]
	case strings.HasPrefix(text, "0b"), strings.HasPrefix(text, "0B"):
		base, text = 2, text[2:]
	case len(text) > 1 && text[0] == '0' && strings.Trim(text, "0") != "":
		return nil, fmt.Errorf("%w: leading zeros in decimal integer literals are not permitted at offset %d", ErrSyntax, t.pos)
	}
	n, err := strconv.ParseInt(text, base, strconv.IntSize)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return nil, fmt.Errorf("%w: integer %s out of range", ErrSyntax, t.text)
		}
		return nil, fmt.Errorf("%w: invalid integer %q at offset %d", ErrSyntax, t.text, t.pos)
	}
	return int(n), nil
}

// strings concatenates adjacent string (or bytes) literals, as Python does.
func (p *parser) strings(isBytes bool) (any, error) {
	var sb strings.Builder
	for p.tok.kind == tokString || p.tok.kind == tokBytes {
		if (p.tok.kind == tokBytes) != isBytes {
			return nil, p.syntaxErr("cannot mix bytes and nonbytes literals")
		}
		sb.WriteString(p.tok.text)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if isBytes {
		return []byte(sb.String()), nil
	}
	return sb.String(), nil
}

func (p *parser) name() (any, error) {
	n := p.tok.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	var v any
	switch n {
	case "True":
		v = true
	case "False":
		v = false
	case "None":
		v = nil
	default:
		p.markNonLiteral("name " + n)
	}
	// Trailers (attribute access, calls, subscripts) parse but are never literal.
	for {
		switch p.tok.kind {
		case tokDot:
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.kind != tokName {
				return nil, p.syntaxErr("expected attribute name")
			}
			p.markNonLiteral("attribute " + p.tok.text)
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokLParen:
			if _, err := p.tuple(); err != nil {
				return nil, err
			}
			p.markNonLiteral("call " + n)
		case tokLBracket:
			if _, err := p.list(); err != nil {
				return nil, err
			}
			p.markNonLiteral("subscript " + n)
		default:
			return v, nil
		}
	}
}

func (p *parser) list() (any, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	items := []any{}
	for p.tok.kind != tokRBracket {
		item, err := p.expr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.tok.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		if p.tok.kind != tokRBracket {
			return nil, p.syntaxErr("expected ',' or ']' but found %s", p.tok)
		}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return items, nil
}

func (p *parser) tuple() (any, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.kind == tokRParen {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return value.Tuple{}, nil
	}
	v, err := p.exprList(tokRParen)
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokRParen {
		return nil, p.syntaxErr("expected ')' but found %s", p.tok)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return v, nil
}

func (p *parser) dictOrSet() (any, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.kind == tokRBrace {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return value.NewMap(), nil
	}
	first, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokColon {
		return p.setFrom(first)
	}

	m := value.NewMap()
	key := first
	for {
		if p.tok.kind != tokColon {
			return nil, p.syntaxErr("expected ':' but found %s", p.tok)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		val, err := p.expr()
		if err != nil {
			return nil, err
		}
		if !value.IsHashable(key) {
			p.markNonLiteral(fmt.Sprintf("unhashable key %T", key))
		} else {
			m.Set(key, val)
		}
		if p.tok.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if p.tok.kind == tokRBrace {
			break
		}
		if key, err = p.expr(); err != nil {
			return nil, err
		}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return m, nil
}

func (p *parser) setFrom(first any) (any, error) {
	items := []any{first}
	for p.tok.kind == tokComma {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind == tokRBrace {
			break
		}
		item, err := p.expr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if p.tok.kind != tokRBrace {
		return nil, p.syntaxErr("expected ',' or '}' but found %s", p.tok)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return dedupe(items), nil
}

func dedupe(items []any) []any {
	out := items[:0]
	seen := make(map[any]bool, len(items))
	for _, it := range items {
		if value.IsHashable(it) {
			if seen[it] {
				continue
			}
			seen[it] = true
		}
		out = append(out, it)
	}
	return out
}
