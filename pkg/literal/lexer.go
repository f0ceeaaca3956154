package literal

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokInt
	tokFloat
	tokString
	tokBytes
	tokName
	tokOp
	tokComma
	tokColon
	tokDot
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokLBrace
	tokRBrace
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokString, tokBytes:
		return "string literal"
	}
	return strconv.Quote(t.text)
}

type lexer struct {
	src   string
	pos   int
	depth int
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

func (l *lexer) errorf(pos int, format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d", ErrSyntax, fmt.Sprintf(format, args...), pos)
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) {
		r, w := utf8.DecodeRuneInString(l.src[l.pos:])
		if !unicode.IsSpace(r) {
			break
		}
		// Line breaks are only allowed inside brackets.
		if (r == '\n' || r == '\r') && l.depth == 0 {
			return token{}, l.errorf(l.pos, "unexpected line break")
		}
		l.pos += w
	}
	start := l.pos
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: start}, nil
	}

	c := l.src[l.pos]
	switch c {
	case ',':
		l.pos++
		return token{kind: tokComma, text: ",", pos: start}, nil
	case ':':
		l.pos++
		return token{kind: tokColon, text: ":", pos: start}, nil
	case '(':
		l.pos++
		l.depth++
		return token{kind: tokLParen, text: "(", pos: start}, nil
	case ')':
		l.pos++
		l.depth--
		return token{kind: tokRParen, text: ")", pos: start}, nil
	case '[':
		l.pos++
		l.depth++
		return token{kind: tokLBracket, text: "[", pos: start}, nil
	case ']':
		l.pos++
		l.depth--
		return token{kind: tokRBracket, text: "]", pos: start}, nil
	case '{':
		l.pos++
		l.depth++
		return token{kind: tokLBrace, text: "{", pos: start}, nil
	case '}':
		l.pos++
		l.depth--
		return token{kind: tokRBrace, text: "}", pos: start}, nil
	case '\'', '"':
		return l.str(start, "")
	case '.':
		if l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]) {
			return l.number(start)
		}
		l.pos++
		return token{kind: tokDot, text: ".", pos: start}, nil
	case '+', '-', '*', '/', '%', '@', '&', '|', '^', '~', '<', '>', '=', '!':
		return l.operator(start)
	}
	if isDigit(c) {
		return l.number(start)
	}

	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	if r == '_' || unicode.IsLetter(r) {
		return l.name(start)
	}
	return token{}, l.errorf(start, "invalid character %q", r)
}

func (l *lexer) operator(start int) (token, error) {
	for _, op := range []string{"**", "//", "<<", ">>", "<=", ">=", "==", "!="} {
		if strings.HasPrefix(l.src[l.pos:], op) {
			l.pos += len(op)
			return token{kind: tokOp, text: op, pos: start}, nil
		}
	}
	c := l.src[l.pos]
	if c == '=' || c == '!' {
		return token{}, l.errorf(start, "invalid syntax near %q", c)
	}
	l.pos++
	return token{kind: tokOp, text: string(c), pos: start}, nil
}

func (l *lexer) name(start int) (token, error) {
	for l.pos < len(l.src) {
		r, w := utf8.DecodeRuneInString(l.src[l.pos:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.pos += w
	}
	word := l.src[start:l.pos]
	if l.pos < len(l.src) && (l.src[l.pos] == '\'' || l.src[l.pos] == '"') {
		switch strings.ToLower(word) {
		case "r", "u", "b", "br", "rb", "f", "fr", "rf":
			return l.str(start, strings.ToLower(word))
		}
	}
	return token{kind: tokName, text: word, pos: start}, nil
}

func (l *lexer) number(start int) (token, error) {
	src := l.src
	kind := tokInt
	if src[l.pos] == '0' && l.pos+1 < len(src) && strings.ContainsRune("xXoObB", rune(src[l.pos+1])) {
		l.pos += 2
		for l.pos < len(src) && (isHexDigit(src[l.pos]) || src[l.pos] == '_') {
			l.pos++
		}
		return l.numberEnd(start, kind)
	}
	for l.pos < len(src) && (isDigit(src[l.pos]) || src[l.pos] == '_') {
		l.pos++
	}
	if l.pos < len(src) && src[l.pos] == '.' {
		kind = tokFloat
		l.pos++
		for l.pos < len(src) && (isDigit(src[l.pos]) || src[l.pos] == '_') {
			l.pos++
		}
	}
	if l.pos < len(src) && (src[l.pos] == 'e' || src[l.pos] == 'E') {
		kind = tokFloat
		l.pos++
		if l.pos < len(src) && (src[l.pos] == '+' || src[l.pos] == '-') {
			l.pos++
		}
		if l.pos >= len(src) || !isDigit(src[l.pos]) {
			return token{}, l.errorf(start, "invalid decimal literal")
		}
		for l.pos < len(src) && isDigit(src[l.pos]) {
			l.pos++
		}
	}
	return l.numberEnd(start, kind)
}

// numberEnd rejects numbers glued to identifiers, such as "1abc" or "1j".
func (l *lexer) numberEnd(start int, kind tokenKind) (token, error) {
	if l.pos < len(l.src) {
		r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
		if r == '_' || unicode.IsLetter(r) {
			return token{}, l.errorf(start, "invalid decimal literal")
		}
	}
	return token{kind: kind, text: l.src[start:l.pos], pos: start}, nil
}

func (l *lexer) str(start int, prefix string) (token, error) {
	raw := strings.Contains(prefix, "r")
	kind := tokString
	if strings.Contains(prefix, "b") {
		kind = tokBytes
	}
	l.pos = start + len(prefix)
	quote := l.src[l.pos : l.pos+1]
	if strings.HasPrefix(l.src[l.pos:], strings.Repeat(quote, 3)) {
		quote = strings.Repeat(quote, 3)
	}
	l.pos += len(quote)

	var sb strings.Builder
	for {
		if l.pos >= len(l.src) {
			return token{}, l.errorf(start, "unterminated string literal")
		}
		if strings.HasPrefix(l.src[l.pos:], quote) {
			l.pos += len(quote)
			break
		}
		c := l.src[l.pos]
		if (c == '\n' || c == '\r') && len(quote) == 1 {
			return token{}, l.errorf(start, "unterminated string literal")
		}
		if c != '\\' {
			r, w := utf8.DecodeRuneInString(l.src[l.pos:])
			if kind == tokBytes && r >= utf8.RuneSelf {
				return token{}, l.errorf(l.pos, "bytes can only contain ASCII literal characters")
			}
			sb.WriteString(l.src[l.pos : l.pos+w])
			l.pos += w
			continue
		}
		if l.pos+1 >= len(l.src) {
			return token{}, l.errorf(start, "unterminated string literal")
		}
		if raw {
			sb.WriteString(l.src[l.pos : l.pos+2])
			l.pos += 2
			continue
		}
		if err := l.escape(&sb, kind == tokBytes); err != nil {
			return token{}, err
		}
	}
	tok := token{kind: kind, text: sb.String(), pos: start}
	if strings.Contains(prefix, "f") {
		// Formatted strings are expressions, not literals; surface them as names
		// so the parser reports them as non-literal rather than as bad syntax.
		tok.kind = tokName
		tok.text = "f-string"
	}
	return tok, nil
}

func (l *lexer) escape(sb *strings.Builder, isBytes bool) error {
	at := l.pos
	l.pos++ // backslash
	c := l.src[l.pos]
	l.pos++
	switch c {
	case '\n':
	case '\\', '\'', '"':
		sb.WriteByte(c)
	case 'a':
		sb.WriteByte('\a')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case 'v':
		sb.WriteByte('\v')
	case '0', '1', '2', '3', '4', '5', '6', '7':
		end := l.pos
		for end < len(l.src) && end < l.pos+2 && l.src[end] >= '0' && l.src[end] <= '7' {
			end++
		}
		n, _ := strconv.ParseUint(l.src[l.pos-1:end], 8, 32)
		l.pos = end
		writeCode(sb, rune(n), isBytes)
	case 'x':
		return l.hexEscape(sb, at, 2, isBytes)
	case 'u', 'U':
		if isBytes {
			sb.WriteByte('\\')
			sb.WriteByte(c)
			return nil
		}
		width := 4
		if c == 'U' {
			width = 8
		}
		return l.hexEscape(sb, at, width, false)
	default:
		// Unknown escapes are kept verbatim.
		sb.WriteByte('\\')
		sb.WriteByte(c)
	}
	return nil
}

func (l *lexer) hexEscape(sb *strings.Builder, at, width int, isBytes bool) error {
	if l.pos+width > len(l.src) {
		return l.errorf(at, "truncated escape sequence")
	}
	n, err := strconv.ParseUint(l.src[l.pos:l.pos+width], 16, 32)
	if err != nil || n > unicode.MaxRune {
		return l.errorf(at, "invalid escape sequence")
	}
	l.pos += width
	writeCode(sb, rune(n), isBytes)
	return nil
}

func writeCode(sb *strings.Builder, r rune, isBytes bool) {
	if isBytes || r < utf8.RuneSelf {
		sb.WriteByte(byte(r))
		return
	}
	sb.WriteRune(r)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
