package nodes

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF = tokenKind(iota)
	tokNumber
	tokIdent
	tokString
	tokSym // punctuation and operators
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// twoCharSyms are matched before single characters.
var twoCharSyms = []string{"==", "!=", "~=", "<=", ">=", "&&", "||"}

type lexer struct {
	src  string
	pos  int
	toks []token
}

func lex(src string) ([]token, error) {
	l := &lexer{src: src}
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.pos++
		case c >= '0' && c <= '9', c == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]):
			l.number()
		case isIdentStart(rune(c)):
			l.ident()
		case c == '"':
			if err := l.str(); err != nil {
				return nil, err
			}
		default:
			if err := l.sym(); err != nil {
				return nil, err
			}
		}
	}
	l.toks = append(l.toks, token{kind: tokEOF, pos: l.pos})
	return l.toks, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c rune) bool {
	return c == '_' || c == '$' || unicode.IsLetter(c)
}

func isIdentPart(c byte) bool {
	return c == '_' || c == '$' || c == '.' || isDigit(c) || unicode.IsLetter(rune(c))
}

func (l *lexer) number() {
	start := l.pos
	for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '.') {
		l.pos++
	}
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		p := l.pos + 1
		if p < len(l.src) && (l.src[p] == '+' || l.src[p] == '-') {
			p++
		}
		if p < len(l.src) && isDigit(l.src[p]) {
			l.pos = p
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
		}
	}
	l.toks = append(l.toks, token{kind: tokNumber, text: l.src[start:l.pos], pos: start})
}

func (l *lexer) ident() {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	l.toks = append(l.toks, token{kind: tokIdent, text: l.src[start:l.pos], pos: start})
}

func (l *lexer) str() error {
	start := l.pos
	l.pos++ // opening quote
	var sb strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch c {
		case '"':
			l.pos++
			l.toks = append(l.toks, token{kind: tokString, text: sb.String(), pos: start})
			return nil
		case '\\':
			l.pos++
			if l.pos >= len(l.src) {
				return fmt.Errorf("unterminated escape at %d", start)
			}
			switch l.src[l.pos] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '"', '\\':
				sb.WriteByte(l.src[l.pos])
			default:
				return fmt.Errorf("bad escape %q at %d", l.src[l.pos], l.pos)
			}
			l.pos++
		default:
			sb.WriteByte(c)
			l.pos++
		}
	}
	return fmt.Errorf("unterminated string at %d", start)
}

func (l *lexer) sym() error {
	rest := l.src[l.pos:]
	for _, s := range twoCharSyms {
		if strings.HasPrefix(rest, s) {
			l.toks = append(l.toks, token{kind: tokSym, text: s, pos: l.pos})
			l.pos += len(s)
			return nil
		}
	}
	switch c := l.src[l.pos]; c {
	case '+', '-', '*', '/', '^', '%', '<', '>', '!', '(', ')', '[', ']', '{', '}', ',', ':':
		l.toks = append(l.toks, token{kind: tokSym, text: string(c), pos: l.pos})
		l.pos++
		return nil
	default:
		return fmt.Errorf("unexpected character %q at %d", c, l.pos)
	}
}
