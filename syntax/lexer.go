package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenKind classifies lexed tokens
type TokenKind int

const (
	TokenEOF    TokenKind = iota
	TokenIdent            // identifiers and keywords, including @-verbatim identifiers
	TokenPunct            // punctuation; "::" is the only multi-character form
	TokenString           // any string literal form
	TokenChar             // character literal
	TokenNumber           // numeric literal
)

// Token is a lexed unit of C# source. Trivia (whitespace, comments, directives) is dropped.
type Token struct {
	Kind TokenKind
	Text string
	Pos  Position
}

// Is reports whether the token is the punctuation or identifier text s
func (t Token) Is(s string) bool {
	return (t.Kind == TokenPunct || t.Kind == TokenIdent) && t.Text == s
}

const byteOrderMark = "\uFEFF"

type lexer struct {
	src     string
	pos     int
	tracker *positionTracker
	tokens  []Token

	defines map[string]bool // conditional compilation symbols
	conds   []condFrame     // open #if groups, innermost last
}

// Tokenize splits C# source into tokens with no conditional compilation symbols defined
func Tokenize(src string) ([]Token, error) {
	return TokenizeWith(src, nil)
}

// TokenizeWith splits C# source into tokens. It understands enough of the lexical grammar
// to skip comments and every string literal form without mistaking their contents for
// declarations. Regions disabled by #if, #elif and #else are dropped; defines lists the
// symbols that are true, and #define and #undef in the source adjust that set.
func TokenizeWith(src string, defines []string) ([]Token, error) {
	lx := &lexer{src: src, tracker: newPositionTracker(src)}
	for _, d := range defines {
		if lx.defines == nil {
			lx.defines = make(map[string]bool, len(defines))
		}
		lx.defines[d] = true
	}
	if err := lx.run(); err != nil {
		return nil, err
	}
	if err := lx.checkConditionsClosed(); err != nil {
		return nil, err
	}
	lx.tokens = append(lx.tokens, Token{Kind: TokenEOF, Pos: lx.tracker.at(len(src))})
	return lx.tokens, nil
}

func (lx *lexer) run() error {
	for lx.pos < len(lx.src) {
		if !lx.active() {
			if err := lx.skipInactiveLine(); err != nil {
				return err
			}
			continue
		}

		c := lx.src[lx.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == '\v':
			lx.pos++
		case strings.HasPrefix(lx.src[lx.pos:], byteOrderMark):
			lx.pos += len(byteOrderMark)
		case strings.HasPrefix(lx.src[lx.pos:], "//"):
			lx.skipLine()
		case strings.HasPrefix(lx.src[lx.pos:], "/*"):
			end := strings.Index(lx.src[lx.pos+2:], "*/")
			if end < 0 {
				return lx.errorf(lx.pos, "unterminated block comment")
			}
			lx.pos += 2 + end + 2
		case c == '#' && lx.atLineStart():
			if err := lx.directive(); err != nil {
				return err
			}
		case lx.stringStart() > 0:
			start := lx.pos
			if err := lx.lexString(); err != nil {
				return err
			}
			lx.emit(TokenString, start)
		case c == '\'':
			start := lx.pos
			if err := lx.lexChar(); err != nil {
				return err
			}
			lx.emit(TokenChar, start)
		case c >= '0' && c <= '9':
			start := lx.pos
			lx.lexNumber()
			lx.emit(TokenNumber, start)
		case c == '@' && lx.pos+1 < len(lx.src) && isIdentStart(lx.runeAt(lx.pos+1)):
			start := lx.pos
			lx.pos++
			lx.lexIdent()
			lx.emit(TokenIdent, start)
		case isIdentStart(lx.runeAt(lx.pos)):
			start := lx.pos
			lx.lexIdent()
			lx.emit(TokenIdent, start)
		case strings.HasPrefix(lx.src[lx.pos:], "::"):
			start := lx.pos
			lx.pos += 2
			lx.emit(TokenPunct, start)
		default:
			start := lx.pos
			_, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
			lx.pos += size
			lx.emit(TokenPunct, start)
		}
	}
	return nil
}

func (lx *lexer) emit(kind TokenKind, start int) {
	lx.tokens = append(lx.tokens, Token{
		Kind: kind,
		Text: lx.src[start:lx.pos],
		Pos:  lx.tracker.at(start),
	})
}

func (lx *lexer) errorf(offset int, msg string) error {
	return &ParseError{Pos: lx.tracker.at(offset), Message: msg}
}

func (lx *lexer) runeAt(i int) rune {
	r, _ := utf8.DecodeRuneInString(lx.src[i:])
	return r
}

func (lx *lexer) skipLine() {
	if nl := strings.IndexByte(lx.src[lx.pos:], '\n'); nl >= 0 {
		lx.pos += nl + 1
		return
	}
	lx.pos = len(lx.src)
}

// atLineStart reports whether only whitespace precedes pos on its line
func (lx *lexer) atLineStart() bool {
	for i := lx.pos - 1; i >= 0; i-- {
		switch lx.src[i] {
		case '\n':
			return true
		case ' ', '\t', '\r':
			continue
		default:
			return false
		}
	}
	return true
}

func (lx *lexer) lexIdent() {
	for lx.pos < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if !isIdentPart(r) {
			return
		}
		lx.pos += size
	}
}

func (lx *lexer) lexNumber() {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
			lx.pos++
		case c == '.' && lx.pos+1 < len(lx.src) && lx.src[lx.pos+1] >= '0' && lx.src[lx.pos+1] <= '9':
			lx.pos++
		default:
			return
		}
	}
}

func (lx *lexer) lexChar() error {
	start := lx.pos
	lx.pos++ // opening quote
	for lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case '\\':
			lx.pos += 2
		case '\'':
			lx.pos++
			return nil
		case '\n':
			return lx.errorf(start, "unterminated character literal")
		default:
			lx.pos++
		}
	}
	return lx.errorf(start, "unterminated character literal")
}

// stringStart returns the length of the prefix ($, @ and quotes) when a string literal
// begins at pos, or 0 when it does not
func (lx *lexer) stringStart() int {
	i := lx.pos
	for i < len(lx.src) && (lx.src[i] == '$' || lx.src[i] == '@') {
		i++
	}
	if i < len(lx.src) && lx.src[i] == '"' {
		prefix := lx.src[lx.pos:i]
		if strings.Count(prefix, "@") > 1 {
			return 0
		}
		return i - lx.pos + 1
	}
	return 0
}

// lexString consumes any string literal form starting at pos
func (lx *lexer) lexString() error {
	start := lx.pos
	dollars, verbatim := 0, false
	for lx.src[lx.pos] != '"' {
		if lx.src[lx.pos] == '$' {
			dollars++
		} else {
			verbatim = true
		}
		lx.pos++
	}

	quotes := 0
	for lx.pos+quotes < len(lx.src) && lx.src[lx.pos+quotes] == '"' {
		quotes++
	}

	switch {
	case quotes >= 3 && !verbatim:
		// Raw string literal: content ends at the next run of the same number of quotes
		closing := strings.Repeat(`"`, quotes)
		end := strings.Index(lx.src[lx.pos+quotes:], closing)
		if end < 0 {
			return lx.errorf(start, "unterminated raw string literal")
		}
		lx.pos += quotes + end + quotes
		// Longer closing runs belong to the literal content
		for lx.pos < len(lx.src) && lx.src[lx.pos] == '"' {
			lx.pos++
		}
		return nil
	case quotes == 2:
		// Empty literal
		lx.pos += 2
		return nil
	}

	lx.pos++ // opening quote
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == '"':
			if verbatim && lx.pos+1 < len(lx.src) && lx.src[lx.pos+1] == '"' {
				lx.pos += 2
				continue
			}
			lx.pos++
			return nil
		case c == '\\' && !verbatim:
			lx.pos += 2
		case c == '\n' && !verbatim:
			return lx.errorf(start, "unterminated string literal")
		case c == '{' && dollars > 0:
			if lx.pos+1 < len(lx.src) && lx.src[lx.pos+1] == '{' {
				lx.pos += 2
				continue
			}
			if err := lx.skipInterpolation(); err != nil {
				return err
			}
		default:
			lx.pos++
		}
	}
	return lx.errorf(start, "unterminated string literal")
}

// skipInterpolation consumes an interpolation hole {expr}, including nested literals
func (lx *lexer) skipInterpolation() error {
	start := lx.pos
	depth := 0
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == '{':
			depth++
			lx.pos++
		case c == '}':
			depth--
			lx.pos++
			if depth == 0 {
				return nil
			}
		case c == '\'':
			if err := lx.lexChar(); err != nil {
				return err
			}
		case lx.stringStart() > 0:
			if err := lx.lexString(); err != nil {
				return err
			}
		default:
			lx.pos++
		}
	}
	return lx.errorf(start, "unterminated interpolation")
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) ||
		unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) || unicode.Is(unicode.Pc, r)
}
