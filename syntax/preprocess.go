package syntax

import (
	"strings"
)

// condFrame is one open #if group
type condFrame struct {
	pos          Position // where the #if starts, for unterminated-group errors
	parentActive bool     // whether the enclosing region is compiled
	taken        bool     // whether some branch of this group has been selected
	active       bool     // whether the current branch is compiled
	sawElse      bool
}

// active reports whether text at the current position is compiled
func (lx *lexer) active() bool {
	if len(lx.conds) == 0 {
		return true
	}
	return lx.conds[len(lx.conds)-1].active
}

// skipInactiveLine consumes one line of a disabled region. Only directives are
// recognized there; everything else is opaque text.
func (lx *lexer) skipInactiveLine() error {
	i := lx.pos
	for i < len(lx.src) && (lx.src[i] == ' ' || lx.src[i] == '\t' || lx.src[i] == '\r' || lx.src[i] == '\f' || lx.src[i] == '\v') {
		i++
	}
	if i < len(lx.src) && lx.src[i] == '#' {
		lx.pos = i
		return lx.directive()
	}
	lx.skipLine()
	return nil
}

// directive consumes a preprocessor line starting at lx.pos and updates the
// conditional compilation state. Directives other than #if, #elif, #else, #endif,
// #define and #undef are ignored.
func (lx *lexer) directive() error {
	start := lx.pos
	line := lx.src[start:]
	if nl := strings.IndexByte(line, '\n'); nl >= 0 {
		line = line[:nl]
	}
	lx.skipLine()

	text := strings.TrimSpace(line[1:])
	if i := strings.Index(text, "//"); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	n := 0
	for n < len(text) && text[n] >= 'a' && text[n] <= 'z' {
		n++
	}
	name, rest := text[:n], strings.TrimSpace(text[n:])

	switch name {
	case "if":
		frame := condFrame{pos: lx.tracker.at(start), parentActive: lx.active()}
		if frame.parentActive {
			cond, err := lx.evalCondition(rest, start)
			if err != nil {
				return err
			}
			frame.taken, frame.active = cond, cond
		}
		lx.conds = append(lx.conds, frame)

	case "elif":
		top, err := lx.openGroup("#elif", start)
		if err != nil {
			return err
		}
		if top.sawElse {
			return lx.errorf(start, "#elif after #else")
		}
		top.active = false
		if top.parentActive && !top.taken {
			cond, err := lx.evalCondition(rest, start)
			if err != nil {
				return err
			}
			top.taken, top.active = cond, cond
		}

	case "else":
		top, err := lx.openGroup("#else", start)
		if err != nil {
			return err
		}
		if top.sawElse {
			return lx.errorf(start, "duplicate #else")
		}
		top.sawElse = true
		top.active = top.parentActive && !top.taken
		top.taken = true

	case "endif":
		if _, err := lx.openGroup("#endif", start); err != nil {
			return err
		}
		lx.conds = lx.conds[:len(lx.conds)-1]

	case "define", "undef":
		if !lx.active() {
			return nil
		}
		if !isSymbol(rest) {
			return lx.errorf(start, "expected symbol name after #"+name)
		}
		if lx.defines == nil {
			lx.defines = make(map[string]bool)
		}
		lx.defines[rest] = name == "define"
	}
	return nil
}

func (lx *lexer) openGroup(directive string, offset int) (*condFrame, error) {
	if len(lx.conds) == 0 {
		return nil, lx.errorf(offset, directive+" without matching #if")
	}
	return &lx.conds[len(lx.conds)-1], nil
}

// checkConditionsClosed reports an #if group still open at end of file
func (lx *lexer) checkConditionsClosed() error {
	if len(lx.conds) == 0 {
		return nil
	}
	return &ParseError{Pos: lx.conds[len(lx.conds)-1].pos, Message: "expected #endif before end of file"}
}

func isSymbol(s string) bool {
	if s == "" || s == "true" || s == "false" {
		return false
	}
	for i, r := range s {
		if !isIdentPart(r) || (i == 0 && !isIdentStart(r)) {
			return false
		}
	}
	return true
}

// evalCondition evaluates a preprocessor expression. Undefined symbols are false.
func (lx *lexer) evalCondition(expr string, offset int) (bool, error) {
	ev := &condEval{defines: lx.defines, toks: splitCondition(expr)}
	v, ok := ev.or()
	if !ok || ev.i != len(ev.toks) {
		return false, lx.errorf(offset, "invalid preprocessor expression "+quote(expr))
	}
	return v, nil
}

func quote(s string) string {
	return "\"" + s + "\""
}

func splitCondition(expr string) []string {
	var toks []string
	for i := 0; i < len(expr); {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case strings.HasPrefix(expr[i:], "&&"), strings.HasPrefix(expr[i:], "||"),
			strings.HasPrefix(expr[i:], "=="), strings.HasPrefix(expr[i:], "!="):
			toks = append(toks, expr[i:i+2])
			i += 2
		case c == '!' || c == '(' || c == ')':
			toks = append(toks, expr[i:i+1])
			i++
		default:
			j := i
			for j < len(expr) && strings.IndexByte(" \t\r!()&|=", expr[j]) < 0 {
				j++
			}
			if j == i {
				// a lone '&', '|' or '='
				j++
			}
			toks = append(toks, expr[i:j])
			i = j
		}
	}
	return toks
}

// condEval is a recursive-descent evaluator over
//
//	or    = and { "||" and }
//	and   = eq { "&&" eq }
//	eq    = unary { ("==" | "!=") unary }
//	unary = "!" unary | "(" or ")" | "true" | "false" | symbol
type condEval struct {
	defines map[string]bool
	toks    []string
	i       int
}

func (e *condEval) peek() string {
	if e.i < len(e.toks) {
		return e.toks[e.i]
	}
	return ""
}

func (e *condEval) or() (bool, bool) {
	v, ok := e.and()
	for ok && e.peek() == "||" {
		e.i++
		var r bool
		r, ok = e.and()
		v = v || r
	}
	return v, ok
}

func (e *condEval) and() (bool, bool) {
	v, ok := e.eq()
	for ok && e.peek() == "&&" {
		e.i++
		var r bool
		r, ok = e.eq()
		v = v && r
	}
	return v, ok
}

func (e *condEval) eq() (bool, bool) {
	v, ok := e.unary()
	for ok && (e.peek() == "==" || e.peek() == "!=") {
		op := e.peek()
		e.i++
		var r bool
		r, ok = e.unary()
		if op == "==" {
			v = v == r
		} else {
			v = v != r
		}
	}
	return v, ok
}

func (e *condEval) unary() (bool, bool) {
	tok := e.peek()
	e.i++
	switch {
	case tok == "!":
		v, ok := e.unary()
		return !v, ok
	case tok == "(":
		v, ok := e.or()
		if !ok || e.peek() != ")" {
			return false, false
		}
		e.i++
		return v, true
	case tok == "true":
		return true, true
	case tok == "false":
		return false, true
	case isSymbol(tok):
		return e.defines[tok], true
	}
	return false, false
}
