package syntax

import (
	"fmt"
	"strings"

	"github.com/JeremiahSanders/testingutils-xunit-extras/errors"
)

// modifiers that may precede a type keyword
var declarationModifiers = map[string]bool{
	"public": true, "private": true, "protected": true, "internal": true,
	"static": true, "abstract": true, "sealed": true, "partial": true,
	"unsafe": true, "new": true, "readonly": true, "ref": true, "file": true,
	"virtual": true, "override": true, "extern": true, "async": true,
	"volatile": true, "const": true, "required": true,
}

// attribute targets that never annotate a type declaration
var globalAttributeTargets = map[string]bool{
	"assembly": true,
	"module":   true,
}

type parser struct {
	path string
	toks []Token
	i    int
}

// Parse tokenizes and structures one C# compilation unit. Only the declaration skeleton is
// kept: usings, namespaces, type declarations and their attribute lists. Member bodies
// and top-level statements are skipped.
func Parse(path, src string) (*File, error) {
	return ParseWith(path, src, nil)
}

// ParseWith is Parse with the given conditional compilation symbols defined
func ParseWith(path, src string, defines []string) (*File, error) {
	toks, err := TokenizeWith(src, defines)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}

	p := &parser{path: path, toks: toks}
	f := &File{Path: path}
	if err := p.parseContainer(f, &f.Usings, &f.Members, false); err != nil {
		return nil, err
	}
	return f, nil
}

func (p *parser) peek() Token {
	return p.toks[p.i]
}

func (p *parser) peekAt(n int) Token {
	if p.i+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+n]
}

func (p *parser) next() Token {
	t := p.toks[p.i]
	if t.Kind != TokenEOF {
		p.i++
	}
	return t
}

func (p *parser) atEOF() bool {
	return p.peek().Kind == TokenEOF
}

func (p *parser) errorf(at Token, hint string, format string, args ...interface{}) error {
	return &ParseError{
		Path:    p.path,
		Pos:     at.Pos,
		Message: fmt.Sprintf(format, args...),
		Hint:    hint,
	}
}

func (p *parser) expect(text string) (Token, error) {
	t := p.peek()
	if !t.Is(text) {
		return t, p.errorf(t, "", "expected %q, found %s", text, describe(t))
	}
	return p.next(), nil
}

func describe(t Token) string {
	if t.Kind == TokenEOF {
		return "end of file"
	}
	return fmt.Sprintf("%q", t.Text)
}

// parseContainer reads the body of a compilation unit or namespace. When braced is true
// the body ends at a closing brace, which is left for the caller; otherwise at EOF.
func (p *parser) parseContainer(parent Node, usings *[]*Using, members *[]Node, braced bool) error {
	var pending []*AttributeList
	for {
		t := p.peek()
		switch {
		case t.Kind == TokenEOF:
			if braced {
				return p.errorf(t, "check for a missing closing brace", "expected \"}\", found end of file")
			}
			return nil

		case t.Is("}"):
			if braced {
				return nil
			}
			return p.errorf(t, "check for an extra closing brace", "unexpected \"}\"")

		case t.Is(";"):
			p.next()

		case t.Is("extern") && p.peekAt(1).Is("alias"):
			p.skipPast(";")

		case t.Is("global") && p.peekAt(1).Is("using"):
			p.next()
			if u, ok := p.tryUsing(parent, true); ok {
				*usings = append(*usings, u)
				continue
			}
			if err := p.skipMember(); err != nil {
				return err
			}

		case t.Is("using"):
			if u, ok := p.tryUsing(parent, false); ok {
				*usings = append(*usings, u)
				continue
			}
			if err := p.skipMember(); err != nil {
				return err
			}

		case t.Is("namespace"):
			ns, err := p.parseNamespace(parent)
			if err != nil {
				return err
			}
			*members = append(*members, ns)
			pending = nil
			if ns.FileScoped {
				// A file-scoped namespace owns the rest of the compilation unit
				return p.parseContainer(ns, &ns.Usings, &ns.Members, braced)
			}

		case t.Is("["):
			list, err := p.parseAttributeList()
			if err != nil {
				return err
			}
			if !globalAttributeTargets[list.Target] {
				pending = append(pending, list)
			}

		default:
			decl, err := p.tryTypeDecl(parent, pending)
			if err != nil {
				return err
			}
			pending = nil
			if decl != nil {
				*members = append(*members, decl)
				continue
			}
			if err := p.skipMember(); err != nil {
				return err
			}
		}
	}
}

func (p *parser) parseNamespace(parent Node) (*NamespaceDecl, error) {
	kw := p.next()
	name, err := p.qualifiedName()
	if err != nil {
		return nil, err
	}
	ns := &NamespaceDecl{node: node{parent: parent, pos: kw.Pos}, Name: name}

	switch t := p.peek(); {
	case t.Is(";"):
		p.next()
		ns.FileScoped = true
		return ns, nil
	case t.Is("{"):
		p.next()
		if err := p.parseContainer(ns, &ns.Usings, &ns.Members, true); err != nil {
			return nil, err
		}
		if _, err := p.expect("}"); err != nil {
			return nil, err
		}
		return ns, nil
	default:
		return nil, p.errorf(t, "", "expected \"{\" or \";\" after namespace %s, found %s", name, describe(t))
	}
}

// qualifiedName reads Ident(.Ident)*
func (p *parser) qualifiedName() (string, error) {
	var sb strings.Builder
	for {
		t := p.peek()
		if t.Kind != TokenIdent {
			return "", p.errorf(t, "", "expected identifier, found %s", describe(t))
		}
		sb.WriteString(p.next().Text)
		if !p.peek().Is(".") {
			return sb.String(), nil
		}
		sb.WriteString(p.next().Text)
	}
}

// tryUsing parses a using directive at the current "using" token. Using statements and
// declarations in top-level code are not directives; for those it restores the position
// and reports false.
func (p *parser) tryUsing(parent Node, global bool) (*Using, bool) {
	start := p.i
	kw := p.next()
	u := &Using{node: node{parent: parent, pos: kw.Pos}, Global: global}

	if p.peek().Is("static") {
		p.next()
		u.Static = true
	}

	if p.peek().Kind == TokenIdent && p.peekAt(1).Is("=") {
		u.Alias = p.next().Text
		p.next()
		var sb strings.Builder
		for !p.atEOF() && !p.peek().Is(";") {
			sb.WriteString(p.next().Text)
		}
		if p.atEOF() || sb.Len() == 0 {
			p.i = start
			return nil, false
		}
		p.next()
		u.Name = sb.String()
		return u, true
	}

	var sb strings.Builder
	prevIdent := false
	for {
		t := p.peek()
		switch {
		case t.Is(";") && sb.Len() > 0:
			p.next()
			u.Name = sb.String()
			return u, true
		case t.Kind == TokenIdent && !prevIdent:
			prevIdent = true
		case t.Is(".") || t.Is("::") || t.Is("<") || t.Is(">") || t.Is(","):
			prevIdent = false
		default:
			p.i = start
			return nil, false
		}
		sb.WriteString(p.next().Text)
	}
}

// parseAttributeList reads [target: Name(args), Name]
func (p *parser) parseAttributeList() (*AttributeList, error) {
	open := p.next()
	list := &AttributeList{node: node{pos: open.Pos}}

	if p.peek().Kind == TokenIdent && p.peekAt(1).Is(":") {
		list.Target = p.next().Text
		p.next()
	}

	for {
		t := p.peek()
		switch {
		case t.Is("]"):
			p.next()
			return list, nil
		case t.Is(","):
			p.next()
		case t.Kind == TokenIdent:
			attr := &Attribute{node: node{parent: list, pos: t.Pos}}
			name, err := p.attributeName()
			if err != nil {
				return nil, err
			}
			attr.Name = name
			if p.peek().Is("(") {
				if err := p.skipBalanced("(", ")"); err != nil {
					return nil, err
				}
			}
			list.Attributes = append(list.Attributes, attr)
		default:
			return nil, p.errorf(t, "", "expected attribute name, found %s", describe(t))
		}
	}
}

// attributeName reads the name tokens of one attribute, including any alias qualifier
// and generic argument list, concatenated without whitespace
func (p *parser) attributeName() (string, error) {
	var sb strings.Builder
	prevIdent := false
	for {
		t := p.peek()
		switch {
		case t.Kind == TokenIdent && !prevIdent:
			prevIdent = true
			sb.WriteString(p.next().Text)
		case t.Is(".") || t.Is("::"):
			prevIdent = false
			sb.WriteString(p.next().Text)
		case t.Is("<"):
			depth := 0
			for done := false; !done; {
				arg := p.next()
				if arg.Kind == TokenEOF {
					return "", p.errorf(arg, "", "unterminated type argument list")
				}
				sb.WriteString(arg.Text)
				if arg.Is("<") {
					depth++
				} else if arg.Is(">") {
					depth--
					done = depth == 0
				}
			}
		default:
			return sb.String(), nil
		}
	}
}

// tryTypeDecl parses a type declaration at the current position. When the tokens are not
// a type declaration it restores the position and returns nil.
func (p *parser) tryTypeDecl(parent Node, attrs []*AttributeList) (*TypeDecl, error) {
	start := p.i
	var mods []string
	for p.peek().Kind == TokenIdent && declarationModifiers[p.peek().Text] {
		mods = append(mods, p.next().Text)
	}

	kw := p.peek()
	var kind TypeKind
	switch {
	case kw.Is("class"):
		kind = KindClass
	case kw.Is("struct"):
		kind = KindStruct
	case kw.Is("interface"):
		kind = KindInterface
	case kw.Is("enum"):
		kind = KindEnum
	case kw.Is("record"):
		switch next := p.peekAt(1); {
		case next.Is("class"):
			p.next()
			kind = KindRecord
		case next.Is("struct"):
			p.next()
			kind = KindRecordStruct
		case next.Kind == TokenIdent:
			kind = KindRecord
		default:
			p.i = start
			return nil, nil
		}
	default:
		p.i = start
		return nil, nil
	}
	p.next()

	ident := p.peek()
	if ident.Kind != TokenIdent {
		return nil, p.errorf(ident, "", "expected type name after %s, found %s", kind, describe(ident))
	}
	p.next()

	decl := &TypeDecl{
		node:           node{parent: parent, pos: ident.Pos},
		Kind:           kind,
		Identifier:     ident.Text,
		Modifiers:      mods,
		AttributeLists: attrs,
	}
	for _, list := range attrs {
		list.parent = decl
	}

	if p.peek().Is("<") {
		arity, err := p.typeParameterArity()
		if err != nil {
			return nil, err
		}
		decl.TypeParams = arity
	}

	// Base list, primary constructor parameters and constraints
	if err := p.skipHeader(); err != nil {
		return nil, err
	}

	if p.peek().Is(";") {
		p.next()
		return decl, nil
	}

	if kind == KindEnum {
		if err := p.skipBalanced("{", "}"); err != nil {
			return nil, err
		}
	} else {
		if _, err := p.expect("{"); err != nil {
			return nil, err
		}
		if err := p.parseTypeBody(decl); err != nil {
			return nil, err
		}
		if _, err := p.expect("}"); err != nil {
			return nil, err
		}
	}
	if p.peek().Is(";") {
		p.next()
	}
	return decl, nil
}

func (p *parser) typeParameterArity() (int, error) {
	open := p.next()
	depth, arity := 1, 1
	for depth > 0 {
		t := p.next()
		switch {
		case t.Kind == TokenEOF:
			return 0, p.errorf(open, "", "unterminated type parameter list")
		case t.Is("<"):
			depth++
		case t.Is(">"):
			depth--
		case t.Is(",") && depth == 1:
			arity++
		}
	}
	return arity, nil
}

// skipHeader advances to the "{" or ";" that follows a type's header
func (p *parser) skipHeader() error {
	depth := 0
	for {
		t := p.peek()
		switch {
		case t.Kind == TokenEOF:
			return p.errorf(t, "", "expected type body, found end of file")
		case t.Is("(") || t.Is("["):
			depth++
		case t.Is(")") || t.Is("]"):
			depth--
		case depth <= 0 && (t.Is("{") || t.Is(";")):
			return nil
		}
		p.next()
	}
}

// parseTypeBody records nested type declarations. The closing brace is left for the caller.
func (p *parser) parseTypeBody(decl *TypeDecl) error {
	var pending []*AttributeList
	for {
		t := p.peek()
		switch {
		case t.Kind == TokenEOF:
			return p.errorf(t, "check for a missing closing brace", "expected \"}\", found end of file")
		case t.Is("}"):
			return nil
		case t.Is(";"):
			p.next()
		case t.Is("["):
			list, err := p.parseAttributeList()
			if err != nil {
				return err
			}
			pending = append(pending, list)
		default:
			nested, err := p.tryTypeDecl(decl, pending)
			if err != nil {
				return err
			}
			pending = nil
			if nested != nil {
				decl.Members = append(decl.Members, nested)
				continue
			}
			if err := p.skipMember(); err != nil {
				return err
			}
		}
	}
}

// skipMember advances past one member or statement. It stops after a ";" at depth zero,
// after a braced block that is not followed by a continuation of the same expression, or
// before a "}" that closes the enclosing container.
func (p *parser) skipMember() error {
	start := p.peek()
	depth := 0
	for {
		t := p.peek()
		switch {
		case t.Kind == TokenEOF:
			if depth > 0 {
				return p.errorf(start, "check for a missing closing brace", "unbalanced braces")
			}
			return nil
		case t.Is("{") || t.Is("(") || t.Is("["):
			depth++
			p.next()
		case t.Is(")") || t.Is("]"):
			if depth > 0 {
				depth--
			}
			p.next()
		case t.Is("}"):
			if depth == 0 {
				return nil
			}
			depth--
			p.next()
			if depth == 0 && endsMember(p.peek()) {
				return nil
			}
		case t.Is(";") && depth == 0:
			p.next()
			return nil
		default:
			p.next()
		}
	}
}

// endsMember reports whether t, following a closed block, begins something new
func endsMember(t Token) bool {
	return t.Kind == TokenEOF || t.Kind == TokenIdent || t.Is("[") || t.Is("}")
}

// skipBalanced consumes a group opened at the current token, including its closer
func (p *parser) skipBalanced(open, close string) error {
	first, err := p.expect(open)
	if err != nil {
		return err
	}
	depth := 1
	for depth > 0 {
		t := p.next()
		switch {
		case t.Kind == TokenEOF:
			return p.errorf(first, "", "unterminated %q", open)
		case t.Is(open):
			depth++
		case t.Is(close):
			depth--
		}
	}
	return nil
}

// skipPast consumes tokens through the next occurrence of text
func (p *parser) skipPast(text string) {
	for !p.atEOF() {
		if p.next().Is(text) {
			return
		}
	}
}
