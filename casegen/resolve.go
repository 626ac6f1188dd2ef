package casegen

import (
	"github.com/JeremiahSanders/testingutils-xunit-extras/config"
	"github.com/JeremiahSanders/testingutils-xunit-extras/syntax"
)

// NamespaceSource records how a namespace name was determined
type NamespaceSource int

const (
	FromDeclaration NamespaceSource = iota // an enclosing namespace declaration
	FromFirstUsing                         // the compilation unit's first using directive
	FromFallback                           // the configured fallback literal
)

// Resolver derives the names the templates need from a marked declaration
type Resolver struct {
	FallbackNamespace  string
	FirstUsingFallback bool
}

// NewResolver creates a resolver using the default fallback namespace
func NewResolver() *Resolver {
	return &Resolver{FallbackNamespace: config.DefaultFallbackNamespace}
}

// TypeName returns the declaration's identifier exactly as written
func (r *Resolver) TypeName(decl *syntax.TypeDecl) string {
	return decl.Identifier
}

// NamespaceName returns the qualified namespace enclosing decl
func (r *Resolver) NamespaceName(decl *syntax.TypeDecl) string {
	name, _ := r.Namespace(decl)
	return name
}

// Namespace returns the qualified namespace enclosing decl and where it came from.
// Enclosing namespace declarations are joined outer-to-inner with ".".
func (r *Resolver) Namespace(decl *syntax.TypeDecl) (string, NamespaceSource) {
	var chain []*syntax.NamespaceDecl
	for _, a := range syntax.Ancestors(decl) {
		if ns, ok := a.(*syntax.NamespaceDecl); ok {
			chain = append([]*syntax.NamespaceDecl{ns}, chain...)
		}
	}
	if len(chain) > 0 {
		return syntax.QualifiedName(chain), FromDeclaration
	}

	if r.FirstUsingFallback {
		if f := syntax.EnclosingFile(decl); f != nil && len(f.Usings) > 0 && f.Usings[0].Name != "" {
			return f.Usings[0].Name, FromFirstUsing
		}
	}

	if r.FallbackNamespace == "" {
		return config.DefaultFallbackNamespace, FromFallback
	}
	return r.FallbackNamespace, FromFallback
}
