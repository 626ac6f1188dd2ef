package syntax

import "strings"

// Node is any element of the declaration tree
type Node interface {
	Parent() Node
	Pos() Position
}

type node struct {
	parent Node
	pos    Position
}

func (n *node) Parent() Node  { return n.parent }
func (n *node) Pos() Position { return n.pos }

// File is the root of one parsed compilation unit
type File struct {
	node
	Path    string
	Usings  []*Using
	Members []Node // *NamespaceDecl or *TypeDecl
}

// Using is a using directive
type Using struct {
	node
	Name   string // qualified name as written, e.g. "System.Collections.Generic"
	Alias  string // set for "using Alias = Name;"
	Static bool
	Global bool
}

// NamespaceDecl is a block-scoped or file-scoped namespace declaration
type NamespaceDecl struct {
	node
	Name       string // qualified name as written, e.g. "Outer.Inner"
	FileScoped bool
	Usings     []*Using
	Members    []Node // *NamespaceDecl or *TypeDecl
}

// TypeKind is the declaration keyword of a type
type TypeKind int

const (
	KindClass TypeKind = iota
	KindRecord
	KindRecordStruct
	KindStruct
	KindInterface
	KindEnum
)

var typeKindNames = map[TypeKind]string{
	KindClass:        "class",
	KindRecord:       "record",
	KindRecordStruct: "record struct",
	KindStruct:       "struct",
	KindInterface:    "interface",
	KindEnum:         "enum",
}

func (k TypeKind) String() string {
	if name, ok := typeKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// TypeDecl is a type declaration with the attribute lists written directly on it
type TypeDecl struct {
	node
	Kind           TypeKind
	Identifier     string // simple name, without type parameters
	TypeParams     int    // arity; 0 when the type is not generic
	Modifiers      []string
	AttributeLists []*AttributeList
	Members        []Node // nested *TypeDecl only; other members are not retained
}

// IsClassOrRecord reports whether the declaration is a class or any record form
func (t *TypeDecl) IsClassOrRecord() bool {
	return t.Kind == KindClass || t.Kind == KindRecord || t.Kind == KindRecordStruct
}

// HasModifier reports whether mod was written on the declaration
func (t *TypeDecl) HasModifier(mod string) bool {
	for _, m := range t.Modifiers {
		if m == mod {
			return true
		}
	}
	return false
}

// AttributeList is one bracketed group: [Target: A, B(...)]
type AttributeList struct {
	node
	Target     string // e.g. "assembly"; empty when absent
	Attributes []*Attribute
}

// Attribute is a single attribute usage. Arguments are not retained.
type Attribute struct {
	node
	Name string // name tokens as written and concatenated, e.g. "global::Xunit.Fact"
}

// Walk calls fn for n and each descendant in source order. Returning false from fn
// skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch v := n.(type) {
	case *File:
		for _, u := range v.Usings {
			Walk(u, fn)
		}
		for _, m := range v.Members {
			Walk(m, fn)
		}
	case *NamespaceDecl:
		for _, u := range v.Usings {
			Walk(u, fn)
		}
		for _, m := range v.Members {
			Walk(m, fn)
		}
	case *TypeDecl:
		for _, l := range v.AttributeLists {
			Walk(l, fn)
		}
		for _, m := range v.Members {
			Walk(m, fn)
		}
	case *AttributeList:
		for _, a := range v.Attributes {
			Walk(a, fn)
		}
	}
}

// Ancestors returns the parents of n, innermost first
func Ancestors(n Node) []Node {
	var out []Node
	for p := n.Parent(); p != nil; p = p.Parent() {
		out = append(out, p)
	}
	return out
}

// EnclosingFile returns the File containing n, or nil for a detached node
func EnclosingFile(n Node) *File {
	for cur := n; cur != nil; cur = cur.Parent() {
		if f, ok := cur.(*File); ok {
			return f
		}
	}
	return nil
}

// QualifiedName joins namespace names outer-to-inner with "."
func QualifiedName(namespaces []*NamespaceDecl) string {
	parts := make([]string, 0, len(namespaces))
	for _, ns := range namespaces {
		parts = append(parts, ns.Name)
	}
	return strings.Join(parts, ".")
}
