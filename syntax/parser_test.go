package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeremiahSanders/testingutils-xunit-extras/errors"
)

func collectTypes(n Node) []*TypeDecl {
	var out []*TypeDecl
	Walk(n, func(n Node) bool {
		if td, ok := n.(*TypeDecl); ok {
			out = append(out, td)
		}
		return true
	})
	return out
}

func TestParseBlockNamespace(t *testing.T) {
	src := `
using System;
using Jds.TestingUtils.Xunit2.Extras;

namespace TestNamespace
{
    [SharedCaseContext]
    public class TestClass
    {
        public int Value { get; set; } = 5;

        public void Method() { var s = "class Fake {}"; }
    }
}
`
	f, err := Parse("TestClass.cs", src)
	require.NoError(t, err)

	assert.Equal(t, "TestClass.cs", f.Path)
	require.Len(t, f.Usings, 2)
	assert.Equal(t, "System", f.Usings[0].Name)
	assert.Equal(t, "Jds.TestingUtils.Xunit2.Extras", f.Usings[1].Name)

	require.Len(t, f.Members, 1)
	ns, ok := f.Members[0].(*NamespaceDecl)
	require.True(t, ok)
	assert.Equal(t, "TestNamespace", ns.Name)
	assert.False(t, ns.FileScoped)

	require.Len(t, ns.Members, 1)
	td := ns.Members[0].(*TypeDecl)
	assert.Equal(t, "TestClass", td.Identifier)
	assert.Equal(t, KindClass, td.Kind)
	assert.Equal(t, []string{"public"}, td.Modifiers)
	assert.Empty(t, td.Members)

	require.Len(t, td.AttributeLists, 1)
	require.Len(t, td.AttributeLists[0].Attributes, 1)
	assert.Equal(t, "SharedCaseContext", td.AttributeLists[0].Attributes[0].Name)

	assert.Equal(t, ns, td.Parent())
	assert.Equal(t, f, EnclosingFile(td))
	assert.Equal(t, 8, td.Pos().Line)
}

func TestParseFileScopedNamespace(t *testing.T) {
	src := `namespace Outer.Inner;

[SharedCaseContext]
public record TestRecord(int Id);

internal sealed class Other { }
`
	f, err := Parse("", src)
	require.NoError(t, err)

	require.Len(t, f.Members, 1)
	ns := f.Members[0].(*NamespaceDecl)
	assert.True(t, ns.FileScoped)
	assert.Equal(t, "Outer.Inner", ns.Name)

	types := collectTypes(f)
	require.Len(t, types, 2)
	assert.Equal(t, "TestRecord", types[0].Identifier)
	assert.Equal(t, KindRecord, types[0].Kind)
	assert.Equal(t, "Other", types[1].Identifier)
	assert.Equal(t, []string{"internal", "sealed"}, types[1].Modifiers)
	assert.Empty(t, types[1].AttributeLists)
}

func TestParseTypeKinds(t *testing.T) {
	tests := []struct {
		src  string
		kind TypeKind
	}{
		{src: "class A {}", kind: KindClass},
		{src: "record A;", kind: KindRecord},
		{src: "record class A {}", kind: KindRecord},
		{src: "readonly record struct A(int X);", kind: KindRecordStruct},
		{src: "struct A {}", kind: KindStruct},
		{src: "interface A {}", kind: KindInterface},
		{src: "enum A { One, Two = 2 }", kind: KindEnum},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			f, err := Parse("", tt.src)
			require.NoError(t, err)
			types := collectTypes(f)
			require.Len(t, types, 1)
			assert.Equal(t, tt.kind, types[0].Kind)
			assert.Equal(t, "A", types[0].Identifier)
		})
	}
}

func TestParseGenericArity(t *testing.T) {
	f, err := Parse("", "class Pair<TKey, TValue> where TKey : IComparable<TKey> { }")
	require.NoError(t, err)

	types := collectTypes(f)
	require.Len(t, types, 1)
	assert.Equal(t, "Pair", types[0].Identifier)
	assert.Equal(t, 2, types[0].TypeParams)
}

func TestParseNestedTypes(t *testing.T) {
	src := `
namespace N
{
    public partial class Outer
    {
        private int field;

        [SharedCaseContext]
        public class Inner
        {
            public enum Mode { A, B }
        }
    }
}
`
	f, err := Parse("", src)
	require.NoError(t, err)

	types := collectTypes(f)
	require.Len(t, types, 3)
	outer, inner, mode := types[0], types[1], types[2]

	assert.Equal(t, "Outer", outer.Identifier)
	assert.True(t, outer.HasModifier("partial"))
	assert.Equal(t, outer, inner.Parent())
	assert.Equal(t, inner, mode.Parent())
	require.Len(t, inner.AttributeLists, 1)

	ancestors := Ancestors(inner)
	require.Len(t, ancestors, 3)
	assert.Equal(t, outer, ancestors[0])
	assert.IsType(t, &NamespaceDecl{}, ancestors[1])
	assert.IsType(t, &File{}, ancestors[2])
}

func TestParseAttributes(t *testing.T) {
	src := `
[assembly: InternalsVisibleTo("Tests")]
[Serializable, global::Xunit.Trait("k", "v")]
[Obsolete("use \"B\"")][SharedCaseContext()]
public class A { }
`
	f, err := Parse("", src)
	require.NoError(t, err)

	types := collectTypes(f)
	require.Len(t, types, 1)

	var names []string
	for _, list := range types[0].AttributeLists {
		for _, attr := range list.Attributes {
			names = append(names, attr.Name)
		}
	}
	assert.Equal(t, []string{"Serializable", "global::Xunit.Trait", "Obsolete", "SharedCaseContext"}, names)
}

func TestParseUsings(t *testing.T) {
	src := `
global using global::System;
using static System.Math;
using Dict = System.Collections.Generic.Dictionary<string, int>;
using (var s = Open()) { }
using var r = Open();
`
	f, err := Parse("", src)
	require.NoError(t, err)

	require.Len(t, f.Usings, 3)
	assert.True(t, f.Usings[0].Global)
	assert.Equal(t, "global::System", f.Usings[0].Name)
	assert.True(t, f.Usings[1].Static)
	assert.Equal(t, "System.Math", f.Usings[1].Name)
	assert.Equal(t, "Dict", f.Usings[2].Alias)
	assert.Equal(t, "System.Collections.Generic.Dictionary<string,int>", f.Usings[2].Name)
}

func TestParseTopLevelStatements(t *testing.T) {
	src := `
using System;

var items = new[] { 1, 2 };
if (items.Length > 0) { Console.WriteLine("class X {}"); } else { return; }
Local();
void Local() { }

[SharedCaseContext]
public class AfterStatements { }
`
	f, err := Parse("Program.cs", src)
	require.NoError(t, err)

	types := collectTypes(f)
	require.Len(t, types, 1)
	assert.Equal(t, "AfterStatements", types[0].Identifier)
	assert.Len(t, types[0].AttributeLists, 1)
}

func TestParseSkipsMemberBodies(t *testing.T) {
	src := `
class A
{
    public int P { get; } = 1;
    public int Q => 2;
    private readonly System.Action act = () => { };
    public A() : base() { }
    public T M<T>() where T : class { return default; }
    public int this[int i] { get { return i; } }
    public event System.EventHandler E { add { } remove { } }
    class B { }
}
`
	f, err := Parse("", src)
	require.NoError(t, err)

	types := collectTypes(f)
	require.Len(t, types, 2)
	assert.Equal(t, "B", types[1].Identifier)
	assert.Equal(t, types[0], types[1].Parent())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
	}{
		{name: "missing namespace brace", src: "namespace N\n{\n class A { }\n", message: `expected "}", found end of file`},
		{name: "extra closing brace", src: "class A { }\n}", message: `unexpected "}"`},
		{name: "unbalanced member", src: "class A { void M() { ", message: "unbalanced braces"},
		{name: "class without name", src: "public class { }", message: `expected type name after class, found "{"`},
		{name: "namespace without body", src: "namespace N class", message: `expected "{" or ";" after namespace N, found "class"`},
		{name: "unterminated attribute", src: "[SharedCaseContext class A {}", message: `expected attribute name, found "{"`},
		{name: "lexer error", src: "class A { string s = \"open\n; }", message: "unterminated string literal"},
		{name: "unclosed conditional", src: "#if NET8_0\nclass A { }\n", message: "expected #endif before end of file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("Broken.cs", tt.src)
			require.Error(t, err)
			assert.True(t, errors.IsParseError(err))

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.message, pe.Message)
			assert.Equal(t, "Broken.cs", pe.Path)
			assert.Contains(t, err.Error(), "Broken.cs:")
		})
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	f, err := Parse("", "namespace N { class A { class B { } } }")
	require.NoError(t, err)

	var seen []string
	Walk(f, func(n Node) bool {
		if td, ok := n.(*TypeDecl); ok {
			seen = append(seen, td.Identifier)
			return false
		}
		return true
	})
	assert.Equal(t, []string{"A"}, seen)
}

func TestQualifiedName(t *testing.T) {
	outer := &NamespaceDecl{Name: "Outer"}
	inner := &NamespaceDecl{Name: "Inner.Most"}

	assert.Equal(t, "", QualifiedName(nil))
	assert.Equal(t, "Outer.Inner.Most", QualifiedName([]*NamespaceDecl{outer, inner}))
}

func TestParseConditionalClassHeader(t *testing.T) {
	src := `namespace Cases
{
#if NET8_0
    [SharedCaseContext]
    public class Ctx : CaseBase<int> {
#else
    public class Ctx {
#endif
        public void M() { }
    }
}
`
	tests := []struct {
		name       string
		defines    []string
		attributes int
	}{
		{name: "else branch without symbols", attributes: 0},
		{name: "if branch with symbol", defines: []string{"NET8_0"}, attributes: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseWith("Ctx.cs", src, tt.defines)
			require.NoError(t, err)

			types := collectTypes(f)
			require.Len(t, types, 1)
			assert.Equal(t, "Ctx", types[0].Identifier)
			assert.Len(t, types[0].AttributeLists, tt.attributes)
		})
	}
}

func TestParseSkipsDisabledHalfDeclaration(t *testing.T) {
	src := `#if false
public partial class Broken : Base<
#endif
public class Kept { }
`
	f, err := Parse("Kept.cs", src)
	require.NoError(t, err)

	types := collectTypes(f)
	require.Len(t, types, 1)
	assert.Equal(t, "Kept", types[0].Identifier)
	assert.Equal(t, 4, types[0].Pos().Line)
}
