// Package casegen generates the xUnit collection, fixture and assertions sources that wire a
// marked shared-context C# type into a test project.
//
// Data flows one way: parsed files → Scanner → Resolver → Renderer → Generator → Sink.
// Everything before the Sink is a pure function of the parsed input, so two runs over
// the same files produce byte-identical output.
package casegen

import (
	"github.com/JeremiahSanders/testingutils-xunit-extras/syntax"
)

// ArtifactKind identifies one of the three generated sources
type ArtifactKind string

const (
	ArtifactCollection ArtifactKind = "collection"
	ArtifactAssertions ArtifactKind = "assertions"
	ArtifactFixture    ArtifactKind = "fixture"
)

// Artifacts lists every artifact kind in emission order
var Artifacts = []ArtifactKind{ArtifactCollection, ArtifactAssertions, ArtifactFixture}

// Suffix is the identifier suffix the artifact appends to the shared context type name
func (k ArtifactKind) Suffix() string {
	switch k {
	case ArtifactCollection:
		return "Collection"
	case ArtifactAssertions:
		return "Assertions"
	case ArtifactFixture:
		return "Fixture"
	}
	return ""
}

// HintName derives the unique output name of an artifact for a shared context type
func HintName(typeName string, kind ArtifactKind) string {
	return typeName + kind.Suffix()
}

// Source is one generated (hint name, source text) pair
type Source struct {
	Hint      string
	Text      string
	Kind      ArtifactKind
	TypeName  string
	Namespace string

	// Origin of the marked declaration
	Path string
	Pos  syntax.Position
}
