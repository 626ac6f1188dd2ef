package casegen

import (
	"embed"
	"strings"
	"text/template"

	"github.com/JeremiahSanders/testingutils-xunit-extras/errors"
)

//go:embed templates/*.cs.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.cs.tmpl"))

var templateNames = map[ArtifactKind]string{
	ArtifactCollection: "collection.cs.tmpl",
	ArtifactAssertions: "assertions.cs.tmpl",
	ArtifactFixture:    "fixture.cs.tmpl",
}

// templateData is the substitution set shared by all three templates, so names
// referenced across artifacts always agree
type templateData struct {
	Namespace        string
	TypeName         string
	TestOutputHelper bool
}

// Renderer turns a (namespace, type name) pair into generated source text
type Renderer struct {
	// TestOutputHelper adds an Xunit.Abstractions.ITestOutputHelper parameter to the
	// assertions constructors and forwards it to the base class
	TestOutputHelper bool
}

// NewRenderer creates a renderer with the default constructor shape
func NewRenderer() *Renderer {
	return &Renderer{TestOutputHelper: true}
}

// Render produces the source text of one artifact. Output starts with a newline and has
// no trailing newline.
func (r *Renderer) Render(kind ArtifactKind, namespaceName, typeName string) (string, error) {
	name, ok := templateNames[kind]
	if !ok {
		return "", errors.Newf("unknown artifact kind %q", kind)
	}

	var sb strings.Builder
	err := templates.ExecuteTemplate(&sb, name, templateData{
		Namespace:        namespaceName,
		TypeName:         typeName,
		TestOutputHelper: r.TestOutputHelper,
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to render %s for %s", kind, typeName)
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// RenderCollection renders the xUnit collection definition for the shared context type
func (r *Renderer) RenderCollection(namespaceName, typeName string) (string, error) {
	return r.Render(ArtifactCollection, namespaceName, typeName)
}

// RenderAssertions renders the generic and non-generic assertions base classes
func (r *Renderer) RenderAssertions(namespaceName, typeName string) (string, error) {
	return r.Render(ArtifactAssertions, namespaceName, typeName)
}

// RenderFixture renders the arrangement fixture base class
func (r *Renderer) RenderFixture(namespaceName, typeName string) (string, error) {
	return r.Render(ArtifactFixture, namespaceName, typeName)
}
