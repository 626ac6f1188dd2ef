package casegen

import (
	"time"

	"go.uber.org/zap"

	"github.com/JeremiahSanders/testingutils-xunit-extras/config"
	"github.com/JeremiahSanders/testingutils-xunit-extras/errors"
	"github.com/JeremiahSanders/testingutils-xunit-extras/logger"
	"github.com/JeremiahSanders/testingutils-xunit-extras/syntax"
)

// Generator drives scan → resolve → render and hands each artifact to a Sink
type Generator struct {
	Scanner  *Scanner
	Resolver *Resolver
	Renderer *Renderer
	Sink     Sink

	logger *zap.SugaredLogger
}

// Option configures a Generator
type Option func(*Generator)

// WithMarkers replaces the recognized marker attribute names
func WithMarkers(names ...string) Option {
	return func(g *Generator) { g.Scanner = NewScanner(names...) }
}

// WithFallbackNamespace sets the namespace used for types declared outside any namespace
func WithFallbackNamespace(name string) Option {
	return func(g *Generator) { g.Resolver.FallbackNamespace = name }
}

// WithFirstUsingFallback makes the resolver try a file's first using directive before the fallback
func WithFirstUsingFallback(enabled bool) Option {
	return func(g *Generator) { g.Resolver.FirstUsingFallback = enabled }
}

// WithTestOutputHelper toggles the ITestOutputHelper constructor parameter
func WithTestOutputHelper(enabled bool) Option {
	return func(g *Generator) { g.Renderer.TestOutputHelper = enabled }
}

// WithConfig applies marker, resolver and render settings from cfg
func WithConfig(cfg *config.Config) Option {
	return func(g *Generator) {
		if len(cfg.Marker.Names) > 0 {
			g.Scanner = NewScanner(cfg.Marker.Names...)
		}
		g.Resolver.FallbackNamespace = cfg.Resolver.FallbackNamespace
		g.Resolver.FirstUsingFallback = cfg.Resolver.FirstUsingFallback
		g.Renderer.TestOutputHelper = cfg.Render.TestOutputHelper
	}
}

// New creates a generator writing to sink. A nil sink collects into a MemorySink.
func New(sink Sink, opts ...Option) *Generator {
	if sink == nil {
		sink = NewMemorySink()
	}
	g := &Generator{
		Scanner:  NewScanner(),
		Resolver: NewResolver(),
		Renderer: NewRenderer(),
		Sink:     sink,
		logger:   logger.ComponentLogger("casegen.driver"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SharedContext is a marked declaration with its resolved names
type SharedContext struct {
	TypeName  string
	Namespace string
	Source    NamespaceSource
	Path      string
	Pos       syntax.Position
}

// Result summarizes one generation pass
type Result struct {
	Contexts []SharedContext
	Sources  []Source
}

// Hints returns the hint names of all generated sources in emission order
func (r *Result) Hints() []string {
	hints := make([]string, 0, len(r.Sources))
	for _, s := range r.Sources {
		hints = append(hints, s.Hint)
	}
	return hints
}

// Run generates the three artifacts for every distinct marked declaration in files
func (g *Generator) Run(files ...*syntax.File) (*Result, error) {
	start := time.Now()
	result := &Result{}

	for _, decl := range g.Scanner.Scan(files...) {
		sc := g.resolve(decl)
		result.Contexts = append(result.Contexts, sc)

		for _, kind := range Artifacts {
			text, err := g.Renderer.Render(kind, sc.Namespace, sc.TypeName)
			if err != nil {
				return result, err
			}
			src := Source{
				Hint:      HintName(sc.TypeName, kind),
				Text:      text,
				Kind:      kind,
				TypeName:  sc.TypeName,
				Namespace: sc.Namespace,
				Path:      sc.Path,
				Pos:       sc.Pos,
			}
			if err := g.Sink.AddSource(src); err != nil {
				return result, errors.Wrapf(err, "failed to add %s for %s", kind, sc.TypeName)
			}
			result.Sources = append(result.Sources, src)
		}

		g.logger.Debugw("Generated shared context sources",
			logger.FieldType, sc.TypeName,
			logger.FieldNamespace, sc.Namespace,
			logger.FieldFile, sc.Path)
	}

	g.logger.Infow("Generation complete",
		logger.FieldCount, len(result.Contexts),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return result, nil
}

func (g *Generator) resolve(decl *syntax.TypeDecl) SharedContext {
	sc := SharedContext{
		TypeName: g.Resolver.TypeName(decl),
		Pos:      decl.Pos(),
	}
	if f := syntax.EnclosingFile(decl); f != nil {
		sc.Path = f.Path
	}
	sc.Namespace, sc.Source = g.Resolver.Namespace(decl)

	switch sc.Source {
	case FromFirstUsing:
		g.logger.Warnw("No namespace declaration, using first using directive",
			logger.FieldType, sc.TypeName,
			logger.FieldNamespace, sc.Namespace,
			logger.FieldFile, sc.Path)
	case FromFallback:
		g.logger.Warnw("No namespace declaration, using fallback namespace",
			logger.FieldType, sc.TypeName,
			logger.FieldNamespace, sc.Namespace,
			logger.FieldFile, sc.Path)
	}
	return sc
}
