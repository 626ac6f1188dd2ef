package casegen

import (
	"go.uber.org/zap"

	"github.com/JeremiahSanders/testingutils-xunit-extras/config"
	"github.com/JeremiahSanders/testingutils-xunit-extras/logger"
	"github.com/JeremiahSanders/testingutils-xunit-extras/syntax"
)

// Scanner finds class and record declarations carrying the shared context marker
type Scanner struct {
	markers map[string]bool
	logger  *zap.SugaredLogger
}

// NewScanner creates a scanner matching attribute names exactly against names.
// With no names it uses config.DefaultMarkerNames.
func NewScanner(names ...string) *Scanner {
	if len(names) == 0 {
		names = config.DefaultMarkerNames
	}
	markers := make(map[string]bool, len(names))
	for _, n := range names {
		markers[n] = true
	}
	return &Scanner{
		markers: markers,
		logger:  logger.ComponentLogger("casegen.scanner"),
	}
}

// Scan returns the distinct marked declarations of files in source order.
// Nested and generic declarations are never returned.
func (s *Scanner) Scan(files ...*syntax.File) []*syntax.TypeDecl {
	seen := make(map[*syntax.TypeDecl]bool)
	var out []*syntax.TypeDecl

	for _, f := range files {
		if f == nil {
			continue
		}
		syntax.Walk(f, func(n syntax.Node) bool {
			decl, ok := n.(*syntax.TypeDecl)
			if !ok {
				return true
			}
			if seen[decl] || !s.IsMarked(decl) {
				return true
			}
			seen[decl] = true

			if _, nested := decl.Parent().(*syntax.TypeDecl); nested {
				s.logger.Debugw("Skipping nested shared context type",
					logger.FieldType, decl.Identifier,
					logger.FieldFile, f.Path,
					logger.FieldLine, decl.Pos().Line)
				return true
			}
			if decl.TypeParams > 0 {
				s.logger.Debugw("Skipping generic shared context type",
					logger.FieldType, decl.Identifier,
					logger.FieldFile, f.Path,
					logger.FieldLine, decl.Pos().Line)
				return true
			}
			out = append(out, decl)
			return true
		})
	}
	return out
}

// IsMarked reports whether decl is a class or record with a recognized marker attribute
func (s *Scanner) IsMarked(decl *syntax.TypeDecl) bool {
	if !decl.IsClassOrRecord() || len(decl.AttributeLists) == 0 {
		return false
	}
	for _, list := range decl.AttributeLists {
		for _, attr := range list.Attributes {
			if s.markers[attr.Name] {
				return true
			}
		}
	}
	return false
}
