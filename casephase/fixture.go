package casephase

// Fixture is a case arrangement with access to a shared context object. The context is
// set once by NewFixture and is read-only afterwards; it normally carries shared
// configuration and dependencies for every case in a group.
//
// Fixture embeds Base, so its phases are no-ops until the embedding type overrides them.
type Fixture[C any] struct {
	Base
	context C
}

// NewFixture creates a fixture over the shared context
func NewFixture[C any](context C) *Fixture[C] {
	return &Fixture[C]{context: context}
}

// Context returns the shared context object
func (f *Fixture[C]) Context() C {
	return f.context
}
