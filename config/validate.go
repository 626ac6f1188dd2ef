package config

import (
	"strings"

	"github.com/JeremiahSanders/testingutils-xunit-extras/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if len(c.Marker.Names) == 0 {
		return errors.NewInvalidConfigError("marker.names must list at least one attribute name")
	}
	for _, name := range c.Marker.Names {
		if strings.TrimSpace(name) == "" || strings.ContainsAny(name, " \t[]()") {
			return errors.NewInvalidConfigError("marker.names contains invalid attribute name %q", name)
		}
	}

	// The fallback namespace is emitted verbatim into a namespace declaration
	if !isQualifiedName(c.Resolver.FallbackNamespace) {
		return errors.NewInvalidConfigError("resolver.fallback_namespace %q is not a valid namespace name", c.Resolver.FallbackNamespace)
	}

	// Inputs are *.cs files minus those carrying the suffix, so the suffix must be
	// narrower than ".cs" itself
	if !strings.HasSuffix(c.Output.Suffix, ".cs") || !strings.Contains(strings.TrimSuffix(c.Output.Suffix, ".cs"), ".") {
		return errors.NewInvalidConfigError("output.suffix must end with \".cs\" and carry its own extension before it (e.g. \".g.cs\"), got %q", c.Output.Suffix)
	}
	if c.Output.Manifest != "" && c.Output.Dir == "" {
		return errors.NewInvalidConfigError("output.manifest requires output.dir")
	}

	for _, symbol := range c.Sources.DefineConstants {
		if symbol == "" || strings.ContainsAny(symbol, " \t!&|=()") {
			return errors.NewInvalidConfigError("sources.define_constants contains invalid symbol %q", symbol)
		}
	}

	if c.Watch.DebounceMS < 0 {
		return errors.NewInvalidConfigError("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	return nil
}

// isQualifiedName reports whether s looks like a dotted C# namespace name
func isQualifiedName(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			return false
		}
		for i, r := range part {
			letter := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 0x7f
			digit := r >= '0' && r <= '9'
			if !letter && !(digit && i > 0) {
				return false
			}
		}
	}
	return true
}
