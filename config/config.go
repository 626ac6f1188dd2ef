// Package config loads casegen settings from casegen.toml, CASEGEN_* environment
// variables and built-in defaults, in that order of precedence (env highest).
package config

// Config represents the casegen configuration
type Config struct {
	Marker   MarkerConfig   `mapstructure:"marker" toml:"marker"`
	Resolver ResolverConfig `mapstructure:"resolver" toml:"resolver"`
	Render   RenderConfig   `mapstructure:"render" toml:"render"`
	Output   OutputConfig   `mapstructure:"output" toml:"output"`
	Sources  SourcesConfig  `mapstructure:"sources" toml:"sources"`
	Watch    WatchConfig    `mapstructure:"watch" toml:"watch"`
}

// MarkerConfig configures which attribute names mark a shared case context
type MarkerConfig struct {
	Names []string `mapstructure:"names" toml:"names"` // exact attribute name spellings
}

// ResolverConfig configures namespace resolution for marked declarations
type ResolverConfig struct {
	FallbackNamespace  string `mapstructure:"fallback_namespace" toml:"fallback_namespace"`     // used when a type has no namespace
	FirstUsingFallback bool   `mapstructure:"first_using_fallback" toml:"first_using_fallback"` // try the file's first using directive before the fallback
}

// RenderConfig configures generated source text
type RenderConfig struct {
	TestOutputHelper bool `mapstructure:"test_output_helper" toml:"test_output_helper"` // assertions constructors take ITestOutputHelper
}

// OutputConfig configures where generated sources are written
type OutputConfig struct {
	Dir      string `mapstructure:"dir" toml:"dir"`           // empty = stdout
	Suffix   string `mapstructure:"suffix" toml:"suffix"`     // appended to the hint name (default: .g.cs)
	Manifest string `mapstructure:"manifest" toml:"manifest"` // optional YAML manifest file name inside Dir
}

// SourcesConfig configures which C# files are scanned
type SourcesConfig struct {
	Paths       []string `mapstructure:"paths" toml:"paths"`               // files or directories (default: ["."])
	ExcludeDirs []string `mapstructure:"exclude_dirs" toml:"exclude_dirs"` // directory names skipped while walking

	// DefineConstants are the conditional compilation symbols treated as defined in #if
	// expressions; every other symbol is false
	DefineConstants []string `mapstructure:"define_constants" toml:"define_constants"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms"` // delay before regenerating after a change
}

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644

	// FileName is the project configuration file searched for from the working directory upward
	FileName = "casegen.toml"
)
