package config

import (
	"github.com/spf13/viper"
)

// Default values shared with the generator packages
const (
	DefaultFallbackNamespace = "FallbackNamespace"
	DefaultSuffix            = ".g.cs"
	DefaultDebounceMS        = 300
)

// DefaultMarkerNames are the recognized marker attribute spellings
var DefaultMarkerNames = []string{"SharedCaseContext", "SharedCaseContextAttribute"}

// DefaultExcludeDirs are build and VCS directories never walked for sources
var DefaultExcludeDirs = []string{"bin", "obj", ".git", "node_modules"}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("marker.names", DefaultMarkerNames)

	v.SetDefault("resolver.fallback_namespace", DefaultFallbackNamespace)
	v.SetDefault("resolver.first_using_fallback", false)

	v.SetDefault("render.test_output_helper", true)

	v.SetDefault("output.dir", "")
	v.SetDefault("output.suffix", DefaultSuffix)
	v.SetDefault("output.manifest", "")

	v.SetDefault("sources.paths", []string{"."})
	v.SetDefault("sources.exclude_dirs", DefaultExcludeDirs)
	v.SetDefault("sources.define_constants", []string{})

	v.SetDefault("watch.debounce_ms", DefaultDebounceMS)
}

// Default returns a Config populated only from defaults
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// Defaults always decode; a failure here is a programming error
		panic(err)
	}
	return cfg
}
