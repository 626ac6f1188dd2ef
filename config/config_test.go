package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeremiahSanders/testingutils-xunit-extras/errors"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, DefaultMarkerNames, cfg.Marker.Names)
	assert.Equal(t, "FallbackNamespace", cfg.Resolver.FallbackNamespace)
	assert.False(t, cfg.Resolver.FirstUsingFallback)
	assert.True(t, cfg.Render.TestOutputHelper)
	assert.Equal(t, ".g.cs", cfg.Output.Suffix)
	assert.Empty(t, cfg.Output.Dir)
	assert.Equal(t, []string{"."}, cfg.Sources.Paths)
	assert.Contains(t, cfg.Sources.ExcludeDirs, "obj")
	assert.Empty(t, cfg.Sources.DefineConstants)
	assert.Equal(t, DefaultDebounceMS, cfg.Watch.DebounceMS)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	content := `
[resolver]
fallback_namespace = "My.Tests"
first_using_fallback = true

[render]
test_output_helper = false

[output]
dir = "Generated"
manifest = "casegen.yaml"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "My.Tests", cfg.Resolver.FallbackNamespace)
	assert.True(t, cfg.Resolver.FirstUsingFallback)
	assert.False(t, cfg.Render.TestOutputHelper)
	assert.Equal(t, "Generated", cfg.Output.Dir)
	assert.Equal(t, "casegen.yaml", cfg.Output.Manifest)
	// Untouched keys keep their defaults
	assert.Equal(t, ".g.cs", cfg.Output.Suffix)
	assert.Equal(t, DefaultMarkerNames, cfg.Marker.Names)
}

func TestLoad_ExplicitPathAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[output]\ndir = \"from-file\"\n"), 0644))

	t.Setenv("CASEGEN_OUTPUT_DIR", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Output.Dir)
}

func TestLoad_FindsProjectConfigUpward(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "tests", "unit")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte("[output]\nsuffix = \".generated.cs\"\n"), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ".generated.cs", cfg.Output.Suffix)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config { return Default() }

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "empty marker names", mutate: func(c *Config) { c.Marker.Names = nil }, wantErr: true},
		{name: "marker with brackets", mutate: func(c *Config) { c.Marker.Names = []string{"[Shared]"} }, wantErr: true},
		{name: "dotted fallback namespace", mutate: func(c *Config) { c.Resolver.FallbackNamespace = "My.Org.Tests" }},
		{name: "empty fallback namespace", mutate: func(c *Config) { c.Resolver.FallbackNamespace = "" }, wantErr: true},
		{name: "fallback namespace with empty segment", mutate: func(c *Config) { c.Resolver.FallbackNamespace = "My..Tests" }, wantErr: true},
		{name: "fallback namespace starting with digit", mutate: func(c *Config) { c.Resolver.FallbackNamespace = "1Tests" }, wantErr: true},
		{name: "suffix without .cs", mutate: func(c *Config) { c.Output.Suffix = ".txt" }, wantErr: true},
		{name: "suffix matching every source", mutate: func(c *Config) { c.Output.Suffix = ".cs" }, wantErr: true},
		{name: "suffix without its own extension", mutate: func(c *Config) { c.Output.Suffix = "Generated.cs" }, wantErr: true},
		{name: "custom suffix", mutate: func(c *Config) { c.Output.Suffix = ".casegen.cs" }},
		{name: "define constants", mutate: func(c *Config) { c.Sources.DefineConstants = []string{"NET8_0", "DEBUG"} }},
		{name: "define constant with operator", mutate: func(c *Config) { c.Sources.DefineConstants = []string{"A&&B"} }, wantErr: true},
		{name: "manifest without dir", mutate: func(c *Config) { c.Output.Manifest = "m.yaml" }, wantErr: true},
		{name: "manifest with dir", mutate: func(c *Config) { c.Output.Manifest = "m.yaml"; c.Output.Dir = "out" }},
		{name: "zero debounce is valid", mutate: func(c *Config) { c.Watch.DebounceMS = 0 }},
		{name: "negative debounce", mutate: func(c *Config) { c.Watch.DebounceMS = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	cfg := Default()
	cfg.Output.Dir = "Generated"
	cfg.Resolver.FirstUsingFallback = true
	require.NoError(t, Save(cfg, path, false))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSave_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("# mine\n"), 0644))

	err := Save(Default(), path, false)
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "--force")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# mine\n", string(data))

	require.NoError(t, Save(Default(), path, true))
}
