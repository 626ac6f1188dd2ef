package casegen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeremiahSanders/testingutils-xunit-extras/config"
	"github.com/JeremiahSanders/testingutils-xunit-extras/errors"
)

func testConfig() *config.Config {
	return config.Default()
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestExpand(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"b/Second.cs":              "",
		"a/First.cs":               "",
		"a/FirstFixture.g.cs":      "",
		"bin/Debug/Ignored.cs":     "",
		"obj/Ignored.cs":           "",
		"README.md":                "",
		"nested/deeper/Context.cs": "",
	})

	paths, err := Expand([]string{root}, DefaultLoadOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "a", "First.cs"),
		filepath.Join(root, "b", "Second.cs"),
		filepath.Join(root, "nested", "deeper", "Context.cs"),
	}, paths)
}

func TestExpandExplicitFilesAndDuplicates(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"A.cs":          "",
		"AFixture.g.cs": "",
	})

	generated := filepath.Join(root, "AFixture.g.cs")
	paths, err := Expand([]string{generated, root, filepath.Join(root, "A.cs")}, DefaultLoadOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{generated, filepath.Join(root, "A.cs")}, paths)
}

func TestExpandMissingPath(t *testing.T) {
	_, err := Expand([]string{filepath.Join(t.TempDir(), "absent")}, DefaultLoadOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to stat")
}

func TestLoadOptionsFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Output.Suffix = ".casegen.cs"
	cfg.Sources.ExcludeDirs = []string{"vendor"}
	cfg.Sources.DefineConstants = []string{"NET8_0"}

	opts := LoadOptionsFromConfig(cfg)
	assert.Equal(t, []string{"NET8_0"}, opts.Defines)
	assert.True(t, opts.IsSourceFile("A.cs"))
	assert.True(t, opts.IsSourceFile("A.g.cs"))
	assert.False(t, opts.IsSourceFile("AFixture.casegen.cs"))
	assert.False(t, opts.IsSourceFile("A.csproj"))
	assert.True(t, opts.IsExcludedDir("vendor"))
	assert.False(t, opts.IsExcludedDir("bin"))
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"Z.cs": "namespace Z { [SharedCaseContext] class ZContext { } }",
	}
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		files[name+".cs"] = "namespace " + name + " { class " + name + " { } }"
	}
	writeTree(t, root, files)

	loaded, err := Load(context.Background(), []string{root}, DefaultLoadOptions())
	require.NoError(t, err)
	require.Len(t, loaded, 9)

	assert.Equal(t, filepath.Join(root, "A.cs"), loaded[0].Path)
	assert.Equal(t, filepath.Join(root, "Z.cs"), loaded[8].Path)

	result, err := New(nil).Run(loaded...)
	require.NoError(t, err)
	assert.Equal(t, []string{"ZContextCollection", "ZContextAssertions", "ZContextFixture"}, result.Hints())
}

func TestLoadDefines(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Ctx.cs": "namespace N\n{\n#if CASES\n    [SharedCaseContext]\n    public class Ctx : Base {\n#else\n    public class Ctx {\n#endif\n    }\n}\n",
	})

	tests := []struct {
		name    string
		defines []string
		hints   []string
	}{
		{name: "symbol undefined", hints: nil},
		{name: "symbol defined", defines: []string{"CASES"}, hints: []string{"CtxCollection", "CtxAssertions", "CtxFixture"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultLoadOptions()
			opts.Defines = tt.defines

			loaded, err := Load(context.Background(), []string{root}, opts)
			require.NoError(t, err)
			require.Len(t, loaded, 1)

			result, err := New(nil).Run(loaded...)
			require.NoError(t, err)
			if tt.hints == nil {
				assert.Empty(t, result.Hints())
				return
			}
			assert.Equal(t, tt.hints, result.Hints())
		})
	}
}

func TestLoadParseError(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Good.cs":   "class Good { }",
		"Broken.cs": "class Broken {",
	})

	_, err := Load(context.Background(), []string{root}, DefaultLoadOptions())
	require.Error(t, err)
	assert.True(t, errors.IsParseError(err))
	assert.Contains(t, err.Error(), "Broken.cs")
}

func TestLoadCancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"A.cs": "class A { }"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, []string{root}, DefaultLoadOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
