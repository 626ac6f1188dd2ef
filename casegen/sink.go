package casegen

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/JeremiahSanders/testingutils-xunit-extras/config"
	"github.com/JeremiahSanders/testingutils-xunit-extras/errors"
	"github.com/JeremiahSanders/testingutils-xunit-extras/logger"
)

// Sink receives generated sources
type Sink interface {
	AddSource(src Source) error
}

// MemorySink collects sources in arrival order. Re-adding an identical (hint, text) pair is
// a no-op; a different text under an existing hint is ErrDuplicateHint.
type MemorySink struct {
	mu      sync.Mutex
	sources []Source
	byHint  map[string]int
}

// NewMemorySink creates an empty in-memory sink
func NewMemorySink() *MemorySink {
	return &MemorySink{byHint: make(map[string]int)}
}

// AddSource implements Sink
func (m *MemorySink) AddSource(src Source) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.byHint == nil {
		m.byHint = make(map[string]int)
	}

	if i, ok := m.byHint[src.Hint]; ok {
		existing := m.sources[i]
		if existing.Text == src.Text {
			return nil
		}
		err := errors.Wrap(errors.ErrDuplicateHint, src.Hint)
		err = errors.WithDetailf(err, "%s is generated for %s.%s and %s.%s",
			src.Hint, existing.Namespace, existing.TypeName, src.Namespace, src.TypeName)
		return errors.WithHint(err, "rename one of the shared context types so generated names stay unique")
	}

	m.byHint[src.Hint] = len(m.sources)
	m.sources = append(m.sources, src)
	return nil
}

// Sources returns the collected sources in arrival order
func (m *MemorySink) Sources() []Source {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Source, len(m.sources))
	copy(out, m.sources)
	return out
}

// Get returns the source registered under hint
func (m *MemorySink) Get(hint string) (Source, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.byHint[hint]
	if !ok {
		return Source{}, false
	}
	return m.sources[i], true
}

// Len returns the number of distinct sources
func (m *MemorySink) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sources)
}

// DirSink writes each source to {Dir}/{hint}{Suffix}
type DirSink struct {
	Dir      string
	Suffix   string
	Manifest string // optional manifest file name written by Close

	mem    *MemorySink
	logger *zap.SugaredLogger
}

// NewDirSink creates a sink writing into dir, creating it when needed
func NewDirSink(dir, suffix, manifest string) *DirSink {
	if suffix == "" {
		suffix = config.DefaultSuffix
	}
	return &DirSink{
		Dir:      dir,
		Suffix:   suffix,
		Manifest: manifest,
		mem:      NewMemorySink(),
		logger:   logger.ComponentLogger("casegen.sink"),
	}
}

// FileName returns the file name a hint is written to
func (d *DirSink) FileName(hint string) string {
	return hint + d.Suffix
}

// AddSource implements Sink
func (d *DirSink) AddSource(src Source) error {
	before := d.mem.Len()
	if err := d.mem.AddSource(src); err != nil {
		return err
	}
	if d.mem.Len() == before {
		// identical re-add
		return nil
	}

	if err := os.MkdirAll(d.Dir, config.DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create output directory %s", d.Dir)
	}

	path := filepath.Join(d.Dir, d.FileName(src.Hint))
	if existing, err := os.ReadFile(path); err == nil && string(existing) == src.Text {
		d.logger.Debugw("Generated source unchanged", logger.FieldPath, path)
		return nil
	}
	if err := os.WriteFile(path, []byte(src.Text), config.DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	d.logger.Infow("Wrote generated source",
		logger.FieldHint, src.Hint,
		logger.FieldPath, path)
	return nil
}

// Sources returns what has been written so far
func (d *DirSink) Sources() []Source {
	return d.mem.Sources()
}

// ManifestEntry describes one generated file
type ManifestEntry struct {
	File      string       `yaml:"file"`
	Hint      string       `yaml:"hint"`
	Kind      ArtifactKind `yaml:"kind"`
	Type      string       `yaml:"type"`
	Namespace string       `yaml:"namespace"`
	Source    string       `yaml:"source,omitempty"`
	Line      int          `yaml:"line,omitempty"`
}

// Manifest lists the generated files of one pass, sorted by file name
type Manifest struct {
	Generator string          `yaml:"generator"`
	Files     []ManifestEntry `yaml:"files"`
}

// BuildManifest describes sources as they would be written by this sink
func (d *DirSink) BuildManifest(sources []Source) Manifest {
	m := Manifest{Generator: "casegen"}
	for _, src := range sources {
		m.Files = append(m.Files, ManifestEntry{
			File:      d.FileName(src.Hint),
			Hint:      src.Hint,
			Kind:      src.Kind,
			Type:      src.TypeName,
			Namespace: src.Namespace,
			Source:    filepath.ToSlash(src.Path),
			Line:      src.Pos.Line,
		})
	}
	sort.Slice(m.Files, func(i, j int) bool { return m.Files[i].File < m.Files[j].File })
	return m
}

// Close writes the manifest when one is configured
func (d *DirSink) Close() error {
	if d.Manifest == "" {
		return nil
	}

	manifest := d.BuildManifest(d.mem.Sources())
	data, err := yaml.Marshal(manifest)
	if err != nil {
		return errors.Wrap(err, "failed to marshal manifest")
	}
	if err := os.MkdirAll(d.Dir, config.DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create output directory %s", d.Dir)
	}

	path := filepath.Join(d.Dir, d.Manifest)
	if err := os.WriteFile(path, data, config.DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write manifest %s", path)
	}
	d.logger.Debugw("Wrote manifest", logger.FieldPath, path, logger.FieldCount, len(manifest.Files))
	return nil
}

// ReadManifest loads a manifest written by DirSink.Close
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", path)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "failed to parse manifest %s", path)
	}
	return &m, nil
}
