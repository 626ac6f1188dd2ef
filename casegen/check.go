package casegen

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/JeremiahSanders/testingutils-xunit-extras/errors"
)

// Difference is one generated file that does not match freshly generated output
type Difference struct {
	Hint    string
	File    string
	Missing bool   // no file on disk
	Orphan  bool   // file on disk with no matching source
	Diff    string // line diff from disk to expected; empty for missing and orphaned files
}

// CheckResult holds the result of comparing generated sources with an output directory
type CheckResult struct {
	UpToDate    bool
	Checked     int
	Differences []Difference
}

// Check compares sources with the files DirSink would have written into dir.
// Generated-looking files in dir that no source accounts for are reported as orphans.
// When anything differs the result is returned together with an error wrapping ErrStale.
func Check(sources []Source, dir, suffix string) (*CheckResult, error) {
	sink := NewDirSink(dir, suffix, "")
	result := &CheckResult{}
	expected := make(map[string]bool, len(sources))

	for _, src := range sources {
		name := sink.FileName(src.Hint)
		expected[name] = true
		result.Checked++

		existing, err := os.ReadFile(filepath.Join(dir, name))
		if os.IsNotExist(err) {
			result.Differences = append(result.Differences, Difference{Hint: src.Hint, File: name, Missing: true})
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", name)
		}
		if string(existing) != src.Text {
			result.Differences = append(result.Differences, Difference{
				Hint: src.Hint,
				File: name,
				Diff: LineDiff(string(existing), src.Text),
			})
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "failed to list %s", dir)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, sink.Suffix) || expected[name] {
			continue
		}
		result.Differences = append(result.Differences, Difference{
			Hint:   strings.TrimSuffix(name, sink.Suffix),
			File:   name,
			Orphan: true,
		})
	}

	sort.SliceStable(result.Differences, func(i, j int) bool {
		return result.Differences[i].File < result.Differences[j].File
	})
	result.UpToDate = len(result.Differences) == 0

	if !result.UpToDate {
		err := errors.Wrapf(errors.ErrStale, "%d of %d generated files differ", len(result.Differences), result.Checked)
		return result, errors.WithHint(err, "run 'casegen' to regenerate")
	}
	return result, nil
}

// LineDiff renders a line-oriented diff from before to after. Unchanged lines are prefixed with
// two spaces, removed lines with "- " and added lines with "+ ".
func LineDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}
