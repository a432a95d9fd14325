package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"

	"github.com/cmmoran/javagen/pkg/action/render"
	"github.com/cmmoran/javagen/pkg/manifest"
	"github.com/cmmoran/javagen/pkg/parser"
)

var ErrNoPrevious = errors.New("no current/previous snapshots recorded")

// Generate renders the current documents into OutDir/<version> and records the
// snapshot in the manifest. It returns the snapshot directory.
func Generate(ctx context.Context, opts *parser.Options, manifestPath, snapshotName, snapshotVersion string) (string, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return "", err
	}
	version, err := manifest.CanonicalVersion(snapshotVersion)
	if err != nil {
		return "", err
	}

	arts, err := render.Artifacts(ctx, opts)
	if err != nil {
		return "", err
	}
	dir := filepath.Clean(filepath.Join(opts.OutDir, version))
	if _, err := render.WriteArtifacts(dir, arts); err != nil {
		return "", err
	}

	names := make([]string, len(arts))
	for i, a := range arts {
		names[i] = a.Name
	}
	if err := m.AddSnapshot(manifest.Snapshot{Name: snapshotName, Version: version, Dir: dir, Artifacts: names}); err != nil {
		return "", err
	}
	if err := m.Save(manifestPath); err != nil {
		return "", err
	}

	return dir, nil
}

// List returns all snapshots recorded in the manifest.
func List(manifestPath string) (*manifest.Manifest, error) {
	return manifest.Load(manifestPath)
}

// FileDiff is the difference of one artifact between two snapshots. An
// artifact missing on one side diffs against the empty string.
type FileDiff struct {
	Name string
	Diff string
}

// DiffCurrentWithPrevious loads the manifest, locates the current and previous
// snapshots, and returns the textual diff of every artifact that changed.
func DiffCurrentWithPrevious(manifestPath string) ([]FileDiff, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	if m.CurrentVersion == "" || m.PreviousVersion == "" {
		return nil, ErrNoPrevious
	}

	current, ok := m.Snapshot(m.CurrentVersion)
	if !ok {
		return nil, errors.Newf("snapshot %s not found in manifest", m.CurrentVersion)
	}
	previous, ok := m.Snapshot(m.PreviousVersion)
	if !ok {
		return nil, errors.Newf("snapshot %s not found in manifest", m.PreviousVersion)
	}

	names := append(slices.Clone(previous.Artifacts), current.Artifacts...)
	slices.Sort(names)
	names = slices.Compact(names)

	var out []FileDiff
	for _, name := range names {
		before, err := readArtifact(previous, name)
		if err != nil {
			return nil, errors.Wrap(err, "read previous snapshot")
		}
		after, err := readArtifact(current, name)
		if err != nil {
			return nil, errors.Wrap(err, "read current snapshot")
		}
		if d := cmp.Diff(before, after); d != "" {
			out = append(out, FileDiff{Name: name, Diff: d})
		}
	}
	return out, nil
}

func readArtifact(s manifest.Snapshot, name string) (string, error) {
	if !slices.Contains(s.Artifacts, name) {
		return "", nil
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, filepath.FromSlash(name)))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
