package manifest

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/cockroachdb/errors"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

var ErrInvalidVersion = errors.New("invalid snapshot version")

// Snapshot represents a rendered source snapshot entry in the manifest.
// Artifacts are the artifact names written under Dir.
type Snapshot struct {
	Name      string   `yaml:"name" json:"name"`
	Version   string   `yaml:"version" json:"version"`
	Dir       string   `yaml:"dir" json:"dir"`
	Artifacts []string `yaml:"artifacts,omitempty" json:"artifacts,omitempty"`
}

// Manifest tracks the lifecycle of rendered source snapshots.
type Manifest struct {
	CurrentVersion  string     `yaml:"current_version" json:"current_version"`
	PreviousVersion string     `yaml:"previous_version" json:"previous_version"`
	Snapshots       []Snapshot `yaml:"snapshots" json:"snapshots"`
}

// Load reads a manifest from the provided path. If the file does not exist,
// an empty manifest is returned.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "unmarshal manifest")
	}

	return &m, nil
}

// Save writes the manifest to the provided path, creating parent directories as needed.
func (m *Manifest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create manifest directory")
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "marshal manifest")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "write manifest")
	}

	return nil
}

// CanonicalVersion returns v in canonical semver form, accepting a missing
// leading "v".
func CanonicalVersion(v string) (string, error) {
	if v != "" && v[0] != 'v' {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", errors.Mark(errors.Newf("%q is not a semantic version", v), ErrInvalidVersion)
	}
	return semver.Canonical(v), nil
}

// AddSnapshot records a snapshot, updating version pointers and de-duplicating
// existing entries that share the same name and version.
func (m *Manifest) AddSnapshot(s Snapshot) error {
	v, err := CanonicalVersion(s.Version)
	if err != nil {
		return err
	}
	s.Version = v

	if m.CurrentVersion != "" && m.CurrentVersion != v {
		m.PreviousVersion = m.CurrentVersion
	}
	m.CurrentVersion = v

	for i := range m.Snapshots {
		if m.Snapshots[i].Name == s.Name && m.Snapshots[i].Version == s.Version {
			m.Snapshots[i] = s
			return nil
		}
	}

	m.Snapshots = append(m.Snapshots, s)
	return nil
}

// Snapshot returns the snapshot recorded for version, if present.
func (m *Manifest) Snapshot(version string) (Snapshot, bool) {
	if v, err := CanonicalVersion(version); err == nil {
		version = v
	}
	for _, s := range m.Snapshots {
		if s.Version == version {
			return s, true
		}
	}
	return Snapshot{}, false
}

// SnapshotDir returns the directory associated with the provided version, if present.
func (m *Manifest) SnapshotDir(version string) string {
	s, _ := m.Snapshot(version)
	return s.Dir
}

// Sorted returns the snapshots ordered by version, oldest first.
func (m *Manifest) Sorted() []Snapshot {
	out := slices.Clone(m.Snapshots)
	slices.SortStableFunc(out, func(a, b Snapshot) int {
		return semver.Compare(a.Version, b.Version)
	})
	return out
}
