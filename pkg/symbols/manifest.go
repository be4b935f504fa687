package symbols

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidManifest is returned for manifests that cannot be decoded or declare
// unnamed or duplicate cubes.
var ErrInvalidManifest = errors.New("invalid symbol manifest")

// Manifest declares symbols defined outside the compiled schema files, such as
// cubes owned by another repository or globals injected by the runtime:
//
//	cubes:
//	  - name: Users
//	    measures: [count]
//	    dimensions: [id, city]
//	views:
//	  - name: Overview
//	    dimensions: [city]
//	context: [TENANT_ID]
type Manifest struct {
	Cubes   []ManifestCube `yaml:"cubes"`
	Views   []ManifestCube `yaml:"views"`
	Context []string       `yaml:"context"`
}

// ManifestCube is one cube or view entry of a manifest.
type ManifestCube struct {
	Name            string   `yaml:"name"`
	Measures        []string `yaml:"measures"`
	Dimensions      []string `yaml:"dimensions"`
	Segments        []string `yaml:"segments"`
	PreAggregations []string `yaml:"pre_aggregations"`
	Hierarchies     []string `yaml:"hierarchies"`
}

// LoadManifest decodes a YAML manifest. Unknown keys are rejected. An empty
// document is a valid, empty manifest.
func LoadManifest(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifestFile reads and decodes the manifest at path.
func LoadManifestFile(path string) (*Manifest, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from user configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer func() { _ = f.Close() }()

	m, err := LoadManifest(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func (m *Manifest) validate() error {
	seen := make(map[string]struct{})
	for _, list := range [][]ManifestCube{m.Cubes, m.Views} {
		for i, c := range list {
			if c.Name == "" {
				return fmt.Errorf("%w: entry %d has no name", ErrInvalidManifest, i)
			}
			if _, dup := seen[c.Name]; dup {
				return fmt.Errorf("%w: %q declared twice", ErrInvalidManifest, c.Name)
			}
			seen[c.Name] = struct{}{}
		}
	}
	for _, name := range m.Context {
		if name == "" {
			return fmt.Errorf("%w: empty context symbol", ErrInvalidManifest)
		}
	}
	return nil
}

// Apply registers the manifest's symbols in t. source is recorded as the
// declaring file of each cube.
func (m *Manifest) Apply(t *Table, source string) {
	for _, c := range m.Cubes {
		t.Register(c.cube(source, false))
	}
	for _, c := range m.Views {
		t.Register(c.cube(source, true))
	}
	for _, name := range m.Context {
		t.RegisterContextSymbol(name, name)
	}
}

func (mc ManifestCube) cube(source string, view bool) *Cube {
	c := NewCube(mc.Name)
	c.IsView = view
	c.File = source
	c.External = true
	for _, group := range []struct {
		names []string
		typ   MemberType
	}{
		{mc.Measures, MemberMeasure},
		{mc.Dimensions, MemberDimension},
		{mc.Segments, MemberSegment},
		{mc.PreAggregations, MemberPreAggregation},
		{mc.Hierarchies, MemberHierarchy},
	} {
		for _, n := range group.names {
			c.AddMember(n, group.typ)
		}
	}
	return c
}
