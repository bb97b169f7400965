package schema

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/vmihailenco/msgpack/v5"
)

// ManifestVersion is bumped whenever the encoded layout changes.
const ManifestVersion = 1

// ErrManifestVersion is returned when decoding a manifest written by an
// incompatible generator.
var ErrManifestVersion = errors.New("schema: unsupported manifest version")

// Manifest is the msgpack document written by 'deltacmp schema'. It lists
// every component schema found in one generator run, for editors and other
// tooling that need to know a component's parameters without loading Go
// packages themselves.
type Manifest struct {
	Version    int                `msgpack:"v"`
	Generator  string             `msgpack:"gen"`
	Components []*ComponentSchema `msgpack:"components"`
}

// NewManifest builds a manifest with components sorted by name.
func NewManifest(generator string, components []*ComponentSchema) *Manifest {
	sorted := make([]*ComponentSchema, len(components))
	copy(sorted, components)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	return &Manifest{
		Version:    ManifestVersion,
		Generator:  generator,
		Components: sorted,
	}
}

// Lookup returns the schema for a qualified component name.
func (m *Manifest) Lookup(name string) (*ComponentSchema, bool) {
	i := sort.Search(len(m.Components), func(i int) bool {
		return m.Components[i].Name >= name
	})
	if i < len(m.Components) && m.Components[i].Name == name {
		return m.Components[i], true
	}
	return nil, false
}

// Encode writes the manifest as msgpack.
func (m *Manifest) Encode(w io.Writer) error {
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)
	return enc.Encode(m)
}

// DecodeManifest reads a manifest written by Encode.
func DecodeManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := msgpack.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if m.Version != ManifestVersion {
		return nil, fmt.Errorf("%w: %d", ErrManifestVersion, m.Version)
	}
	return &m, nil
}
