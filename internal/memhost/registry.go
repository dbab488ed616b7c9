// Package memhost is an in-memory host for materialized shader graphs. It
// keeps images and materials in process memory and validates every node
// kind, property and socket against a fixed schema table.
//
// # Concurrency Model
//
// The registry maps are guarded by one RWMutex. Each material guards its
// properties, tags and node tree with its own RWMutex, so readers such as the
// inspection server can walk a material while another material is rebuilt.
// Serializing builds of the same material is the caller's job.
package memhost

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/specialistvlad/shadermat/internal/host"
	"github.com/specialistvlad/shadermat/internal/naming"
)

// Registry is the in-memory host.Registry.
type Registry struct {
	mu        sync.RWMutex
	images    map[string]*Image
	materials map[string]*Material

	maxNameLength int
	uploads       atomic.Int64
}

var _ host.Registry = (*Registry)(nil)

// New creates an empty registry accepting names up to naming.DefaultMaxLength.
func New() *Registry {
	return NewWithLimit(naming.DefaultMaxLength)
}

// NewWithLimit creates an empty registry accepting names up to maxNameLength
// characters.
func NewWithLimit(maxNameLength int) *Registry {
	return &Registry{
		images:        make(map[string]*Image),
		materials:     make(map[string]*Material),
		maxNameLength: maxNameLength,
	}
}

// MaxNameLength returns the longest accepted image or material name.
func (r *Registry) MaxNameLength() int {
	return r.maxNameLength
}

// Uploads returns how many times image bytes have been packed.
func (r *Registry) Uploads() int {
	return int(r.uploads.Load())
}

func (r *Registry) checkName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", host.ErrInvalidName)
	}
	if n := len([]rune(name)); n > r.maxNameLength {
		return fmt.Errorf("%w: %q has %d characters, limit is %d", host.ErrInvalidName, name, n, r.maxNameLength)
	}
	return nil
}

func (r *Registry) Image(name string) (host.Image, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	img, ok := r.images[name]
	if !ok {
		return nil, false
	}
	return img, true
}

func (r *Registry) NewImage(name string, width, height int, alpha bool) (host.Image, error) {
	if err := r.checkName(name); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: image %q size %dx%d", host.ErrInvalidImageData, name, width, height)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.images[name]; exists {
		return nil, fmt.Errorf("%w: image %q", host.ErrNameTaken, name)
	}
	img := &Image{
		registry:   r,
		name:       name,
		width:      width,
		height:     height,
		alpha:      alpha,
		source:     "GENERATED",
		alphaMode:  "STRAIGHT",
		colorspace: "sRGB",
	}
	r.images[name] = img
	return img, nil
}

func (r *Registry) RemoveImage(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.images, name)
}

func (r *Registry) Material(name string) (host.Material, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.materials[name]
	if !ok {
		return nil, false
	}
	return m, true
}

func (r *Registry) NewMaterial(name string) (host.Material, error) {
	if err := r.checkName(name); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.materials[name]; exists {
		return nil, fmt.Errorf("%w: material %q", host.ErrNameTaken, name)
	}
	m := newMaterial(name)
	r.materials[name] = m
	return m, nil
}

// Images returns every image sorted by name.
func (r *Registry) Images() []*Image {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Image, 0, len(r.images))
	for _, img := range r.images {
		out = append(out, img)
	}
	slices.SortFunc(out, func(a, b *Image) int { return strings.Compare(a.name, b.name) })
	return out
}

// Materials returns every material sorted by name.
func (r *Registry) Materials() []*Material {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Material, 0, len(r.materials))
	for _, m := range r.materials {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b *Material) int { return strings.Compare(a.name, b.name) })
	return out
}

// LookupMaterial returns the concrete material stored under name.
func (r *Registry) LookupMaterial(name string) (*Material, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.materials[name]
	return m, ok
}
