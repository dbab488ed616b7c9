package importer

import (
	"fmt"
	"maps"
	"slices"

	"github.com/specialistvlad/shadermat/internal/descriptor"
	"github.com/specialistvlad/shadermat/internal/value"
)

// Names the settings write into descriptors.
const (
	kindImageTexture       = "ImageTexture"
	propInterpolation      = "interpolation"
	propUseBackfaceCulling = "use_backface_culling"
)

// DefaultInterpolation is the texture interpolation of DefaultSettings.
const DefaultInterpolation = "Linear"

// Interpolations are the accepted texture interpolation settings.
var Interpolations = []string{"Linear", "Closest", "Cubic", "Smart"}

// Settings are the import options shared by every asset of a session.
type Settings struct {
	// Workers is the number of concurrent builds; values below 1 mean 1.
	Workers int
	// TextureInterpolation is set on ImageTexture nodes that leave their
	// interpolation unset. Empty leaves them alone.
	TextureInterpolation string
	// AllowCulling is written as use_backface_culling on materials that do
	// not set it.
	AllowCulling bool
}

// DefaultSettings returns the settings used when none are given.
func DefaultSettings() Settings {
	return Settings{Workers: 1, TextureInterpolation: DefaultInterpolation}
}

// Validate rejects unknown interpolation names.
func (s Settings) Validate() error {
	if s.TextureInterpolation == "" {
		return nil
	}
	if slices.Contains(Interpolations, s.TextureInterpolation) {
		return nil
	}
	return fmt.Errorf("invalid texture interpolation %q: must be one of %v", s.TextureInterpolation, Interpolations)
}

// Apply returns a copy of mat with the session defaults filled in. Values
// the descriptor sets itself are never overwritten, and mat is not modified.
func (s Settings) Apply(mat descriptor.MaterialDescriptor) descriptor.MaterialDescriptor {
	out := mat

	if _, ok := mat.Properties[propUseBackfaceCulling]; !ok {
		out.Properties = maps.Clone(mat.Properties)
		if out.Properties == nil {
			out.Properties = make(map[string]value.Value, 1)
		}
		out.Properties[propUseBackfaceCulling] = value.Bool(s.AllowCulling)
	}

	if s.TextureInterpolation == "" {
		return out
	}
	out.Nodes = make([]descriptor.NodeDescriptor, len(mat.Nodes))
	for i, n := range mat.Nodes {
		if n.Kind == kindImageTexture {
			if _, ok := n.Properties[propInterpolation]; !ok {
				props := maps.Clone(n.Properties)
				if props == nil {
					props = make(map[string]value.Value, 1)
				}
				props[propInterpolation] = value.Enum(s.TextureInterpolation)
				n.Properties = props
			}
		}
		out.Nodes[i] = n
	}
	return out
}
