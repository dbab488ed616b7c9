package memhost

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/shadermat/internal/host"
	"github.com/specialistvlad/shadermat/internal/value"
)

type slotType int

const (
	slotScalar slotType = iota
	slotVector
	slotEnum
	slotBool
	slotImage
	// slotShader inputs only accept links.
	slotShader
)

func (t slotType) String() string {
	switch t {
	case slotScalar:
		return "scalar"
	case slotVector:
		return "vector"
	case slotEnum:
		return "enum"
	case slotBool:
		return "bool"
	case slotImage:
		return "image"
	case slotShader:
		return "shader"
	default:
		return fmt.Sprintf("slotType(%d)", int(t))
	}
}

// slot describes what a property or input socket accepts.
type slot struct {
	typ  slotType
	size int
	// enum lists the accepted names of an enum slot. Empty accepts any name.
	enum []string
}

func scalar() slot { return slot{typ: slotScalar} }
func vector(size int) slot { return slot{typ: slotVector, size: size} }
func enum(names ...string) slot { return slot{typ: slotEnum, enum: names} }
func boolean() slot { return slot{typ: slotBool} }
func imageSlot() slot { return slot{typ: slotImage} }
func shader() slot { return slot{typ: slotShader} }

// accept checks v against the slot. name is only used in the error.
func (s slot) accept(name string, v host.Value) error {
	if v.Image != nil {
		if s.typ != slotImage {
			return fmt.Errorf("%w: %q expects %s, got image", host.ErrTypeMismatch, name, s.typ)
		}
		return nil
	}

	ok := false
	switch lit := v.Literal.(type) {
	case value.Scalar:
		ok = s.typ == slotScalar
	case value.Vector:
		if s.typ == slotVector && len(lit) != s.size {
			return fmt.Errorf("%w: %q expects %d components, got %d", host.ErrTypeMismatch, name, s.size, len(lit))
		}
		ok = s.typ == slotVector
	case value.Enum:
		if s.typ == slotEnum && len(s.enum) > 0 && !slices.Contains(s.enum, string(lit)) {
			return fmt.Errorf("%w: %q does not accept %q", host.ErrTypeMismatch, name, string(lit))
		}
		ok = s.typ == slotEnum
	case value.Bool:
		ok = s.typ == slotBool
	}
	if !ok {
		return fmt.Errorf("%w: %q expects %s, got %s", host.ErrTypeMismatch, name, s.typ, value.KindOf(v.Literal))
	}
	return nil
}

// kindSchema lists the properties and sockets of one node kind.
type kindSchema struct {
	properties map[string]slot
	inputs     map[string]slot
	outputs    []string
}

var kinds = map[string]kindSchema{
	"Principled": {
		properties: map[string]slot{
			"distribution":      enum("GGX", "MULTI_GGX"),
			"subsurface_method": enum("BURLEY", "RANDOM_WALK"),
		},
		inputs: map[string]slot{
			"Base Color":         vector(4),
			"Metallic":           scalar(),
			"Roughness":          scalar(),
			"IOR":                scalar(),
			"Alpha":              scalar(),
			"Normal":             vector(3),
			"Specular IOR Level": scalar(),
			"Emission Color":     vector(4),
			"Emission Strength":  scalar(),
		},
		outputs: []string{host.OutputBSDF},
	},
	"TransparentBSDF": {
		inputs:  map[string]slot{"Color": vector(4)},
		outputs: []string{host.OutputBSDF},
	},
	"ImageTexture": {
		properties: map[string]slot{
			"image":         imageSlot(),
			"interpolation": enum("Linear", "Closest", "Cubic", "Smart"),
			"extension":     enum("REPEAT", "EXTEND", "CLIP", "MIRROR"),
			"projection":    enum("FLAT", "BOX", "SPHERE", "TUBE"),
		},
		inputs:  map[string]slot{"Vector": vector(3)},
		outputs: []string{"Color", "Alpha"},
	},
	"Mix": {
		properties: map[string]slot{
			"blend_type": enum("MIX", "MULTIPLY", "ADD", "SUBTRACT", "SCREEN", "OVERLAY"),
			"use_clamp":  boolean(),
		},
		inputs:  map[string]slot{"Fac": scalar(), "Color1": vector(4), "Color2": vector(4)},
		outputs: []string{"Color"},
	},
	"NormalMap": {
		properties: map[string]slot{
			"space":  enum("TANGENT", "OBJECT", "WORLD"),
			"uv_map": enum(),
		},
		inputs:  map[string]slot{"Strength": scalar(), "Color": vector(4)},
		outputs: []string{"Normal"},
	},
	"SeparateColor": {
		properties: map[string]slot{"mode": enum("RGB", "HSV", "HSL")},
		inputs:     map[string]slot{"Color": vector(4)},
		outputs:    []string{"Red", "Green", "Blue"},
	},
	"Math": {
		properties: map[string]slot{
			"operation": enum("ADD", "SUBTRACT", "MULTIPLY", "DIVIDE", "POWER", "MINIMUM", "MAXIMUM", "LESS_THAN", "GREATER_THAN"),
			"use_clamp": boolean(),
		},
		inputs:  map[string]slot{"Value": scalar(), "Value_001": scalar()},
		outputs: []string{"Value"},
	},
	"Invert": {
		inputs:  map[string]slot{"Fac": scalar(), "Color": vector(4)},
		outputs: []string{"Color"},
	},
	"VertexColor": {
		properties: map[string]slot{"layer_name": enum()},
		outputs:    []string{"Color", "Alpha"},
	},
	host.KindMaterialOutput: {
		properties: map[string]slot{"target": enum("ALL", "EEVEE", "CYCLES")},
		inputs:     map[string]slot{host.InputSurface: shader(), "Volume": shader(), "Displacement": vector(3)},
	},
}

var materialProperties = map[string]slot{
	"blend_mode":            enum("Opaque", "Clip", "Hashed", "Blend"),
	"shadow_method":         enum("None", "Opaque", "Clip", "Hashed"),
	"use_backface_culling":  boolean(),
	"show_transparent_back": boolean(),
	"alpha_threshold":       scalar(),
	"diffuse_color":         vector(4),
	"roughness":             scalar(),
	"metallic":              scalar(),
}

// Colorspaces lists the colorspace names images accept.
var Colorspaces = []string{"sRGB", "Non-Color", "Linear Rec.709", "Raw", "XYZ"}

var fileFormats = []string{"PNG", "TARGA_RAW"}

var alphaModes = []string{"STRAIGHT", "PREMUL", "CHANNEL_PACKED", "NONE"}

var sources = []string{"FILE", host.SourcePacked, "GENERATED"}

// Kinds returns the node kinds this host can instantiate.
func Kinds() []string {
	names := make([]string, 0, len(kinds))
	for k := range kinds {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}
