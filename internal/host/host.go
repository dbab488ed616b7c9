// Package host declares the boundary between the materialize engine and the
// application that owns images, materials and shader node trees.
//
// The engine only ever talks to these interfaces. An implementation decides
// which node kinds, properties and sockets exist and rejects anything else
// with one of the sentinel errors below.
package host

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/specialistvlad/shadermat/internal/value"
)

var (
	ErrUnknownKind       = errors.New("unknown node kind")
	ErrUnknownProperty   = errors.New("unknown property")
	ErrUnknownSocket     = errors.New("unknown socket")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrInvalidImageData  = errors.New("invalid image data")
	ErrUnknownColorspace = errors.New("unknown colorspace")
	ErrNameTaken         = errors.New("name already in use")
	ErrInvalidName       = errors.New("invalid name")
)

const (
	// KindMaterialOutput is the node every material tree ends in.
	KindMaterialOutput = "MaterialOutput"
	// OutputBSDF is the output of a shader node wired into the material output.
	OutputBSDF = "BSDF"
	// InputSurface is the material output input receiving the shader.
	InputSurface = "Surface"
	// TagPathID holds the untruncated path a material was built from.
	TagPathID = "path_id"

	SourcePacked           = "PACKED"
	AlphaModeChannelPacked = "CHANNEL_PACKED"
)

// Value is a resolved property or socket value: either a literal or an image
// handle. Exactly one of the fields is set.
type Value struct {
	Literal value.Value
	Image   Image
}

// Literal wraps a non-texture value.
func Literal(v value.Value) Value { return Value{Literal: v} }

// ImageValue wraps an image handle.
func ImageValue(img Image) Value { return Value{Image: img} }

func (v Value) String() string {
	if v.Image != nil {
		return "image(" + v.Image.Name() + ")"
	}
	if v.Literal == nil {
		return "<nil>"
	}
	return v.Literal.String()
}

// Settable is any host object with named, typed properties. Nodes and
// materials both implement it.
type Settable interface {
	Name() string
	Set(property string, v Value) error
}

// Registry is the host's store of images and materials, keyed by name.
type Registry interface {
	Image(name string) (Image, bool)
	NewImage(name string, width, height int, alpha bool) (Image, error)
	// RemoveImage drops the image stored under name, if any.
	RemoveImage(name string)
	Material(name string) (Material, bool)
	NewMaterial(name string) (Material, error)
}

// Image is an uploaded texture.
type Image interface {
	Name() string
	Size() (width, height int)
	SetFileFormat(format string) error
	SetSource(source string) error
	// Pack uploads encoded file bytes into the image.
	Pack(data []byte) error
	SetAlphaMode(mode string) error
	SetColorspace(name string) error
}

// Material is a named material owning one node tree.
type Material interface {
	Settable
	SetTag(key, val string)
	Tag(key string) (string, bool)
	NodeTree() NodeTree
}

// NodeTree holds the nodes and links of a material.
type NodeTree interface {
	Clear()
	NewNode(kind string) (Node, error)
	Link(from OutputSocket, to InputSocket) error
	Nodes() []Node
}

// Node is one shader node inside a tree.
type Node interface {
	Settable
	Kind() string
	SetLocation(pos mgl32.Vec2)
	Input(name string) (InputSocket, bool)
	Output(name string) (OutputSocket, bool)
}

type InputSocket interface {
	Name() string
	SetDefault(v Value) error
}

type OutputSocket interface {
	Name() string
}
