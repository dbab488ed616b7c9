// Package gltfexport writes the materials held by an in-memory host as a
// glTF document, so an import can be checked in any glTF viewer.
//
// Only what glTF's metallic-roughness model can express is carried over: the
// Principled node feeding the material output gives the base color, metallic
// and roughness factors, and an ImageTexture linked into its Base Color
// becomes the base color texture. Other node kinds are ignored.
package gltfexport

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/specialistvlad/shadermat/internal/ctxlog"
	"github.com/specialistvlad/shadermat/internal/host"
	"github.com/specialistvlad/shadermat/internal/memhost"
	"github.com/specialistvlad/shadermat/internal/value"
)

const (
	kindPrincipled   = "Principled"
	kindImageTexture = "ImageTexture"
	inputBaseColor   = "Base Color"
)

// exporter builds one document. Each host image is written at most once.
type exporter struct {
	doc      *gltf.Document
	textures map[string]uint32
}

// Export converts every material of reg into a glTF document.
func Export(ctx context.Context, reg *memhost.Registry) (*gltf.Document, error) {
	logger := ctxlog.FromContext(ctx)
	e := &exporter{doc: gltf.NewDocument(), textures: make(map[string]uint32)}

	for _, mat := range reg.Materials() {
		gm, err := e.material(ctx, mat)
		if err != nil {
			return nil, errors.Wrapf(err, "Unable to export material %q", mat.Name())
		}
		e.doc.Materials = append(e.doc.Materials, gm)
	}

	logger.Debug("glTF document built.", "materials", len(e.doc.Materials), "textures", len(e.doc.Textures), "images", len(e.doc.Images))
	return e.doc, nil
}

// WriteBinary encodes doc as GLB.
func WriteBinary(w io.Writer, doc *gltf.Document) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}

// SaveFile writes doc to path, as GLB when path ends in .glb and as JSON glTF
// otherwise.
func SaveFile(path string, doc *gltf.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Unable to create %q", path)
	}
	defer f.Close()

	encoder := gltf.NewEncoder(f)
	encoder.AsBinary = strings.EqualFold(filepath.Ext(path), ".glb")
	if err := encoder.Encode(doc); err != nil {
		return errors.Wrapf(err, "Unable to encode %q", path)
	}
	return f.Close()
}

func (e *exporter) material(ctx context.Context, mat *memhost.Material) (*gltf.Material, error) {
	logger := ctxlog.FromContext(ctx).With("material", mat.Name())

	gm := &gltf.Material{
		Name:                 mat.Name(),
		DoubleSided:          !boolProperty(mat, "use_backface_culling"),
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{},
	}
	if path, ok := mat.Tag(host.TagPathID); ok {
		gm.Extras = map[string]string{host.TagPathID: path}
	}

	switch enumProperty(mat, "blend_mode") {
	case "Clip", "Hashed":
		gm.AlphaMode = gltf.AlphaMask
		if v, ok := mat.Property("alpha_threshold"); ok {
			if s, ok := v.Literal.(value.Scalar); ok {
				gm.AlphaCutoff = gltf.Float(float32(s))
			}
		}
	case "Blend":
		gm.AlphaMode = gltf.AlphaBlend
	default:
		gm.AlphaMode = gltf.AlphaOpaque
	}

	shader := surfaceShader(mat.Tree())
	if shader == nil || shader.Kind() != kindPrincipled {
		logger.Debug("Material has no Principled surface, exporting defaults.")
		return gm, nil
	}

	pbr := gm.PBRMetallicRoughness
	if v, ok := shader.Default(inputBaseColor); ok {
		if c, ok := v.Literal.(value.Vector); ok && len(c) >= 3 {
			color := [4]float32{float32(c[0]), float32(c[1]), float32(c[2]), 1}
			if len(c) >= 4 {
				color[3] = float32(c[3])
			}
			pbr.BaseColorFactor = &color
		}
	}
	if f, ok := scalarDefault(shader, "Metallic"); ok {
		pbr.MetallicFactor = gltf.Float(f)
	}
	if f, ok := scalarDefault(shader, "Roughness"); ok {
		pbr.RoughnessFactor = gltf.Float(f)
	}

	link, ok := mat.Tree().LinkInto(shader, inputBaseColor)
	if !ok || link.From.Kind() != kindImageTexture {
		return gm, nil
	}
	index, ok, err := e.texture(ctx, link.From)
	if err != nil {
		return nil, err
	}
	if ok {
		pbr.BaseColorTexture = &gltf.TextureInfo{Index: index}
	}
	return gm, nil
}

// texture returns the glTF texture for the image of an ImageTexture node.
// ok is false when the node has no image or the image cannot be embedded.
func (e *exporter) texture(ctx context.Context, node *memhost.Node) (uint32, bool, error) {
	logger := ctxlog.FromContext(ctx)

	v, ok := node.Property("image")
	if !ok || v.Image == nil {
		return 0, false, nil
	}
	img, ok := v.Image.(*memhost.Image)
	if !ok {
		return 0, false, nil
	}
	if index, ok := e.textures[img.Name()]; ok {
		return index, true, nil
	}
	if img.FileFormat() != "PNG" {
		logger.Warn("Skipping non-PNG image, glTF cannot embed it.", "image", img.Name(), "format", img.FileFormat())
		return 0, false, nil
	}
	data := img.Data()
	if len(data) == 0 {
		logger.Warn("Skipping image without data.", "image", img.Name())
		return 0, false, nil
	}

	sampler := &gltf.Sampler{
		Name:      img.Name() + "_sampler",
		MinFilter: gltf.MinLinear,
		MagFilter: gltf.MagLinear,
		WrapS:     gltf.WrapRepeat,
		WrapT:     gltf.WrapRepeat,
	}
	if enumProperty(node, "interpolation") == "Closest" {
		sampler.MinFilter = gltf.MinNearest
		sampler.MagFilter = gltf.MagNearest
	}
	switch enumProperty(node, "extension") {
	case "EXTEND", "CLIP":
		sampler.WrapS = gltf.WrapClampToEdge
		sampler.WrapT = gltf.WrapClampToEdge
	case "MIRROR":
		sampler.WrapS = gltf.WrapMirroredRepeat
		sampler.WrapT = gltf.WrapMirroredRepeat
	}
	samplerIndex := uint32(len(e.doc.Samplers))
	e.doc.Samplers = append(e.doc.Samplers, sampler)

	imageIndex, err := modeler.WriteImage(e.doc, img.Name()+"_image", "image/png", bytes.NewReader(data))
	if err != nil {
		return 0, false, errors.Wrapf(err, "Failed to write gltf image %q", img.Name())
	}

	index := uint32(len(e.doc.Textures))
	e.doc.Textures = append(e.doc.Textures, &gltf.Texture{
		Name:    img.Name(),
		Sampler: gltf.Index(samplerIndex),
		Source:  gltf.Index(imageIndex),
	})
	e.textures[img.Name()] = index
	return index, true, nil
}

// surfaceShader returns the node linked into the Surface input of the
// material output, or nil.
func surfaceShader(tree *memhost.NodeTree) *memhost.Node {
	for _, n := range tree.All() {
		if n.Kind() != host.KindMaterialOutput {
			continue
		}
		if link, ok := tree.LinkInto(n, host.InputSurface); ok {
			return link.From
		}
	}
	return nil
}

type propertyReader interface {
	Property(name string) (host.Value, bool)
}

func enumProperty(r propertyReader, name string) string {
	v, ok := r.Property(name)
	if !ok {
		return ""
	}
	e, _ := v.Literal.(value.Enum)
	return string(e)
}

func boolProperty(r propertyReader, name string) bool {
	v, ok := r.Property(name)
	if !ok {
		return false
	}
	b, _ := v.Literal.(value.Bool)
	return bool(b)
}

func scalarDefault(n *memhost.Node, input string) (float32, bool) {
	v, ok := n.Default(input)
	if !ok {
		return 0, false
	}
	s, ok := v.Literal.(value.Scalar)
	return float32(s), ok
}
