// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file loads texture and material descriptors from .hcl files.
//
// Why HCL?
//
// Material graphs are small, hand-editable documents with nested blocks and a
// few typed values (colors, enums, texture references, links). HCL gives us
// labelled blocks for materials and nodes, and its function calls give the two
// non-literal values a readable spelling:
//
//	texture("metal/plate01")  // a reference to an imported texture
//	link(0, "Color")          // output "Color" of node 0
//
// A user can spread textures and materials over many files and directories;
// the loader walks them all and returns one combined Set, so a material may
// reference a texture declared anywhere in the tree.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/shadermat/internal/ctxlog"
	"github.com/specialistvlad/shadermat/internal/descriptor"
	"github.com/specialistvlad/shadermat/internal/fsutil"
	"github.com/specialistvlad/shadermat/internal/imagefmt"
	"github.com/specialistvlad/shadermat/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Options controls how descriptors are built.
type Options struct {
	// TextureEncoding is the encoding materials expect their textures in
	// unless a material sets texture_format itself.
	TextureEncoding descriptor.Encoding
}

// Set is everything found under one or more paths.
type Set struct {
	Textures  []descriptor.TextureDescriptor
	Materials []descriptor.MaterialDescriptor
}

// HCL loads descriptor files written in HCL.
type HCL struct {
	opts Options
}

// New creates an HCL loader.
func New(opts Options) *HCL {
	return &HCL{opts: opts}
}

// hclFile is the top-level structure of a descriptor file.
type hclFile struct {
	Textures  []*hclTexture  `hcl:"texture,block"`
	Materials []*hclMaterial `hcl:"material,block"`
}

type hclTexture struct {
	Name string `hcl:"name,label"`
	File string `hcl:"file"`
}

type hclMaterial struct {
	Name               string            `hcl:"name,label"`
	TextureFormat      *string           `hcl:"texture_format,optional"`
	Properties         hcl.Expression    `hcl:"properties,optional"`
	TextureColorspaces map[string]string `hcl:"texture_colorspaces,optional"`
	Nodes              []*hclNode        `hcl:"node,block"`
}

type hclNode struct {
	Kind       string         `hcl:"kind,label"`
	Position   []float32      `hcl:"position,optional"`
	Properties hcl.Expression `hcl:"properties,optional"`
	Defaults   hcl.Expression `hcl:"defaults,optional"`
	Links      hcl.Expression `hcl:"links,optional"`
}

// Load reads every .hcl file under paths. Names must be unique across all
// files.
func (l *HCL) Load(ctx context.Context, paths ...string) (*Set, error) {
	logger := ctxlog.FromContext(ctx)
	parser := hclparse.NewParser()
	set := &Set{}

	for _, root := range paths {
		logger.Debug("Loading descriptors from path.", "path", root)
		files, err := fsutil.FindFilesByExtension(root, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("failed to find descriptor files in %s: %w", root, err)
		}
		if len(files) == 0 {
			logger.Warn("No .hcl descriptor files found in path.", "path", root)
		}
		for _, file := range files {
			src, err := os.ReadFile(file)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", file, err)
			}
			fileSet, err := l.parse(parser, src, file)
			if err != nil {
				return nil, err
			}
			set.Textures = append(set.Textures, fileSet.Textures...)
			set.Materials = append(set.Materials, fileSet.Materials...)
		}
	}

	if err := checkUnique(set); err != nil {
		return nil, err
	}
	for _, m := range set.Materials {
		if unused := unreferencedColorspaces(m); len(unused) > 0 {
			logger.Warn("Colorspace set for textures no node of the material references.", "material", m.Name, "textures", unused)
		}
	}
	logger.Debug("Descriptors loaded.", "textures", len(set.Textures), "materials", len(set.Materials))
	return set, nil
}

// Parse decodes one file's contents. Texture files are resolved relative to
// the directory of filename.
func (l *HCL) Parse(src []byte, filename string) (*Set, error) {
	set, err := l.parse(hclparse.NewParser(), src, filename)
	if err != nil {
		return nil, err
	}
	if err := checkUnique(set); err != nil {
		return nil, err
	}
	return set, nil
}

func (l *HCL) parse(parser *hclparse.Parser, src []byte, filename string) (*Set, error) {
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	evalCtx := newEvalContext()
	var parsed hclFile
	diags = gohcl.DecodeBody(file.Body, evalCtx, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	set := &Set{}
	baseDir := filepath.Dir(filename)
	for _, t := range parsed.Textures {
		tex, err := loadTexture(t, baseDir)
		if err != nil {
			return nil, fmt.Errorf("%s: texture %q: %w", filename, t.Name, err)
		}
		set.Textures = append(set.Textures, tex)
	}
	for _, m := range parsed.Materials {
		mat, err := l.buildMaterial(m, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("%s: material %q: %w", filename, m.Name, err)
		}
		set.Materials = append(set.Materials, mat)
	}
	return set, nil
}

func loadTexture(t *hclTexture, baseDir string) (descriptor.TextureDescriptor, error) {
	path := t.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	enc, err := descriptor.EncodingFromExtension(filepath.Ext(path))
	if err != nil {
		return descriptor.TextureDescriptor{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return descriptor.TextureDescriptor{}, fmt.Errorf("failed to read texture file: %w", err)
	}
	w, h, err := imagefmt.Dimensions(enc, data)
	if err != nil {
		return descriptor.TextureDescriptor{}, fmt.Errorf("%s: %w", path, err)
	}

	tex := descriptor.TextureDescriptor{Name: t.Name, Width: w, Height: h, Encoding: enc, Data: data}
	return tex, tex.Validate()
}

func (l *HCL) buildMaterial(m *hclMaterial, evalCtx *hcl.EvalContext) (descriptor.MaterialDescriptor, error) {
	mat := descriptor.MaterialDescriptor{
		Name:               m.Name,
		TextureEncoding:    l.opts.TextureEncoding,
		TextureColorspaces: m.TextureColorspaces,
	}
	if m.TextureFormat != nil {
		enc, err := descriptor.ParseEncoding(*m.TextureFormat)
		if err != nil {
			return mat, err
		}
		mat.TextureEncoding = enc
	}

	var err error
	if mat.Properties, err = evalValueMap(m.Properties, evalCtx); err != nil {
		return mat, fmt.Errorf("properties: %w", err)
	}

	for i, n := range m.Nodes {
		nd, err := buildNode(n, evalCtx)
		if err != nil {
			return mat, fmt.Errorf("node %d (%s): %w", i, n.Kind, err)
		}
		mat.Nodes = append(mat.Nodes, nd)
	}

	return mat, mat.Validate()
}

func buildNode(n *hclNode, evalCtx *hcl.EvalContext) (descriptor.NodeDescriptor, error) {
	nd := descriptor.NodeDescriptor{Kind: n.Kind}
	switch len(n.Position) {
	case 0:
	case 2:
		nd.Position[0], nd.Position[1] = n.Position[0], n.Position[1]
	default:
		return nd, fmt.Errorf("position needs 2 numbers, got %d", len(n.Position))
	}

	var err error
	if nd.Properties, err = evalValueMap(n.Properties, evalCtx); err != nil {
		return nd, fmt.Errorf("properties: %w", err)
	}
	if nd.SocketDefaults, err = evalValueMap(n.Defaults, evalCtx); err != nil {
		return nd, fmt.Errorf("defaults: %w", err)
	}
	if nd.SocketLinks, err = evalLinks(n.Links, evalCtx); err != nil {
		return nd, fmt.Errorf("links: %w", err)
	}
	return nd, nil
}

// evalObject evaluates an optional object-valued attribute. A missing
// attribute evaluates to null and yields no elements.
func evalObject(expr hcl.Expression, evalCtx *hcl.EvalContext) (map[string]cty.Value, error) {
	if expr == nil {
		return nil, nil
	}
	v, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	if v.IsNull() {
		return nil, nil
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("expected an object, got %s", ty.FriendlyName())
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	out := make(map[string]cty.Value, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		k, elem := it.Element()
		out[k.AsString()] = elem
	}
	return out, nil
}

func evalValueMap(expr hcl.Expression, evalCtx *hcl.EvalContext) (map[string]value.Value, error) {
	raw, err := evalObject(expr, evalCtx)
	if err != nil || raw == nil {
		return nil, err
	}
	out := make(map[string]value.Value, len(raw))
	for _, k := range descriptor.SortedKeys(raw) {
		v, err := value.FromCty(raw[k])
		if err != nil {
			return nil, fmt.Errorf("%q: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}

func evalLinks(expr hcl.Expression, evalCtx *hcl.EvalContext) (map[string]descriptor.SocketLink, error) {
	raw, err := evalObject(expr, evalCtx)
	if err != nil || raw == nil {
		return nil, err
	}
	out := make(map[string]descriptor.SocketLink, len(raw))
	for _, k := range descriptor.SortedKeys(raw) {
		node, socket, err := decodeLink(raw[k])
		if err != nil {
			return nil, fmt.Errorf("%q: %w", k, err)
		}
		out[k] = descriptor.SocketLink{NodeIndex: node, Socket: socket}
	}
	return out, nil
}

// unreferencedColorspaces returns the texture_colorspaces entries of m that
// no node property or socket default refers to.
func unreferencedColorspaces(m descriptor.MaterialDescriptor) []string {
	used := m.TextureNames()
	var unused []string
	for _, name := range descriptor.SortedKeys(m.TextureColorspaces) {
		if !slices.Contains(used, name) {
			unused = append(unused, name)
		}
	}
	return unused
}

func checkUnique(set *Set) error {
	textures := make(map[string]struct{}, len(set.Textures))
	for _, t := range set.Textures {
		if _, dup := textures[t.Name]; dup {
			return fmt.Errorf("texture %q is declared more than once", t.Name)
		}
		textures[t.Name] = struct{}{}
	}
	materials := make(map[string]struct{}, len(set.Materials))
	for _, m := range set.Materials {
		if _, dup := materials[m.Name]; dup {
			return fmt.Errorf("material %q is declared more than once", m.Name)
		}
		materials[m.Name] = struct{}{}
	}
	return nil
}
