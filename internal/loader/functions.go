package loader

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/shadermat/internal/value"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/gocty"
)

// linkType is the object produced by link(node, socket).
var linkType = cty.Object(map[string]cty.Type{
	"node":   cty.Number,
	"socket": cty.String,
})

// textureFunc is texture(path): a reference to an imported texture.
var textureFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "path", Type: cty.String},
	},
	Type: function.StaticReturnType(value.TextureRefType),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return value.ToCty(value.TextureRef{Path: args[0].AsString()}), nil
	},
})

// linkFunc is link(node, socket): output socket of an earlier node.
var linkFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "node", Type: cty.Number},
		{Name: "socket", Type: cty.String},
	},
	Type: function.StaticReturnType(linkType),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return cty.ObjectVal(map[string]cty.Value{
			"node":   args[0],
			"socket": args[1],
		}), nil
	},
})

func newEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"texture": textureFunc,
			"link":    linkFunc,
		},
	}
}

// decodeLink reads a link(...) result, or a plain { node, socket } object.
func decodeLink(v cty.Value) (node int, socket string, err error) {
	ty := v.Type()
	if v.IsNull() || !ty.IsObjectType() {
		return 0, "", fmt.Errorf("expected link(node, socket), got %s", ty.FriendlyName())
	}
	if !ty.HasAttribute("node") || !ty.HasAttribute("socket") {
		return 0, "", fmt.Errorf("link needs both node and socket")
	}
	if err := gocty.FromCtyValue(v.GetAttr("node"), &node); err != nil {
		return 0, "", fmt.Errorf("link node: %w", err)
	}
	if err := gocty.FromCtyValue(v.GetAttr("socket"), &socket); err != nil {
		return 0, "", fmt.Errorf("link socket: %w", err)
	}
	return node, socket, nil
}
