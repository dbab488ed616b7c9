package app

import (
	"context"
	"log/slog"

	"github.com/davecgh/go-spew/spew"
	"github.com/specialistvlad/shadermat/internal/descriptor"
	"github.com/specialistvlad/shadermat/internal/loader"
)

var spewConfig = &spew.ConfigState{
	Indent:                  " ",
	DisableCapacities:       true,
	DisablePointerAddresses: true,
	SortKeys:                true,
}

// textureHeader is a texture descriptor without its pixel data.
type textureHeader struct {
	Name     string
	Width    int
	Height   int
	Encoding descriptor.Encoding
	Bytes    int
}

// dumpDescriptors logs every loaded descriptor at debug level.
func (app *App) dumpDescriptors(set *loader.Set) {
	if !app.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	for _, t := range set.Textures {
		h := textureHeader{Name: t.Name, Width: t.Width, Height: t.Height, Encoding: t.Encoding, Bytes: len(t.Data)}
		app.logger.Debug("Loaded texture descriptor.", "name", t.Name, "dump", spewConfig.Sdump(h))
	}
	for _, m := range set.Materials {
		app.logger.Debug("Loaded material descriptor.", "name", m.Name, "dump", spewConfig.Sdump(m))
	}
}
