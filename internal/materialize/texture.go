package materialize

import (
	"context"

	"github.com/specialistvlad/shadermat/internal/ctxlog"
	"github.com/specialistvlad/shadermat/internal/descriptor"
	"github.com/specialistvlad/shadermat/internal/host"
	"github.com/specialistvlad/shadermat/internal/resource"
)

// MaterializeTexture returns the image for tex, uploading it on first use.
// An image that already exists under the texture's key is returned as is,
// without another upload or size check. If configuring or packing the new
// image fails, it is removed again so a later call starts over.
func MaterializeTexture(ctx context.Context, cache *resource.Cache, tex descriptor.TextureDescriptor) (host.Image, error) {
	logger := ctxlog.FromContext(ctx).With("texture", tex.Name)
	if err := tex.Encoding.Check(); err != nil {
		return nil, &ResourceError{Name: tex.Name, Err: err}
	}
	key := cache.Key(tex.Name + tex.Encoding.Extension())

	var img host.Image
	err := cache.WithLock(resource.KindImage, key, func() error {
		if existing, ok := cache.Image(key); ok {
			logger.Debug("Texture already materialized, reusing image.", "key", key)
			img = existing
			return nil
		}

		created, err := cache.Registry().NewImage(key, tex.Width, tex.Height, true)
		if err != nil {
			return &ResourceError{Name: tex.Name, Err: err}
		}
		steps := []func() error{
			func() error { return created.SetFileFormat(tex.Encoding.FileFormat()) },
			func() error { return created.SetSource(host.SourcePacked) },
			func() error { return created.Pack(tex.Data) },
			func() error { return created.SetAlphaMode(host.AlphaModeChannelPacked) },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				cache.Registry().RemoveImage(key)
				return &ResourceError{Name: tex.Name, Err: err}
			}
		}

		logger.Debug("Texture materialized.", "key", key, "width", tex.Width, "height", tex.Height, "bytes", len(tex.Data))
		img = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}
