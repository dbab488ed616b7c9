package materialize

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/specialistvlad/shadermat/internal/descriptor"
	"github.com/specialistvlad/shadermat/internal/host"
	"github.com/specialistvlad/shadermat/internal/imagefmt"
	"github.com/specialistvlad/shadermat/internal/memhost"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterializeTexture_Idempotent(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	cache, reg := newTestCache()
	tex := pngTexture(t, "metal/plate01", 4, 4)

	// --- Act ---
	first, err := MaterializeTexture(testContext(), cache, tex)
	require.NoError(t, err)
	second, err := MaterializeTexture(testContext(), cache, tex)
	require.NoError(t, err)

	// --- Assert ---
	assert.Same(t, first, second)
	assert.Equal(t, 1, reg.Uploads(), "bytes must be uploaded exactly once")
	assert.Len(t, reg.Images(), 1)
}

func TestMaterializeTexture_ConfiguresImage(t *testing.T) {
	t.Parallel()

	cache, _ := newTestCache()
	img, err := MaterializeTexture(testContext(), cache, pngTexture(t, "metal/plate01", 4, 2))
	require.NoError(t, err)

	concrete := img.(*memhost.Image)
	assert.Equal(t, "metal/plate01.png", concrete.Name())
	assert.Equal(t, "PNG", concrete.FileFormat())
	assert.Equal(t, host.SourcePacked, concrete.Source())
	assert.Equal(t, host.AlphaModeChannelPacked, concrete.AlphaMode())
	assert.True(t, concrete.HasAlpha())
	w, h := concrete.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 2, h)
}

func TestMaterializeTexture_TGA(t *testing.T) {
	t.Parallel()

	cache, _ := newTestCache()
	tex := descriptor.TextureDescriptor{
		Name:     "metal/plate01",
		Width:    2,
		Height:   2,
		Encoding: descriptor.EncodingTargaRaw,
		Data:     append(imagefmt.EncodeTGAHeader(2, 2), make([]byte, 16)...),
	}

	img, err := MaterializeTexture(testContext(), cache, tex)
	require.NoError(t, err)
	assert.Equal(t, "metal/plate01.tga", img.Name())
	assert.Equal(t, "TARGA_RAW", img.(*memhost.Image).FileFormat())

	// The same logical name with another encoding is a separate image.
	png, err := MaterializeTexture(testContext(), cache, pngTexture(t, "metal/plate01", 2, 2))
	require.NoError(t, err)
	assert.NotSame(t, img, png)
}

func TestMaterializeTexture_ReusesWithoutCheckingSize(t *testing.T) {
	t.Parallel()

	cache, reg := newTestCache()
	_, err := MaterializeTexture(testContext(), cache, pngTexture(t, "a", 2, 2))
	require.NoError(t, err)

	// Same key, different claimed size: the cached image wins.
	again := pngTexture(t, "a", 8, 8)
	img, err := MaterializeTexture(testContext(), cache, again)
	require.NoError(t, err)

	w, _ := img.Size()
	assert.Equal(t, 2, w)
	assert.Equal(t, 1, reg.Uploads())
}

func TestMaterializeTexture_HostRejectsData(t *testing.T) {
	t.Parallel()

	cache, reg := newTestCache()
	tex := pngTexture(t, "broken", 4, 4)
	tex.Width = 5

	_, err := MaterializeTexture(testContext(), cache, tex)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResource)
	assert.ErrorIs(t, err, host.ErrInvalidImageData)
	var resErr *ResourceError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, "broken", resErr.Name)
	assert.Equal(t, 0, reg.Uploads())
	assert.Empty(t, reg.Images(), "a rejected image must not stay registered")
}

func TestMaterializeTexture_RetryAfterRejectedData(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	cache, reg := newTestCache()
	bad := pngTexture(t, "metal/plate01", 4, 4)
	bad.Width = 8
	good := pngTexture(t, "metal/plate01", 4, 4)

	// --- Act ---
	_, firstErr := MaterializeTexture(testContext(), cache, bad)
	img, retryErr := MaterializeTexture(testContext(), cache, good)

	// --- Assert ---
	require.ErrorIs(t, firstErr, ErrResource)
	require.NoError(t, retryErr)
	assert.Equal(t, good.Data, img.(*memhost.Image).Data())
	assert.Equal(t, 1, reg.Uploads())
}

func TestMaterializeTexture_UnknownEncoding(t *testing.T) {
	t.Parallel()

	cache, reg := newTestCache()
	tex := pngTexture(t, "metal/plate01", 4, 4)
	tex.Encoding = descriptor.Encoding(7)

	_, err := MaterializeTexture(testContext(), cache, tex)

	assert.ErrorIs(t, err, ErrResource)
	assert.ErrorIs(t, err, descriptor.ErrUnknownEncoding)
	assert.Empty(t, reg.Images())
}

func TestMaterializeTexture_TruncatesKey(t *testing.T) {
	t.Parallel()

	cache, _ := newTestCache()
	name := "materials/models/props_c17/furniture_upholstery001a/furniture_upholstery001a_normal"

	img, err := MaterializeTexture(testContext(), cache, pngTexture(t, name, 1, 1))

	require.NoError(t, err)
	assert.Equal(t, "~Oih90an3/furniture_upholstery001a_normal.png", img.Name())
}

func TestMaterializeTexture_ConcurrentSameKey(t *testing.T) {
	t.Parallel()

	cache, reg := newTestCache()
	tex := pngTexture(t, "shared/"+strings.Repeat("x", 10), 2, 2)

	var wg sync.WaitGroup
	images := make([]host.Image, 16)
	for i := range images {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			img, err := MaterializeTexture(testContext(), cache, tex)
			assert.NoError(t, err)
			images[i] = img
		}(i)
	}
	wg.Wait()

	for _, img := range images[1:] {
		assert.Same(t, images[0], img)
	}
	assert.Equal(t, 1, reg.Uploads())
}
