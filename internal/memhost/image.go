package memhost

import (
	"fmt"
	"slices"
	"sync"

	"github.com/specialistvlad/shadermat/internal/descriptor"
	"github.com/specialistvlad/shadermat/internal/host"
	"github.com/specialistvlad/shadermat/internal/imagefmt"
)

// Image is an in-memory host.Image.
type Image struct {
	registry *Registry
	name     string
	width    int
	height   int
	alpha    bool

	mu         sync.RWMutex
	fileFormat string
	source     string
	alphaMode  string
	colorspace string
	data       []byte
}

var _ host.Image = (*Image)(nil)

func (img *Image) Name() string { return img.name }

func (img *Image) Size() (int, int) { return img.width, img.height }

func (img *Image) HasAlpha() bool { return img.alpha }

func (img *Image) SetFileFormat(format string) error {
	if !slices.Contains(fileFormats, format) {
		return fmt.Errorf("%w: image %q: file format %q", host.ErrTypeMismatch, img.name, format)
	}
	img.mu.Lock()
	defer img.mu.Unlock()
	img.fileFormat = format
	return nil
}

func (img *Image) SetSource(source string) error {
	if !slices.Contains(sources, source) {
		return fmt.Errorf("%w: image %q: source %q", host.ErrTypeMismatch, img.name, source)
	}
	img.mu.Lock()
	defer img.mu.Unlock()
	img.source = source
	return nil
}

// Pack stores data after checking its header against the file format and
// the size the image was created with.
func (img *Image) Pack(data []byte) error {
	img.mu.Lock()
	defer img.mu.Unlock()

	enc, err := encodingForFormat(img.fileFormat)
	if err != nil {
		return fmt.Errorf("%w: image %q: %w", host.ErrInvalidImageData, img.name, err)
	}
	w, h, err := imagefmt.Dimensions(enc, data)
	if err != nil {
		return fmt.Errorf("%w: image %q: %w", host.ErrInvalidImageData, img.name, err)
	}
	if w != img.width || h != img.height {
		return fmt.Errorf("%w: image %q is %dx%d but data is %dx%d", host.ErrInvalidImageData, img.name, img.width, img.height, w, h)
	}

	img.data = slices.Clone(data)
	img.registry.uploads.Add(1)
	return nil
}

func (img *Image) SetAlphaMode(mode string) error {
	if !slices.Contains(alphaModes, mode) {
		return fmt.Errorf("%w: image %q: alpha mode %q", host.ErrTypeMismatch, img.name, mode)
	}
	img.mu.Lock()
	defer img.mu.Unlock()
	img.alphaMode = mode
	return nil
}

func (img *Image) SetColorspace(name string) error {
	if !slices.Contains(Colorspaces, name) {
		return fmt.Errorf("%w: image %q: %q", host.ErrUnknownColorspace, img.name, name)
	}
	img.mu.Lock()
	defer img.mu.Unlock()
	img.colorspace = name
	return nil
}

func (img *Image) FileFormat() string {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.fileFormat
}

func (img *Image) Source() string {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.source
}

func (img *Image) AlphaMode() string {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.alphaMode
}

func (img *Image) Colorspace() string {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.colorspace
}

// Data returns the packed bytes, or nil before Pack succeeded.
func (img *Image) Data() []byte {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.data
}

func encodingForFormat(format string) (descriptor.Encoding, error) {
	for _, e := range descriptor.Encodings {
		if e.FileFormat() == format {
			return e, nil
		}
	}
	return 0, fmt.Errorf("file format %q not set or unsupported", format)
}
