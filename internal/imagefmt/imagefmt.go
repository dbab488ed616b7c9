// Package imagefmt reads image dimensions from encoded texture bytes without
// decoding the pixels.
package imagefmt

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image/png"

	"github.com/specialistvlad/shadermat/internal/descriptor"
)

// ErrMalformed is wrapped when the bytes do not carry a readable header for
// the claimed encoding.
var ErrMalformed = errors.New("malformed image data")

const tgaHeaderLen = 18

// Dimensions returns the width and height stored in the header of data.
func Dimensions(enc descriptor.Encoding, data []byte) (width, height int, err error) {
	switch enc {
	case descriptor.EncodingPng:
		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return 0, 0, fmt.Errorf("%w: png: %w", ErrMalformed, err)
		}
		return cfg.Width, cfg.Height, nil
	case descriptor.EncodingTargaRaw:
		return tgaDimensions(data)
	default:
		return 0, 0, fmt.Errorf("%w: unknown encoding %s", ErrMalformed, enc)
	}
}

// tgaDimensions parses the fixed 18 byte TGA header.
func tgaDimensions(data []byte) (int, int, error) {
	if len(data) < tgaHeaderLen {
		return 0, 0, fmt.Errorf("%w: tga: header is %d bytes, need %d", ErrMalformed, len(data), tgaHeaderLen)
	}
	switch imageType := data[2]; imageType {
	case 1, 2, 3, 9, 10, 11:
	default:
		return 0, 0, fmt.Errorf("%w: tga: unsupported image type %d", ErrMalformed, imageType)
	}
	width := int(binary.LittleEndian.Uint16(data[12:14]))
	height := int(binary.LittleEndian.Uint16(data[14:16]))
	if width == 0 || height == 0 {
		return 0, 0, fmt.Errorf("%w: tga: empty image %dx%d", ErrMalformed, width, height)
	}
	return width, height, nil
}

// EncodeTGAHeader returns an uncompressed 32-bit true-color TGA header for
// an image of the given size.
func EncodeTGAHeader(width, height int) []byte {
	header := make([]byte, tgaHeaderLen)
	header[2] = 2
	binary.LittleEndian.PutUint16(header[12:14], uint16(width))
	binary.LittleEndian.PutUint16(header[14:16], uint16(height))
	header[16] = 32
	header[17] = 8
	return header
}
