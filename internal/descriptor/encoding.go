// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Encoding, the closed set of image container formats a
// texture can arrive in.
//
// Why a closed enum?
//
// Every encoding has to map to exactly one file extension (used when building
// cache keys) and exactly one host file format tag (used when creating the
// image). Keeping the set closed and the mapping in one switch means a new
// encoding cannot be added without deciding both, and the tests can check the
// mapping stays bijective.
package descriptor

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownEncoding reports an Encoding value outside Encodings.
var ErrUnknownEncoding = errors.New("unknown texture encoding")

// Encoding identifies the container format of raw texture bytes.
type Encoding int

const (
	EncodingPng Encoding = iota
	EncodingTargaRaw
)

// Encodings lists every supported encoding.
var Encodings = []Encoding{EncodingPng, EncodingTargaRaw}

// Check returns an error wrapping ErrUnknownEncoding unless e is one of
// Encodings.
func (e Encoding) Check() error {
	switch e {
	case EncodingPng, EncodingTargaRaw:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnknownEncoding, int(e))
	}
}

// Extension returns the file extension, including the leading dot. It is
// empty for an unknown encoding.
func (e Encoding) Extension() string {
	switch e {
	case EncodingPng:
		return ".png"
	case EncodingTargaRaw:
		return ".tga"
	default:
		return ""
	}
}

// FileFormat returns the host's file format tag for the encoding. It is
// empty for an unknown encoding.
func (e Encoding) FileFormat() string {
	switch e {
	case EncodingPng:
		return "PNG"
	case EncodingTargaRaw:
		return "TARGA_RAW"
	default:
		return ""
	}
}

func (e Encoding) String() string {
	switch e {
	case EncodingPng:
		return "png"
	case EncodingTargaRaw:
		return "tga"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// EncodingFromExtension maps a file extension such as ".PNG" back to its
// encoding. The comparison ignores case.
func EncodingFromExtension(ext string) (Encoding, error) {
	for _, e := range Encodings {
		if strings.EqualFold(e.Extension(), ext) {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unsupported texture extension %q", ext)
}

// ParseEncoding parses a configuration value such as "png" or "tga".
func ParseEncoding(s string) (Encoding, error) {
	for _, e := range Encodings {
		if strings.EqualFold(e.String(), s) {
			return e, nil
		}
	}
	return 0, fmt.Errorf("invalid texture format %q: must be 'png' or 'tga'", s)
}

// MarshalYAML and UnmarshalYAML let settings files spell encodings by name.
func (e Encoding) MarshalYAML() (any, error) {
	return e.String(), nil
}

func (e *Encoding) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseEncoding(s)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
