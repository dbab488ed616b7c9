package materialize

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"log/slog"
	"testing"

	"github.com/specialistvlad/shadermat/internal/ctxlog"
	"github.com/specialistvlad/shadermat/internal/descriptor"
	"github.com/specialistvlad/shadermat/internal/memhost"
	"github.com/specialistvlad/shadermat/internal/resource"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestCache() (*resource.Cache, *memhost.Registry) {
	reg := memhost.New()
	return resource.New(reg, reg.MaxNameLength()), reg
}

func pngTexture(t *testing.T, name string, w, h int) descriptor.TextureDescriptor {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h))))
	return descriptor.TextureDescriptor{
		Name:     name,
		Width:    w,
		Height:   h,
		Encoding: descriptor.EncodingPng,
		Data:     buf.Bytes(),
	}
}

// linkSummary describes a link by node names so two builds can be compared.
type linkSummary struct {
	From, FromSocket, To, ToSocket string
}

type treeSummary struct {
	Nodes []string
	Links []linkSummary
}

func summarize(m *memhost.Material) treeSummary {
	var s treeSummary
	for _, n := range m.Tree().All() {
		s.Nodes = append(s.Nodes, n.Kind()+"/"+n.Name())
	}
	for _, l := range m.Tree().Links() {
		s.Links = append(s.Links, linkSummary{From: l.From.Name(), FromSocket: l.FromSocket, To: l.To.Name(), ToSocket: l.ToSocket})
	}
	return s
}
