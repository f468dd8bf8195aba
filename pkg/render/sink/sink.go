package sink

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/jplusplus/nwcharts/pkg/buildinfo"
	"github.com/jplusplus/nwcharts/pkg/errors"
	"github.com/jplusplus/nwcharts/pkg/render"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"
)

// pxToPt converts CSS pixels to points.
const pxToPt = 0.75

// Option configures encoding.
type Option func(*encoder)

type encoder struct {
	scale       float64
	transparent bool
	jpegQuality int
	metadata    bool
}

// WithScale sets the pixel multiplier for raster formats (default 1.0).
// Vector formats keep their physical size.
func WithScale(s float64) Option {
	return func(e *encoder) {
		if s > 0 {
			e.scale = s
		}
	}
}

// WithTransparent skips painting the figure background. JPG ignores it.
func WithTransparent(t bool) Option {
	return func(e *encoder) { e.transparent = t }
}

// WithJPEGQuality sets the JPG quality, 1 to 100 (default 95).
func WithJPEGQuality(q int) Option {
	return func(e *encoder) {
		if q >= 1 && q <= 100 {
			e.jpegQuality = q
		}
	}
}

// WithoutMetadata omits author and software metadata.
func WithoutMetadata() Option {
	return func(e *encoder) { e.metadata = false }
}

func newEncoder(opts []Option) encoder {
	e := encoder{scale: 1, jpegQuality: 95, metadata: true}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Encode renders fig in format. "jpeg" is accepted as an alias of "jpg".
func Encode(fig *render.Figure, format string, opts ...Option) ([]byte, error) {
	f, err := render.NormalizeFormat(format)
	if err != nil {
		return nil, err
	}
	if fig == nil || fig.Width <= 0 || fig.Height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "figure needs a positive width and height")
	}
	switch f {
	case render.FormatPNG:
		return RenderPNG(fig, opts...)
	case render.FormatJPG:
		return RenderJPG(fig, opts...)
	case render.FormatSVG:
		return RenderSVG(fig, opts...)
	case render.FormatPDF:
		return RenderPDF(fig, opts...)
	case render.FormatWEBP:
		return RenderWEBP(fig, opts...)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "no encoder for %s", f)
}

// metadataFor returns the key/value pairs written into files.
func (e encoder) metadataFor(fig *render.Figure) map[string]string {
	if !e.metadata {
		return nil
	}
	md := map[string]string{
		"Author":   buildinfo.Publisher,
		"Software": buildinfo.Software(),
	}
	for k, v := range fig.Metadata {
		md[k] = v
	}
	return md
}

func size(fig *render.Figure) (vg.Length, vg.Length) {
	return vg.Length(fig.Width * pxToPt), vg.Length(fig.Height * pxToPt)
}

func (e encoder) rasterCanvas(fig *render.Figure, opaque bool) *vgimg.Canvas {
	w, h := size(fig)
	bg := background(fig)
	if e.transparent && !opaque {
		bg = color.Transparent
	}
	dpi := int(math.Round(96 * e.scale))
	return vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi), vgimg.UseBackgroundColor(bg))
}

func background(fig *render.Figure) color.Color {
	if fig.Background == nil {
		return color.White
	}
	return fig.Background
}

// RenderPNG encodes fig as PNG with Author and Software text chunks.
func RenderPNG(fig *render.Figure, opts ...Option) ([]byte, error) {
	e := newEncoder(opts)
	c := e.rasterCanvas(fig, false)
	if err := drawFigure(draw.New(c), fig, !e.transparent); err != nil {
		return nil, err
	}
	data, err := encodePNG(c.Image())
	if err != nil {
		return nil, err
	}
	return withPNGText(data, e.metadataFor(fig))
}

// RenderJPG encodes fig as JPG. The background is always painted.
func RenderJPG(fig *render.Figure, opts ...Option) ([]byte, error) {
	e := newEncoder(opts)
	c := e.rasterCanvas(fig, true)
	if err := drawFigure(draw.New(c), fig, true); err != nil {
		return nil, err
	}
	return encodeJPEG(c.Image(), e.jpegQuality)
}

// RenderSVG encodes fig as SVG with a Dublin Core metadata element.
func RenderSVG(fig *render.Figure, opts ...Option) ([]byte, error) {
	e := newEncoder(opts)
	w, h := size(fig)
	c := vgsvg.New(w, h)
	if err := drawFigure(draw.New(c), fig, !e.transparent); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write svg: %w", err)
	}
	return withSVGMetadata(buf.Bytes(), e.metadataFor(fig)), nil
}

// RenderPDF encodes fig as PDF with embedded fonts.
func RenderPDF(fig *render.Figure, opts ...Option) ([]byte, error) {
	e := newEncoder(opts)
	w, h := size(fig)
	c := vgpdf.New(w, h)
	c.EmbedFonts(true)
	if err := drawFigure(draw.New(c), fig, !e.transparent); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderWEBP encodes fig as PNG and converts it with cwebp.
// Requires libwebp: brew install webp (macOS), apt install webp (Linux).
func RenderWEBP(fig *render.Figure, opts ...Option) ([]byte, error) {
	data, err := RenderPNG(fig, append(opts, WithoutMetadata())...)
	if err != nil {
		return nil, err
	}
	return ToWEBP(data)
}
