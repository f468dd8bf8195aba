// Package sink encodes a [render.Figure] into output bytes.
//
// All formats share one drawing routine built on gonum.org/v1/plot: the
// figure's header and footer are laid out around a plot whose axes come from
// the figure, and the figure's items are drawn by a custom plotter. Only the
// vg backend differs per format:
//
//   - PNG and JPG: vgimg, with the pixel density scaled by the render factor
//   - SVG: vgsvg
//   - PDF: vgpdf
//   - WEBP: PNG piped through cwebp (libwebp)
//
// Sizes in a figure are pixels at factor 1. They are converted to points at
// 96 dpi, so a 600 px wide figure is 450 pt wide in every format and a PNG
// rendered with factor 2 is 1200 px wide.
package sink
