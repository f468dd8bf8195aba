package sink

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/jplusplus/nwcharts/pkg/errors"
)

// MaxLogoWidth is the largest logo width in pixels at scale factor 1.
const MaxLogoWidth = 155

// LoadLogo opens the image at path and scales it for a figure figWidth
// pixels wide rendered at factor: at most MaxLogoWidth × factor, a quarter
// of the rendered width, and never upscaled. Unless transparent, the image
// is flattened onto bg. The returned width is in pixels at factor 1.
func LoadLogo(path string, figWidth, factor float64, transparent bool, bg color.Color) (image.Image, float64, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "open logo %s", path)
	}
	if factor <= 0 {
		factor = 1
	}
	if !transparent {
		if bg == nil {
			bg = color.White
		}
		flat := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), bg)
		img = imaging.Overlay(flat, img, image.Pt(0, 0), 1)
	}

	w := math.Min(MaxLogoWidth*factor, figWidth*factor/4)
	w = math.Min(w, float64(img.Bounds().Dx()))
	px := int(math.Round(w))
	if px < 1 {
		return nil, 0, errors.New(errors.ErrCodeInvalidInput, "figure too narrow for a logo")
	}
	if px != img.Bounds().Dx() {
		img = imaging.Resize(img, px, 0, imaging.Lanczos)
	}
	return img, w / factor, nil
}
