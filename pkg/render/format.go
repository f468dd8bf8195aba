package render

import (
	"strings"

	"github.com/jplusplus/nwcharts/pkg/errors"
)

// Output formats.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatJPG  = "jpg"
	FormatWEBP = "webp"
)

// Formats lists every supported output format, in the order RenderAll
// produces them.
var Formats = []string{FormatPNG, FormatSVG, FormatPDF, FormatJPG, FormatWEBP}

var mimeTypes = map[string]string{
	FormatPNG:  "image/png",
	FormatSVG:  "image/svg+xml",
	FormatPDF:  "application/pdf",
	FormatJPG:  "image/jpeg",
	FormatWEBP: "image/webp",
}

// NormalizeFormat lower-cases format and maps "jpeg" to "jpg".
// Unknown formats fail with INVALID_FORMAT.
func NormalizeFormat(format string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "jpeg" {
		f = FormatJPG
	}
	if err := errors.ValidateFormat(f, Formats); err != nil {
		return "", err
	}
	return f, nil
}

// MIMEType returns the content type for a format. "jpeg" and "jpg" share one.
func MIMEType(format string) (string, error) {
	f, err := NormalizeFormat(format)
	if err != nil {
		return "", err
	}
	return mimeTypes[f], nil
}
