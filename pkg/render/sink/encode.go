package sink

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"html"
	"image"
	"image/jpeg"
	"image/png"
	"sort"
)

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpg: %w", err)
	}
	return buf.Bytes(), nil
}

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// withPNGText inserts one tEXt chunk per entry right after IHDR.
// Keys are written in sorted order.
func withPNGText(data []byte, md map[string]string) ([]byte, error) {
	if len(md) == 0 {
		return data, nil
	}
	if !bytes.HasPrefix(data, pngSignature) || len(data) < 33 {
		return nil, fmt.Errorf("png metadata: not a png stream")
	}
	// signature (8) + IHDR length, type, 13 data bytes, crc
	ihdrEnd := 8 + 4 + 4 + 13 + 4

	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out bytes.Buffer
	out.Write(data[:ihdrEnd])
	for _, k := range keys {
		writeChunk(&out, "tEXt", append(append([]byte(k), 0), latin1(md[k])...))
	}
	out.Write(data[ihdrEnd:])
	return out.Bytes(), nil
}

func writeChunk(w *bytes.Buffer, typ string, payload []byte) {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(payload)))
	w.Write(n[:])
	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(payload)
	w.WriteString(typ)
	w.Write(payload)
	binary.BigEndian.PutUint32(n[:], crc.Sum32())
	w.Write(n[:])
}

// latin1 drops runes tEXt cannot carry.
func latin1(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0 && r < 256 {
			out = append(out, byte(r))
		}
	}
	return out
}

// withSVGMetadata adds a <metadata> element as the first child of <svg>.
func withSVGMetadata(data []byte, md map[string]string) []byte {
	if len(md) == 0 {
		return data
	}
	start := bytes.Index(data, []byte("<svg"))
	if start < 0 {
		return data
	}
	end := bytes.IndexByte(data[start:], '>')
	if end < 0 {
		return data
	}
	at := start + end + 1

	var meta bytes.Buffer
	meta.WriteString("\n<metadata xmlns:dc=\"http://purl.org/dc/elements/1.1/\">")
	if v, ok := md["Author"]; ok {
		fmt.Fprintf(&meta, "<dc:creator>%s</dc:creator><dc:publisher>%s</dc:publisher>", html.EscapeString(v), html.EscapeString(v))
	}
	if v, ok := md["Software"]; ok {
		fmt.Fprintf(&meta, "<dc:contributor>%s</dc:contributor>", html.EscapeString(v))
	}
	if v, ok := md["Title"]; ok {
		fmt.Fprintf(&meta, "<dc:title>%s</dc:title>", html.EscapeString(v))
	}
	meta.WriteString("</metadata>")

	out := make([]byte, 0, len(data)+meta.Len())
	out = append(out, data[:at]...)
	out = append(out, meta.Bytes()...)
	return append(out, data[at:]...)
}
