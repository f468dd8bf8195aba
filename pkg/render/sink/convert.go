package sink

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// WEBPQuality is passed to cwebp as -q.
var WEBPQuality = 90

// ToWEBP converts PNG bytes to WEBP using cwebp.
// Requires libwebp: brew install webp (macOS), apt install webp (Linux).
func ToWEBP(pngData []byte) ([]byte, error) {
	return cwebpConvert(pngData, "-q", fmt.Sprint(WEBPQuality))
}

// cwebpConvert shells out to cwebp. cwebp cannot read stdin, so the input
// goes through a temporary directory.
func cwebpConvert(pngData []byte, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath("cwebp"); err != nil {
		return nil, fmt.Errorf("webp export requires libwebp. Install with:\n  macOS:  brew install webp\n  Linux:  apt install webp")
	}

	dir, err := os.MkdirTemp("", "nwcharts-webp-")
	if err != nil {
		return nil, fmt.Errorf("webp: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.webp")
	if err := os.WriteFile(in, pngData, 0o600); err != nil {
		return nil, fmt.Errorf("webp: %w", err)
	}

	args := append([]string{"-quiet"}, extraArgs...)
	args = append(args, in, "-o", out)
	cmd := exec.Command("cwebp", args...)

	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("cwebp: %v: %s", err, errBuf.String())
	}
	return os.ReadFile(out)
}

// WEBPAvailable reports whether cwebp is on the PATH.
func WEBPAvailable() bool {
	_, err := exec.LookPath("cwebp")
	return err == nil
}
