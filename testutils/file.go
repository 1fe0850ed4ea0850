package testutils

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

// WriteFile writes content to path, creating parent directories, and fails the test if it cannot.
func WriteFile(tb testing.TB, path, content string) {
	tb.Helper()
	test.That(tb, os.MkdirAll(filepath.Dir(path), 0o750), test.ShouldBeNil)
	test.That(tb, os.WriteFile(path, []byte(content), 0o600), test.ShouldBeNil)
}

// WriteGrayPNG writes a width x height 8-bit grayscale PNG with a horizontal gradient to path.
func WriteGrayPNG(tb testing.TB, path string, width, height int) {
	tb.Helper()
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Pix[y*img.Stride+x] = uint8(x)
		}
	}
	test.That(tb, os.MkdirAll(filepath.Dir(path), 0o750), test.ShouldBeNil)
	//nolint:gosec
	f, err := os.Create(path)
	test.That(tb, err, test.ShouldBeNil)
	defer func() {
		test.That(tb, f.Close(), test.ShouldBeNil)
	}()
	test.That(tb, png.Encode(f, img), test.ShouldBeNil)
}
