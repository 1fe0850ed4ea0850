// Package rimage decodes the image files referenced by camera logs.
package rimage

import (
	"image"
	// register decoders beyond the EuRoC PNGs so re-encoded datasets still load.
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"
	_ "github.com/lmittmann/ppm"
	"github.com/pkg/errors"
	_ "github.com/xfmoulet/qoi"
	goutils "go.viam.com/utils"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"go.viam.com/euroc/utils"
)

// ReadImageFromFile decodes the image at path, applying any EXIF orientation. A file that cannot be
// opened is an I/O error; content that cannot be decoded is malformed.
func ReadImageFromFile(path string) (image.Image, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, utils.NewIOError(path, err)
	}
	defer goutils.UncheckedErrorFunc(f.Close)

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, utils.NewMalformedError(err, "decoding image %q", path)
	}
	return img, nil
}

// ReadImageConfig returns the dimensions and format name of the image at path without decoding
// the pixel data.
func ReadImageConfig(path string) (image.Config, string, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", utils.NewIOError(path, err)
	}
	defer goutils.UncheckedErrorFunc(f.Close)

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return image.Config{}, "", utils.NewMalformedError(errors.WithStack(err), "reading image header of %q", path)
	}
	return cfg, format, nil
}
