// Package camera reads a EuRoC camera folder (cam0, cam1): its pinhole calibration and the
// timestamped frames listed in its log.
package camera

import (
	"image"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/euroc/calibration"
	"go.viam.com/euroc/logging"
	"go.viam.com/euroc/recordlog"
	"go.viam.com/euroc/rimage"
	"go.viam.com/euroc/rimage/transform"
	"go.viam.com/euroc/sensor"
	"go.viam.com/euroc/utils"
)

// Frame is one row of a camera log: a capture time and the image file it refers to.
type Frame struct {
	Timestamp recordlog.Timestamp
	Path      string
}

// ImageRecord is a frame with its decoded image.
type ImageRecord struct {
	Timestamp recordlog.Timestamp
	Path      string
	Image     image.Image
}

// Camera is a validated camera folder.
type Camera struct {
	folder *sensor.Folder
	logger logging.Logger
}

// New validates the camera folder at path. The descriptor, log and images are not read until
// asked for.
func New(path string, logger logging.Logger) (*Camera, error) {
	folder, err := sensor.NewFolder(path, sensor.KindCamera)
	if err != nil {
		return nil, err
	}
	logger.Debugw("opened camera folder", "path", path)
	return &Camera{folder: folder, logger: logger}, nil
}

// Name returns the folder name, e.g. "cam0".
func (c *Camera) Name() string {
	return c.folder.Name()
}

// Path returns the folder path.
func (c *Camera) Path() string {
	return c.folder.Path()
}

// ImageSize returns the image resolution.
func (c *Camera) ImageSize() (calibration.Resolution, error) {
	d, err := c.folder.Descriptor()
	if err != nil {
		return calibration.Resolution{}, err
	}
	return d.Resolution()
}

// Intrinsics returns fu, fv, cu and cv.
func (c *Camera) Intrinsics() (calibration.Intrinsics, error) {
	d, err := c.folder.Descriptor()
	if err != nil {
		return calibration.Intrinsics{}, err
	}
	return d.Intrinsics()
}

// CameraMatrix returns the 3x3 matrix built from the intrinsics.
func (c *Camera) CameraMatrix() (*mat.Dense, error) {
	in, err := c.Intrinsics()
	if err != nil {
		return nil, err
	}
	return in.CameraMatrix(), nil
}

// DistortionCoefficients returns the four radial-tangential coefficients k1, k2, p1, p2.
func (c *Camera) DistortionCoefficients() ([4]float64, error) {
	d, err := c.folder.Descriptor()
	if err != nil {
		return [4]float64{}, err
	}
	return d.DistortionCoefficients()
}

// Extrinsics returns T_BS.data as published.
func (c *Camera) Extrinsics() (*mat.Dense, error) {
	return c.folder.Extrinsics()
}

// RateHz returns the nominal frame rate.
func (c *Camera) RateHz() (float64, error) {
	return c.folder.RateHz()
}

// PinholeModel combines resolution, intrinsics and the distortion model named by distortion_model
// into a model that can undistort pixels and images.
func (c *Camera) PinholeModel() (*transform.PinholeCameraModel, error) {
	d, err := c.folder.Descriptor()
	if err != nil {
		return nil, err
	}
	res, err := d.Resolution()
	if err != nil {
		return nil, err
	}
	in, err := d.Intrinsics()
	if err != nil {
		return nil, err
	}
	model, err := d.String(calibration.KeyDistortionModel)
	if err != nil {
		return nil, err
	}
	coeffs, err := d.DistortionCoefficients()
	if err != nil {
		return nil, err
	}
	distorter, err := transform.NewDistorter(transform.DistortionType(model), coeffs[:])
	if err != nil {
		return nil, errors.Wrapf(err, "camera %q", c.Name())
	}
	intrinsics := &transform.PinholeCameraIntrinsics{
		Width:  int(res.Width),
		Height: int(res.Height),
		Fx:     in.Fu,
		Fy:     in.Fv,
		Ppx:    in.Cu,
		Ppy:    in.Cv,
	}
	if err := intrinsics.CheckValid(); err != nil {
		return nil, utils.NewMalformedError(err, "camera %q intrinsics", c.Name())
	}
	return &transform.PinholeCameraModel{PinholeCameraIntrinsics: intrinsics, Distortion: distorter}, nil
}

// Frames lists the log without decoding any image. A filename that resolves outside the image
// directory is a malformed row.
func (c *Camera) Frames() (*recordlog.Iterator[Frame], error) {
	c.logger.Debugw("reading frames", "log", c.folder.LogPath())
	return sensor.OpenLog(c.folder, c.parseFrame)
}

// Records decodes the image of every frame. A missing image is an I/O error and an undecodable one
// is malformed; either only affects its own record.
func (c *Camera) Records() (*recordlog.Iterator[ImageRecord], error) {
	c.logger.Debugw("reading images", "log", c.folder.LogPath())
	return sensor.OpenLog(c.folder, func(row recordlog.Row) (ImageRecord, error) {
		frame, err := c.parseFrame(row)
		if err != nil {
			return ImageRecord{}, err
		}
		img, err := rimage.ReadImageFromFile(frame.Path)
		if err != nil {
			return ImageRecord{}, errors.Wrapf(err, "%s", row)
		}
		return ImageRecord{Timestamp: frame.Timestamp, Path: frame.Path, Image: img}, nil
	})
}

func (c *Camera) parseFrame(row recordlog.Row) (Frame, error) {
	if err := row.Require(2); err != nil {
		return Frame{}, err
	}
	ts, err := row.Timestamp()
	if err != nil {
		return Frame{}, err
	}
	name, err := row.Text(1)
	if err != nil {
		return Frame{}, err
	}
	path, err := utils.SafeJoinDir(c.folder.ImageDir(), name)
	if err != nil {
		return Frame{}, utils.NewMalformedError(err, "%s image name %q", row, name)
	}
	return Frame{Timestamp: ts, Path: path}, nil
}
