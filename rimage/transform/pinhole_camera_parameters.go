package transform

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrNoIntrinsics is when a camera does not have intrinsics parameters or other parameters.
var ErrNoIntrinsics = errors.New("camera intrinsic parameters are not available")

// NewNoIntrinsicsError is used when the intriniscs are not defined.
func NewNoIntrinsicsError(msg string) error {
	return errors.Wrap(ErrNoIntrinsics, msg)
}

// PinholeCameraModel is the model of a pinhole camera.
type PinholeCameraModel struct {
	*PinholeCameraIntrinsics `json:"intrinsic_parameters"`
	Distortion               Distorter `json:"distortion"`
}

// DistortionMap is a function that transforms the undistorted input points (u,v) to the distorted points (x,y)
// according to the model in PinholeCameraModel.Distortion.
func (params *PinholeCameraModel) DistortionMap() func(u, v float64) (float64, float64) {
	return func(u, v float64) (float64, float64) {
		x := (u - params.Ppx) / params.Fx
		y := (v - params.Ppy) / params.Fy
		if params.Distortion != nil {
			x, y = params.Distortion.Transform(x, y)
		}
		x = x*params.Fx + params.Ppx
		y = y*params.Fy + params.Ppy
		return x, y
	}
}

// UndistortPixel maps a distorted pixel back to where an ideal pinhole camera would have imaged it.
// It fails if the distortion model has no inverse.
func (params *PinholeCameraModel) UndistortPixel(x, y float64) (float64, float64, error) {
	if params.Distortion == nil {
		return x, y, nil
	}
	inverse, err := InverseOf(params.Distortion)
	if err != nil {
		return 0, 0, err
	}
	u := (x - params.Ppx) / params.Fx
	v := (y - params.Ppy) / params.Fy
	u, v = inverse.Transform(u, v)
	return u*params.Fx + params.Ppx, v*params.Fy + params.Ppy, nil
}

// UndistortImage takes an input image and creates a new image the same size with the same camera parameters
// as the original image, but undistorted according to the distortion model in PinholeCameraModel. The
// nearest source pixel is used; pixels that map outside the source are left black.
func (params *PinholeCameraModel) UndistortImage(img image.Image) (image.Image, error) {
	if img == nil {
		return nil, errors.New("input image is nil")
	}
	bounds := img.Bounds()
	// Check dimensions, they should be equal between the image and what the intrinsics expect
	if params.Width != bounds.Dx() || params.Height != bounds.Dy() {
		return nil, errors.Errorf("img dimension and intrinsics don't match Image(%d,%d) != Intrinsics(%d,%d)",
			bounds.Dx(), bounds.Dy(), params.Width, params.Height)
	}
	var undistorted interface {
		image.Image
		Set(x, y int, c color.Color)
	}
	if _, ok := img.(*image.Gray); ok {
		undistorted = image.NewGray(image.Rect(0, 0, params.Width, params.Height))
	} else {
		undistorted = image.NewNRGBA(image.Rect(0, 0, params.Width, params.Height))
	}
	distortionMap := params.DistortionMap()
	for v := 0; v < params.Height; v++ {
		for u := 0; u < params.Width; u++ {
			x, y := distortionMap(float64(u), float64(v))
			if c, ok := nearestNeighborColor(r2.Point{X: x, Y: y}, img); ok {
				undistorted.Set(u, v, c)
			}
		}
	}
	return undistorted, nil
}

func nearestNeighborColor(pt r2.Point, img image.Image) (color.Color, bool) {
	bounds := img.Bounds()
	x := int(math.Round(pt.X)) + bounds.Min.X
	y := int(math.Round(pt.Y)) + bounds.Min.Y
	if !image.Pt(x, y).In(bounds) {
		return nil, false
	}
	return img.At(x, y), true
}

// PinholeCameraIntrinsics holds the parameters necessary to do a perspective projection of a 3D scene to the 2D plane.
type PinholeCameraIntrinsics struct {
	Width  int     `json:"width_px"`
	Height int     `json:"height_px"`
	Fx     float64 `json:"fx"`
	Fy     float64 `json:"fy"`
	Ppx    float64 `json:"ppx"`
	Ppy    float64 `json:"ppy"`
}

// CheckValid checks if the fields for PinholeCameraIntrinsics have valid inputs.
func (params *PinholeCameraIntrinsics) CheckValid() error {
	if params == nil {
		return NewNoIntrinsicsError("Intrinsics do not exist")
	}
	if params.Width == 0 || params.Height == 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid size (%#v, %#v)", params.Width, params.Height))
	}
	if params.Fx <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid focal length Fx = %#v", params.Fx))
	}
	if params.Fy <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid focal length Fy = %#v", params.Fy))
	}
	if params.Ppx < 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid principal X point Ppx = %#v", params.Ppx))
	}
	if params.Ppy < 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid principal Y point Ppy = %#v", params.Ppy))
	}
	return nil
}

// PixelToPoint transforms a pixel with depth to a 3D point in the camera frame.
func (params *PinholeCameraIntrinsics) PixelToPoint(x, y, z float64) (float64, float64, float64) {
	if params == nil {
		return float64(0), float64(0), float64(0)
	}
	xOverZ := (x - params.Ppx) / params.Fx
	yOverZ := (y - params.Ppy) / params.Fy
	// get x and y
	xm := xOverZ * z
	ym := yOverZ * z
	return xm, ym, z
}

// PointToPixel projects a 3D point to a pixel in an image plane.
func (params *PinholeCameraIntrinsics) PointToPixel(x, y, z float64) (float64, float64) {
	if z != 0. {
		xPx := math.Round((x/z)*params.Fx + params.Ppx)
		yPx := math.Round((y/z)*params.Fy + params.Ppy)
		return xPx, yPx
	}
	// if depth is zero at this pixel, return negative coordinates so that the cropping to image bounds will filter it out
	return -1.0, -1.0
}

// GetCameraMatrix creates a new camera matrix and returns it.
// Camera matrix:
// [[fx 0 ppx],
//
//	[0 fy ppy],
//	[0 0  1]]
func (params *PinholeCameraIntrinsics) GetCameraMatrix() *mat.Dense {
	if params == nil {
		return nil
	}
	cameraMatrix := mat.NewDense(3, 3, nil)
	cameraMatrix.Set(0, 0, params.Fx)
	cameraMatrix.Set(1, 1, params.Fy)
	cameraMatrix.Set(0, 2, params.Ppx)
	cameraMatrix.Set(1, 2, params.Ppy)
	cameraMatrix.Set(2, 2, 1)
	return cameraMatrix
}
