package transform

import (
	"image"
	"image/color"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

var euRoCIntrinsics = &PinholeCameraIntrinsics{
	Width:  752,
	Height: 480,
	Fx:     458.654,
	Fy:     457.296,
	Ppx:    367.215,
	Ppy:    248.375,
}

var euRoCDistortion = []float64{-0.28340811, 0.07395907, 0.00019359, 1.76187114e-05}

func TestGetCameraMatrix(t *testing.T) {
	m := euRoCIntrinsics.GetCameraMatrix()
	rows, cols := m.Dims()
	test.That(t, rows, test.ShouldEqual, 3)
	test.That(t, cols, test.ShouldEqual, 3)
	test.That(t, m.RawMatrix().Data, test.ShouldResemble, []float64{
		458.654, 0, 367.215,
		0, 457.296, 248.375,
		0, 0, 1,
	})

	var nilIntrinsics *PinholeCameraIntrinsics
	test.That(t, nilIntrinsics.GetCameraMatrix(), test.ShouldBeNil)
}

func TestCheckValid(t *testing.T) {
	test.That(t, euRoCIntrinsics.CheckValid(), test.ShouldBeNil)

	var nilIntrinsics *PinholeCameraIntrinsics
	test.That(t, errors.Is(nilIntrinsics.CheckValid(), ErrNoIntrinsics), test.ShouldBeTrue)

	bad := *euRoCIntrinsics
	bad.Width = 0
	test.That(t, bad.CheckValid().Error(), test.ShouldContainSubstring, "Invalid size")
	bad = *euRoCIntrinsics
	bad.Fy = -1
	test.That(t, bad.CheckValid().Error(), test.ShouldContainSubstring, "Invalid focal length Fy")
	bad = *euRoCIntrinsics
	bad.Ppx = -1
	test.That(t, bad.CheckValid().Error(), test.ShouldContainSubstring, "Invalid principal X point")
}

func TestPixelPointRoundTrip(t *testing.T) {
	x, y, z := euRoCIntrinsics.PixelToPoint(400, 300, 2)
	test.That(t, z, test.ShouldEqual, 2)
	u, v := euRoCIntrinsics.PointToPixel(x, y, z)
	test.That(t, u, test.ShouldEqual, 400)
	test.That(t, v, test.ShouldEqual, 300)

	u, v = euRoCIntrinsics.PointToPixel(1, 1, 0)
	test.That(t, u, test.ShouldEqual, -1)
	test.That(t, v, test.ShouldEqual, -1)
}

func TestDistorters(t *testing.T) {
	_, err := NewRadialTangential(euRoCDistortion[:3])
	test.That(t, err, test.ShouldNotBeNil)

	d, err := NewDistorter(RadialTangentialDistortionType, euRoCDistortion)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d.CheckValid(), test.ShouldBeNil)
	test.That(t, d.ModelType(), test.ShouldEqual, RadialTangentialDistortionType)
	test.That(t, d.Parameters(), test.ShouldResemble, []float64{-0.28340811, 0.07395907, 0, 0.00019359, 1.76187114e-05})

	_, err = NewDistorter(KannalaBrandtDistortionType, euRoCDistortion)
	test.That(t, err, test.ShouldNotBeNil)

	identity, err := NewBrownConrady(nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, identity.ModelType(), test.ShouldEqual, BrownConradyDistortionType)
	x, y := identity.Transform(0.3, -0.2)
	test.That(t, x, test.ShouldEqual, 0.3)
	test.That(t, y, test.ShouldEqual, -0.2)

	_, err = NewBrownConrady(make([]float64, 6))
	test.That(t, err, test.ShouldNotBeNil)

	inverse, err := InverseOf(d)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, inverse.ModelType(), test.ShouldEqual, InverseBrownConradyDistortionType)
	for _, pt := range [][2]float64{{0, 0}, {0.2, 0.1}, {-0.4, 0.3}, {0.5, -0.45}} {
		xd, yd := d.Transform(pt[0], pt[1])
		xu, yu := inverse.Transform(xd, yd)
		test.That(t, xu, test.ShouldAlmostEqual, pt[0], 1e-9)
		test.That(t, yu, test.ShouldAlmostEqual, pt[1], 1e-9)
	}
	back, err := InverseOf(inverse)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, back, test.ShouldResemble, d)
	test.That(t, back.ModelType(), test.ShouldEqual, RadialTangentialDistortionType)
}

func TestPinholeCameraModel(t *testing.T) {
	distorter, err := NewRadialTangential(euRoCDistortion)
	test.That(t, err, test.ShouldBeNil)
	model := &PinholeCameraModel{PinholeCameraIntrinsics: euRoCIntrinsics, Distortion: distorter}

	x, y := model.DistortionMap()(100, 80)
	u, v, err := model.UndistortPixel(x, y)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, u, test.ShouldAlmostEqual, 100, 1e-6)
	test.That(t, v, test.ShouldAlmostEqual, 80, 1e-6)

	// the principal point does not move
	x, y = model.DistortionMap()(euRoCIntrinsics.Ppx, euRoCIntrinsics.Ppy)
	test.That(t, x, test.ShouldAlmostEqual, euRoCIntrinsics.Ppx)
	test.That(t, y, test.ShouldAlmostEqual, euRoCIntrinsics.Ppy)
}

func TestUndistortImage(t *testing.T) {
	small := &PinholeCameraIntrinsics{Width: 8, Height: 6, Fx: 10, Fy: 10, Ppx: 4, Ppy: 3}
	img := image.NewGray(image.Rect(0, 0, 8, 6))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}

	noDistortion := &PinholeCameraModel{PinholeCameraIntrinsics: small}
	out, err := noDistortion.UndistortImage(img)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldResemble, img)

	distorter, err := NewRadialTangential(euRoCDistortion)
	test.That(t, err, test.ShouldBeNil)
	model := &PinholeCameraModel{PinholeCameraIntrinsics: small, Distortion: distorter}
	out, err = model.UndistortImage(img)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Bounds(), test.ShouldResemble, img.Bounds())
	test.That(t, out.At(4, 3), test.ShouldResemble, img.At(4, 3))

	rgba := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	rgba.Set(4, 3, color.NRGBA{R: 255, A: 255})
	out, err = model.UndistortImage(rgba)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.At(4, 3), test.ShouldResemble, color.NRGBA{R: 255, A: 255})

	_, err = model.UndistortImage(image.NewGray(image.Rect(0, 0, 4, 4)))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "don't match")

	_, err = model.UndistortImage(nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestBrownConradyJacobian(t *testing.T) {
	bc := &BrownConrady{RadialK1: -0.28, RadialK2: 0.07, RadialK3: 0.01, TangentialP1: 0.0002, TangentialP2: -0.0003}
	const h = 1e-7
	for _, pt := range [][2]float64{{0.1, 0.2}, {-0.3, 0.05}, {0.4, -0.4}} {
		x, y := pt[0], pt[1]
		j := bc.jacobian(x, y)
		xdx1, ydx1 := bc.Transform(x+h, y)
		xdx0, ydx0 := bc.Transform(x-h, y)
		xdy1, ydy1 := bc.Transform(x, y+h)
		xdy0, ydy0 := bc.Transform(x, y-h)
		test.That(t, j[0], test.ShouldAlmostEqual, (xdx1-xdx0)/(2*h), 1e-6)
		test.That(t, j[1], test.ShouldAlmostEqual, (xdy1-xdy0)/(2*h), 1e-6)
		test.That(t, j[2], test.ShouldAlmostEqual, (ydx1-ydx0)/(2*h), 1e-6)
		test.That(t, j[3], test.ShouldAlmostEqual, (ydy1-ydy0)/(2*h), 1e-6)
	}

	inverse, err := NewInverseBrownConrady(bc.Parameters())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, inverse.Parameters(), test.ShouldResemble, bc.Parameters())
	xd, yd := bc.Transform(0.25, -0.15)
	xu, yu := inverse.Transform(xd, yd)
	test.That(t, xu, test.ShouldAlmostEqual, 0.25, 1e-9)
	test.That(t, yu, test.ShouldAlmostEqual, -0.15, 1e-9)
}
