package camera

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/euroc/calibration"
	"go.viam.com/euroc/logging"
	"go.viam.com/euroc/rimage/transform"
	"go.viam.com/euroc/testutils"
	"go.viam.com/euroc/utils"
)

func newCam0(t *testing.T) *Camera {
	t.Helper()
	root := testutils.WriteDataset(t)
	cam, err := New(filepath.Join(root, testutils.Cam0Folder), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	return cam
}

func TestNew(t *testing.T) {
	root := testutils.WriteDataset(t)
	logger, logs := logging.NewObservedTestLogger(t)
	path := filepath.Join(root, testutils.Cam1Folder)
	cam, err := New(path, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cam.Name(), test.ShouldEqual, "cam1")
	test.That(t, cam.Path(), test.ShouldEqual, path)
	test.That(t, logs.FilterMessage("opened camera folder").Len(), test.ShouldEqual, 1)

	test.That(t, os.RemoveAll(filepath.Join(path, "data")), test.ShouldBeNil)
	_, err = New(path, logger)
	test.That(t, errors.Is(err, utils.ErrNotFound), test.ShouldBeTrue)

	_, err = New(filepath.Join(root, "cam2"), logger)
	test.That(t, errors.Is(err, utils.ErrNotFound), test.ShouldBeTrue)
}

func TestCalibration(t *testing.T) {
	cam := newCam0(t)

	size, err := cam.ImageSize()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, size, test.ShouldResemble, calibration.Resolution{Width: 752, Height: 480})

	in, err := cam.Intrinsics()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, in, test.ShouldResemble, calibration.Intrinsics{Fu: 458.654, Fv: 457.296, Cu: 367.215, Cv: 248.375})

	k, err := cam.CameraMatrix()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mat.Equal(k, mat.NewDense(3, 3, []float64{
		458.654, 0, 367.215,
		0, 457.296, 248.375,
		0, 0, 1,
	})), test.ShouldBeTrue)

	coeffs, err := cam.DistortionCoefficients()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, coeffs, test.ShouldResemble, [4]float64{-0.28340811, 0.07395907, 0.00019359, 1.76187114e-05})

	ext, err := cam.Extrinsics()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ext.At(0, 0), test.ShouldEqual, 0.0148655429818)
	test.That(t, ext.At(2, 3), test.ShouldEqual, 0.00981073058949)
	test.That(t, ext.At(3, 3), test.ShouldEqual, 1.0)

	rate, err := cam.RateHz()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rate, test.ShouldEqual, 20.0)
}

func TestCalibrationIsReadEveryTime(t *testing.T) {
	cam := newCam0(t)
	_, err := cam.Intrinsics()
	test.That(t, err, test.ShouldBeNil)

	testutils.WriteFile(t, filepath.Join(cam.Path(), "sensor.yaml"), "intrinsics: [1, 2, 3]\n")
	_, err = cam.Intrinsics()
	test.That(t, errors.Is(err, utils.ErrMalformed), test.ShouldBeTrue)
	_, err = cam.ImageSize()
	test.That(t, errors.Is(err, utils.ErrMalformed), test.ShouldBeTrue)
}

func TestPinholeModel(t *testing.T) {
	cam := newCam0(t)
	model, err := cam.PinholeModel()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, model.Width, test.ShouldEqual, 752)
	test.That(t, model.Height, test.ShouldEqual, 480)
	test.That(t, model.Fx, test.ShouldEqual, 458.654)
	test.That(t, model.Ppy, test.ShouldEqual, 248.375)
	test.That(t, model.Distortion.ModelType(), test.ShouldEqual, transform.RadialTangentialDistortionType)
	test.That(t, model.Distortion.Parameters(), test.ShouldResemble,
		[]float64{-0.28340811, 0.07395907, 0, 0.00019359, 1.76187114e-05})

	x, y := model.DistortionMap()(100, 50)
	u, v, err := model.UndistortPixel(x, y)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, u, test.ShouldAlmostEqual, 100, 1e-6)
	test.That(t, v, test.ShouldAlmostEqual, 50, 1e-6)

	testutils.WriteFile(t, filepath.Join(cam.Path(), "sensor.yaml"),
		"resolution: [752, 480]\nintrinsics: [1, 1, 1, 1]\ndistortion_model: equidistant\n"+
			"distortion_coefficients: [0, 0, 0, 0]\n")
	_, err = cam.PinholeModel()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "equidistant")
}

func TestRecords(t *testing.T) {
	cam := newCam0(t)
	it, err := cam.Records()
	test.That(t, err, test.ShouldBeNil)
	records, err := it.Collect()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, records, test.ShouldHaveLength, 5)

	third := records[2]
	test.That(t, third.Timestamp.Nanoseconds(), test.ShouldEqual, uint64(1403636579863555584))
	test.That(t, third.Path, test.ShouldEqual, filepath.Join(cam.Path(), "data", "1403636579863555584.png"))
	test.That(t, third.Image.Bounds(), test.ShouldResemble, image.Rect(0, 0, 752, 480))

	for i := 1; i < len(records); i++ {
		test.That(t, records[i].Timestamp.Nanoseconds(), test.ShouldBeGreaterThan, records[i-1].Timestamp.Nanoseconds())
	}
}

func TestRecordsRestart(t *testing.T) {
	cam := newCam0(t)
	var runs [2][]Frame
	for i := range runs {
		it, err := cam.Frames()
		test.That(t, err, test.ShouldBeNil)
		runs[i], err = it.Collect()
		test.That(t, err, test.ShouldBeNil)
	}
	test.That(t, runs[0], test.ShouldHaveLength, 5)
	test.That(t, runs[1], test.ShouldResemble, runs[0])
}

func TestImageErrorsArePerRecord(t *testing.T) {
	cam := newCam0(t)
	dataDir := filepath.Join(cam.Path(), "data")
	test.That(t, os.Remove(filepath.Join(dataDir, "1403636579813555456.png")), test.ShouldBeNil)
	testutils.WriteFile(t, filepath.Join(dataDir, "1403636579913555456.png"), "not a png")

	it, err := cam.Records()
	test.That(t, err, test.ShouldBeNil)
	var good int
	var errs []error
	for _, err := range it.All() {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		good++
	}
	test.That(t, good, test.ShouldEqual, 3)
	test.That(t, errs, test.ShouldHaveLength, 2)
	test.That(t, errors.Is(errs[0], utils.ErrIO), test.ShouldBeTrue)
	test.That(t, errors.Is(errs[0], os.ErrNotExist), test.ShouldBeTrue)
	test.That(t, errs[0].Error(), test.ShouldContainSubstring, "row 1")
	test.That(t, errors.Is(errs[1], utils.ErrMalformed), test.ShouldBeTrue)
	test.That(t, errs[1].Error(), test.ShouldContainSubstring, "row 3")

	// listing frames does not touch the images
	frames, err := cam.Frames()
	test.That(t, err, test.ShouldBeNil)
	all, err := frames.Collect()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, all, test.ShouldHaveLength, 5)
}

func TestImageNameEscapingDataDir(t *testing.T) {
	cam := newCam0(t)
	testutils.WriteFile(t, filepath.Join(cam.Path(), "data.csv"),
		"#timestamp [ns],filename\n"+
			"1,../sensor.yaml\n"+
			"2,\n"+
			"3,1403636579763555584.png\n")

	it, err := cam.Frames()
	test.That(t, err, test.ShouldBeNil)
	_, err = it.Next()
	test.That(t, errors.Is(err, utils.ErrMalformed), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, `image name "../sensor.yaml"`)
	_, err = it.Next()
	test.That(t, errors.Is(err, utils.ErrMalformed), test.ShouldBeTrue)
	frame, err := it.Next()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, frame.Timestamp.Nanoseconds(), test.ShouldEqual, uint64(3))
	test.That(t, it.Close(), test.ShouldBeNil)
}

func TestShortRow(t *testing.T) {
	cam := newCam0(t)
	testutils.WriteFile(t, filepath.Join(cam.Path(), "data.csv"), "#timestamp [ns],filename\n1403636579763555584\n")
	it, err := cam.Records()
	test.That(t, err, test.ShouldBeNil)
	_, err = it.Collect()
	test.That(t, errors.Is(err, utils.ErrMalformed), test.ShouldBeTrue)
}
