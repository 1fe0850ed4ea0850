package main

import (
	"fmt"
	"os"
	"time"

	"github.com/docker/go-units"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"
	goutils "go.viam.com/utils"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/euroc/dataset"
	"go.viam.com/euroc/logging"
	"go.viam.com/euroc/recordlog"
	"go.viam.com/euroc/rimage"
	"go.viam.com/euroc/sensor/camera"
	"go.viam.com/euroc/utils"
)

// newLogger logs warnings, or everything with --debug, to the error writer.
func newLogger(c *cli.Context) logging.Logger {
	level := zapcore.WarnLevel
	if c.Bool(flagDebug) {
		level = zapcore.DebugLevel
	}
	return logging.NewWriterLogger("euroc-info", level, c.App.ErrWriter)
}

func openDataset(c *cli.Context, logger logging.Logger) (*dataset.Dataset, error) {
	return dataset.Open(c.Path(flagRoot), dataset.WithLogger(logger))
}

func newTable(c *cli.Context, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.AppendHeader(header)
	return t
}

// rowError reports whether err only concerns a single log row, as opposed to the log itself.
func rowError(err error) bool {
	return errors.Is(err, utils.ErrMalformed) || errors.Is(err, utils.ErrOutOfRange)
}

func valueOrError(v interface{}, err error) string {
	if err != nil {
		return "error: " + err.Error()
	}
	switch val := v.(type) {
	case *mat.Dense:
		return fmt.Sprintf("%.6g", mat.Formatted(val))
	case float64:
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func span(first, last recordlog.Timestamp, count int) string {
	if count == 0 {
		return "-"
	}
	return fmt.Sprintf("%s .. %s (%s)", first, last, units.HumanDuration(last.Sub(first)))
}

// SensorsAction lists every sensor role of the recording.
func SensorsAction(c *cli.Context) error {
	d, err := openDataset(c, newLogger(c))
	if err != nil {
		return err
	}
	t := newTable(c, table.Row{"Role", "Folder", "Readable", "Problem"})
	for _, s := range d.Sensors() {
		problem := ""
		if s.Err != nil {
			problem = s.Err.Error()
		}
		t.AppendRow(table.Row{s.Role, s.Path, s.Present(), problem})
	}
	t.Render()
	return nil
}

// CalibrationAction prints the descriptor values of every readable sensor.
func CalibrationAction(c *cli.Context) error {
	d, err := openDataset(c, newLogger(c))
	if err != nil {
		return err
	}
	t := newTable(c, table.Row{"Sensor", "Field", "Value"})
	addCamera := func(cam *camera.Camera) {
		size, err := cam.ImageSize()
		t.AppendRow(table.Row{cam.Name(), "resolution", valueOrError(size, err)})
		in, err := cam.Intrinsics()
		t.AppendRow(table.Row{cam.Name(), "intrinsics", valueOrError(in, err)})
		coeffs, err := cam.DistortionCoefficients()
		t.AppendRow(table.Row{cam.Name(), "distortion", valueOrError(coeffs, err)})
		rate, err := cam.RateHz()
		t.AppendRow(table.Row{cam.Name(), "rate_hz", valueOrError(rate, err)})
		ext, err := cam.Extrinsics()
		t.AppendRow(table.Row{cam.Name(), "T_BS", valueOrError(ext, err)})
		t.AppendSeparator()
	}
	if cam, err := d.LeftCamera(); err == nil {
		addCamera(cam)
	}
	if cam, err := d.RightCamera(); err == nil {
		addCamera(cam)
	}
	if u, err := d.IMU(); err == nil {
		for _, field := range []struct {
			name string
			read func() (float64, error)
		}{
			{"gyroscope_noise_density", u.GyroNoiseDensity},
			{"gyroscope_random_walk", u.GyroRandomWalk},
			{"accelerometer_noise_density", u.AccelNoiseDensity},
			{"accelerometer_random_walk", u.AccelRandomWalk},
			{"rate_hz", u.RateHz},
		} {
			v, err := field.read()
			t.AppendRow(table.Row{u.Name(), field.name, valueOrError(v, err)})
		}
		ext, err := u.Extrinsics()
		t.AppendRow(table.Row{u.Name(), "T_BS", valueOrError(ext, err)})
		t.AppendSeparator()
	}
	if p, err := d.Position(); err == nil {
		ext, err := p.Extrinsics()
		t.AppendRow(table.Row{p.Name(), "T_BS", valueOrError(ext, err)})
		t.AppendSeparator()
	}
	if g, err := d.GroundTruth(); err == nil {
		ext, err := g.Extrinsics()
		t.AppendRow(table.Row{g.Name(), "T_BS", valueOrError(ext, err)})
	}
	t.Render()
	return nil
}

// IMUAction prints the sample count, time span and per axis statistics of the IMU log.
func IMUAction(c *cli.Context) error {
	logger := newLogger(c)
	defer goutils.UncheckedErrorFunc(logger.Sync)
	d, err := openDataset(c, logger)
	if err != nil {
		return err
	}
	u, err := d.IMU()
	if err != nil {
		return err
	}
	it, err := u.Records()
	if err != nil {
		return err
	}

	var (
		first, last recordlog.Timestamp
		count       int
		rejected    int
		axes        = make([][]float64, 6)
	)
	for rec, err := range it.All() {
		if err != nil {
			if !rowError(err) {
				return err
			}
			logger.Warnw("skipping imu row", "error", err)
			rejected++
			continue
		}
		if count == 0 {
			first = rec.Timestamp
		}
		last = rec.Timestamp
		count++
		for i, v := range []float64{rec.Gyro.X, rec.Gyro.Y, rec.Gyro.Z, rec.Accel.X, rec.Accel.Y, rec.Accel.Z} {
			axes[i] = append(axes[i], v)
		}
	}

	rate, err := u.RateHz()
	summary := newTable(c, table.Row{"Samples", "Rejected", "Span", "rate_hz"})
	summary.AppendRow(table.Row{count, rejected, span(first, last, count), valueOrError(rate, err)})
	summary.Render()

	axisStats := newTable(c, table.Row{"Axis", "Mean", "StdDev", "Min", "Max"})
	for i, name := range []string{"gyro x", "gyro y", "gyro z", "accel x", "accel y", "accel z"} {
		row := table.Row{name}
		for _, f := range []func(stats.Float64Data) (float64, error){
			stats.Mean, stats.StandardDeviation, stats.Min, stats.Max,
		} {
			v, err := f(axes[i])
			if err != nil {
				row = append(row, "-")
				continue
			}
			row = append(row, fmt.Sprintf("%.6f", v))
		}
		axisStats.AppendRow(row)
	}
	axisStats.Render()
	return nil
}

// FramesAction prints the frame count and time span of a camera log. Every image is checked
// against the calibrated resolution, from its header only unless --decode is set.
func FramesAction(c *cli.Context) error {
	logger := newLogger(c)
	defer goutils.UncheckedErrorFunc(logger.Sync)
	d, err := openDataset(c, logger)
	if err != nil {
		return err
	}
	cam, err := d.LeftCamera()
	if c.Bool(flagRight) {
		cam, err = d.RightCamera()
	}
	if err != nil {
		return err
	}
	size, err := cam.ImageSize()
	if err != nil {
		return err
	}

	var (
		first, last recordlog.Timestamp
		count       int
		bytes       int64
		missing     int
		failures    = newTable(c, table.Row{"Problem"})
		failed      int
	)
	fail := func(problem string) {
		failures.AppendRow(table.Row{problem})
		failed++
	}
	// add counts the frame and reports whether its image exists.
	add := func(frame camera.Frame) bool {
		if count == 0 {
			first = frame.Timestamp
		}
		last = frame.Timestamp
		count++
		info, err := os.Stat(frame.Path)
		if err != nil {
			missing++
			return false
		}
		bytes += info.Size()
		return true
	}
	checkSize := func(path string, width, height int) {
		if width != int(size.Width) || height != int(size.Height) {
			fail(fmt.Sprintf("%s is %dx%d, expected %dx%d", path, width, height, size.Width, size.Height))
		}
	}

	start := time.Now()
	if c.Bool(flagDecode) {
		it, err := cam.Records()
		if err != nil {
			return err
		}
		for rec, err := range it.All() {
			// a missing image is an I/O error for that frame only; a failing log ends the loop anyway
			if err != nil {
				fail(err.Error())
				continue
			}
			add(camera.Frame{Timestamp: rec.Timestamp, Path: rec.Path})
			b := rec.Image.Bounds()
			checkSize(rec.Path, b.Dx(), b.Dy())
		}
	} else {
		it, err := cam.Frames()
		if err != nil {
			return err
		}
		for frame, err := range it.All() {
			if err != nil {
				fail(err.Error())
				continue
			}
			if !add(frame) {
				continue
			}
			cfg, _, err := rimage.ReadImageConfig(frame.Path)
			if err != nil {
				fail(err.Error())
				continue
			}
			checkSize(frame.Path, cfg.Width, cfg.Height)
		}
	}
	logger.Debugw("read camera log", "camera", cam.Name(), "frames", count, "took", time.Since(start))

	summary := newTable(c, table.Row{"Camera", "Frames", "Missing images", "Image bytes", "Span"})
	summary.AppendRow(table.Row{cam.Name(), count, missing, units.HumanSize(float64(bytes)), span(first, last, count)})
	summary.Render()
	if failed > 0 {
		failures.Render()
	}
	return nil
}
