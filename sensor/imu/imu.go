// Package imu reads a EuRoC IMU folder (imu0): its noise model and its gyroscope and accelerometer
// samples.
package imu

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/euroc/calibration"
	"go.viam.com/euroc/logging"
	"go.viam.com/euroc/recordlog"
	"go.viam.com/euroc/sensor"
)

// Record is one IMU sample. Gyro is the angular velocity in rad/s and Accel the linear acceleration
// in m/s^2, both in the sensor frame.
type Record struct {
	Timestamp recordlog.Timestamp
	Gyro      r3.Vector
	Accel     r3.Vector
}

// IMU is a validated IMU folder.
type IMU struct {
	folder *sensor.Folder
	logger logging.Logger
}

// New validates the IMU folder at path.
func New(path string, logger logging.Logger) (*IMU, error) {
	folder, err := sensor.NewFolder(path, sensor.KindIMU)
	if err != nil {
		return nil, err
	}
	logger.Debugw("opened imu folder", "path", path)
	return &IMU{folder: folder, logger: logger}, nil
}

// Name returns the folder name, e.g. "imu0".
func (u *IMU) Name() string {
	return u.folder.Name()
}

// Path returns the folder path.
func (u *IMU) Path() string {
	return u.folder.Path()
}

// Extrinsics returns T_BS as a 4x4 matrix.
func (u *IMU) Extrinsics() (*mat.Dense, error) {
	return u.folder.Extrinsics()
}

// GyroNoiseDensity returns the gyroscope white noise in rad/s/sqrt(Hz).
func (u *IMU) GyroNoiseDensity() (float64, error) {
	return u.folder.Float(calibration.KeyGyroNoiseDensity)
}

// GyroRandomWalk returns the gyroscope bias diffusion in rad/s^2/sqrt(Hz).
func (u *IMU) GyroRandomWalk() (float64, error) {
	return u.folder.Float(calibration.KeyGyroRandomWalk)
}

// AccelNoiseDensity returns the accelerometer white noise in m/s^2/sqrt(Hz).
func (u *IMU) AccelNoiseDensity() (float64, error) {
	return u.folder.Float(calibration.KeyAccelNoiseDensity)
}

// AccelRandomWalk returns the accelerometer bias diffusion in m/s^3/sqrt(Hz).
func (u *IMU) AccelRandomWalk() (float64, error) {
	return u.folder.Float(calibration.KeyAccelRandomWalk)
}

// RateHz returns the nominal sampling rate.
func (u *IMU) RateHz() (float64, error) {
	return u.folder.RateHz()
}

// Records streams the samples of data.csv: timestamp, then gyro x y z, then accel x y z.
func (u *IMU) Records() (*recordlog.Iterator[Record], error) {
	u.logger.Debugw("reading imu samples", "log", u.folder.LogPath())
	return sensor.OpenLog(u.folder, parseRecord)
}

func parseRecord(row recordlog.Row) (Record, error) {
	if err := row.Require(7); err != nil {
		return Record{}, err
	}
	ts, err := row.Timestamp()
	if err != nil {
		return Record{}, err
	}
	gyro, err := row.Vector(1)
	if err != nil {
		return Record{}, err
	}
	accel, err := row.Vector(4)
	if err != nil {
		return Record{}, err
	}
	return Record{Timestamp: ts, Gyro: gyro, Accel: accel}, nil
}
