// Package groundtruth reads the EuRoC ground-truth state folder (state_groundtruth_estimate0).
package groundtruth

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/euroc/logging"
	"go.viam.com/euroc/recordlog"
	"go.viam.com/euroc/sensor"
)

// Record is one estimated body state. Orientation is stored as logged (w, x, y, z) and is not
// normalized. Gyro and Accel are the estimated sensor biases.
type Record struct {
	Timestamp   recordlog.Timestamp
	Position    r3.Vector
	Orientation quat.Number
	Velocity    r3.Vector
	Gyro        r3.Vector
	Accel       r3.Vector
}

// GroundTruth is a validated ground-truth folder.
type GroundTruth struct {
	folder *sensor.Folder
	logger logging.Logger
}

// New validates the ground-truth folder at path.
func New(path string, logger logging.Logger) (*GroundTruth, error) {
	folder, err := sensor.NewFolder(path, sensor.KindGroundTruth)
	if err != nil {
		return nil, err
	}
	logger.Debugw("opened ground truth folder", "path", path)
	return &GroundTruth{folder: folder, logger: logger}, nil
}

// Name returns the folder name.
func (g *GroundTruth) Name() string {
	return g.folder.Name()
}

// Path returns the folder path.
func (g *GroundTruth) Path() string {
	return g.folder.Path()
}

// Extrinsics returns T_BS.
func (g *GroundTruth) Extrinsics() (*mat.Dense, error) {
	return g.folder.Extrinsics()
}

// Records streams the 17 column state log.
func (g *GroundTruth) Records() (*recordlog.Iterator[Record], error) {
	g.logger.Debugw("reading ground truth states", "log", g.folder.LogPath())
	return sensor.OpenLog(g.folder, parseRecord)
}

func parseRecord(row recordlog.Row) (Record, error) {
	var (
		rec Record
		err error
	)
	if err = row.Require(17); err != nil {
		return Record{}, err
	}
	if rec.Timestamp, err = row.Timestamp(); err != nil {
		return Record{}, err
	}
	if rec.Position, err = row.Vector(1); err != nil {
		return Record{}, err
	}
	if rec.Orientation, err = row.Quaternion(4); err != nil {
		return Record{}, err
	}
	if rec.Velocity, err = row.Vector(8); err != nil {
		return Record{}, err
	}
	if rec.Gyro, err = row.Vector(11); err != nil {
		return Record{}, err
	}
	if rec.Accel, err = row.Vector(14); err != nil {
		return Record{}, err
	}
	return rec, nil
}
