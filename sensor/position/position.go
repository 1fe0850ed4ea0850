// Package position reads a EuRoC external position tracker folder (leica0).
package position

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/euroc/logging"
	"go.viam.com/euroc/recordlog"
	"go.viam.com/euroc/sensor"
)

// Record is one tracked position in meters.
type Record struct {
	Timestamp recordlog.Timestamp
	Position  r3.Vector
}

// Position is a validated position tracker folder.
type Position struct {
	folder *sensor.Folder
	logger logging.Logger
}

// New validates the position folder at path.
func New(path string, logger logging.Logger) (*Position, error) {
	folder, err := sensor.NewFolder(path, sensor.KindPosition)
	if err != nil {
		return nil, err
	}
	logger.Debugw("opened position folder", "path", path)
	return &Position{folder: folder, logger: logger}, nil
}

// Name returns the folder name.
func (p *Position) Name() string {
	return p.folder.Name()
}

// Path returns the folder path.
func (p *Position) Path() string {
	return p.folder.Path()
}

// Extrinsics returns the prism's T_BS.
func (p *Position) Extrinsics() (*mat.Dense, error) {
	return p.folder.Extrinsics()
}

// Records streams the tracked positions.
func (p *Position) Records() (*recordlog.Iterator[Record], error) {
	p.logger.Debugw("reading positions", "log", p.folder.LogPath())
	return sensor.OpenLog(p.folder, func(row recordlog.Row) (Record, error) {
		if err := row.Require(4); err != nil {
			return Record{}, err
		}
		ts, err := row.Timestamp()
		if err != nil {
			return Record{}, err
		}
		pos, err := row.Vector(1)
		if err != nil {
			return Record{}, err
		}
		return Record{Timestamp: ts, Position: pos}, nil
	})
}
