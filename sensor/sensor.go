// Package sensor validates EuRoC sensor folders and reads what every sensor folder has in common:
// its calibration descriptor and its data log.
//
// A sensor folder looks like
//
//	<folder>/sensor.yaml
//	<folder>/data.csv
//	<folder>/data/        (cameras only)
//
// The kind specific readers live in the camera, imu, groundtruth and position subpackages.
package sensor

import (
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/euroc/calibration"
	"go.viam.com/euroc/recordlog"
	"go.viam.com/euroc/utils"
)

// File and directory names inside a sensor folder.
const (
	DescriptorFile = "sensor.yaml"
	LogFile        = "data.csv"
	ImageDir       = "data"
)

// Kind specifies the kind of sensor stored in a folder.
type Kind string

// The sensor kinds of a EuRoC recording.
const (
	KindCamera      = Kind("camera")
	KindIMU         = Kind("imu")
	KindGroundTruth = Kind("ground_truth")
	KindPosition    = Kind("position")
)

// Folder is a validated sensor folder. It holds paths only; the descriptor and the log are read
// again on every call.
type Folder struct {
	path string
	kind Kind
}

// NewFolder checks that path holds the files a folder of the given kind needs. Nothing is parsed.
// A missing entry is a utils.ErrNotFound error and an entry of the wrong type a
// utils.ErrInvalidLayout error, both naming the offending path.
func NewFolder(path string, kind Kind) (*Folder, error) {
	switch kind {
	case KindCamera, KindIMU, KindGroundTruth, KindPosition:
	default:
		return nil, errors.Errorf("unknown sensor kind %q", kind)
	}
	if err := utils.RequireDir(path); err != nil {
		return nil, err
	}
	f := &Folder{path: path, kind: kind}
	if err := utils.RequireFile(f.DescriptorPath()); err != nil {
		return nil, err
	}
	if err := utils.RequireFile(f.LogPath()); err != nil {
		return nil, err
	}
	if kind == KindCamera {
		if err := utils.RequireDir(f.ImageDir()); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Path returns the folder path.
func (f *Folder) Path() string {
	return f.path
}

// Name returns the last element of the folder path, e.g. "cam0".
func (f *Folder) Name() string {
	return filepath.Base(f.path)
}

// Kind returns the kind the folder was validated as.
func (f *Folder) Kind() Kind {
	return f.kind
}

// DescriptorPath returns the path of sensor.yaml.
func (f *Folder) DescriptorPath() string {
	return filepath.Join(f.path, DescriptorFile)
}

// LogPath returns the path of data.csv.
func (f *Folder) LogPath() string {
	return filepath.Join(f.path, LogFile)
}

// ImageDir returns the path of the image directory. Only camera folders are required to have one.
func (f *Folder) ImageDir() string {
	return filepath.Join(f.path, ImageDir)
}

// Descriptor parses sensor.yaml.
func (f *Folder) Descriptor() (*calibration.Descriptor, error) {
	return calibration.ReadFile(f.DescriptorPath())
}

// Extrinsics returns T_BS.data as published.
func (f *Folder) Extrinsics() (*mat.Dense, error) {
	d, err := f.Descriptor()
	if err != nil {
		return nil, err
	}
	return d.Extrinsics()
}

// RateHz returns the nominal sampling rate.
func (f *Folder) RateHz() (float64, error) {
	return f.Float(calibration.KeyRateHz)
}

// SensorType returns the free form sensor_type field.
func (f *Folder) SensorType() (string, error) {
	return f.String(calibration.KeySensorType)
}

// Comment returns the free form comment field.
func (f *Folder) Comment() (string, error) {
	return f.String(calibration.KeyComment)
}

// Float reads one numeric descriptor key.
func (f *Folder) Float(keyPath string) (float64, error) {
	d, err := f.Descriptor()
	if err != nil {
		return 0, err
	}
	return d.Float(keyPath)
}

// String reads one text descriptor key.
func (f *Folder) String(keyPath string) (string, error) {
	d, err := f.Descriptor()
	if err != nil {
		return "", err
	}
	return d.String(keyPath)
}

// OpenLog opens the folder's data.csv with parse as the row parser.
func OpenLog[T any](f *Folder, parse recordlog.RowParser[T]) (*recordlog.Iterator[T], error) {
	return recordlog.Open(f.LogPath(), parse)
}
