// Package dataset opens the root directory of a EuRoC recording and hands out a reader per sensor.
//
// A root holds one folder per sensor role:
//
//	<root>/cam0/                          left camera
//	<root>/cam1/                          right camera
//	<root>/imu0/                          IMU
//	<root>/leica0/                        position tracker
//	<root>/state_groundtruth_estimate0/   ground-truth state
//
// Opening the root only checks that it is a directory. Each sensor folder is validated when its
// reader is requested, so a recording missing some sensors can still be read.
package dataset

import (
	"path/filepath"

	"go.viam.com/euroc/logging"
	"go.viam.com/euroc/sensor/camera"
	"go.viam.com/euroc/sensor/groundtruth"
	"go.viam.com/euroc/sensor/imu"
	"go.viam.com/euroc/sensor/position"
	"go.viam.com/euroc/utils"
)

// Role is what a sensor folder is used for within a recording.
type Role string

// The roles of a EuRoC recording.
const (
	RoleLeftCamera  = Role("left_camera")
	RoleRightCamera = Role("right_camera")
	RoleIMU         = Role("imu")
	RolePosition    = Role("position")
	RoleGroundTruth = Role("ground_truth")
)

// Roles returns every role in a fixed order.
func Roles() []Role {
	return []Role{RoleLeftCamera, RoleRightCamera, RoleIMU, RolePosition, RoleGroundTruth}
}

// Dataset is an opened recording root.
type Dataset struct {
	root   string
	layout Layout
	logger logging.Logger
}

// Open checks that root is a directory. The default logger only prints Info and above, which the
// readers never log at.
func Open(root string, opts ...Option) (*Dataset, error) {
	o := options{layout: DefaultLayout()}
	for _, opt := range opts {
		opt.apply(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewLogger("euroc")
	}
	if err := o.layout.Validate(); err != nil {
		return nil, err
	}
	if err := utils.RequireDir(root); err != nil {
		return nil, err
	}
	o.logger.Debugw("opened dataset", "root", root)
	return &Dataset{root: root, layout: o.layout, logger: o.logger}, nil
}

// Root returns the dataset root.
func (d *Dataset) Root() string {
	return d.root
}

// Layout returns the folder names in use.
func (d *Dataset) Layout() Layout {
	return d.layout
}

// FolderPath returns where the folder for role is expected.
func (d *Dataset) FolderPath(role Role) string {
	return filepath.Join(d.root, d.layout.folder(role))
}

// LeftCamera opens cam0.
func (d *Dataset) LeftCamera() (*camera.Camera, error) {
	return camera.New(d.FolderPath(RoleLeftCamera), d.logger.Sublogger(string(RoleLeftCamera)))
}

// RightCamera opens cam1.
func (d *Dataset) RightCamera() (*camera.Camera, error) {
	return camera.New(d.FolderPath(RoleRightCamera), d.logger.Sublogger(string(RoleRightCamera)))
}

// IMU opens imu0.
func (d *Dataset) IMU() (*imu.IMU, error) {
	return imu.New(d.FolderPath(RoleIMU), d.logger.Sublogger(string(RoleIMU)))
}

// Position opens leica0.
func (d *Dataset) Position() (*position.Position, error) {
	return position.New(d.FolderPath(RolePosition), d.logger.Sublogger(string(RolePosition)))
}

// GroundTruth opens state_groundtruth_estimate0.
func (d *Dataset) GroundTruth() (*groundtruth.GroundTruth, error) {
	return groundtruth.New(d.FolderPath(RoleGroundTruth), d.logger.Sublogger(string(RoleGroundTruth)))
}

// SensorStatus reports whether the folder of a role passed validation. Err is nil when it did.
type SensorStatus struct {
	Role Role
	Path string
	Err  error
}

// Present reports whether the role can be read.
func (s SensorStatus) Present() bool {
	return s.Err == nil
}

// Sensors validates every role's folder and reports the outcome per role, in Roles order. A missing
// or invalid folder is reported, never returned as an error.
func (d *Dataset) Sensors() []SensorStatus {
	statuses := make([]SensorStatus, 0, len(Roles()))
	for _, role := range Roles() {
		var err error
		switch role {
		case RoleLeftCamera:
			_, err = d.LeftCamera()
		case RoleRightCamera:
			_, err = d.RightCamera()
		case RoleIMU:
			_, err = d.IMU()
		case RolePosition:
			_, err = d.Position()
		case RoleGroundTruth:
			_, err = d.GroundTruth()
		}
		if err != nil {
			d.logger.Debugw("sensor unavailable", "role", role, "error", err)
		}
		statuses = append(statuses, SensorStatus{Role: role, Path: d.FolderPath(role), Err: err})
	}
	return statuses
}
