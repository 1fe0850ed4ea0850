package dataset

import (
	"path/filepath"

	"go.viam.com/euroc/logging"
	"go.viam.com/euroc/utils"
)

// Layout names the folder of each sensor role, relative to the dataset root.
type Layout struct {
	LeftCamera  string `json:"left_camera"`
	RightCamera string `json:"right_camera"`
	IMU         string `json:"imu"`
	Position    string `json:"position"`
	GroundTruth string `json:"ground_truth"`
}

// DefaultLayout returns the folder names used by the published EuRoC recordings.
func DefaultLayout() Layout {
	return Layout{
		LeftCamera:  "cam0",
		RightCamera: "cam1",
		IMU:         "imu0",
		Position:    "leica0",
		GroundTruth: "state_groundtruth_estimate0",
	}
}

// Validate rejects folder names that are empty, absolute, or resolve to the root or outside it.
func (l Layout) Validate() error {
	for _, role := range Roles() {
		name := l.folder(role)
		if name == "" {
			return utils.NewInvalidLayoutError(string(role), "has no folder name")
		}
		if !filepath.IsLocal(name) || filepath.Clean(name) == "." {
			return utils.NewInvalidLayoutError(name, "is not a folder inside the dataset root")
		}
	}
	return nil
}

func (l Layout) folder(role Role) string {
	switch role {
	case RoleLeftCamera:
		return l.LeftCamera
	case RoleRightCamera:
		return l.RightCamera
	case RoleIMU:
		return l.IMU
	case RolePosition:
		return l.Position
	case RoleGroundTruth:
		return l.GroundTruth
	default:
		return ""
	}
}

// options configures a Dataset.
type options struct {
	logger logging.Logger
	layout Layout
}

// Option configures how a dataset is opened.
type Option interface {
	apply(*options)
}

// funcOption wraps a function that modifies options into an implementation of the Option interface.
type funcOption struct {
	f func(*options)
}

func (fdo *funcOption) apply(do *options) {
	fdo.f(do)
}

func newFuncOption(f func(*options)) *funcOption {
	return &funcOption{
		f: f,
	}
}

// WithLogger returns an Option which sets the logger handed to every sensor reader.
func WithLogger(logger logging.Logger) Option {
	return newFuncOption(func(o *options) {
		o.logger = logger
	})
}

// WithLayout returns an Option which replaces the EuRoC folder names, for recordings that were
// renamed or nested.
func WithLayout(layout Layout) Option {
	return newFuncOption(func(o *options) {
		o.layout = layout
	})
}
