package transform

import "github.com/pkg/errors"

// DistortionType is the name of the distortion model.
type DistortionType string

const (
	// BrownConradyDistortionType is for simple lenses of narrow field easily modeled as a pinhole camera.
	BrownConradyDistortionType = DistortionType("brown_conrady")
	// RadialTangentialDistortionType is the four coefficient (k1, k2, p1, p2) Brown-Conrady variant
	// written by Kalibr and used by EuRoC descriptors.
	RadialTangentialDistortionType = DistortionType("radial-tangential")
	// InverseBrownConradyDistortionType maps distorted points back to undistorted ones.
	InverseBrownConradyDistortionType = DistortionType("inverse_brown_conrady")
	// KannalaBrandtDistortionType is for wide-angle and fisheye lense distortion.
	KannalaBrandtDistortionType = DistortionType("kannala_brandt")
)

// Distorter defines a Transform that takes an undistorted image and distorts it according to the model.
type Distorter interface {
	ModelType() DistortionType
	CheckValid() error
	Parameters() []float64
	Transform(x, y float64) (float64, float64)
}

// InvalidDistortionError is used when the distortion_parameters are invalid.
func InvalidDistortionError(msg string) error {
	return errors.Wrap(errors.New("invalid distortion_parameters"), msg)
}

// NewDistorter returns a Distorter given a valid DistortionType and its parameters.
func NewDistorter(distortionType DistortionType, parameters []float64) (Distorter, error) {
	switch distortionType { //nolint:exhaustive
	case BrownConradyDistortionType:
		return NewBrownConrady(parameters)
	case RadialTangentialDistortionType:
		return NewRadialTangential(parameters)
	case InverseBrownConradyDistortionType:
		return NewInverseBrownConrady(parameters)
	default:
		return nil, errors.Errorf("do not know how to parse %q distortion model", distortionType)
	}
}

// InverseOf returns the distorter undoing d.
func InverseOf(d Distorter) (Distorter, error) {
	switch dist := d.(type) {
	case *BrownConrady:
		return &InverseBrownConrady{
			RadialK1:     dist.RadialK1,
			RadialK2:     dist.RadialK2,
			RadialK3:     dist.RadialK3,
			TangentialP1: dist.TangentialP1,
			TangentialP2: dist.TangentialP2,
			forwardModel: dist.model,
		}, nil
	case *InverseBrownConrady:
		return dist.forward(), nil
	default:
		return nil, errors.Errorf("no inverse known for %q distortion model", d.ModelType())
	}
}
