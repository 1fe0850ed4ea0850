package transform

import (
	"math"

	"github.com/pkg/errors"
)

const (
	inverseMaxIterations = 20
	inverseTolerance     = 1e-10
)

// BrownConrady is a struct for some terms of a modified Brown-Conrady model of distortion.
type BrownConrady struct {
	RadialK1     float64 `json:"rk1"`
	RadialK2     float64 `json:"rk2"`
	RadialK3     float64 `json:"rk3"`
	TangentialP1 float64 `json:"tp1"`
	TangentialP2 float64 `json:"tp2"`

	// model is the name the coefficients were read under; empty means brown_conrady.
	model DistortionType
}

// CheckValid checks if the fields for BrownConrady have valid inputs.
func (bc *BrownConrady) CheckValid() error {
	if bc == nil {
		return InvalidDistortionError("BrownConrady shaped distortion_parameters not provided")
	}
	return nil
}

// brownConradyTerms pads (k1, k2, k3, p1, p2) with zeros.
func brownConradyTerms(inp []float64) ([5]float64, error) {
	var terms [5]float64
	if len(inp) > len(terms) {
		return terms, errors.Errorf("list of parameters too long, expected max 5, got %d", len(inp))
	}
	copy(terms[:], inp)
	return terms, nil
}

// NewBrownConrady takes in a slice of floats (k1, k2, k3, p1, p2) that will be passed into the struct in order.
func NewBrownConrady(inp []float64) (*BrownConrady, error) {
	t, err := brownConradyTerms(inp)
	if err != nil {
		return nil, err
	}
	return &BrownConrady{RadialK1: t[0], RadialK2: t[1], RadialK3: t[2], TangentialP1: t[3], TangentialP2: t[4]}, nil
}

// NewRadialTangential takes the four radial-tangential coefficients in their published order
// (k1, k2, p1, p2). There is no third radial term. The result reports radial-tangential as its
// model type and Parameters still lists five values, with k3 zero.
func NewRadialTangential(coeffs []float64) (*BrownConrady, error) {
	if len(coeffs) != 4 {
		return nil, errors.Errorf("radial-tangential distortion needs 4 coefficients, got %d", len(coeffs))
	}
	return &BrownConrady{
		RadialK1:     coeffs[0],
		RadialK2:     coeffs[1],
		TangentialP1: coeffs[2],
		TangentialP2: coeffs[3],
		model:        RadialTangentialDistortionType,
	}, nil
}

// ModelType returns the type of distortion model.
func (bc *BrownConrady) ModelType() DistortionType {
	if bc == nil || bc.model == "" {
		return BrownConradyDistortionType
	}
	return bc.model
}

// Parameters returns the distortion parameters as a list of floats.
func (bc *BrownConrady) Parameters() []float64 {
	if bc == nil {
		return []float64{}
	}
	return []float64{bc.RadialK1, bc.RadialK2, bc.RadialK3, bc.TangentialP1, bc.TangentialP2}
}

// Transform distorts the input points x,y according to a modified Brown-Conrady model as described by OpenCV
// https://docs.opencv.org/3.4/da/d54/group__imgproc__transform.html#ga7dfb72c9cf9780a347fbe3d1c47e5d5a
func (bc *BrownConrady) Transform(x, y float64) (float64, float64) {
	if bc == nil {
		return x, y
	}
	r2 := x*x + y*y
	radDist := (1. + bc.RadialK1*r2 + bc.RadialK2*r2*r2 + bc.RadialK3*r2*r2*r2)
	radDistX := x * radDist
	radDistY := y * radDist
	tanDistX := 2.*bc.TangentialP1*x*y + bc.TangentialP2*(r2+2.*x*x)
	tanDistY := 2.*bc.TangentialP2*x*y + bc.TangentialP1*(r2+2.*y*y)
	resX := radDistX + tanDistX
	resY := radDistY + tanDistY
	return resX, resY
}

// jacobian returns the partial derivatives of Transform at (x, y), row-major:
// dxd/dx, dxd/dy, dyd/dx, dyd/dy.
func (bc *BrownConrady) jacobian(x, y float64) [4]float64 {
	r2 := x*x + y*y
	radDist := 1. + bc.RadialK1*r2 + bc.RadialK2*r2*r2 + bc.RadialK3*r2*r2*r2
	// d(radDist)/d(r2)
	dRad := bc.RadialK1 + 2.*bc.RadialK2*r2 + 3.*bc.RadialK3*r2*r2
	p1, p2 := bc.TangentialP1, bc.TangentialP2
	return [4]float64{
		radDist + 2.*x*x*dRad + 2.*p1*y + 6.*p2*x,
		2.*x*y*dRad + 2.*p1*x + 2.*p2*y,
		2.*x*y*dRad + 2.*p2*y + 2.*p1*x,
		radDist + 2.*y*y*dRad + 2.*p2*x + 6.*p1*y,
	}
}

// InverseBrownConrady maps distorted points back to undistorted ones. There is no closed form, so
// Transform runs Newton iterations on the forward model.
type InverseBrownConrady struct {
	RadialK1     float64 `json:"rk1"`
	RadialK2     float64 `json:"rk2"`
	RadialK3     float64 `json:"rk3"`
	TangentialP1 float64 `json:"tp1"`
	TangentialP2 float64 `json:"tp2"`

	forwardModel DistortionType
}

// CheckValid checks if the fields for InverseBrownConrady have valid inputs.
func (ibc *InverseBrownConrady) CheckValid() error {
	if ibc == nil {
		return InvalidDistortionError("InverseBrownConrady shaped distortion_parameters not provided")
	}
	return nil
}

// NewInverseBrownConrady takes the same (k1, k2, k3, p1, p2) as NewBrownConrady.
func NewInverseBrownConrady(inp []float64) (*InverseBrownConrady, error) {
	t, err := brownConradyTerms(inp)
	if err != nil {
		return nil, err
	}
	return &InverseBrownConrady{RadialK1: t[0], RadialK2: t[1], RadialK3: t[2], TangentialP1: t[3], TangentialP2: t[4]}, nil
}

// ModelType returns the type of distortion model.
func (ibc *InverseBrownConrady) ModelType() DistortionType {
	return InverseBrownConradyDistortionType
}

// Parameters returns the parameters of the forward model.
func (ibc *InverseBrownConrady) Parameters() []float64 {
	if ibc == nil {
		return []float64{}
	}
	return ibc.forward().Parameters()
}

func (ibc *InverseBrownConrady) forward() *BrownConrady {
	return &BrownConrady{
		RadialK1:     ibc.RadialK1,
		RadialK2:     ibc.RadialK2,
		RadialK3:     ibc.RadialK3,
		TangentialP1: ibc.TangentialP1,
		TangentialP2: ibc.TangentialP2,
		model:        ibc.forwardModel,
	}
}

// Transform returns the undistorted point whose forward distortion is (xd, yd), starting the search
// at (xd, yd). It gives up after a fixed number of steps or on a singular Jacobian and returns the
// last estimate.
func (ibc *InverseBrownConrady) Transform(xd, yd float64) (float64, float64) {
	if ibc == nil {
		return xd, yd
	}
	fwd := ibc.forward()
	xu, yu := xd, yd
	for i := 0; i < inverseMaxIterations; i++ {
		x, y := fwd.Transform(xu, yu)
		ex, ey := x-xd, y-yd
		if math.Hypot(ex, ey) < inverseTolerance {
			break
		}
		j := fwd.jacobian(xu, yu)
		det := j[0]*j[3] - j[1]*j[2]
		if det == 0 {
			break
		}
		xu -= (j[3]*ex - j[1]*ey) / det
		yu -= (j[0]*ey - j[2]*ex) / det
	}
	return xu, yu
}
