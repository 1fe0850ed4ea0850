// Package calibration reads the sensor.yaml calibration descriptor found in every EuRoC sensor folder.
//
// A Descriptor is the first YAML document of the file. Every accessor looks up a fixed key, checks
// that the value has the expected shape and returns a utils.ErrMalformed error naming the key
// otherwise. Nothing is defaulted.
package calibration

import (
	"io"
	"math"
	"os"
	"strings"

	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"go.viam.com/euroc/rimage/transform"
	"go.viam.com/euroc/utils"
)

// Keys read from sensor.yaml. Nested keys are separated by dots.
const (
	KeySensorType        = "sensor_type"
	KeyComment           = "comment"
	KeyRateHz            = "rate_hz"
	KeyExtrinsics        = "T_BS.data"
	KeyResolution        = "resolution"
	KeyCameraModel       = "camera_model"
	KeyIntrinsics        = "intrinsics"
	KeyDistortionModel   = "distortion_model"
	KeyDistortion        = "distortion_coefficients"
	KeyGyroNoiseDensity  = "gyroscope_noise_density"
	KeyGyroRandomWalk    = "gyroscope_random_walk"
	KeyAccelNoiseDensity = "accelerometer_noise_density"
	KeyAccelRandomWalk   = "accelerometer_random_walk"
)

// Resolution is an image size in pixels.
type Resolution struct {
	Width  uint32
	Height uint32
}

// Intrinsics are the pinhole parameters: focal lengths (Fu, Fv) and principal point (Cu, Cv), in pixels.
type Intrinsics struct {
	Fu float64
	Fv float64
	Cu float64
	Cv float64
}

// CameraMatrix returns [[fu 0 cu] [0 fv cv] [0 0 1]]. A new matrix is built on every call.
func (in Intrinsics) CameraMatrix() *mat.Dense {
	params := transform.PinholeCameraIntrinsics{Fx: in.Fu, Fy: in.Fv, Ppx: in.Cu, Ppy: in.Cv}
	return params.GetCameraMatrix()
}

// Descriptor is a parsed calibration descriptor.
type Descriptor struct {
	path string
	root *yaml.Node
}

// ReadFile opens and parses the descriptor at path. The file is closed before returning.
func ReadFile(path string) (*Descriptor, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, utils.NewIOError(path, err)
	}
	defer goutils.UncheckedErrorFunc(f.Close)

	d, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "descriptor %q", path)
	}
	d.path = path
	return d, nil
}

// Read parses a descriptor from r. Only the first document is used; it must be a mapping.
func Read(r io.Reader) (*Descriptor, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, utils.NewMalformedError(nil, "no yaml document")
		}
		return nil, utils.NewMalformedError(err, "parsing yaml")
	}
	if len(doc.Content) == 0 {
		return nil, utils.NewMalformedError(nil, "empty yaml document")
	}
	root := resolve(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, utils.NewMalformedError(nil, "top level (line %d) is not a mapping", root.Line)
	}
	return &Descriptor{root: root}, nil
}

// Path returns the file the descriptor was read from, or "" if it was read from a stream.
func (d *Descriptor) Path() string {
	return d.path
}

// Has reports whether keyPath is present, whatever its value.
func (d *Descriptor) Has(keyPath string) bool {
	_, err := d.lookup(keyPath)
	return err == nil
}

// Resolution returns the 2 element integer "resolution" (width, height).
func (d *Descriptor) Resolution() (Resolution, error) {
	values, err := d.Uints(KeyResolution, 2)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{Width: values[0], Height: values[1]}, nil
}

// Intrinsics returns the 4 element "intrinsics" (fu, fv, cu, cv).
func (d *Descriptor) Intrinsics() (Intrinsics, error) {
	values, err := d.Floats(KeyIntrinsics, 4)
	if err != nil {
		return Intrinsics{}, err
	}
	return Intrinsics{Fu: values[0], Fv: values[1], Cu: values[2], Cv: values[3]}, nil
}

// DistortionCoefficients returns the 4 element "distortion_coefficients" in file order.
func (d *Descriptor) DistortionCoefficients() ([4]float64, error) {
	var coeffs [4]float64
	values, err := d.Floats(KeyDistortion, 4)
	if err != nil {
		return coeffs, err
	}
	copy(coeffs[:], values)
	return coeffs, nil
}

// Extrinsics returns "T_BS.data" as a 4x4 matrix filled row by row. The transform is returned as
// published; no frame convention is applied.
func (d *Descriptor) Extrinsics() (*mat.Dense, error) {
	values, err := d.Floats(KeyExtrinsics, 16)
	if err != nil {
		return nil, err
	}
	return mat.NewDense(4, 4, values), nil
}

// Float returns the numeric scalar at keyPath.
func (d *Descriptor) Float(keyPath string) (float64, error) {
	node, err := d.lookup(keyPath)
	if err != nil {
		return 0, err
	}
	return floatValue(keyPath, node)
}

// String returns the scalar at keyPath as text.
func (d *Descriptor) String(keyPath string) (string, error) {
	node, err := d.lookup(keyPath)
	if err != nil {
		return "", err
	}
	if node.Kind != yaml.ScalarNode {
		return "", utils.NewMalformedError(nil, "key %q (line %d) is not a scalar", keyPath, node.Line)
	}
	return node.Value, nil
}

// Floats returns the numeric sequence at keyPath, which must have exactly n elements.
func (d *Descriptor) Floats(keyPath string, n int) ([]float64, error) {
	nodes, err := d.sequence(keyPath, n)
	if err != nil {
		return nil, err
	}
	values := make([]float64, 0, n)
	for _, node := range nodes {
		v, err := floatValue(keyPath, node)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// Uints returns the integer sequence at keyPath, which must have exactly n elements, each fitting
// in a uint32.
func (d *Descriptor) Uints(keyPath string, n int) ([]uint32, error) {
	nodes, err := d.sequence(keyPath, n)
	if err != nil {
		return nil, err
	}
	values := make([]uint32, 0, n)
	for _, node := range nodes {
		v, err := intValue(keyPath, node)
		if err != nil {
			return nil, err
		}
		if v < 0 || v > math.MaxUint32 {
			return nil, utils.NewOutOfRangeError(keyPath, v, "uint32")
		}
		values = append(values, uint32(v))
	}
	return values, nil
}

func (d *Descriptor) lookup(keyPath string) (*yaml.Node, error) {
	node := d.root
	for _, key := range strings.Split(keyPath, ".") {
		if node.Kind != yaml.MappingNode {
			return nil, utils.NewMalformedError(nil, "key %q: parent of %q (line %d) is not a mapping", keyPath, key, node.Line)
		}
		child := mappingValue(node, key)
		if child == nil {
			return nil, utils.NewMalformedError(nil, "key %q is missing", keyPath)
		}
		node = child
	}
	return node, nil
}

func (d *Descriptor) sequence(keyPath string, n int) ([]*yaml.Node, error) {
	node, err := d.lookup(keyPath)
	if err != nil {
		return nil, err
	}
	if node.Kind != yaml.SequenceNode {
		return nil, utils.NewMalformedError(nil, "key %q (line %d) is not a sequence", keyPath, node.Line)
	}
	if len(node.Content) != n {
		return nil, utils.NewMalformedError(nil, "key %q (line %d) has %d elements, expected %d",
			keyPath, node.Line, len(node.Content), n)
	}
	nodes := make([]*yaml.Node, 0, n)
	for _, child := range node.Content {
		nodes = append(nodes, resolve(child))
	}
	return nodes, nil
}

// mappingValue returns the value node for key, or nil. Mapping content alternates key, value.
func mappingValue(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return resolve(mapping.Content[i+1])
		}
	}
	return nil
}

func resolve(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func floatValue(keyPath string, node *yaml.Node) (float64, error) {
	if node.Kind != yaml.ScalarNode {
		return 0, utils.NewMalformedError(nil, "key %q (line %d) is not a number", keyPath, node.Line)
	}
	switch node.ShortTag() {
	case "!!int", "!!float":
	default:
		return 0, utils.NewMalformedError(nil, "key %q (line %d): %q is not a number", keyPath, node.Line, node.Value)
	}
	var v float64
	if err := node.Decode(&v); err != nil {
		return 0, utils.NewMalformedError(err, "key %q (line %d)", keyPath, node.Line)
	}
	return v, nil
}

func intValue(keyPath string, node *yaml.Node) (int64, error) {
	// yaml tags an integer literal that overflows 64 bits as a float
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!float" && isIntegerLiteral(node.Value) {
		return 0, utils.NewOutOfRangeError(keyPath, node.Value, "int64")
	}
	if node.Kind != yaml.ScalarNode || node.ShortTag() != "!!int" {
		return 0, utils.NewMalformedError(nil, "key %q (line %d): %q is not an integer", keyPath, node.Line, node.Value)
	}
	var v int64
	if err := node.Decode(&v); err != nil {
		return 0, utils.NewOutOfRangeError(keyPath, node.Value, "int64")
	}
	return v, nil
}

func isIntegerLiteral(s string) bool {
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
