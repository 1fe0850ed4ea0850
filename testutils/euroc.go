// Package testutils builds EuRoC dataset fixtures for tests.
package testutils

import (
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"
)

// Sensor folder names of the EuRoC layout.
const (
	Cam0Folder        = "cam0"
	Cam1Folder        = "cam1"
	IMU0Folder        = "imu0"
	Leica0Folder      = "leica0"
	GroundTruthFolder = "state_groundtruth_estimate0"
)

// ImageWidth and ImageHeight are the size of the fixture camera frames.
const (
	ImageWidth  = 752
	ImageHeight = 480
)

// Cam0SensorYAML is the left camera descriptor.
const Cam0SensorYAML = `# General sensor definitions.
sensor_type: camera
comment: VI-Sensor cam0 (MT9M034)

# Sensor extrinsics wrt. the body-frame.
T_BS:
  cols: 4
  rows: 4
  data: [0.0148655429818, -0.999880929698, 0.00414029679422, -0.0216401454975,
         0.999557249008, 0.0149672133247, 0.025715529948, -0.064676986768,
        -0.0257744366974, 0.00375618835797, 0.999660727178, 0.00981073058949,
         0.0, 0.0, 0.0, 1.0]

# Camera specific definitions.
rate_hz: 20
resolution: [752, 480]
camera_model: pinhole
intrinsics: [458.654, 457.296, 367.215, 248.375] #fu, fv, cu, cv
distortion_model: radial-tangential
distortion_coefficients: [-0.28340811, 0.07395907, 0.00019359, 1.76187114e-05]
`

// Cam1SensorYAML is the right camera descriptor.
const Cam1SensorYAML = `# General sensor definitions.
sensor_type: camera
comment: VI-Sensor cam1 (MT9M034)

# Sensor extrinsics wrt. the body-frame.
T_BS:
  cols: 4
  rows: 4
  data: [0.0125552670891, -0.999755099723, 0.0182237714554, -0.0198435579556,
         0.999598781151, 0.0130119051815, 0.0251588363115, 0.0453689425024,
        -0.0253898008918, 0.0179005838253, 0.999517347078, 0.00786212447038,
         0.0, 0.0, 0.0, 1.0]

# Camera specific definitions.
rate_hz: 20
resolution: [752, 480]
camera_model: pinhole
intrinsics: [457.587, 456.134, 379.999, 255.238] #fu, fv, cu, cv
distortion_model: radial-tangential
distortion_coefficients: [-0.28368365,  0.07451284, -0.00010473, -3.55590700e-05]
`

// IMU0SensorYAML is the IMU descriptor.
const IMU0SensorYAML = `#Default imu sensor yaml file
sensor_type: imu
comment: VI-Sensor IMU (ADIS16448)

# Sensor extrinsics wrt. the body-frame.
T_BS:
  cols: 4
  rows: 4
  data: [1.0, 0.0, 0.0, 0.0,
         0.0, 1.0, 0.0, 0.0,
         0.0, 0.0, 1.0, 0.0,
         0.0, 0.0, 0.0, 1.0]
rate_hz: 200

# inertial sensor noise model parameters (static)
gyroscope_noise_density: 1.6968e-04     # [ rad / s / sqrt(Hz) ]   ( gyro "white noise" )
gyroscope_random_walk: 1.9393e-05       # [ rad / s^2 / sqrt(Hz) ] ( gyro bias diffusion )
accelerometer_noise_density: 2.0000e-3  # [ m / s^2 / sqrt(Hz) ]  ( accel "white noise" )
accelerometer_random_walk: 3.0000e-3    # [ m / s^3 / sqrt(Hz) ].  ( accel bias diffusion )
`

// Leica0SensorYAML is the position tracker descriptor.
const Leica0SensorYAML = `# General sensor definitions.
sensor_type: position
comment: position measurement from a Leica Nova MS50 laser tracker.

# Sensor extrinsics wrt. the body-frame.
T_BS:
  cols: 4
  rows: 4
  data: [1.0, 0.0, 0.0,  7.48903e-02,
         0.0, 1.0, 0.0, -1.84772e-02,
         0.0, 0.0, 1.0, -1.20209e-01,
         0.0, 0.0, 0.0,  1.0]
`

// GroundTruthSensorYAML is the ground-truth state descriptor.
const GroundTruthSensorYAML = `# Sensor extrinsics wrt. the body-frame.
sensor_type: visual-inertial
comment: The nonlinear least-squares batch solution over the Vicon pose and IMU measurements including time offset estimation.
T_BS:
  cols: 4
  rows: 4
  data: [1.0, 0.0, 0.0, 0.0,
         0.0, 1.0, 0.0, 0.0,
         0.0, 0.0, 1.0, 0.0,
         0.0, 0.0, 0.0, 1.0]
`

// Cam0DataCSV is the left camera log. Cam1 uses the same timestamps.
const Cam0DataCSV = `#timestamp [ns],filename
1403636579763555584,1403636579763555584.png
1403636579813555456,1403636579813555456.png
1403636579863555584,1403636579863555584.png
1403636579913555456,1403636579913555456.png
1403636579963555584,1403636579963555584.png
`

// IMU0DataCSV is the IMU log.
const IMU0DataCSV = `#timestamp [ns],w_RS_S_x [rad s^-1],w_RS_S_y [rad s^-1],w_RS_S_z [rad s^-1],a_RS_S_x [m s^-2],a_RS_S_y [m s^-2],a_RS_S_z [m s^-2]
1403636579758555392,-0.099134701513277898,0.14730578886832138,0.02722713633111154,8.1476917083333333,-0.37592158333333331,-2.4026292499999999
1403636579763555584,-0.099134701513277898,0.14032447186034408,0.029321531433504733,8.033280791666666,-0.40861041666666664,-2.4026292499999999
1403636579768555520,-0.098436569812480182,0.12775810124598494,0.037699111843077518,7.8861810416666662,-0.42495483333333334,-2.4353180833333332
1403636579773555456,-0.10262536001726656,0.11588986232277355,0.045378560551852569,7.8289755833333331,-0.37592158333333331,-2.4680069166666665
1403636579778555648,-0.10262536001726656,0.11588986232277355,0.045378560551852569,7.8453200000000002,-0.36775808333333334,-2.4598434166666667
`

// Leica0DataCSV is the position tracker log.
const Leica0DataCSV = `#timestamp [ns], p_RS_R_x [m], p_RS_R_y [m], p_RS_R_z [m]
1403636578922881280,4.7818541587625453,-1.8135563577127616,0.87479620863543542
1403636578972881280,4.7813016791591498,-1.8133736211131478,0.87470744599839127
1403636579022881280,4.7807530761485442,-1.8131922179613229,0.87462386853895402
1403636579072881280,4.7802089315291389,-1.8130118963813454,0.87454420476413727
1403636579122881280,4.7796689428934264,-1.8128325987564186,0.87446892006236505
`

// GroundTruthDataCSV is the ground-truth state log.
const GroundTruthDataCSV = `#timestamp, p_RS_R_x [m], p_RS_R_y [m], p_RS_R_z [m], q_RS_w [], q_RS_x [], q_RS_y [], q_RS_z [], v_RS_R_x [m s^-1], v_RS_R_y [m s^-1], v_RS_R_z [m s^-1], b_w_RS_S_x [rad s^-1], b_w_RS_S_y [rad s^-1], b_w_RS_S_z [rad s^-1], b_a_RS_S_x [m s^-2], b_a_RS_S_y [m s^-2], b_a_RS_S_z [m s^-2]
1403636580838555648,4.688319,-1.786938,0.783338,0.534108,-0.153029,-0.827383,-0.082152,-0.027876,0.033065,0.800734,-0.003172,0.021267,0.078502,-0.025266,0.136696,0.075593
1403636580843555328,4.688177,-1.786770,0.787350,0.534640,-0.152990,-0.826976,-0.082863,-0.029272,0.033977,0.804603,-0.003172,0.021267,0.078502,-0.025266,0.136696,0.075593
1403636580848555520,4.688028,-1.786598,0.791382,0.535178,-0.152945,-0.826562,-0.083605,-0.030043,0.034999,0.808240,-0.003172,0.021267,0.078502,-0.025266,0.136696,0.075593
1403636580853555456,4.687878,-1.786421,0.795429,0.535715,-0.152884,-0.826146,-0.084391,-0.030230,0.035853,0.812075,-0.003172,0.021267,0.078502,-0.025266,0.136696,0.075593
1403636580858555648,4.687727,-1.786240,0.799484,0.536237,-0.152821,-0.825738,-0.085212,-0.030281,0.036622,0.816206,-0.003172,0.021267,0.078502,-0.025266,0.136696,0.075593
`

// WriteSensorFolder writes sensor.yaml and data.csv into dir.
func WriteSensorFolder(tb testing.TB, dir, descriptor, log string) {
	tb.Helper()
	WriteFile(tb, filepath.Join(dir, "sensor.yaml"), descriptor)
	WriteFile(tb, filepath.Join(dir, "data.csv"), log)
}

// WriteCameraFolder writes a camera folder and one frame per filename referenced by log.
func WriteCameraFolder(tb testing.TB, dir, descriptor, log string) {
	tb.Helper()
	WriteSensorFolder(tb, dir, descriptor, log)
	rows, err := csv.NewReader(strings.NewReader(log)).ReadAll()
	test.That(tb, err, test.ShouldBeNil)
	for _, row := range rows[1:] {
		WriteGrayPNG(tb, filepath.Join(dir, "data", row[1]), ImageWidth, ImageHeight)
	}
}

// WriteDataset writes a complete five sensor EuRoC dataset into a fresh temporary directory and
// returns its root.
func WriteDataset(tb testing.TB) string {
	tb.Helper()
	root := tb.TempDir()
	WriteCameraFolder(tb, filepath.Join(root, Cam0Folder), Cam0SensorYAML, Cam0DataCSV)
	WriteCameraFolder(tb, filepath.Join(root, Cam1Folder), Cam1SensorYAML, Cam0DataCSV)
	WriteSensorFolder(tb, filepath.Join(root, IMU0Folder), IMU0SensorYAML, IMU0DataCSV)
	WriteSensorFolder(tb, filepath.Join(root, Leica0Folder), Leica0SensorYAML, Leica0DataCSV)
	WriteSensorFolder(tb, filepath.Join(root, GroundTruthFolder), GroundTruthSensorYAML, GroundTruthDataCSV)
	return root
}
