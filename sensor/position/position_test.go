package position

import (
	"path/filepath"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/euroc/logging"
	"go.viam.com/euroc/testutils"
	"go.viam.com/euroc/utils"
)

func TestPosition(t *testing.T) {
	root := testutils.WriteDataset(t)
	logger, logs := logging.NewObservedTestLogger(t)
	p, err := New(filepath.Join(root, testutils.Leica0Folder), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Name(), test.ShouldEqual, "leica0")

	ext, err := p.Extrinsics()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ext.At(0, 3), test.ShouldEqual, 7.48903e-02)
	test.That(t, ext.At(1, 3), test.ShouldEqual, -1.84772e-02)
	test.That(t, ext.At(2, 3), test.ShouldEqual, -1.20209e-01)
	test.That(t, ext.At(0, 0), test.ShouldEqual, 1.0)

	it, err := p.Records()
	test.That(t, err, test.ShouldBeNil)
	records, err := it.Collect()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, records, test.ShouldHaveLength, 5)
	test.That(t, records[2], test.ShouldResemble, Record{
		Timestamp: 1403636579022881280,
		Position:  r3.Vector{X: 4.7807530761485442, Y: -1.8131922179613229, Z: 0.87462386853895402},
	})
	test.That(t, logs.FilterMessage("reading positions").Len(), test.ShouldEqual, 1)
}

func TestEmptyLog(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteSensorFolder(t, dir, testutils.Leica0SensorYAML, "#timestamp [ns], p_RS_R_x [m], p_RS_R_y [m], p_RS_R_z [m]\n")
	p, err := New(dir, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	it, err := p.Records()
	test.That(t, err, test.ShouldBeNil)
	records, err := it.Collect()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, records, test.ShouldBeEmpty)
}

func TestTextCoordinate(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteSensorFolder(t, dir, testutils.Leica0SensorYAML, "#timestamp [ns],x,y,z\n1,1,two,3\n2,1,2,3\n")
	p, err := New(dir, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	it, err := p.Records()
	test.That(t, err, test.ShouldBeNil)

	var got []Record
	var errs []error
	for rec, err := range it.All() {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		got = append(got, rec)
	}
	test.That(t, got, test.ShouldResemble, []Record{{Timestamp: 2, Position: r3.Vector{X: 1, Y: 2, Z: 3}}})
	test.That(t, errs, test.ShouldHaveLength, 1)
	test.That(t, errors.Is(errs[0], utils.ErrMalformed), test.ShouldBeTrue)
	test.That(t, errs[0].Error(), test.ShouldContainSubstring, "row 0 (line 2) column 2")
}
