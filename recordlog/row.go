package recordlog

import (
	"strconv"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/euroc/utils"
)

// A RowParser turns one data row into a record. It is called once per row; an error it returns is
// handed to the caller of Next for that row only.
type RowParser[T any] func(Row) (T, error)

// Row is one data row of a log. Index counts data rows from 0, the header excluded. Line is the
// 1-based line in the file.
type Row struct {
	Index  int
	Line   int
	Fields []string
}

// Len returns the number of columns.
func (r Row) Len() int {
	return len(r.Fields)
}

// Require fails unless the row has exactly n columns.
func (r Row) Require(n int) error {
	if len(r.Fields) != n {
		return utils.NewMalformedError(nil, "%s has %d columns, expected %d", r, len(r.Fields), n)
	}
	return nil
}

// Timestamp parses column 0.
func (r Row) Timestamp() (Timestamp, error) {
	s, err := r.Text(0)
	if err != nil {
		return 0, err
	}
	ts, err := ParseTimestamp(s)
	if err != nil {
		return 0, errors.Wrapf(err, "%s column 0", r)
	}
	return ts, nil
}

// Text returns the raw content of column col.
func (r Row) Text(col int) (string, error) {
	if col < 0 || col >= len(r.Fields) {
		return "", utils.NewMalformedError(nil, "%s has no column %d", r, col)
	}
	return r.Fields[col], nil
}

// Float parses column col as a float64.
func (r Row) Float(col int) (float64, error) {
	s, err := r.Text(col)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, utils.NewMalformedError(err, "%s column %d", r, col)
	}
	return v, nil
}

// Vector parses columns col, col+1 and col+2 as x, y and z.
func (r Row) Vector(col int) (r3.Vector, error) {
	var xyz [3]float64
	for i := range xyz {
		v, err := r.Float(col + i)
		if err != nil {
			return r3.Vector{}, err
		}
		xyz[i] = v
	}
	return r3.Vector{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

// Quaternion parses columns col through col+3 as w, x, y and z. No normalization is applied.
func (r Row) Quaternion(col int) (quat.Number, error) {
	var wxyz [4]float64
	for i := range wxyz {
		v, err := r.Float(col + i)
		if err != nil {
			return quat.Number{}, err
		}
		wxyz[i] = v
	}
	return quat.Number{Real: wxyz[0], Imag: wxyz[1], Jmag: wxyz[2], Kmag: wxyz[3]}, nil
}

func (r Row) String() string {
	return "row " + strconv.Itoa(r.Index) + " (line " + strconv.Itoa(r.Line) + ")"
}
