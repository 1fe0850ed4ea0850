// Package recordlog streams the rows of a EuRoC data.csv log as typed records.
//
// A log is a CSV file whose first line is a header and whose column 0 is a nanosecond timestamp.
// An Iterator owns its open file from Open until it reports io.EOF, fails to read, or is closed.
package recordlog

import (
	"encoding/csv"
	"io"
	"iter"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"go.viam.com/euroc/utils"
)

// Iterator reads one record per data row. It is not safe for concurrent use and cannot be rewound;
// open the log again to restart.
type Iterator[T any] struct {
	path   string
	parse  RowParser[T]
	file   *os.File
	reader *csv.Reader
	index  int
}

// Open opens the log at path and consumes its header row. An empty file is a log with no rows.
func Open[T any](path string, parse RowParser[T]) (*Iterator[T], error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, utils.NewIOError(path, err)
	}
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	it := &Iterator[T]{path: path, parse: parse, file: f, reader: reader}
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			if err := it.Close(); err != nil {
				return nil, utils.NewIOError(path, err)
			}
			return it, nil
		}
		return nil, multierr.Combine(it.readError(err, "header"), it.Close())
	}
	return it, nil
}

// Path returns the log file path.
func (it *Iterator[T]) Path() string {
	return it.path
}

// Next returns the next record, or io.EOF once every row has been read. A row that cannot be parsed
// yields an error for that row alone and the following call moves on to the next row. Any other
// read failure is returned once and ends the sequence.
func (it *Iterator[T]) Next() (T, error) {
	var zero T
	if it.file == nil {
		return zero, io.EOF
	}

	fields, err := it.reader.Read()
	index := it.index
	it.index++
	if err != nil {
		var parseErr *csv.ParseError
		switch {
		case errors.Is(err, io.EOF):
			if err := it.Close(); err != nil {
				return zero, utils.NewIOError(it.path, err)
			}
			return zero, io.EOF
		case errors.As(err, &parseErr):
			return zero, utils.NewMalformedError(err, "%q row %d (line %d)", it.path, index, parseErr.StartLine)
		default:
			return zero, multierr.Combine(utils.NewIOError(it.path, err), it.Close())
		}
	}

	line, _ := it.reader.FieldPos(0)
	record, err := it.parse(Row{Index: index, Line: line, Fields: fields})
	if err != nil {
		return zero, errors.Wrapf(err, "%q", it.path)
	}
	return record, nil
}

// Close releases the file. It is safe to call more than once.
func (it *Iterator[T]) Close() error {
	if it.file == nil {
		return nil
	}
	err := it.file.Close()
	it.file = nil
	return err
}

// All returns the remaining records as a range-over-func sequence. Row errors are yielded alongside a
// zero record. The iterator is closed when the loop ends, including on break.
func (it *Iterator[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		defer goutils.UncheckedErrorFunc(it.Close)
		for {
			record, err := it.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(record, err) {
				return
			}
		}
	}
}

// Collect reads every remaining record. It stops at the first error and returns the records read
// before it.
func (it *Iterator[T]) Collect() ([]T, error) {
	var records []T
	for record, err := range it.All() {
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (it *Iterator[T]) readError(err error, what string) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return utils.NewMalformedError(err, "%q %s", it.path, what)
	}
	return utils.NewIOError(it.path, err)
}
