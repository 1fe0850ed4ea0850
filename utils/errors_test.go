package utils

import (
	"os"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestErrorKinds(t *testing.T) {
	for _, tc := range []struct {
		name   string
		err    error
		kind   error
		errStr string
	}{
		{"not found", NewNotFoundError("/data/cam0"), ErrNotFound, `not found: required path "/data/cam0" does not exist`},
		{"layout", NewInvalidLayoutError("/data/cam0", "is not a directory"), ErrInvalidLayout, `invalid layout: "/data/cam0" is not a directory`},
		{"io", NewIOError("data.csv", os.ErrPermission), ErrIO, `i/o failure: reading "data.csv": permission denied`},
		{"malformed", NewMalformedError(nil, "key %q is missing", "T_BS"), ErrMalformed, `malformed: key "T_BS" is missing`},
		{"range", NewOutOfRangeError("resolution", -1, "uint32"), ErrOutOfRange, "out of range: resolution value -1 does not fit in uint32"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			test.That(t, errors.Is(tc.err, tc.kind), test.ShouldBeTrue)
			test.That(t, tc.err.Error(), test.ShouldEqual, tc.errStr)
			for _, other := range []error{ErrNotFound, ErrInvalidLayout, ErrIO, ErrMalformed, ErrOutOfRange} {
				if other != tc.kind {
					test.That(t, errors.Is(tc.err, other), test.ShouldBeFalse)
				}
			}
		})
	}
}

func TestErrorKeepsCause(t *testing.T) {
	err := NewIOError("sensor.yaml", os.ErrNotExist)
	test.That(t, errors.Is(err, ErrIO), test.ShouldBeTrue)
	test.That(t, errors.Is(err, os.ErrNotExist), test.ShouldBeTrue)

	wrapped := errors.Wrap(err, "reading descriptor")
	test.That(t, errors.Is(wrapped, ErrIO), test.ShouldBeTrue)
	test.That(t, errors.Is(wrapped, os.ErrNotExist), test.ShouldBeTrue)
}
