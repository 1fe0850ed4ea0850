package recordlog

import (
	"strconv"
	"time"

	"github.com/pkg/errors"

	"go.viam.com/euroc/utils"
)

// Timestamp is a record time in nanoseconds. The epoch is whatever the recording used; EuRoC logs
// use the Unix epoch.
type Timestamp uint64

// ParseTimestamp parses a base 10 unsigned nanosecond count.
func ParseTimestamp(s string) (Timestamp, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, utils.NewOutOfRangeError("timestamp", s, "uint64")
		}
		return 0, utils.NewMalformedError(err, "timestamp %q", s)
	}
	return Timestamp(v), nil
}

// Nanoseconds returns the raw count.
func (ts Timestamp) Nanoseconds() uint64 {
	return uint64(ts)
}

// Time interprets the timestamp as nanoseconds since the Unix epoch.
func (ts Timestamp) Time() time.Time {
	const nsPerSec = uint64(time.Second)
	return time.Unix(int64(uint64(ts)/nsPerSec), int64(uint64(ts)%nsPerSec)).UTC()
}

// Sub returns ts-other. The result is only meaningful when the two are less than ~292 years apart.
func (ts Timestamp) Sub(other Timestamp) time.Duration {
	return time.Duration(int64(ts - other)) //nolint:gosec
}

func (ts Timestamp) String() string {
	return strconv.FormatUint(uint64(ts), 10)
}
