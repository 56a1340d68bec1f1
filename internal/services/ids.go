package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const idSuffixLength = 8

// newID returns a timestamp-derived id with a random suffix, e.g. "1714567890123a1b2c3d4".
// Uniqueness is probabilistic; callers do not check for collisions.
func newID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:idSuffixLength]
	return strconv.FormatInt(now.UnixMilli(), 10) + suffix
}

// clock returns the current time; tests substitute a fixed one.
type clock func() time.Time
