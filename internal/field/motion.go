package field

import (
	"os"
	"strings"
	"sync"
)

// MotionQuery reports whether the platform prefers reduced motion. Hosts
// may replace it before the first controller is constructed; it is
// consulted at most once per process.
var MotionQuery = func() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("PREFERS_REDUCED_MOTION"))) {
	case "1", "true", "yes", "reduce":
		return true
	}
	return false
}

var reducedMotion = sync.OnceValue(func() bool { return MotionQuery() })

// ReducedMotion returns the cached result of MotionQuery.
func ReducedMotion() bool { return reducedMotion() }
