//go:build debug

package spheres3d

import (
	"fmt"
	"sync"
	"time"
)

var debugStart = time.Now()

// DebugLog prints a [DEBUG] line stamped with the seconds since start-up.
func DebugLog(format string, args ...any) {
	stamp := time.Since(debugStart).Seconds()
	fmt.Printf("[DEBUG %9.3fs] "+format+"\n", append([]any{stamp}, args...)...)
}

// formats already logged by DebugLogOnce
var logged sync.Map

// DebugLogOnce logs the first call for each format and drops the rest, so
// per-renderer facts print once per process.
func DebugLogOnce(format string, args ...any) {
	if _, seen := logged.LoadOrStore(format, struct{}{}); !seen {
		DebugLog(format, args...)
	}
}
