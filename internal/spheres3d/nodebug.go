//go:build !debug

package spheres3d

// Without the debug tag logging compiles away. Debug still enables the
// counters in renderStats and simStats.

func DebugLog(format string, args ...any) {}

func DebugLogOnce(format string, args ...any) {}
