// Package display provides the startup banner and human-readable value
// formatting for log output.
package display

import (
	"fmt"
	"os"
	"time"
)

// PrintBanner prints the ASCII art banner.
func PrintBanner() {
	fmt.Fprint(os.Stdout, ` _____         _           _           _
|  ___|_ _  __| | ___  ___| |__   __ _(_)_ __
| |_ / _`+"`"+` |/ _`+"`"+` |/ _ \/ __| '_ \ / _`+"`"+` | | '_ \
|  _| (_| | (_| |  __/ (__| | | | (_| | | | | |
|_|  \__,_|\__,_|\___|\___|_| |_|\__,_|_|_| |_|
`)
}

// Bytes returns a human-readable size (B, KiB, MiB, GiB, TiB).
func Bytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	suffixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB"}
	if exp >= len(suffixes) {
		exp = len(suffixes) - 1
	}
	return fmt.Sprintf("%.1f %s", float64(n)/float64(div), suffixes[exp])
}

// Seconds renders a seconds value as "1m32.4s"-style text, or "unknown"
// for a zero value.
func Seconds(s float64) string {
	if s <= 0 {
		return "unknown"
	}
	return Duration(time.Duration(s * float64(time.Second)))
}

// Duration rounds to a tenth of a second for log readability.
func Duration(d time.Duration) string {
	return d.Round(100 * time.Millisecond).String()
}
