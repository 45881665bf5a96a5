package ffmpeg

import "fmt"

// InvocationError reports a non-zero engine exit. The exit code is the
// only structured information the engine guarantees; stderr is carried
// for the logs but never parsed for control flow.
type InvocationError struct {
	ExitCode int
	Stderr   string
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("ffmpeg exited with code %d", e.ExitCode)
}
