package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
)

// Execute runs the assembled command and blocks until the subprocess
// exits. There is no timeout here; a hung engine blocks the run, which is
// an accepted property of the design (a surrounding supervisor may impose
// one externally). In verbose mode stderr is tee'd through in real time,
// otherwise it is captured silently for error reporting.
//
// A non-zero exit is returned as *InvocationError; any other failure
// (binary missing, context cancelled before start) is returned as-is.
func Execute(ctx context.Context, args []string, verbose bool) error {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &InvocationError{
			ExitCode: exitErr.ExitCode(),
			Stderr:   stderrBuf.String(),
		}
	}
	return err
}
