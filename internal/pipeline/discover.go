package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrInsufficientInputs is returned when folder mode yields fewer than
// two qualifying files.
var ErrInsufficientInputs = errors.New("need at least two video files to join")

// minFileSize guards against probing obviously truncated files.
const minFileSize = 1000

// Recognized video file extensions (lowercase, with leading dot).
var videoExtensions = map[string]bool{
	".mkv":  true,
	".mp4":  true,
	".avi":  true,
	".m4v":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".ts":   true,
	".m2ts": true,
	".mpg":  true,
	".mpeg": true,
}

// Discover lists the qualifying video files directly inside dir, sorted
// by name. The configured output path is excluded when it lies inside the
// directory, so a re-run never consumes its own previous output. Fewer
// than two qualifying files is ErrInsufficientInputs.
func Discover(dir, outputPath string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	outputAbs, _ := filepath.Abs(outputPath)

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !videoExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if abs, err := filepath.Abs(path); err == nil && abs == outputAbs {
			continue
		}
		if fi, err := e.Info(); err == nil && fi.Size() < minFileSize {
			continue
		}
		files = append(files, path)
	}

	if len(files) < 2 {
		return nil, fmt.Errorf("%q: %w", dir, ErrInsufficientInputs)
	}

	sort.Strings(files)
	return files, nil
}
