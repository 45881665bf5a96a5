// Package probe provides ffprobe-based media inspection and the typed
// MediaDescriptor consumed by the planners. A single JSON call per file
// yields every field the plan compiler needs.
//
// Types:
//   - MediaDescriptor: per-clip normalized probe result, immutable once built
//
// Functions:
//   - Probe(ctx, path) → *MediaDescriptor
//     Runs ffprobe -print_format json -show_format -show_streams.
//   - ParseJSON(data, path) → *MediaDescriptor
//     Exported for testing without a real ffprobe binary.
//
// Missing optional fields stay at their zero value with an explicit Known
// flag where a zero is meaningful (duration, fps); a file with no decodable
// video stream is a fatal ErrNoVideoStream.
package probe
