// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output for one -select_streams invocation
//   - Stream: raw stream entry (index, codec, tags)
//   - Prober: runs one invocation per stream kind and converts the entries
//     into media.StreamRecord values
//
// Primary entry points:
//   - Inspect: executes ffprobe for a single stream kind
//   - Prober.Probe: audio, video and subtitle streams for a file
//
// Every failure (non-zero exit, timeout, undecodable JSON) wraps
// media.ErrProbeFailure so the inventory can skip the file and move on.
package ffprobe
