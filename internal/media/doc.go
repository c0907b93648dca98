// Package media defines the inventory data model shared by the prober, the
// snapshot store, the stream selector and the script generator.
//
// Key types:
//   - Container: validated container enum inferred from a file extension
//   - StreamRecord: one audio, video or subtitle stream as reported by ffprobe
//   - MediaFileInfo: per-file probe result grouped by stream kind
//   - MediaFile: a path paired with its MediaFileInfo
//
// Values are constructed once per scan and treated as read-only afterwards.
// The sentinel errors here classify per-file inventory failures so callers can
// use errors.Is regardless of which layer wrapped them.
package media
