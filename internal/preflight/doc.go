// Package preflight checks that the directories a run writes into exist and
// are writable before any scanning starts.
//
// External tools are not checked here; a missing ffprobe surfaces as a
// per-file probe failure, and ffmpeg only runs when the operator executes the
// generated script. The CLI "status" command reports tool availability
// separately through the deps package.
package preflight
