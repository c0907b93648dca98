// Package script renders the bash script that strips disallowed audio and
// subtitle streams with ffmpeg. Rendering is pure: nothing is executed and the
// same inventory and allow-list always produce the same text.
package script
