// Command trackstrip scans a media library and writes a bash script that
// removes audio and subtitle streams outside a language allow-list.
package main
