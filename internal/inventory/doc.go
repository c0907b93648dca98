// Package inventory discovers media files under a root directory, probes
// their streams and persists the result as a snapshot for later resumes.
package inventory
