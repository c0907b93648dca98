package preflight

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Target names a file the run will create.
type Target struct {
	Name string
	Path string
}

// RunAll checks the parent directory of every target. Targets with an empty
// path are skipped.
func RunAll(targets ...Target) []Result {
	results := make([]Result, 0, len(targets))
	for _, target := range targets {
		if strings.TrimSpace(target.Path) == "" {
			continue
		}
		results = append(results, CheckDirectoryAccess(target.Name, filepath.Dir(target.Path)))
	}
	return results
}

// Err joins the failed results into one error, or returns nil.
func Err(results []Result) error {
	var errs []error
	for _, r := range results {
		if !r.Passed {
			errs = append(errs, fmt.Errorf("preflight %s: %s", strings.ToLower(r.Name), r.Detail))
		}
	}
	return errors.Join(errs...)
}
