// Package pipeline drives one trackstrip run: validate the request, check the
// output directories, build the inventory, render the script and write it.
package pipeline
