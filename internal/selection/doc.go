// Package selection decides which audio and subtitle streams a cleaned file
// should drop.
//
// The rule is deliberately small: a stream is dropped when its language tag is
// set, is not "und", and is not on the operator's allow-list. Untagged streams
// are always kept and video streams are never considered. Every drop is logged
// so the operator can audit the plan before running the generated script.
package selection
