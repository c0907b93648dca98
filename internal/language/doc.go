// Package language holds the operator's language allow-list and the display
// helpers used when rendering stream languages.
//
// Membership is literal: stream tags are compared to allow-list entries with
// case-sensitive string equality, so "jpn" and "JPN" are different codes.
// golang.org/x/text is only consulted for human-readable names and to warn
// about entries that are not valid ISO 639 codes.
package language
