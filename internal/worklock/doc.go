// Package worklock serializes mutating operations on a working copy across processes
// using advisory file locks.
package worklock
