// Package execshell provides structured helpers for invoking the git executable.
//
// It wraps os/exec with zap logging via ShellExecutor, exposes OSCommandRunner
// for default process execution, and classifies non-zero exits and launch
// failures into typed errors so callers can tell "git said no" apart from
// "git could not run".
package execshell
