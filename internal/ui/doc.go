// Package ui provides helpers for human-readable console output.
//
// Reporter is the logging collaborator handed to the repository facade: it
// maps debug, verbose, info, warning, error and success notices onto zap and
// renders a transient status indicator for long-running git operations.
// ConsoleCommandEventLogger turns git command lifecycle events into concise
// console messages while detailed telemetry keeps flowing through zap.
package ui
