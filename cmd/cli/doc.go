// Package cli constructs the gitsource command-line interface, wiring the
// Cobra command hierarchy, the Viper configuration loader and zap logging
// around the source command group.
package cli
