// Package utils exposes the ambient helpers shared by the gitsource commands.
//
// ConfigurationLoader merges the embedded defaults, a configuration file and
// GITSOURCE_ environment overrides through Viper. LoggerFactory builds the zap
// loggers used for structured and console output.
package utils
