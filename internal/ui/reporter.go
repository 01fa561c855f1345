package ui

import (
	"io"

	"go.uber.org/zap"
)

const (
	logFieldVerbosityConstant = "verbosity"
	logFieldOutcomeConstant   = "outcome"
	verboseVerbosityConstant  = "verbose"
	successOutcomeConstant    = "success"
	emptyLineConstant         = "\n"
)

// StatusIndicator represents a transient progress notice that remains visible until stopped.
type StatusIndicator interface {
	Stop()
}

// Reporter receives the notices emitted by repository operations.
type Reporter interface {
	Debug(message string, fields ...zap.Field)
	Verbose(message string, fields ...zap.Field)
	Info(message string, fields ...zap.Field)
	Warning(message string, fields ...zap.Field)
	Error(message string, fields ...zap.Field)
	Success(message string, fields ...zap.Field)
	EmptyLine()
	Status(message string) StatusIndicator
}

// ZapReporter implements Reporter on top of a zap logger and an optional console writer.
type ZapReporter struct {
	logger        *zap.Logger
	consoleWriter io.Writer
}

// NewZapReporter constructs a reporter. A nil console writer disables status indicators and empty lines.
func NewZapReporter(logger *zap.Logger, consoleWriter io.Writer) *ZapReporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapReporter{logger: logger, consoleWriter: consoleWriter}
}

// NewNopReporter constructs a reporter that discards every notice.
func NewNopReporter() *ZapReporter {
	return NewZapReporter(zap.NewNop(), nil)
}

// Debug logs a diagnostic notice.
func (reporter *ZapReporter) Debug(message string, fields ...zap.Field) {
	reporter.logger.Debug(message, fields...)
}

// Verbose logs a notice between debug and info; zap has no such level so it is tagged at debug.
func (reporter *ZapReporter) Verbose(message string, fields ...zap.Field) {
	reporter.logger.Debug(message, append(fields, zap.String(logFieldVerbosityConstant, verboseVerbosityConstant))...)
}

// Info logs an informational notice.
func (reporter *ZapReporter) Info(message string, fields ...zap.Field) {
	reporter.logger.Info(message, fields...)
}

// Warning logs a warning notice.
func (reporter *ZapReporter) Warning(message string, fields ...zap.Field) {
	reporter.logger.Warn(message, fields...)
}

// Error logs an error notice.
func (reporter *ZapReporter) Error(message string, fields ...zap.Field) {
	reporter.logger.Error(message, fields...)
}

// Success logs the completion of an operation.
func (reporter *ZapReporter) Success(message string, fields ...zap.Field) {
	reporter.logger.Info(message, append(fields, zap.String(logFieldOutcomeConstant, successOutcomeConstant))...)
}

// EmptyLine separates groups of console notices.
func (reporter *ZapReporter) EmptyLine() {
	if reporter.consoleWriter == nil {
		return
	}
	_, _ = io.WriteString(reporter.consoleWriter, emptyLineConstant)
}

// Status starts a transient indicator for a long-running operation.
func (reporter *ZapReporter) Status(message string) StatusIndicator {
	reporter.logger.Debug(message)
	if reporter.consoleWriter == nil {
		return noopStatusIndicator{}
	}
	return startSpinner(reporter.consoleWriter, message)
}

type noopStatusIndicator struct{}

func (noopStatusIndicator) Stop() {}
