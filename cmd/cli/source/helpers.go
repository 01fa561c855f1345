package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitsource/internal/execshell"
	"github.com/temirov/gitsource/internal/gitrepo"
	"github.com/temirov/gitsource/internal/ui"
	"github.com/temirov/gitsource/internal/utils"
	pathutils "github.com/temirov/gitsource/internal/utils/path"
	"github.com/temirov/gitsource/internal/worklock"
)

const (
	pathFlagNameConstant                 = "path"
	pathFlagUsageConstant                = "Checkout managed by the command."
	nameFlagNameConstant                 = "name"
	nameFlagUsageConstant                = "Repository name used in messages and as the lock name."
	subjectFlagNameConstant              = "subject"
	subjectFlagUsageConstant             = "Description of the repository content used in messages."
	lockAcquiredMessageConstant          = "source lock acquired"
	lockReleaseFailedMessageConstant     = "source lock release failed"
	logFieldLockNameConstant             = "lock"
	logFieldLockDirectoryConstant        = "lock_directory"
	logFieldConfigurationFileConstant    = "config_file"
	configurationResolvedMessageConstant = "source configuration resolved"
	operationFailedTemplateConstant      = "%w: %s"
	lockAcquisitionErrorTemplateConstant = "unable to lock the %s repository: %w"
	repositoryErrorTemplateConstant      = "unable to prepare the %s repository: %w"
)

// ErrOperationFailed is returned when a repository operation reports failure.
var ErrOperationFailed = errors.New("source operation failed")

var homeDirectoryExpander = pathutils.NewHomeExpander()

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider yields the loaded source configuration.
type ConfigurationProvider func() Configuration

// GitExecutorFactory builds the git executor used by a command.
type GitExecutorFactory func(logger *zap.Logger, humanReadable bool) (gitrepo.GitExecutor, error)

// commandRuntime carries the collaborators resolved for one command invocation.
type commandRuntime struct {
	logger        *zap.Logger
	configuration Configuration
	repository    *gitrepo.Repository
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func resolveConfiguration(provider ConfigurationProvider) Configuration {
	if provider == nil {
		return DefaultConfiguration().sanitize()
	}
	return provider().sanitize()
}

func resolveHumanReadable(provider func() bool) bool {
	if provider == nil {
		return false
	}
	return provider()
}

func defaultGitExecutor(logger *zap.Logger, humanReadable bool) (gitrepo.GitExecutor, error) {
	runner := execshell.NewOSCommandRunner()
	if humanReadable {
		return execshell.NewShellExecutorWithObserver(logger, runner, ui.NewConsoleCommandEventLogger(logger))
	}
	return execshell.NewShellExecutor(logger, runner)
}

func bindRepositoryFlags(command *cobra.Command) {
	command.PersistentFlags().String(pathFlagNameConstant, "", pathFlagUsageConstant)
	command.PersistentFlags().String(nameFlagNameConstant, "", nameFlagUsageConstant)
	command.PersistentFlags().String(subjectFlagNameConstant, "", subjectFlagUsageConstant)
}

// applyFlagOverrides replaces configured values with explicitly provided flags.
func applyFlagOverrides(command *cobra.Command, configuration Configuration) Configuration {
	overridden := configuration
	flagTargets := map[string]*string{
		pathFlagNameConstant:    &overridden.Path,
		nameFlagNameConstant:    &overridden.Name,
		subjectFlagNameConstant: &overridden.Subject,
	}
	for flagName, target := range flagTargets {
		flag := command.Flags().Lookup(flagName)
		if flag == nil || !flag.Changed {
			continue
		}
		*target = flag.Value.String()
	}
	return overridden.sanitize()
}

func (builder *CommandGroupBuilder) prepare(command *cobra.Command) (commandRuntime, error) {
	logger := resolveLogger(builder.LoggerProvider)
	humanReadable := resolveHumanReadable(builder.HumanReadableLoggingProvider)
	configuration := applyFlagOverrides(command, resolveConfiguration(builder.ConfigurationProvider))

	executorFactory := builder.GitExecutorFactory
	if executorFactory == nil {
		executorFactory = defaultGitExecutor
	}
	gitExecutor, executorError := executorFactory(logger, humanReadable)
	if executorError != nil {
		return commandRuntime{}, fmt.Errorf(repositoryErrorTemplateConstant, configuration.Name, executorError)
	}

	toolLocator := builder.ToolLocator
	if toolLocator == nil {
		toolLocator = execshell.NewOSCommandRunner()
	}

	reporter := ui.NewZapReporter(logger, nil)
	if humanReadable {
		reporter = ui.NewZapReporter(logger, command.ErrOrStderr())
	}

	executionContext := command.Context()
	if executionContext == nil {
		executionContext = context.Background()
	}
	contextAccessor := utils.NewCommandContextAccessor()
	if configurationFile, found := contextAccessor.ConfigurationFilePath(executionContext); found {
		logger.Debug(configurationResolvedMessageConstant, zap.String(logFieldConfigurationFileConstant, configurationFile))
	}

	repository, repositoryError := gitrepo.NewRepository(
		executionContext,
		gitrepo.Dependencies{GitExecutor: gitExecutor, ToolLocator: toolLocator, Reporter: reporter},
		gitrepo.Options{
			Path:            configuration.Path,
			Name:            configuration.Name,
			Subject:         configuration.Subject,
			RemoteName:      configuration.Remote,
			HeavySubmodules: configuration.HeavySubmodules,
		},
	)
	if repositoryError != nil {
		return commandRuntime{}, fmt.Errorf(repositoryErrorTemplateConstant, configuration.Name, repositoryError)
	}
	command.SetContext(contextAccessor.WithRepositoryPath(executionContext, repository.Path()))

	return commandRuntime{logger: logger, configuration: configuration, repository: repository}, nil
}

// withLock runs operation while holding the advisory lock named after the repository.
func (runtime commandRuntime) withLock(executionContext context.Context, operation func() error) error {
	manager, managerError := worklock.NewManager(runtime.configuration.LockDirectory)
	if managerError != nil {
		return fmt.Errorf(lockAcquisitionErrorTemplateConstant, runtime.configuration.Name, managerError)
	}

	lockContext, cancel := context.WithTimeout(executionContext, runtime.configuration.LockTimeout)
	defer cancel()

	lock, lockError := manager.Acquire(lockContext, runtime.configuration.Name)
	if lockError != nil {
		return fmt.Errorf(lockAcquisitionErrorTemplateConstant, runtime.configuration.Name, lockError)
	}
	runtime.logger.Debug(
		lockAcquiredMessageConstant,
		zap.String(logFieldLockNameConstant, lock.Name()),
		zap.String(logFieldLockDirectoryConstant, runtime.configuration.LockDirectory),
	)
	defer func() {
		if releaseError := lock.Release(); releaseError != nil {
			runtime.logger.Warn(lockReleaseFailedMessageConstant, zap.Error(releaseError))
		}
	}()

	return operation()
}

func operationResult(succeeded bool, operationName string) error {
	if succeeded {
		return nil
	}
	return fmt.Errorf(operationFailedTemplateConstant, ErrOperationFailed, operationName)
}
