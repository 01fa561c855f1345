package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/gitsource/internal/execshell"
	"github.com/temirov/gitsource/internal/ui"
)

const (
	// DefaultRepositoryName identifies the host tool's own source checkout.
	DefaultRepositoryName = "wrapper"
	// DefaultRepositorySubject describes what the default checkout contains.
	DefaultRepositorySubject = "source code"
	// DefaultRemoteName is the remote used for fetch, pull and tracking branches.
	DefaultRemoteName = "origin"
	// DefaultInstallCommand is suggested when the tool runs from the module cache.
	DefaultInstallCommand = "go install github.com/temirov/gitsource@latest"

	gitMarkerNameConstant                = ".git"
	moduleCachePathFragmentConstant      = "/pkg/mod/"
	terminalPromptEnvironmentKeyConstant = "GIT_TERMINAL_PROMPT"
	terminalPromptDisabledValueConstant  = "0"
	localeEnvironmentKeyConstant         = "LC_ALL"
	localeEnvironmentValueConstant       = "C"
	cloneSubcommandConstant              = "clone"
	cloneShallowFlagConstant             = "--depth=1"
	logFieldPathConstant                 = "path"
	logFieldRepositoryConstant           = "repository"
	logFieldRemoteConstant               = "remote"
	logFieldBranchConstant               = "branch"
	gitMissingMessageTemplateConstant    = "Unable to find git tool locally. Skipping git operations on the %s repository."
	notInstalledViaCloneTemplateConstant = "The %s %s has not been installed via git clone. Skipping %s auto-update operation."
	moduleCacheHintTemplateConstant      = "If you have installed it with go install, check for an update with the command %s"
	repositoryMissingMessageConstant     = "Git repository not found"
	submoduleDetectedMessageConstant     = "Git submodule repository detected"
	loadingRepositoryTemplateConstant    = "Loading git at %s"
	loadFailedMessageConstant            = "Error while loading local git repository. Skipping all git operation."
	loadedMessageConstant                = "Git repository successfully loaded"
	remoteMissingMessageTemplateConstant = "No remote git %s found on repository"
	alreadyClonedTemplateConstant        = "The %s repo is already cloned."
	cloneGitMissingTemplateConstant      = "Unable to find git on your machine. The %s repository cannot be cloned."
	installGitMessageConstant            = "Please install git to support this feature."
	cloneFailedTemplateConstant          = "Unable to clone the %s repository."
	cloningTemplateConstant              = "Cloning %s %s"
	unavailableOperationTemplateConstant = "The %s repository is not available. Skipping git %s operation."
	operationNameCurrentBranchConstant   = "branch lookup"
	operationNameListBranchesConstant    = "branch listing"
	operationNameSafeCheckConstant       = "status"
	operationNameUpToDateConstant        = "up-to-date check"
	operationNameUpdateConstant          = "update"
	operationNameCheckoutConstant        = "checkout"
	defaultHeavySubmoduleNameConstant    = "resources"
	remoteResolvedMessageConstant        = "Git remote resolved"
)

// GitExecutor runs git commands.
type GitExecutor interface {
	ExecuteGit(ctx context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ToolLocator reports where an executable lives, failing when it is not installed.
type ToolLocator interface {
	Locate(name execshell.CommandName) (string, error)
}

// Dependencies captures the collaborators required by Repository.
type Dependencies struct {
	GitExecutor GitExecutor
	ToolLocator ToolLocator
	Reporter    ui.Reporter
}

// Options configures which checkout a Repository manages and how it is described.
type Options struct {
	Path            string
	Name            string
	Subject         string
	RemoteName      string
	HeavySubmodules []string
	InstallCommand  string
}

// DefaultHeavySubmodules lists submodules skipped by automatic initialization.
func DefaultHeavySubmodules() []string {
	return []string{defaultHeavySubmoduleNameConstant}
}

// Repository is a maintenance facade over a single git working copy.
type Repository struct {
	gitExecutor     GitExecutor
	reporter        ui.Reporter
	path            string
	name            string
	subject         string
	remoteName      string
	heavySubmodules []string
	installCommand  string
	gitInstalled    bool
	available       bool
	submodule       bool
	remote          *RemoteReference
}

// NewRepository binds a facade to the configured path. Repository problems leave the
// facade unavailable and are reported; only missing collaborators produce an error.
func NewRepository(executionContext context.Context, dependencies Dependencies, options Options) (*Repository, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.ToolLocator == nil {
		return nil, ErrToolLocatorNotConfigured
	}
	if dependencies.Reporter == nil {
		return nil, ErrReporterNotConfigured
	}

	trimmedPath := strings.TrimSpace(options.Path)
	if len(trimmedPath) == 0 {
		return nil, ErrRepositoryPathRequired
	}
	absolutePath, absoluteError := filepath.Abs(trimmedPath)
	if absoluteError != nil {
		return nil, absoluteError
	}

	repository := &Repository{
		gitExecutor:     dependencies.GitExecutor,
		reporter:        dependencies.Reporter,
		path:            absolutePath,
		name:            valueOrDefault(options.Name, DefaultRepositoryName),
		subject:         valueOrDefault(options.Subject, DefaultRepositorySubject),
		remoteName:      valueOrDefault(options.RemoteName, DefaultRemoteName),
		heavySubmodules: options.HeavySubmodules,
		installCommand:  valueOrDefault(options.InstallCommand, DefaultInstallCommand),
	}
	if repository.heavySubmodules == nil {
		repository.heavySubmodules = DefaultHeavySubmodules()
	}

	marker := detectCheckoutMarker(repository.path)
	switch marker {
	case checkoutMarkerSubmodule:
		repository.reporter.Debug(submoduleDetectedMessageConstant, zap.String(logFieldPathConstant, repository.path))
		repository.submodule = true
	case checkoutMarkerNone:
		repository.reportMissingMarker()
	}

	if _, locateError := dependencies.ToolLocator.Locate(execshell.CommandGit); locateError != nil {
		repository.reporter.Error(
			fmt.Sprintf(gitMissingMessageTemplateConstant, repository.name),
			zap.Error(errors.Join(ErrGitNotInstalled, locateError)),
		)
		return repository, nil
	}
	repository.gitInstalled = true

	if marker == checkoutMarkerNone {
		return repository, nil
	}

	repository.reporter.Debug(fmt.Sprintf(loadingRepositoryTemplateConstant, repository.path))
	if _, openError := repository.open(); openError != nil {
		repository.reporter.Verbose(openError.Error(), zap.String(logFieldPathConstant, repository.path))
		repository.reporter.Warning(loadFailedMessageConstant)
		return repository, nil
	}
	repository.initialize(executionContext)
	return repository, nil
}

// Clone populates the configured path from url and opens the result.
func (repository *Repository) Clone(executionContext context.Context, url string, optimizeDiskSpace bool) bool {
	if repository.available {
		repository.reporter.Warning(
			fmt.Sprintf(alreadyClonedTemplateConstant, repository.name),
			zap.Error(ErrRepositoryAlreadyAvailable),
		)
		return false
	}
	if !repository.gitInstalled {
		repository.reporter.Error(fmt.Sprintf(cloneGitMissingTemplateConstant, repository.name), zap.Error(ErrGitNotInstalled))
		repository.reporter.Warning(installGitMessageConstant)
		return false
	}

	arguments := []string{cloneSubcommandConstant}
	if optimizeDiskSpace {
		arguments = append(arguments, cloneShallowFlagConstant)
	}
	arguments = append(arguments, url, repository.path)

	indicator := repository.reporter.Status(fmt.Sprintf(cloningTemplateConstant, repository.name, repository.subject))
	_, cloneError := repository.runGit(executionContext, "", arguments...)
	indicator.Stop()
	if cloneError != nil {
		repository.reporter.Error(fmt.Sprintf(cloneFailedTemplateConstant, repository.name))
		repository.reporter.Debug(cloneError.Error(), zap.String(logFieldPathConstant, repository.path))
		return false
	}

	repository.submodule = detectCheckoutMarker(repository.path) == checkoutMarkerSubmodule
	if _, openError := repository.open(); openError != nil {
		repository.reporter.Verbose(openError.Error(), zap.String(logFieldPathConstant, repository.path))
		repository.reporter.Warning(loadFailedMessageConstant)
		return false
	}
	repository.initialize(executionContext)
	return true
}

// IsAvailable reports whether the facade is bound to a git repository.
func (repository *Repository) IsAvailable() bool {
	return repository.available
}

// Name returns the display name.
func (repository *Repository) Name() string {
	return repository.name
}

// Subject returns what the repository contains, for display.
func (repository *Repository) Subject() string {
	return repository.subject
}

// IsSubmodule reports whether the checkout is a git submodule of another repository.
func (repository *Repository) IsSubmodule() bool {
	return repository.submodule
}

// Path returns the absolute working copy path.
func (repository *Repository) Path() string {
	return repository.path
}

// Remote returns the resolved remote, if any.
func (repository *Repository) Remote() (RemoteReference, bool) {
	if repository.remote == nil {
		return RemoteReference{}, false
	}
	return *repository.remote, true
}

func (repository *Repository) initialize(executionContext context.Context) {
	repository.available = true
	repository.reporter.Debug(loadedMessageConstant, zap.String(logFieldPathConstant, repository.path))

	remote, remoteError := repository.resolveRemote()
	if remoteError != nil {
		repository.reporter.Warning(
			fmt.Sprintf(remoteMissingMessageTemplateConstant, repository.remoteName),
			zap.Error(remoteError),
		)
	} else {
		repository.remote = &remote
		repository.reporter.Debug(
			remoteResolvedMessageConstant,
			zap.String(logFieldRemoteConstant, remote.Name),
			zap.String(logFieldRepositoryConstant, remote.Describe()),
		)
	}

	repository.initializeSubmodules(executionContext)
}

func (repository *Repository) reportMissingMarker() {
	repository.reporter.Debug(repositoryMissingMessageConstant, zap.Error(ErrRepositoryMarkerMissing), zap.String(logFieldPathConstant, repository.path))
	if repository.name != DefaultRepositoryName {
		return
	}
	repository.reporter.Warning(fmt.Sprintf(notInstalledViaCloneTemplateConstant, repository.name, repository.subject, repository.name))
	if strings.Contains(filepath.ToSlash(repository.path), moduleCachePathFragmentConstant) {
		repository.reporter.Info(fmt.Sprintf(moduleCacheHintTemplateConstant, repository.installCommand))
	}
}

func (repository *Repository) requireAvailable(operationName string) bool {
	if repository.available {
		return true
	}
	repository.reporter.Error(
		fmt.Sprintf(unavailableOperationTemplateConstant, repository.name, operationName),
		zap.Error(ErrRepositoryUnavailable),
	)
	return false
}

func (repository *Repository) runGit(executionContext context.Context, workingDirectory string, arguments ...string) (execshell.ExecutionResult, error) {
	details := execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: workingDirectory,
		EnvironmentVariables: map[string]string{
			terminalPromptEnvironmentKeyConstant: terminalPromptDisabledValueConstant,
			localeEnvironmentKeyConstant:         localeEnvironmentValueConstant,
		},
	}
	return repository.gitExecutor.ExecuteGit(executionContext, details)
}

type checkoutMarker int

const (
	checkoutMarkerNone checkoutMarker = iota
	checkoutMarkerStandalone
	checkoutMarkerSubmodule
)

func detectCheckoutMarker(repositoryPath string) checkoutMarker {
	markerInfo, statError := os.Stat(filepath.Join(repositoryPath, gitMarkerNameConstant))
	if statError != nil {
		return checkoutMarkerNone
	}
	if markerInfo.IsDir() {
		return checkoutMarkerStandalone
	}
	if markerInfo.Mode().IsRegular() {
		return checkoutMarkerSubmodule
	}
	return checkoutMarkerNone
}

func valueOrDefault(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallback
	}
	return trimmed
}
