package gitrepo

import "errors"

const (
	repositoryPathRequiredMessageConstant     = "repository path must be provided"
	gitExecutorMissingMessageConstant         = "git executor not configured"
	toolLocatorMissingMessageConstant         = "git tool locator not configured"
	reporterMissingMessageConstant            = "reporter not configured"
	gitNotInstalledMessageConstant            = "git executable not found"
	repositoryUnavailableMessageConstant      = "git repository is not available"
	repositoryAlreadyAvailableMessageConstant = "git repository is already available"
	repositoryMarkerMissingMessageConstant    = "no .git entry found"
	remoteNotConfiguredMessageConstant        = "git remote not configured"
	detachedHeadMessageConstant               = "git HEAD is detached"
	branchNotFoundMessageConstant             = "git branch not found"
	submoduleNotFoundMessageConstant          = "git submodule not found"
	submoduleDirtyMessageConstant             = "git submodule has local modifications"
	worktreeNotCleanMessageConstant           = "repository worktree is not clean"
	requiredValueMessageConstant              = "value required"
	branchAlreadyCurrentMessageConstant       = "branch is already checked out"
	remoteReferenceNotFetchedMessageConstant  = "remote reference not present in fetch result"
)

// ErrRepositoryPathRequired indicates the repository path option was empty.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrToolLocatorNotConfigured indicates the tool locator dependency was missing.
var ErrToolLocatorNotConfigured = errors.New(toolLocatorMissingMessageConstant)

// ErrReporterNotConfigured indicates the reporter dependency was missing.
var ErrReporterNotConfigured = errors.New(reporterMissingMessageConstant)

// ErrGitNotInstalled indicates the git executable could not be located.
var ErrGitNotInstalled = errors.New(gitNotInstalledMessageConstant)

// ErrRepositoryUnavailable indicates an operation was requested on a repository that never opened.
var ErrRepositoryUnavailable = errors.New(repositoryUnavailableMessageConstant)

// ErrRepositoryAlreadyAvailable indicates a clone was requested over an opened repository.
var ErrRepositoryAlreadyAvailable = errors.New(repositoryAlreadyAvailableMessageConstant)

// ErrRepositoryMarkerMissing indicates the path holds neither a .git directory nor a .git file.
var ErrRepositoryMarkerMissing = errors.New(repositoryMarkerMissingMessageConstant)

// ErrRemoteNotConfigured indicates no usable remote was resolved.
var ErrRemoteNotConfigured = errors.New(remoteNotConfiguredMessageConstant)

// ErrDetachedHead indicates HEAD does not point at a branch.
var ErrDetachedHead = errors.New(detachedHeadMessageConstant)

// ErrBranchNotFound indicates neither a local nor a remote-tracking branch exists.
var ErrBranchNotFound = errors.New(branchNotFoundMessageConstant)

// ErrBranchAlreadyCurrent indicates the requested branch is already checked out.
var ErrBranchAlreadyCurrent = errors.New(branchAlreadyCurrentMessageConstant)

// ErrSubmoduleNotFound indicates .gitmodules holds no submodule of the requested name.
var ErrSubmoduleNotFound = errors.New(submoduleNotFoundMessageConstant)

// ErrSubmoduleDirty indicates a submodule update would overwrite local modifications.
var ErrSubmoduleDirty = errors.New(submoduleDirtyMessageConstant)

// ErrWorktreeNotClean indicates the repository contains uncommitted changes.
var ErrWorktreeNotClean = errors.New(worktreeNotCleanMessageConstant)

// ErrRemoteReferenceNotFetched indicates the last fetch did not report the requested reference.
var ErrRemoteReferenceNotFetched = errors.New(remoteReferenceNotFetchedMessageConstant)
