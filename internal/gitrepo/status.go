package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v6/plumbing"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/temirov/gitsource/internal/execshell"
)

const (
	statusSubcommandConstant             = "status"
	statusPorcelainFlagConstant          = "--porcelain"
	statusUntrackedFlagConstant          = "--untracked-files=no"
	statusIgnoreSubmodulesFlagConstant   = "--ignore-submodules=all"
	mergeBaseSubcommandConstant          = "merge-base"
	mergeBaseAncestorFlagConstant        = "--is-ancestor"
	pullSubcommandConstant               = "pull"
	pullNoEditFlagConstant               = "--no-edit"
	notAncestorExitCodeConstant          = 1
	dirtyWorktreeMessageConstant         = "Local git have unsaved change. Skipping source update."
	statusFailedMessageConstant          = "Unable to read the local git status."
	noBranchAttachedMessageConstant      = "No branch is currently attached to the git repository. The up-to-date status cannot be checked."
	localOnlyBranchMessageConstant       = "The selected branch is local and cannot be updated."
	localBranchMissingTemplateConstant   = "Unable to find the local branch '%s'."
	upToDateFailedMessageConstant        = "Unable to check whether the git branch is up-to-date."
	fetchFlagsMessageConstant            = "Fetch flags"
	fetchNoteMessageConstant             = "Fetch note"
	fetchOldCommitMessageConstant        = "Fetch old commit"
	fetchRemotePathMessageConstant       = "Fetch remote path"
	fetchFlagDetectedTemplateConstant    = "%s flag detected"
	alreadyUpToDateTemplateConstant      = "Git branch '%s' is already up-to-date."
	usingBranchTemplateConstant          = "Using branch '%s' on %s repository"
	updateSucceededMessageConstant       = "Git successfully updated"
	updateFailedMessageConstant          = "Unable to pull the latest changes."
	logFieldFetchFlagsConstant           = "flags"
	logFieldFetchNoteConstant            = "note"
	logFieldFetchOldCommitConstant       = "old_commit"
	logFieldFetchRemoteReferenceConstant = "remote_reference"
	logFieldLocalCommitConstant          = "local_commit"
	logFieldRemoteCommitConstant         = "remote_commit"
)

// SafeCheck reports whether the working tree has no uncommitted changes outside submodules.
func (repository *Repository) SafeCheck(executionContext context.Context) bool {
	if !repository.requireAvailable(operationNameSafeCheckConstant) {
		return false
	}
	if repository.remote == nil {
		return false
	}

	dirty, statusError := repository.worktreeDirty(executionContext, repository.path, statusIgnoreSubmodulesFlagConstant)
	if statusError != nil {
		repository.reporter.Error(statusFailedMessageConstant)
		repository.reporter.Debug(statusError.Error())
		return false
	}
	if dirty {
		repository.reporter.Warning(dirtyWorktreeMessageConstant, zap.Error(ErrWorktreeNotClean))
	}
	return !dirty
}

// IsUpToDate fetches the remote and reports whether its copy of branch is an ancestor
// of the local branch. An empty branch selects the current one. A branch the fetch did
// not report is treated as local-only and therefore up to date.
func (repository *Repository) IsUpToDate(executionContext context.Context, branch string) bool {
	if !repository.requireAvailable(operationNameUpToDateConstant) {
		return false
	}
	if len(branch) == 0 {
		currentBranch, attached := repository.currentBranch()
		if !attached {
			repository.reporter.Warning(noBranchAttachedMessageConstant, zap.Error(ErrDetachedHead))
			return false
		}
		branch = currentBranch
	}
	if repository.remote == nil {
		repository.reporter.Warning(localOnlyBranchMessageConstant, zap.Error(ErrRemoteNotConfigured))
		return true
	}

	upToDate, checkError := repository.compareWithRemote(executionContext, branch)
	switch {
	case errors.Is(checkError, ErrRemoteReferenceNotFetched):
		repository.reporter.Warning(localOnlyBranchMessageConstant, zap.String(logFieldBranchConstant, branch))
		return true
	case errors.Is(checkError, ErrBranchNotFound):
		repository.reporter.Warning(fmt.Sprintf(localBranchMissingTemplateConstant, branch), zap.Error(checkError))
		return false
	case checkError != nil:
		repository.reporter.Error(upToDateFailedMessageConstant)
		repository.reporter.Debug(checkError.Error(), zap.String(logFieldBranchConstant, branch))
		return false
	}
	return upToDate
}

// Update pulls the current branch from the remote when the working tree is clean,
// HEAD is attached and the remote holds commits the local branch lacks.
func (repository *Repository) Update(executionContext context.Context) bool {
	if !repository.requireAvailable(operationNameUpdateConstant) {
		return false
	}
	if !repository.SafeCheck(executionContext) {
		return false
	}
	currentBranch, attached := repository.currentBranch()
	if !attached {
		return false
	}
	if repository.IsUpToDate(executionContext, currentBranch) {
		repository.reporter.Info(fmt.Sprintf(alreadyUpToDateTemplateConstant, currentBranch))
		return false
	}
	if repository.remote == nil {
		return false
	}

	repository.reporter.Info(fmt.Sprintf(usingBranchTemplateConstant, currentBranch, repository.name))
	_, pullError := repository.runGit(
		executionContext,
		repository.path,
		pullSubcommandConstant,
		pullNoEditFlagConstant,
		repository.remote.Name,
		currentBranch,
	)
	if pullError != nil {
		repository.reporter.Error(updateFailedMessageConstant)
		repository.reporter.Debug(pullError.Error(), zap.String(logFieldBranchConstant, currentBranch))
		return false
	}
	repository.reporter.Success(updateSucceededMessageConstant, zap.String(logFieldBranchConstant, currentBranch))
	return true
}

func (repository *Repository) compareWithRemote(executionContext context.Context, branch string) (bool, error) {
	gitRepository, openError := repository.open()
	if openError != nil {
		return false, openError
	}
	localHash, localExists, localError := lookupReferenceHash(gitRepository, plumbing.NewBranchReferenceName(branch))
	if localError != nil {
		return false, localError
	}
	if !localExists {
		return false, fmt.Errorf(namedErrorTemplateConstant, ErrBranchNotFound, branch)
	}

	fetchResults, fetchError := repository.fetch(executionContext)
	if fetchError != nil {
		return false, fetchError
	}
	remoteBranch := fmt.Sprintf(remoteBranchTemplateConstant, repository.remote.Name, branch)
	fetchResult, found := findFetchResult(fetchResults, remoteBranch)
	if !found {
		return false, fmt.Errorf(namedErrorTemplateConstant, ErrRemoteReferenceNotFetched, remoteBranch)
	}
	repository.reportFetchResult(fetchResult)

	// Re-open after the fetch so the updated remote-tracking reference is read.
	fetchedRepository, reopenError := repository.open()
	if reopenError != nil {
		return false, reopenError
	}
	remoteHash, remoteExists, remoteError := lookupReferenceHash(fetchedRepository, plumbing.NewRemoteReferenceName(repository.remote.Name, branch))
	if remoteError != nil {
		return false, remoteError
	}
	if !remoteExists {
		return false, fmt.Errorf(namedErrorTemplateConstant, ErrRemoteReferenceNotFetched, remoteBranch)
	}

	repository.reporter.Debug(
		mergeBaseSubcommandConstant,
		zap.String(logFieldLocalCommitConstant, localHash.String()),
		zap.String(logFieldRemoteCommitConstant, remoteHash.String()),
	)
	return repository.isAncestor(executionContext, remoteHash.String(), localHash.String())
}

func (repository *Repository) isAncestor(executionContext context.Context, ancestor string, descendant string) (bool, error) {
	_, executionError := repository.runGit(
		executionContext,
		repository.path,
		mergeBaseSubcommandConstant,
		mergeBaseAncestorFlagConstant,
		ancestor,
		descendant,
	)
	if executionError == nil {
		return true, nil
	}
	var commandFailure execshell.CommandFailedError
	if errors.As(executionError, &commandFailure) && commandFailure.Result.ExitCode == notAncestorExitCodeConstant {
		return false, nil
	}
	return false, executionError
}

func (repository *Repository) worktreeDirty(executionContext context.Context, workingDirectory string, extraArguments ...string) (bool, error) {
	arguments := append([]string{statusSubcommandConstant, statusPorcelainFlagConstant, statusUntrackedFlagConstant}, extraArguments...)
	result, statusError := repository.runGit(executionContext, workingDirectory, arguments...)
	if statusError != nil {
		return false, statusError
	}
	return len(strings.TrimSpace(result.StandardOutput)) > 0, nil
}

func (repository *Repository) reportFetchResult(result FetchResult) {
	repository.reporter.Debug(fetchFlagsMessageConstant, zap.Strings(logFieldFetchFlagsConstant, result.Flags.Names()))
	repository.reporter.Debug(fetchNoteMessageConstant, zap.String(logFieldFetchNoteConstant, result.Note))
	repository.reporter.Debug(fetchOldCommitMessageConstant, zap.String(logFieldFetchOldCommitConstant, result.OldCommit))
	repository.reporter.Debug(fetchRemotePathMessageConstant, zap.String(logFieldFetchRemoteReferenceConstant, result.RemoteReference))
	for _, flagName := range result.Flags.Names() {
		repository.reporter.Debug(fmt.Sprintf(fetchFlagDetectedTemplateConstant, strings.ToUpper(flagName)))
	}
}

func findFetchResult(results []FetchResult, name string) (FetchResult, bool) {
	return lo.Find(results, func(result FetchResult) bool {
		return result.Name == name
	})
}
