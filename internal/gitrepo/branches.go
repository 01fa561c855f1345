package gitrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v6/plumbing"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	checkoutSubcommandConstant           = "checkout"
	branchSubcommandConstant             = "branch"
	branchTrackFlagConstant              = "--track"
	remoteBranchTemplateConstant         = "%s/%s"
	detachedHeadMessageLogConstant       = "Git HEAD is detached, cant find the current branch."
	currentBranchFailedMessageConstant   = "Unable to resolve the current git branch."
	unexpectedBranchNameTemplateConstant = "Branch name is not correct: %s"
	listBranchesFailedMessageConstant    = "Unable to fetch the remote branches."
	branchAlreadyCurrentTemplateConstant = "Branch '%s' is already the current branch"
	branchMissingMessageConstant         = "Unable to find the selected branch. Skipping operation."
	checkoutFailedMessageConstant        = "Unable to checkout to the selected branch. Skipping operation."
	checkoutSucceededTemplateConstant    = "Git successfully checkout to '%s'"
	remoteHeadBranchNameConstant         = "HEAD"
)

// CurrentBranch returns the checked-out branch name. The boolean is false when HEAD
// is detached or the repository is unavailable.
func (repository *Repository) CurrentBranch(_ context.Context) (string, bool) {
	if !repository.requireAvailable(operationNameCurrentBranchConstant) {
		return "", false
	}
	return repository.currentBranch()
}

func (repository *Repository) currentBranch() (string, bool) {
	gitRepository, openError := repository.open()
	if openError != nil {
		repository.reporter.Error(currentBranchFailedMessageConstant, zap.Error(openError))
		return "", false
	}
	branchName, branchError := headBranch(gitRepository)
	if branchError != nil {
		if errors.Is(branchError, ErrDetachedHead) {
			repository.reporter.Debug(detachedHeadMessageLogConstant)
		} else {
			repository.reporter.Error(currentBranchFailedMessageConstant, zap.Error(branchError))
		}
		return "", false
	}
	return branchName, true
}

// ListBranches fetches the remote and returns the branch names it reported.
func (repository *Repository) ListBranches(executionContext context.Context) []string {
	if !repository.requireAvailable(operationNameListBranchesConstant) {
		return []string{}
	}
	if repository.remote == nil {
		return []string{}
	}

	fetchResults, fetchError := repository.fetch(executionContext)
	if fetchError != nil {
		repository.reporter.Error(listBranchesFailedMessageConstant)
		repository.reporter.Debug(fetchError.Error(), zap.String(logFieldRemoteConstant, repository.remote.Name))
		return []string{}
	}

	return lo.FilterMap(fetchResults, func(result FetchResult, _ int) (string, bool) {
		if result.Flags.Has(FetchFlagPruned) {
			return "", false
		}
		branchName, wellFormed := result.BranchName()
		if !wellFormed {
			repository.reporter.Warning(fmt.Sprintf(unexpectedBranchNameTemplateConstant, result.Name))
			return result.Name, true
		}
		return branchName, branchName != remoteHeadBranchNameConstant
	})
}

// Checkout switches the working copy to branch, creating a local tracking branch
// from the remote when none exists yet.
func (repository *Repository) Checkout(executionContext context.Context, branch string) bool {
	if !repository.requireAvailable(operationNameCheckoutConstant) {
		return false
	}
	if !repository.SafeCheck(executionContext) {
		return false
	}
	if currentBranch, attached := repository.currentBranch(); attached && currentBranch == branch {
		repository.reporter.Warning(
			fmt.Sprintf(branchAlreadyCurrentTemplateConstant, branch),
			zap.Error(ErrBranchAlreadyCurrent),
		)
		return false
	}

	gitRepository, openError := repository.open()
	if openError != nil {
		repository.reporter.Error(checkoutFailedMessageConstant)
		repository.reporter.Debug(openError.Error())
		return false
	}

	_, localExists, localError := lookupReferenceHash(gitRepository, plumbing.NewBranchReferenceName(branch))
	if localError != nil {
		repository.reporter.Error(checkoutFailedMessageConstant)
		repository.reporter.Debug(localError.Error())
		return false
	}

	if !localExists {
		_, remoteExists, remoteError := lookupReferenceHash(gitRepository, plumbing.NewRemoteReferenceName(repository.remoteName, branch))
		if remoteError != nil {
			repository.reporter.Error(checkoutFailedMessageConstant)
			repository.reporter.Debug(remoteError.Error())
			return false
		}
		if !remoteExists {
			repository.reporter.Error(branchMissingMessageConstant)
			repository.reporter.Debug(fmt.Errorf(namedErrorTemplateConstant, ErrBranchNotFound, branch).Error())
			return false
		}

		remoteBranch := fmt.Sprintf(remoteBranchTemplateConstant, repository.remoteName, branch)
		if _, detachError := repository.runGit(executionContext, repository.path, checkoutSubcommandConstant, remoteBranch); detachError != nil {
			repository.reporter.Error(checkoutFailedMessageConstant)
			repository.reporter.Debug(detachError.Error())
			return false
		}
		if _, createError := repository.runGit(executionContext, repository.path, branchSubcommandConstant, branchTrackFlagConstant, branch, remoteBranch); createError != nil {
			repository.reporter.Error(checkoutFailedMessageConstant)
			repository.reporter.Debug(createError.Error())
			return false
		}
	}

	if _, checkoutError := repository.runGit(executionContext, repository.path, checkoutSubcommandConstant, branch); checkoutError != nil {
		repository.reporter.Error(checkoutFailedMessageConstant)
		repository.reporter.Debug(checkoutError.Error())
		return false
	}

	repository.reporter.Success(fmt.Sprintf(checkoutSucceededTemplateConstant, branch), zap.String(logFieldBranchConstant, branch))
	return true
}
