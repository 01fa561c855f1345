package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v6/config"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	submoduleSubcommandConstant           = "submodule"
	submoduleUpdateSubcommandConstant     = "update"
	submoduleInitFlagConstant             = "--init"
	submoduleRemoteFlagConstant           = "--remote"
	submoduleRecursiveFlagConstant        = "--recursive"
	pathspecSeparatorConstant             = "--"
	logFieldSubmoduleConstant             = "submodule"
	initSubmodulesTemplateConstant        = "Git %s init submodules"
	initSubmodulesStatusConstant          = "Initialization of git submodules"
	initSubmoduleTemplateConstant         = "Init submodule '%s'"
	initSubmoduleFailedTemplateConstant   = "Unable to initialize submodule '%s'."
	listSubmodulesFailedMessageConstant   = "Unable to read the git submodules configuration."
	submoduleNotFoundTemplateConstant     = "Git submodule '%s' not found."
	submoduleLookupFailedTemplateConstant = "Unable to load git submodule '%s'."
	updatingSubmoduleTemplateConstant     = "Updating submodule %s"
	submoduleUpdatedTemplateConstant      = "Submodule %s successfully updated."
	submoduleDirtyTemplateConstant        = "Submodule %s cannot be updated automatically as long as there are local modifications."
	submoduleUpdateAbortedMessageConstant = "Aborting git submodule update."
	submoduleUpdateFailedTemplateConstant = "Unable to update submodule %s."
)

// SubmoduleSourceUpdate moves the named submodule to its latest upstream revision,
// refusing when the submodule holds local modifications.
func (repository *Repository) SubmoduleSourceUpdate(executionContext context.Context, name string) bool {
	if !repository.available {
		return false
	}

	gitRepository, openError := repository.open()
	if openError != nil {
		repository.reporter.Error(fmt.Sprintf(submoduleLookupFailedTemplateConstant, name))
		repository.reporter.Debug(openError.Error())
		return false
	}
	submodule, lookupError := lookupSubmodule(gitRepository, name)
	if lookupError != nil {
		if errors.Is(lookupError, ErrSubmoduleNotFound) {
			repository.reporter.Debug(fmt.Sprintf(submoduleNotFoundTemplateConstant, name))
		} else {
			repository.reporter.Error(fmt.Sprintf(submoduleLookupFailedTemplateConstant, name))
			repository.reporter.Debug(lookupError.Error())
		}
		return false
	}

	submodulePath := filepath.Join(repository.path, filepath.FromSlash(submodule.Path))
	if detectCheckoutMarker(submodulePath) != checkoutMarkerNone {
		dirty, statusError := repository.worktreeDirty(executionContext, submodulePath)
		if statusError != nil {
			repository.reporter.Error(fmt.Sprintf(submoduleUpdateFailedTemplateConstant, name))
			repository.reporter.Debug(statusError.Error())
			repository.reporter.EmptyLine()
			return false
		}
		if dirty {
			repository.reporter.Warning(fmt.Sprintf(submoduleDirtyTemplateConstant, name), zap.Error(ErrSubmoduleDirty))
			repository.reporter.Error(submoduleUpdateAbortedMessageConstant)
			repository.reporter.EmptyLine()
			return false
		}
	}

	indicator := repository.reporter.Status(fmt.Sprintf(updatingSubmoduleTemplateConstant, name))
	_, updateError := repository.runGit(
		executionContext,
		repository.path,
		submoduleSubcommandConstant,
		submoduleUpdateSubcommandConstant,
		submoduleInitFlagConstant,
		submoduleRemoteFlagConstant,
		submoduleRecursiveFlagConstant,
		pathspecSeparatorConstant,
		submodule.Path,
	)
	indicator.Stop()
	if updateError != nil {
		repository.reporter.Error(fmt.Sprintf(submoduleUpdateFailedTemplateConstant, name))
		repository.reporter.Debug(updateError.Error(), zap.String(logFieldSubmoduleConstant, name))
		repository.reporter.EmptyLine()
		return false
	}

	repository.reporter.Success(fmt.Sprintf(submoduleUpdatedTemplateConstant, name), zap.String(logFieldSubmoduleConstant, name))
	return true
}

// initializeSubmodules checks out every submodule except the configured heavy ones
// at the revision recorded by the superproject.
func (repository *Repository) initializeSubmodules(executionContext context.Context) {
	if repository.submodule {
		return
	}
	repository.reporter.Verbose(fmt.Sprintf(initSubmodulesTemplateConstant, repository.name))

	gitRepository, openError := repository.open()
	if openError != nil {
		repository.reporter.Warning(listSubmodulesFailedMessageConstant, zap.Error(openError))
		return
	}
	submodules, listError := listSubmodules(gitRepository)
	if listError != nil {
		repository.reporter.Warning(listSubmodulesFailedMessageConstant, zap.Error(listError))
		return
	}
	selected := lo.Filter(submodules, func(submodule *config.Submodule, _ int) bool {
		return !lo.Contains(repository.heavySubmodules, submodule.Name)
	})
	if len(selected) == 0 {
		return
	}

	indicator := repository.reporter.Status(initSubmodulesStatusConstant)
	defer indicator.Stop()
	for _, submodule := range selected {
		repository.reporter.Debug(fmt.Sprintf(initSubmoduleTemplateConstant, submodule.Name))
		_, updateError := repository.runGit(
			executionContext,
			repository.path,
			submoduleSubcommandConstant,
			submoduleUpdateSubcommandConstant,
			submoduleInitFlagConstant,
			submoduleRecursiveFlagConstant,
			pathspecSeparatorConstant,
			submodule.Path,
		)
		if updateError != nil {
			repository.reporter.Warning(
				fmt.Sprintf(initSubmoduleFailedTemplateConstant, submodule.Name),
				zap.String(logFieldSubmoduleConstant, submodule.Name),
				zap.Error(updateError),
			)
		}
	}
}
