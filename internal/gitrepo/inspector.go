package gitrepo

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/config"
	"github.com/go-git/go-git/v6/plumbing"
)

const (
	wrappedErrorTemplateConstant = "%w: %w"
	namedErrorTemplateConstant   = "%w: %s"
)

// open re-reads the repository from disk so objects written by git commands are visible.
func (repository *Repository) open() (*git.Repository, error) {
	return git.PlainOpen(repository.path)
}

func (repository *Repository) resolveRemote() (RemoteReference, error) {
	gitRepository, openError := repository.open()
	if openError != nil {
		return RemoteReference{}, openError
	}
	remotes, remotesError := gitRepository.Remotes()
	if remotesError != nil {
		return RemoteReference{}, remotesError
	}
	if len(remotes) == 0 {
		return RemoteReference{}, ErrRemoteNotConfigured
	}
	remote, remoteError := gitRepository.Remote(repository.remoteName)
	if remoteError != nil {
		return RemoteReference{}, fmt.Errorf(wrappedErrorTemplateConstant, ErrRemoteNotConfigured, remoteError)
	}
	remoteConfiguration := remote.Config()
	return RemoteReference{
		Name: remoteConfiguration.Name,
		URLs: append([]string(nil), remoteConfiguration.URLs...),
	}, nil
}

func headBranch(gitRepository *git.Repository) (string, error) {
	head, headError := gitRepository.Head()
	if headError != nil {
		return "", headError
	}
	if !head.Name().IsBranch() {
		return "", ErrDetachedHead
	}
	return head.Name().Short(), nil
}

func lookupReferenceHash(gitRepository *git.Repository, referenceName plumbing.ReferenceName) (plumbing.Hash, bool, error) {
	reference, referenceError := gitRepository.Reference(referenceName, true)
	if referenceError != nil {
		if errors.Is(referenceError, plumbing.ErrReferenceNotFound) {
			return plumbing.ZeroHash, false, nil
		}
		return plumbing.ZeroHash, false, referenceError
	}
	return reference.Hash(), true, nil
}

func lookupSubmodule(gitRepository *git.Repository, name string) (*config.Submodule, error) {
	worktree, worktreeError := gitRepository.Worktree()
	if worktreeError != nil {
		return nil, worktreeError
	}
	submodule, submoduleError := worktree.Submodule(name)
	if submoduleError != nil {
		if errors.Is(submoduleError, git.ErrSubmoduleNotFound) {
			return nil, fmt.Errorf(namedErrorTemplateConstant, ErrSubmoduleNotFound, name)
		}
		return nil, submoduleError
	}
	return submodule.Config(), nil
}

func listSubmodules(gitRepository *git.Repository) ([]*config.Submodule, error) {
	worktree, worktreeError := gitRepository.Worktree()
	if worktreeError != nil {
		return nil, worktreeError
	}
	submodules, submodulesError := worktree.Submodules()
	if submodulesError != nil {
		return nil, submodulesError
	}
	configurations := make([]*config.Submodule, 0, len(submodules))
	for _, submodule := range submodules {
		configurations = append(configurations, submodule.Config())
	}
	return configurations, nil
}
