// Package gitrepo wraps a local git working copy behind a small maintenance facade.
//
// Repository detects whether a path is a standalone clone or a submodule
// checkout, resolves its origin remote, and offers fetch-backed status checks,
// pull, branch checkout, clone and submodule updates. Reads go through go-git;
// anything touching the network or the working tree runs the git executable
// through execshell. Failures are reported to a ui.Reporter and surface as
// boolean results so a host CLI can always continue with its existing code.
package gitrepo
