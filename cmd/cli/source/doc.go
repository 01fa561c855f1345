// Package source provides the source command group, which drives the
// gitrepo facade against the configured checkout. Mutating subcommands run
// under an advisory lock shared by every gitsource process.
package source
