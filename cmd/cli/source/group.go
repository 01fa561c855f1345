package source

import (
	"github.com/spf13/cobra"

	"github.com/temirov/gitsource/internal/gitrepo"
)

const (
	groupUseConstant              = "source"
	groupShortDescriptionConstant = "Maintain the tool's own source checkout"
	groupLongDescriptionConstant  = "source inspects and updates a git checkout of the tool: branch status, self-update, branch switching, cloning and submodule refresh."
)

// CommandGroupBuilder assembles the source command group.
type CommandGroupBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        ConfigurationProvider
	GitExecutorFactory           GitExecutorFactory
	ToolLocator                  gitrepo.ToolLocator
}

// Build constructs the source command hierarchy.
func (builder *CommandGroupBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   groupUseConstant,
		Short: groupShortDescriptionConstant,
		Long:  groupLongDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	bindRepositoryFlags(command)

	command.AddCommand(
		builder.buildStatusCommand(),
		builder.buildBranchesCommand(),
		builder.buildUpdateCommand(),
		builder.buildCheckoutCommand(),
		builder.buildCloneCommand(),
		builder.buildSubmoduleCommand(),
	)

	return command, nil
}
