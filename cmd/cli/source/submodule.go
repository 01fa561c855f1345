package source

import (
	"github.com/spf13/cobra"
)

const (
	submoduleUseConstant              = "submodule <name>"
	submoduleShortDescriptionConstant = "Update a submodule to the latest commit of its tracked branch"
	submoduleOperationNameConstant    = "submodule update"
)

func (builder *CommandGroupBuilder) buildSubmoduleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   submoduleUseConstant,
		Short: submoduleShortDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			runtime, prepareError := builder.prepare(command)
			if prepareError != nil {
				return prepareError
			}
			return runtime.withLock(command.Context(), func() error {
				return operationResult(runtime.repository.SubmoduleSourceUpdate(command.Context(), arguments[0]), submoduleOperationNameConstant)
			})
		},
	}
}
