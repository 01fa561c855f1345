package source

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	updateUseConstant              = "update"
	updateShortDescriptionConstant = "Pull the current branch when the remote is ahead"
	updateLongDescriptionConstant  = "update refuses to touch a checkout with uncommitted changes or a detached HEAD and reports when the branch is already up to date."
	updateOperationNameConstant    = "update"
	updatedLineTemplateConstant    = "updated: %t\n"
)

func (builder *CommandGroupBuilder) buildUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   updateUseConstant,
		Short: updateShortDescriptionConstant,
		Long:  updateLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			runtime, prepareError := builder.prepare(command)
			if prepareError != nil {
				return prepareError
			}
			if !runtime.repository.IsAvailable() {
				return operationResult(false, updateOperationNameConstant)
			}
			return runtime.withLock(command.Context(), func() error {
				updated := runtime.repository.Update(command.Context())
				fmt.Fprintf(command.OutOrStdout(), updatedLineTemplateConstant, updated)
				return nil
			})
		},
	}
}
