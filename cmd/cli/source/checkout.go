package source

import (
	"github.com/spf13/cobra"
)

const (
	checkoutUseConstant              = "checkout <branch>"
	checkoutShortDescriptionConstant = "Switch the checkout to another branch, tracking the remote when needed"
	checkoutOperationNameConstant    = "checkout"
)

func (builder *CommandGroupBuilder) buildCheckoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   checkoutUseConstant,
		Short: checkoutShortDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			runtime, prepareError := builder.prepare(command)
			if prepareError != nil {
				return prepareError
			}
			return runtime.withLock(command.Context(), func() error {
				return operationResult(runtime.repository.Checkout(command.Context(), arguments[0]), checkoutOperationNameConstant)
			})
		},
	}
}
