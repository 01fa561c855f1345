package source

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	branchesUseConstant              = "branches"
	branchesShortDescriptionConstant = "Fetch and list the branches published by the remote"
	branchesOperationNameConstant    = "branch listing"
)

func (builder *CommandGroupBuilder) buildBranchesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   branchesUseConstant,
		Short: branchesShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			runtime, prepareError := builder.prepare(command)
			if prepareError != nil {
				return prepareError
			}
			if !runtime.repository.IsAvailable() {
				return operationResult(false, branchesOperationNameConstant)
			}
			for _, branch := range runtime.repository.ListBranches(command.Context()) {
				fmt.Fprintln(command.OutOrStdout(), branch)
			}
			return nil
		},
	}
}
