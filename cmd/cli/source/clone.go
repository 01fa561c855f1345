package source

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

const (
	cloneUseConstant              = "clone [url]"
	cloneShortDescriptionConstant = "Clone the repository into the configured path"
	cloneLongDescriptionConstant  = "clone populates the configured path from url, or from source.clone_url when no url is given. Clones are shallow unless --full is set or source.optimize_disk_space is false."
	cloneFullFlagNameConstant     = "full"
	cloneFullFlagUsageConstant    = "Clone the complete history instead of the latest commit."
	cloneOperationNameConstant    = "clone"
)

// ErrCloneURLRequired indicates neither an argument nor configuration supplied a clone URL.
var ErrCloneURLRequired = errors.New("clone url required; pass it as an argument or set source.clone_url")

func (builder *CommandGroupBuilder) buildCloneCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   cloneUseConstant,
		Short: cloneShortDescriptionConstant,
		Long:  cloneLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			runtime, prepareError := builder.prepare(command)
			if prepareError != nil {
				return prepareError
			}

			cloneURL := runtime.configuration.CloneURL
			if len(arguments) > 0 && len(strings.TrimSpace(arguments[0])) > 0 {
				cloneURL = strings.TrimSpace(arguments[0])
			}
			if len(cloneURL) == 0 {
				return ErrCloneURLRequired
			}

			fullClone, flagError := command.Flags().GetBool(cloneFullFlagNameConstant)
			if flagError != nil {
				return flagError
			}
			optimizeDiskSpace := runtime.configuration.OptimizeDiskSpace && !fullClone

			return runtime.withLock(command.Context(), func() error {
				return operationResult(runtime.repository.Clone(command.Context(), cloneURL, optimizeDiskSpace), cloneOperationNameConstant)
			})
		},
	}
	command.Flags().Bool(cloneFullFlagNameConstant, false, cloneFullFlagUsageConstant)
	return command
}
