package source

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

const (
	statusUseConstant              = "status"
	statusShortDescriptionConstant = "Show branch, cleanliness and up-to-date state of the checkout"
	statusLineTemplateConstant     = "%s: %s\n"
	statusRepositoryLabelConstant  = "repository"
	statusPathLabelConstant        = "path"
	statusAvailableLabelConstant   = "available"
	statusSubmoduleLabelConstant   = "submodule"
	statusRemoteLabelConstant      = "remote"
	statusBranchLabelConstant      = "branch"
	statusSafeLabelConstant        = "safe"
	statusUpToDateLabelConstant    = "up_to_date"
	statusDetachedValueConstant    = "(detached)"
	statusNoRemoteValueConstant    = "(none)"
	statusOperationNameConstant    = "status"
)

func (builder *CommandGroupBuilder) buildStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   statusUseConstant,
		Short: statusShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			runtime, prepareError := builder.prepare(command)
			if prepareError != nil {
				return prepareError
			}
			repository := runtime.repository
			output := command.OutOrStdout()

			printStatusLine := func(label string, value string) {
				fmt.Fprintf(output, statusLineTemplateConstant, label, value)
			}

			printStatusLine(statusRepositoryLabelConstant, repository.Name())
			printStatusLine(statusPathLabelConstant, repository.Path())
			printStatusLine(statusAvailableLabelConstant, strconv.FormatBool(repository.IsAvailable()))
			printStatusLine(statusSubmoduleLabelConstant, strconv.FormatBool(repository.IsSubmodule()))
			if !repository.IsAvailable() {
				return operationResult(false, statusOperationNameConstant)
			}

			remoteDescription := statusNoRemoteValueConstant
			if remote, found := repository.Remote(); found {
				remoteDescription = remote.Name + " (" + remote.Describe() + ")"
			}
			printStatusLine(statusRemoteLabelConstant, remoteDescription)

			executionContext := command.Context()
			branch, attached := repository.CurrentBranch(executionContext)
			if !attached {
				branch = statusDetachedValueConstant
			}
			printStatusLine(statusBranchLabelConstant, branch)
			printStatusLine(statusSafeLabelConstant, strconv.FormatBool(repository.SafeCheck(executionContext)))
			if attached {
				printStatusLine(statusUpToDateLabelConstant, strconv.FormatBool(repository.IsUpToDate(executionContext, "")))
			}
			return nil
		},
	}
}
