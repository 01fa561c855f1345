package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	referencesJoinSeparatorConstant         = ", "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	flagPrefixConstant                      = "-"
	argumentTerminatorConstant              = "--"
)

const (
	gitConfigurationOverrideFlagConstant = "-c"
	gitStatusSubcommandNameConstant      = "status"
	gitFetchSubcommandNameConstant       = "fetch"
	gitPullSubcommandNameConstant        = "pull"
	gitCheckoutSubcommandNameConstant    = "checkout"
	gitBranchSubcommandNameConstant      = "branch"
	gitSubmoduleSubcommandNameConstant   = "submodule"
	gitCloneSubcommandNameConstant       = "clone"
	gitMergeBaseSubcommandNameConstant   = "merge-base"
	gitTrackFlagConstant                 = "--track"
	gitRemoteFlagConstant                = "--remote"
)

const (
	gitStatusStartTemplateConstant                       = "Reviewing working tree status in %s"
	gitStatusSuccessTemplateConstant                     = "Collected working tree status for %s"
	gitStatusFailureTemplateConstant                     = "Failed to review working tree status in %s (exit code %d%s)"
	gitStatusExecutionFailureTemplateConstant            = "Unable to review working tree status in %s: %s"
	gitFetchStartTemplateConstant                        = "Fetching from %s in %s"
	gitFetchSuccessTemplateConstant                      = "Fetched from %s in %s"
	gitFetchFailureTemplateConstant                      = "Failed to fetch from %s in %s (exit code %d%s)"
	gitFetchExecutionFailureTemplateConstant             = "Unable to fetch from %s in %s: %s"
	gitFetchAllRemotesLabelConstant                      = "all remotes"
	gitPullStartTemplateConstant                         = "Pulling %s from %s in %s"
	gitPullSuccessTemplateConstant                       = "Pulled %s from %s in %s"
	gitPullFailureTemplateConstant                       = "Failed to pull %s from %s in %s (exit code %d%s)"
	gitPullExecutionFailureTemplateConstant              = "Unable to pull %s from %s in %s: %s"
	gitCheckoutStartTemplateConstant                     = "Switching %s to %s"
	gitCheckoutSuccessTemplateConstant                   = "%s now on %s"
	gitCheckoutFailureTemplateConstant                   = "Failed to switch %s to %s (exit code %d%s)"
	gitCheckoutExecutionFailureTemplateConstant          = "Unable to switch %s to %s: %s"
	gitBranchCreationStartTemplateConstant               = "Creating branch %s from %s in %s"
	gitBranchCreationSuccessTemplateConstant             = "Created branch %s from %s in %s"
	gitBranchCreationFailureTemplateConstant             = "Failed to create branch %s from %s in %s (exit code %d%s)"
	gitBranchCreationExecutionFailureTemplateConstant    = "Unable to create branch %s from %s in %s: %s"
	gitSubmoduleUpdateStartTemplateConstant              = "Updating submodule %s in %s"
	gitSubmoduleUpdateSuccessTemplateConstant            = "Updated submodule %s in %s"
	gitSubmoduleUpdateFailureTemplateConstant            = "Failed to update submodule %s in %s (exit code %d%s)"
	gitSubmoduleUpdateExecutionFailureTemplateConstant   = "Unable to update submodule %s in %s: %s"
	gitSubmoduleLatestLabelTemplateConstant              = "%s to its latest upstream revision"
	gitCloneStartTemplateConstant                        = "Cloning %s into %s"
	gitCloneSuccessTemplateConstant                      = "Cloned %s into %s"
	gitCloneFailureTemplateConstant                      = "Failed to clone %s into %s (exit code %d%s)"
	gitCloneExecutionFailureTemplateConstant             = "Unable to clone %s into %s: %s"
	gitAncestryStartTemplateConstant                     = "Checking whether %s is an ancestor of %s in %s"
	gitAncestrySuccessTemplateConstant                   = "%s is an ancestor of %s in %s"
	gitAncestryFailureTemplateConstant                   = "%s is not an ancestor of %s in %s (exit code %d%s)"
	gitAncestryExecutionFailureTemplateConstant          = "Unable to compare %s with %s in %s: %s"
	gitSubmoduleAllLabelConstant                         = "all submodules"
	gitMergeBaseOperandCountConstant                     = 2
	gitConfigurationOverrideArgumentCountConstant        = 2
	gitCloneOperandCountConstant                         = 2
	gitBranchOperandCountConstant                        = 2
	gitPullOperandCountConstant                          = 2
	gitCheckoutOperandCountConstant                      = 1
	gitFetchRemoteOperandIndexConstant                   = 0
	gitSubmoduleOperationIndexConstant                   = 0
	pathspecOffsetConstant        = 1
	gitCheckoutTargetIndexConstant                       = 0
	gitBranchNameIndexConstant                           = 0
	gitBranchStartPointIndexConstant                     = 1
	gitCloneSourceIndexConstant                          = 0
	gitCloneDestinationIndexConstant                     = 1
	gitPullRemoteIndexConstant                           = 0
	gitPullBranchIndexConstant                           = 1
	gitMergeBaseAncestorIndexConstant                    = 0
	gitMergeBaseDescendantIndexConstant                  = 1
	gitSubmoduleUpdateOperationConstant                  = "update"
	gitCurrentBranchUpstreamLabelConstant                = "current branch"
	gitDefaultRemoteLabelConstant                        = "default remote"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name == CommandGit {
		return formatter.describeGitMessage(command, result, failure, stage)
	}
	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := stripConfigurationOverrides(command.Details.Arguments)
	if len(arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(arguments[0])
	operands := extractOperands(arguments[1:])
	workingDirectory := formatter.describeWorkingDirectory(command)

	var templates stageTemplates
	var values []any
	switch subcommand {
	case gitStatusSubcommandNameConstant:
		templates = stageTemplates{gitStatusStartTemplateConstant, gitStatusSuccessTemplateConstant, gitStatusFailureTemplateConstant, gitStatusExecutionFailureTemplateConstant}
		values = []any{workingDirectory}
	case gitFetchSubcommandNameConstant:
		remote := formatter.ensureValue(argumentAtIndex(operands, gitFetchRemoteOperandIndexConstant), gitFetchAllRemotesLabelConstant)
		templates = stageTemplates{gitFetchStartTemplateConstant, gitFetchSuccessTemplateConstant, gitFetchFailureTemplateConstant, gitFetchExecutionFailureTemplateConstant}
		values = []any{remote, workingDirectory}
	case gitPullSubcommandNameConstant:
		if len(operands) < gitPullOperandCountConstant {
			operands = append(operands, make([]string, gitPullOperandCountConstant-len(operands))...)
		}
		branch := formatter.ensureValue(operands[gitPullBranchIndexConstant], gitCurrentBranchUpstreamLabelConstant)
		remote := formatter.ensureValue(operands[gitPullRemoteIndexConstant], gitDefaultRemoteLabelConstant)
		templates = stageTemplates{gitPullStartTemplateConstant, gitPullSuccessTemplateConstant, gitPullFailureTemplateConstant, gitPullExecutionFailureTemplateConstant}
		values = []any{branch, remote, workingDirectory}
	case gitCheckoutSubcommandNameConstant:
		if len(operands) < gitCheckoutOperandCountConstant {
			return formatter.buildGenericMessage(command, result, failure, stage)
		}
		templates = stageTemplates{gitCheckoutStartTemplateConstant, gitCheckoutSuccessTemplateConstant, gitCheckoutFailureTemplateConstant, gitCheckoutExecutionFailureTemplateConstant}
		values = []any{workingDirectory, operands[gitCheckoutTargetIndexConstant]}
	case gitBranchSubcommandNameConstant:
		if !containsArgument(arguments, gitTrackFlagConstant) || len(operands) < gitBranchOperandCountConstant {
			return formatter.buildGenericMessage(command, result, failure, stage)
		}
		templates = stageTemplates{gitBranchCreationStartTemplateConstant, gitBranchCreationSuccessTemplateConstant, gitBranchCreationFailureTemplateConstant, gitBranchCreationExecutionFailureTemplateConstant}
		values = []any{operands[gitBranchNameIndexConstant], operands[gitBranchStartPointIndexConstant], workingDirectory}
	case gitSubmoduleSubcommandNameConstant:
		if argumentAtIndex(operands, gitSubmoduleOperationIndexConstant) != gitSubmoduleUpdateOperationConstant {
			return formatter.buildGenericMessage(command, result, failure, stage)
		}
		submoduleLabel := formatter.joinReferences(extractPathspecs(arguments))
		if len(submoduleLabel) == 0 {
			submoduleLabel = gitSubmoduleAllLabelConstant
		}
		if containsArgument(arguments, gitRemoteFlagConstant) {
			submoduleLabel = fmt.Sprintf(gitSubmoduleLatestLabelTemplateConstant, submoduleLabel)
		}
		templates = stageTemplates{gitSubmoduleUpdateStartTemplateConstant, gitSubmoduleUpdateSuccessTemplateConstant, gitSubmoduleUpdateFailureTemplateConstant, gitSubmoduleUpdateExecutionFailureTemplateConstant}
		values = []any{submoduleLabel, workingDirectory}
	case gitCloneSubcommandNameConstant:
		if len(operands) < gitCloneOperandCountConstant {
			return formatter.buildGenericMessage(command, result, failure, stage)
		}
		templates = stageTemplates{gitCloneStartTemplateConstant, gitCloneSuccessTemplateConstant, gitCloneFailureTemplateConstant, gitCloneExecutionFailureTemplateConstant}
		values = []any{operands[gitCloneSourceIndexConstant], operands[gitCloneDestinationIndexConstant]}
	case gitMergeBaseSubcommandNameConstant:
		if len(operands) < gitMergeBaseOperandCountConstant {
			return formatter.buildGenericMessage(command, result, failure, stage)
		}
		templates = stageTemplates{gitAncestryStartTemplateConstant, gitAncestrySuccessTemplateConstant, gitAncestryFailureTemplateConstant, gitAncestryExecutionFailureTemplateConstant}
		values = []any{operands[gitMergeBaseAncestorIndexConstant], operands[gitMergeBaseDescendantIndexConstant], workingDirectory}
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	return formatter.render(templates, values, result, failure, stage)
}

type stageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

func (formatter CommandMessageFormatter) render(templates stageTemplates, values []any, result ExecutionResult, failure error, stage messageStage) string {
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, values...)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, values...)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, append(values, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))...)
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates.executionFailure, append(values, formatter.describeFailure(failure))...)
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	workingDirectorySuffix := formatter.formatWorkingDirectorySuffix(command)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) ensureValue(value string, fallback string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		if len(fallback) == 0 {
			return fallbackUnknownValueLabelConstant
		}
		return fallback
	}
	return trimmedValue
}

func (formatter CommandMessageFormatter) joinReferences(references []string) string {
	return strings.Join(references, referencesJoinSeparatorConstant)
}

// stripConfigurationOverrides drops leading "-c key=value" pairs that precede the git subcommand.
func stripConfigurationOverrides(arguments []string) []string {
	remaining := arguments
	for len(remaining) >= gitConfigurationOverrideArgumentCountConstant && remaining[0] == gitConfigurationOverrideFlagConstant {
		remaining = remaining[gitConfigurationOverrideArgumentCountConstant:]
	}
	return remaining
}

// extractOperands returns the non-flag arguments, excluding everything after "--".
func extractOperands(arguments []string) []string {
	operands := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if trimmedArgument == argumentTerminatorConstant {
			break
		}
		if strings.HasPrefix(trimmedArgument, flagPrefixConstant) {
			continue
		}
		operands = append(operands, trimmedArgument)
	}
	return operands
}

// extractPathspecs returns the arguments following "--".
func extractPathspecs(arguments []string) []string {
	for argumentIndex, argument := range arguments {
		if strings.TrimSpace(argument) == argumentTerminatorConstant {
			return append([]string{}, arguments[argumentIndex+pathspecOffsetConstant:]...)
		}
	}
	return nil
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func argumentAtIndex(arguments []string, index int) string {
	if index >= 0 && index < len(arguments) {
		return arguments[index]
	}
	return emptyStringConstant
}
