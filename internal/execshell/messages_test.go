package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildStartedMessageForFetchSkipsConfigurationOverrides(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"-c", "fetch.output=full", "fetch", "--verbose", "origin"},
			WorkingDirectory: "/workspace/repo",
		},
	}

	message := formatter.BuildStartedMessage(command)

	require.Equal(t, "Fetching from origin in /workspace/repo", message)
}

func TestBuildStartedMessageForFetchWithoutRemoteUsesAllRemotesLabel(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"fetch", "--prune"},
			WorkingDirectory: "/workspace/repo",
		},
	}

	message := formatter.BuildStartedMessage(command)

	require.Equal(t, "Fetching from all remotes in /workspace/repo", message)
}

func TestGitMessagesDescribeRepositoryOperations(t *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
		expected  string
	}{
		{
			name:      "pull",
			arguments: []string{"pull", "--no-edit", "origin", "main"},
			expected:  "Pulling main from origin in /workspace/repo",
		},
		{
			name:      "checkout",
			arguments: []string{"checkout", "feature-x"},
			expected:  "Switching /workspace/repo to feature-x",
		},
		{
			name:      "tracking_branch",
			arguments: []string{"branch", "--track", "feature-x", "origin/feature-x"},
			expected:  "Creating branch feature-x from origin/feature-x in /workspace/repo",
		},
		{
			name:      "submodule_latest",
			arguments: []string{"submodule", "update", "--init", "--remote", "--recursive", "--", "resources"},
			expected:  "Updating submodule resources to its latest upstream revision in /workspace/repo",
		},
		{
			name:      "submodule_all",
			arguments: []string{"submodule", "update", "--init", "--recursive"},
			expected:  "Updating submodule all submodules in /workspace/repo",
		},
		{
			name:      "ancestry",
			arguments: []string{"merge-base", "--is-ancestor", "abc", "def"},
			expected:  "Checking whether abc is an ancestor of def in /workspace/repo",
		},
		{
			name:      "unknown_subcommand",
			arguments: []string{"gc", "--auto"},
			expected:  "Running git gc --auto (in /workspace/repo)",
		},
	}

	formatter := CommandMessageFormatter{}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			command := ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: testCase.arguments, WorkingDirectory: "/workspace/repo"}}
			require.Equal(t, testCase.expected, formatter.BuildStartedMessage(command))
		})
	}
}

func TestBuildFailureMessagesIncludeExitCodeAndStandardError(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"clone", "--depth=1", "https://example.com/tool.git", "/opt/tool"},
			WorkingDirectory: "/opt",
		},
	}

	failureMessage := formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 128, StandardError: "fatal: repository not found\n"})
	require.Equal(t, "Failed to clone https://example.com/tool.git into /opt/tool (exit code 128: fatal: repository not found)", failureMessage)

	executionFailureMessage := formatter.BuildExecutionFailureMessage(command, errors.New("executable file not found"))
	require.Equal(t, "Unable to clone https://example.com/tool.git into /opt/tool: executable file not found", executionFailureMessage)
}
