package gitrepo_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/gitsource/internal/execshell"
	"github.com/temirov/gitsource/internal/gitrepo"
	"github.com/temirov/gitsource/internal/ui"
)

const (
	testGitExecutableConstant    = "git"
	testDefaultBranchConstant    = "main"
	testUpstreamDirectoryName    = "upstream"
	testLocalDirectoryName       = "local"
	testSubmoduleUpstreamName    = "resource-pack-upstream"
	testSubmoduleName            = "resource-pack"
	testHeavySubmoduleUpstream   = "resources-upstream"
	testHeavySubmoduleName       = "resources"
	testReadmeFileName           = "README.md"
	testSubmoduleFileName        = "payload.txt"
	testConfigurationOverrideKey = "-c"
)

type recordingGitExecutor struct {
	delegate    gitrepo.GitExecutor
	invocations [][]string
}

func (executor *recordingGitExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.invocations = append(executor.invocations, append([]string{}, details.Arguments...))
	return executor.delegate.ExecuteGit(executionContext, details)
}

func (executor *recordingGitExecutor) count(subcommand string) int {
	total := 0
	for _, arguments := range executor.invocations {
		remaining := arguments
		for len(remaining) >= 2 && remaining[0] == testConfigurationOverrideKey {
			remaining = remaining[2:]
		}
		if len(remaining) > 0 && remaining[0] == subcommand {
			total++
		}
	}
	return total
}

func (executor *recordingGitExecutor) reset() {
	executor.invocations = nil
}

type failingToolLocator struct{}

func (failingToolLocator) Locate(name execshell.CommandName) (string, error) {
	return "", exec.ErrNotFound
}

type repositoryHarness struct {
	repository *gitrepo.Repository
	executor   *recordingGitExecutor
	logs       *observer.ObservedLogs
}

func newRepositoryHarness(testInstance *testing.T, options gitrepo.Options) repositoryHarness {
	testInstance.Helper()
	return newRepositoryHarnessWithLocator(testInstance, options, execshell.NewOSCommandRunner())
}

func newRepositoryHarnessWithLocator(testInstance *testing.T, options gitrepo.Options, locator gitrepo.ToolLocator) repositoryHarness {
	testInstance.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	shellExecutor, executorError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner())
	require.NoError(testInstance, executorError)
	executor := &recordingGitExecutor{delegate: shellExecutor}

	repository, creationError := gitrepo.NewRepository(context.Background(), gitrepo.Dependencies{
		GitExecutor: executor,
		ToolLocator: locator,
		Reporter:    ui.NewZapReporter(zap.New(core), nil),
	}, options)
	require.NoError(testInstance, creationError)
	return repositoryHarness{repository: repository, executor: executor, logs: logs}
}

func (harness repositoryHarness) messageCount(snippet string) int {
	return harness.logs.FilterMessageSnippet(snippet).Len()
}

// requireGitEnvironment isolates git from user configuration and allows local submodule transports.
func requireGitEnvironment(testInstance *testing.T) {
	testInstance.Helper()
	if _, lookupError := exec.LookPath(testGitExecutableConstant); lookupError != nil {
		testInstance.Skip("git executable not available")
	}
	testInstance.Setenv("HOME", testInstance.TempDir())
	testInstance.Setenv("XDG_CONFIG_HOME", testInstance.TempDir())
	testInstance.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	testInstance.Setenv("GIT_AUTHOR_NAME", "Source Tester")
	testInstance.Setenv("GIT_AUTHOR_EMAIL", "tester@example.com")
	testInstance.Setenv("GIT_COMMITTER_NAME", "Source Tester")
	testInstance.Setenv("GIT_COMMITTER_EMAIL", "tester@example.com")
	testInstance.Setenv("GIT_CONFIG_COUNT", "3")
	testInstance.Setenv("GIT_CONFIG_KEY_0", "protocol.file.allow")
	testInstance.Setenv("GIT_CONFIG_VALUE_0", "always")
	testInstance.Setenv("GIT_CONFIG_KEY_1", "init.defaultBranch")
	testInstance.Setenv("GIT_CONFIG_VALUE_1", testDefaultBranchConstant)
	testInstance.Setenv("GIT_CONFIG_KEY_2", "advice.detachedHead")
	testInstance.Setenv("GIT_CONFIG_VALUE_2", "false")
}

func runGit(testInstance *testing.T, workingDirectory string, arguments ...string) string {
	testInstance.Helper()
	command := exec.Command(testGitExecutableConstant, arguments...)
	command.Dir = workingDirectory
	output, runError := command.CombinedOutput()
	require.NoError(testInstance, runError, string(output))
	return strings.TrimSpace(string(output))
}

func writeFile(testInstance *testing.T, path string, content string) {
	testInstance.Helper()
	require.NoError(testInstance, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(testInstance, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(testInstance *testing.T, path string) string {
	testInstance.Helper()
	content, readError := os.ReadFile(path)
	require.NoError(testInstance, readError)
	return string(content)
}

func commitFile(testInstance *testing.T, repositoryPath string, fileName string, content string, message string) string {
	testInstance.Helper()
	writeFile(testInstance, filepath.Join(repositoryPath, fileName), content)
	runGit(testInstance, repositoryPath, "add", fileName)
	runGit(testInstance, repositoryPath, "commit", "-m", message)
	return headHash(testInstance, repositoryPath)
}

func initRepository(testInstance *testing.T, repositoryPath string) {
	testInstance.Helper()
	require.NoError(testInstance, os.MkdirAll(repositoryPath, 0o755))
	runGit(testInstance, repositoryPath, "init", "--initial-branch="+testDefaultBranchConstant)
}

func headHash(testInstance *testing.T, repositoryPath string) string {
	testInstance.Helper()
	repository, openError := git.PlainOpen(repositoryPath)
	require.NoError(testInstance, openError)
	head, headError := repository.Head()
	require.NoError(testInstance, headError)
	return head.Hash().String()
}

func branchHash(testInstance *testing.T, repositoryPath string, referenceName plumbing.ReferenceName) (string, bool) {
	testInstance.Helper()
	repository, openError := git.PlainOpen(repositoryPath)
	require.NoError(testInstance, openError)
	reference, referenceError := repository.Reference(referenceName, true)
	if errors.Is(referenceError, plumbing.ErrReferenceNotFound) {
		return "", false
	}
	require.NoError(testInstance, referenceError)
	return reference.Hash().String(), true
}

// cloneFixture is an upstream repository with one commit and a standalone clone of it.
type cloneFixture struct {
	root         string
	upstreamPath string
	localPath    string
}

func newCloneFixture(testInstance *testing.T) cloneFixture {
	testInstance.Helper()
	requireGitEnvironment(testInstance)
	root := testInstance.TempDir()
	fixture := cloneFixture{
		root:         root,
		upstreamPath: filepath.Join(root, testUpstreamDirectoryName),
		localPath:    filepath.Join(root, testLocalDirectoryName),
	}
	initRepository(testInstance, fixture.upstreamPath)
	commitFile(testInstance, fixture.upstreamPath, testReadmeFileName, "initial\n", "initial commit")
	runGit(testInstance, root, "clone", fixture.upstreamPath, fixture.localPath)
	return fixture
}

// superprojectFixture is an upstream superproject carrying two submodules, cloned without them.
type superprojectFixture struct {
	cloneFixture
	submoduleUpstreamPath      string
	heavySubmoduleUpstreamPath string
}

func newSuperprojectFixture(testInstance *testing.T) superprojectFixture {
	testInstance.Helper()
	requireGitEnvironment(testInstance)
	root := testInstance.TempDir()
	fixture := superprojectFixture{
		cloneFixture: cloneFixture{
			root:         root,
			upstreamPath: filepath.Join(root, testUpstreamDirectoryName),
			localPath:    filepath.Join(root, testLocalDirectoryName),
		},
		submoduleUpstreamPath:      filepath.Join(root, testSubmoduleUpstreamName),
		heavySubmoduleUpstreamPath: filepath.Join(root, testHeavySubmoduleUpstream),
	}

	initRepository(testInstance, fixture.submoduleUpstreamPath)
	commitFile(testInstance, fixture.submoduleUpstreamPath, testSubmoduleFileName, "version one\n", "resource pack v1")
	initRepository(testInstance, fixture.heavySubmoduleUpstreamPath)
	commitFile(testInstance, fixture.heavySubmoduleUpstreamPath, testSubmoduleFileName, "large payload\n", "resources v1")

	initRepository(testInstance, fixture.upstreamPath)
	commitFile(testInstance, fixture.upstreamPath, testReadmeFileName, "initial\n", "initial commit")
	runGit(testInstance, fixture.upstreamPath, "submodule", "add", "-b", testDefaultBranchConstant, fixture.submoduleUpstreamPath, testSubmoduleName)
	runGit(testInstance, fixture.upstreamPath, "submodule", "add", "-b", testDefaultBranchConstant, fixture.heavySubmoduleUpstreamPath, testHeavySubmoduleName)
	runGit(testInstance, fixture.upstreamPath, "commit", "-m", "add submodules")

	runGit(testInstance, root, "clone", fixture.upstreamPath, fixture.localPath)
	return fixture
}
