package gitrepo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/gitsource/internal/execshell"
	"github.com/temirov/gitsource/internal/gitrepo"
	"github.com/temirov/gitsource/internal/ui"
)

func TestNewRepositoryValidatesDependencies(testInstance *testing.T) {
	shellExecutor, executorError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner())
	require.NoError(testInstance, executorError)

	testCases := []struct {
		name          string
		dependencies  gitrepo.Dependencies
		options       gitrepo.Options
		expectedError error
	}{
		{
			name:          "missing_executor",
			dependencies:  gitrepo.Dependencies{ToolLocator: execshell.NewOSCommandRunner(), Reporter: ui.NewNopReporter()},
			options:       gitrepo.Options{Path: "."},
			expectedError: gitrepo.ErrGitExecutorNotConfigured,
		},
		{
			name:          "missing_locator",
			dependencies:  gitrepo.Dependencies{GitExecutor: shellExecutor, Reporter: ui.NewNopReporter()},
			options:       gitrepo.Options{Path: "."},
			expectedError: gitrepo.ErrToolLocatorNotConfigured,
		},
		{
			name:          "missing_reporter",
			dependencies:  gitrepo.Dependencies{GitExecutor: shellExecutor, ToolLocator: execshell.NewOSCommandRunner()},
			options:       gitrepo.Options{Path: "."},
			expectedError: gitrepo.ErrReporterNotConfigured,
		},
		{
			name:          "missing_path",
			dependencies:  gitrepo.Dependencies{GitExecutor: shellExecutor, ToolLocator: execshell.NewOSCommandRunner(), Reporter: ui.NewNopReporter()},
			options:       gitrepo.Options{Path: "  "},
			expectedError: gitrepo.ErrRepositoryPathRequired,
		},
	}

	for testCaseIndex := range testCases {
		testCase := testCases[testCaseIndex]
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			repository, creationError := gitrepo.NewRepository(context.Background(), testCase.dependencies, testCase.options)
			require.ErrorIs(subtest, creationError, testCase.expectedError)
			require.Nil(subtest, repository)
		})
	}
}

func TestNewRepositoryWithoutMarkerIsUnavailable(testInstance *testing.T) {
	testCases := []struct {
		name                 string
		relativePath         string
		repositoryName       string
		expectedWarningCount int
		expectedHintCount    int
	}{
		{
			name:                 "wrapper_outside_clone",
			relativePath:         "plain",
			expectedWarningCount: 1,
		},
		{
			name:                 "wrapper_in_module_cache",
			relativePath:         filepath.Join("go", "pkg", "mod", "github.com", "temirov", "gitsource@v1.0.0"),
			expectedWarningCount: 1,
			expectedHintCount:    1,
		},
		{
			name:           "named_repository",
			relativePath:   "images",
			repositoryName: "images",
		},
	}

	for testCaseIndex := range testCases {
		testCase := testCases[testCaseIndex]
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			repositoryPath := filepath.Join(subtest.TempDir(), testCase.relativePath)
			require.NoError(subtest, os.MkdirAll(repositoryPath, 0o755))

			harness := newRepositoryHarness(subtest, gitrepo.Options{Path: repositoryPath, Name: testCase.repositoryName})
			require.False(subtest, harness.repository.IsAvailable())
			require.False(subtest, harness.repository.IsSubmodule())
			require.Equal(subtest, testCase.expectedWarningCount, harness.messageCount("has not been installed via git clone"))
			require.Equal(subtest, testCase.expectedHintCount, harness.messageCount(gitrepo.DefaultInstallCommand))
			require.Empty(subtest, harness.executor.invocations)
		})
	}
}

func TestNewRepositoryAccessors(testInstance *testing.T) {
	fixture := newCloneFixture(testInstance)
	harness := newRepositoryHarness(testInstance, gitrepo.Options{Path: fixture.localPath, Name: "images", Subject: "build recipes"})

	require.True(testInstance, harness.repository.IsAvailable())
	require.False(testInstance, harness.repository.IsSubmodule())
	require.Equal(testInstance, "images", harness.repository.Name())
	require.Equal(testInstance, "build recipes", harness.repository.Subject())
	require.Equal(testInstance, fixture.localPath, harness.repository.Path())

	remote, resolved := harness.repository.Remote()
	require.True(testInstance, resolved)
	require.Equal(testInstance, gitrepo.DefaultRemoteName, remote.Name)
	require.Equal(testInstance, []string{fixture.upstreamPath}, remote.URLs)
}

func TestNewRepositoryDefaults(testInstance *testing.T) {
	harness := newRepositoryHarness(testInstance, gitrepo.Options{Path: testInstance.TempDir()})
	require.Equal(testInstance, gitrepo.DefaultRepositoryName, harness.repository.Name())
	require.Equal(testInstance, gitrepo.DefaultRepositorySubject, harness.repository.Subject())
}

func TestNewRepositoryWithoutRemoteWarns(testInstance *testing.T) {
	requireGitEnvironment(testInstance)
	repositoryPath := filepath.Join(testInstance.TempDir(), "standalone")
	initRepository(testInstance, repositoryPath)
	commitFile(testInstance, repositoryPath, testReadmeFileName, "initial\n", "initial commit")

	harness := newRepositoryHarness(testInstance, gitrepo.Options{Path: repositoryPath})
	require.True(testInstance, harness.repository.IsAvailable())
	require.Equal(testInstance, 1, harness.messageCount("No remote git origin found on repository"))
	_, resolved := harness.repository.Remote()
	require.False(testInstance, resolved)
	require.False(testInstance, harness.repository.SafeCheck(context.Background()))
	require.Empty(testInstance, harness.repository.ListBranches(context.Background()))
}

func TestNewRepositoryWithoutGitIsUnavailable(testInstance *testing.T) {
	fixture := newCloneFixture(testInstance)
	harness := newRepositoryHarnessWithLocator(testInstance, gitrepo.Options{Path: fixture.localPath}, failingToolLocator{})

	require.False(testInstance, harness.repository.IsAvailable())
	require.Equal(testInstance, 1, harness.messageCount("Unable to find git tool locally"))
	require.False(testInstance, harness.repository.Update(context.Background()))
	require.False(testInstance, harness.repository.SubmoduleSourceUpdate(context.Background(), testSubmoduleName))

	emptyTarget := filepath.Join(fixture.root, "target")
	unavailable := newRepositoryHarnessWithLocator(testInstance, gitrepo.Options{Path: emptyTarget, Name: "images"}, failingToolLocator{})
	require.False(testInstance, unavailable.repository.Clone(context.Background(), fixture.upstreamPath, true))
	require.Equal(testInstance, 1, unavailable.messageCount("Please install git"))
	require.Empty(testInstance, unavailable.executor.invocations)
}

func TestNewRepositoryDetectsSubmoduleCheckout(testInstance *testing.T) {
	fixture := newSuperprojectFixture(testInstance)
	runGit(testInstance, fixture.localPath, "submodule", "update", "--init", "--", testSubmoduleName)

	harness := newRepositoryHarness(testInstance, gitrepo.Options{
		Path: filepath.Join(fixture.localPath, testSubmoduleName),
		Name: testSubmoduleName,
	})
	require.True(testInstance, harness.repository.IsAvailable())
	require.True(testInstance, harness.repository.IsSubmodule())
	require.Zero(testInstance, harness.executor.count("submodule"))
}

func TestClone(testInstance *testing.T) {
	fixture := newCloneFixture(testInstance)
	commitFile(testInstance, fixture.upstreamPath, testReadmeFileName, "second\n", "second commit")

	testCases := []struct {
		name              string
		optimizeDiskSpace bool
		expectedShallow   bool
	}{
		{name: "shallow", optimizeDiskSpace: true, expectedShallow: true},
		{name: "full", optimizeDiskSpace: false, expectedShallow: false},
	}

	for testCaseIndex := range testCases {
		testCase := testCases[testCaseIndex]
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			targetPath := filepath.Join(subtest.TempDir(), "clone")
			harness := newRepositoryHarness(subtest, gitrepo.Options{Path: targetPath, Name: "images"})
			require.False(subtest, harness.repository.IsAvailable())

			require.True(subtest, harness.repository.Clone(context.Background(), "file://"+fixture.upstreamPath, testCase.optimizeDiskSpace))
			require.True(subtest, harness.repository.IsAvailable())
			require.Equal(subtest, headHash(subtest, fixture.upstreamPath), headHash(subtest, targetPath))

			_, shallowError := os.Stat(filepath.Join(targetPath, ".git", "shallow"))
			require.Equal(subtest, testCase.expectedShallow, shallowError == nil)

			require.False(subtest, harness.repository.Clone(context.Background(), "file://"+fixture.upstreamPath, testCase.optimizeDiskSpace))
			require.Equal(subtest, 1, harness.messageCount("The images repo is already cloned."))
			require.Equal(subtest, 1, harness.executor.count("clone"))
		})
	}
}

func TestCloneFailureKeepsRepositoryUnavailable(testInstance *testing.T) {
	requireGitEnvironment(testInstance)
	root := testInstance.TempDir()
	harness := newRepositoryHarness(testInstance, gitrepo.Options{Path: filepath.Join(root, "clone"), Name: "images"})

	require.False(testInstance, harness.repository.Clone(context.Background(), filepath.Join(root, "missing-upstream"), true))
	require.False(testInstance, harness.repository.IsAvailable())
	require.Equal(testInstance, 1, harness.messageCount("Unable to clone the images repository."))
}
