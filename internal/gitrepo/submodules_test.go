package gitrepo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitsource/internal/gitrepo"
)

func TestInitializeSubmodulesSkipsHeavySubmodules(testInstance *testing.T) {
	testCases := []struct {
		name                  string
		heavySubmodules       []string
		expectedInitialized   []string
		expectedUninitialized []string
	}{
		{
			name:                  "default_heavy_list",
			expectedInitialized:   []string{testSubmoduleName},
			expectedUninitialized: []string{testHeavySubmoduleName},
		},
		{
			name:                "empty_heavy_list",
			heavySubmodules:     []string{},
			expectedInitialized: []string{testSubmoduleName, testHeavySubmoduleName},
		},
		{
			name:                  "custom_heavy_list",
			heavySubmodules:       []string{testSubmoduleName, testHeavySubmoduleName},
			expectedUninitialized: []string{testSubmoduleName, testHeavySubmoduleName},
		},
	}

	for testCaseIndex := range testCases {
		testCase := testCases[testCaseIndex]
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			fixture := newSuperprojectFixture(subtest)
			harness := newRepositoryHarness(subtest, gitrepo.Options{Path: fixture.localPath, HeavySubmodules: testCase.heavySubmodules})
			require.True(subtest, harness.repository.IsAvailable())

			for _, submoduleName := range testCase.expectedInitialized {
				require.FileExists(subtest, filepath.Join(fixture.localPath, submoduleName, testSubmoduleFileName))
			}
			for _, submoduleName := range testCase.expectedUninitialized {
				require.NoFileExists(subtest, filepath.Join(fixture.localPath, submoduleName, testSubmoduleFileName))
			}
			require.Equal(subtest, len(testCase.expectedInitialized), harness.executor.count("submodule"))
		})
	}
}

func TestSubmoduleSourceUpdate(testInstance *testing.T) {
	fixture := newSuperprojectFixture(testInstance)
	harness := newRepositoryHarness(testInstance, gitrepo.Options{Path: fixture.localPath})
	submodulePayload := filepath.Join(fixture.localPath, testSubmoduleName, testSubmoduleFileName)
	require.Equal(testInstance, "version one\n", readFile(testInstance, submodulePayload))

	latestCommit := commitFile(testInstance, fixture.submoduleUpstreamPath, testSubmoduleFileName, "version two\n", "resource pack v2")
	harness.executor.reset()

	require.True(testInstance, harness.repository.SubmoduleSourceUpdate(context.Background(), testSubmoduleName))
	require.Equal(testInstance, "version two\n", readFile(testInstance, submodulePayload))
	require.Equal(testInstance, latestCommit, headHash(testInstance, filepath.Join(fixture.localPath, testSubmoduleName)))
	require.Equal(testInstance, 1, harness.messageCount("Submodule resource-pack successfully updated."))
	require.True(testInstance, harness.repository.SafeCheck(context.Background()))
}

func TestSubmoduleSourceUpdateInitializesHeavySubmodule(testInstance *testing.T) {
	fixture := newSuperprojectFixture(testInstance)
	harness := newRepositoryHarness(testInstance, gitrepo.Options{Path: fixture.localPath})
	heavyPayload := filepath.Join(fixture.localPath, testHeavySubmoduleName, testSubmoduleFileName)
	require.NoFileExists(testInstance, heavyPayload)

	require.True(testInstance, harness.repository.SubmoduleSourceUpdate(context.Background(), testHeavySubmoduleName))
	require.Equal(testInstance, "large payload\n", readFile(testInstance, heavyPayload))
}

func TestSubmoduleSourceUpdateRefusesLocalModifications(testInstance *testing.T) {
	fixture := newSuperprojectFixture(testInstance)
	harness := newRepositoryHarness(testInstance, gitrepo.Options{Path: fixture.localPath})
	submodulePath := filepath.Join(fixture.localPath, testSubmoduleName)
	submoduleHead := headHash(testInstance, submodulePath)

	commitFile(testInstance, fixture.submoduleUpstreamPath, testSubmoduleFileName, "version two\n", "resource pack v2")
	writeFile(testInstance, filepath.Join(submodulePath, testSubmoduleFileName), "local edit\n")
	harness.executor.reset()

	require.False(testInstance, harness.repository.SubmoduleSourceUpdate(context.Background(), testSubmoduleName))
	require.Equal(testInstance, "local edit\n", readFile(testInstance, filepath.Join(submodulePath, testSubmoduleFileName)))
	require.Equal(testInstance, submoduleHead, headHash(testInstance, submodulePath))
	require.Equal(testInstance, 1, harness.messageCount("cannot be updated automatically as long as there are local modifications"))
	require.Equal(testInstance, 1, harness.messageCount("Aborting git submodule update."))
	require.Zero(testInstance, harness.executor.count("submodule"))
}

func TestSubmoduleSourceUpdateUnknownSubmodule(testInstance *testing.T) {
	fixture := newSuperprojectFixture(testInstance)
	harness := newRepositoryHarness(testInstance, gitrepo.Options{Path: fixture.localPath})
	harness.executor.reset()

	require.False(testInstance, harness.repository.SubmoduleSourceUpdate(context.Background(), "unknown"))
	require.Equal(testInstance, 1, harness.messageCount("Git submodule 'unknown' not found."))
	require.Empty(testInstance, harness.executor.invocations)
}

func TestSubmoduleSourceUpdateWithoutRepository(testInstance *testing.T) {
	repositoryPath := testInstance.TempDir()
	harness := newRepositoryHarness(testInstance, gitrepo.Options{Path: repositoryPath, Name: "images"})

	require.False(testInstance, harness.repository.SubmoduleSourceUpdate(context.Background(), testSubmoduleName))
	entries, readError := os.ReadDir(repositoryPath)
	require.NoError(testInstance, readError)
	require.Empty(testInstance, entries)
}
