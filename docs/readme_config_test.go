package docs_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/gitsource/cmd/cli"
)

const (
	readmeFileNameConstant           = "README.md"
	yamlFenceStartConstant           = "```yaml"
	yamlFenceEndConstant             = "```"
	configHeaderMarkerConstant       = "# config.yaml"
	parentDirectoryReferenceConstant = ".."
	missingHeaderMessageConstant     = "README example missing config header marker"
	missingStartFenceMessageConstant = "README example missing yaml fence start"
	missingEndFenceMessageConstant   = "README example missing yaml fence end"
	unexpectedKeyMessageTemplate     = "README example documents unknown key %s.%s"
	missingKeyMessageTemplate        = "README example omits key %s.%s"
)

func TestReadmeConfigurationMatchesEmbeddedDefaults(testInstance *testing.T) {
	snippetContent := readmeConfigurationSnippet(testInstance)

	readmeDocument := map[string]map[string]any{}
	require.NoError(testInstance, yaml.Unmarshal([]byte(snippetContent), &readmeDocument))

	embeddedContent, _ := cli.EmbeddedDefaultConfiguration()
	embeddedDocument := map[string]map[string]any{}
	require.NoError(testInstance, yaml.Unmarshal(embeddedContent, &embeddedDocument))

	for sectionName, embeddedSection := range embeddedDocument {
		readmeSection, sectionFound := readmeDocument[sectionName]
		require.Truef(testInstance, sectionFound, missingKeyMessageTemplate, sectionName, "")
		for keyName := range embeddedSection {
			_, keyFound := readmeSection[keyName]
			require.Truef(testInstance, keyFound, missingKeyMessageTemplate, sectionName, keyName)
		}
		for keyName := range readmeSection {
			_, keyKnown := embeddedSection[keyName]
			require.Truef(testInstance, keyKnown, unexpectedKeyMessageTemplate, sectionName, keyName)
		}
	}
}

func TestReadmeConfigurationDecodes(testInstance *testing.T) {
	snippetContent := readmeConfigurationSnippet(testInstance)

	viperInstance := viper.New()
	viperInstance.SetConfigType("yaml")
	require.NoError(testInstance, viperInstance.ReadConfig(bytes.NewReader([]byte(snippetContent))))

	var configuration cli.ApplicationConfiguration
	require.NoError(testInstance, viperInstance.Unmarshal(&configuration))

	require.Equal(testInstance, "wrapper", configuration.Source.Name)
	require.Equal(testInstance, []string{"resources"}, configuration.Source.HeavySubmodules)
	require.Equal(testInstance, 30*time.Second, configuration.Source.LockTimeout)
	require.True(testInstance, configuration.Source.OptimizeDiskSpace)
}

func readmeConfigurationSnippet(testInstance *testing.T) string {
	testInstance.Helper()

	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	readmePath := filepath.Join(workingDirectory, parentDirectoryReferenceConstant, readmeFileNameConstant)
	contentBytes, readError := os.ReadFile(readmePath)
	require.NoError(testInstance, readError)

	contentText := string(contentBytes)
	headerIndex := strings.Index(contentText, configHeaderMarkerConstant)
	require.NotEqual(testInstance, -1, headerIndex, missingHeaderMessageConstant)

	fenceStartIndex := strings.LastIndex(contentText[:headerIndex], yamlFenceStartConstant)
	require.NotEqual(testInstance, -1, fenceStartIndex, missingStartFenceMessageConstant)

	remainingText := contentText[headerIndex:]
	fenceEndRelativeIndex := strings.Index(remainingText, yamlFenceEndConstant)
	require.NotEqual(testInstance, -1, fenceEndRelativeIndex, missingEndFenceMessageConstant)
	fenceEndIndex := headerIndex + fenceEndRelativeIndex

	return strings.TrimSpace(contentText[fenceStartIndex+len(yamlFenceStartConstant) : fenceEndIndex])
}
