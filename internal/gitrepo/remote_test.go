package gitrepo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRemoteURL(testInstance *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expected      RemoteURL
		expectedError bool
	}{
		{
			name:     "scp_style_ssh",
			input:    "git@github.com:ThePorgs/Exegol.git",
			expected: RemoteURL{Protocol: RemoteProtocolSSH, Host: "github.com", Owner: "ThePorgs", Repository: "Exegol"},
		},
		{
			name:     "ssh_scheme",
			input:    "ssh://git@gitlab.example.com/team/tooling.git",
			expected: RemoteURL{Protocol: RemoteProtocolSSH, Host: "gitlab.example.com", Owner: "team", Repository: "tooling"},
		},
		{
			name:     "https_with_suffix",
			input:    "https://github.com/ThePorgs/Exegol-images.git",
			expected: RemoteURL{Protocol: RemoteProtocolHTTPS, Host: "github.com", Owner: "ThePorgs", Repository: "Exegol-images"},
		},
		{
			name:     "https_without_suffix",
			input:    "  https://github.com/temirov/gitsource  ",
			expected: RemoteURL{Protocol: RemoteProtocolHTTPS, Host: "github.com", Owner: "temirov", Repository: "gitsource"},
		},
		{
			name:          "empty",
			input:         "   ",
			expectedError: true,
		},
		{
			name:          "local_path",
			input:         "/srv/git/source.git",
			expectedError: true,
		},
		{
			name:          "ssh_without_owner",
			input:         "git@github.com:repository.git",
			expectedError: true,
		},
	}

	for testCaseIndex := range testCases {
		testCase := testCases[testCaseIndex]
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			parsed, parseError := ParseRemoteURL(testCase.input)
			if testCase.expectedError {
				require.Error(subtest, parseError)
				require.ErrorAs(subtest, parseError, &RemoteURLParseError{})
				return
			}
			require.NoError(subtest, parseError)
			require.Equal(subtest, testCase.expected, parsed)
		})
	}
}

func TestRemoteReferenceDescribe(testInstance *testing.T) {
	testCases := []struct {
		name      string
		reference RemoteReference
		expected  string
	}{
		{
			name:      "hosted",
			reference: RemoteReference{Name: "origin", URLs: []string{"git@github.com:ThePorgs/Exegol.git"}},
			expected:  "ThePorgs/Exegol on github.com",
		},
		{
			name:      "local",
			reference: RemoteReference{Name: "origin", URLs: []string{"/tmp/upstream.git", "/tmp/mirror.git"}},
			expected:  "/tmp/upstream.git",
		},
		{
			name:      "no_urls",
			reference: RemoteReference{Name: "origin"},
			expected:  "no fetch url",
		},
	}

	for testCaseIndex := range testCases {
		testCase := testCases[testCaseIndex]
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			require.Equal(subtest, testCase.expected, testCase.reference.Describe())
		})
	}
}
