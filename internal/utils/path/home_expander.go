// Package pathutils resolves user supplied filesystem locations.
package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const homeShortcutConstant = "~"

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander converts user home shortcuts to absolute paths.
// The home directory is looked up at most once per expander.
type HomeExpander struct {
	homeDirectory func() (string, error)
}

// NewHomeExpander constructs a HomeExpander using the operating system lookup.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom provider.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{homeDirectory: sync.OnceValues(provider)}
}

// Expand replaces a leading "~" or "~/" with the user's home directory.
// Other inputs, including "~user" forms, are returned unchanged, as is
// every input when the home directory cannot be determined.
func (expander *HomeExpander) Expand(candidatePath string) string {
	relativePath, hasShortcut := splitHomeShortcut(candidatePath)
	if expander == nil || !hasShortcut {
		return candidatePath
	}

	homeDirectory, homeDirectoryError := expander.homeDirectory()
	if homeDirectoryError != nil || len(homeDirectory) == 0 {
		return candidatePath
	}
	return filepath.Join(homeDirectory, relativePath)
}

// Resolve expands the home shortcut and returns a cleaned absolute path.
// A blank candidate resolves to the empty string.
func (expander *HomeExpander) Resolve(candidatePath string) (string, error) {
	trimmedPath := strings.TrimSpace(candidatePath)
	if len(trimmedPath) == 0 {
		return "", nil
	}
	return filepath.Abs(expander.Expand(trimmedPath))
}

func splitHomeShortcut(candidatePath string) (string, bool) {
	if candidatePath == homeShortcutConstant {
		return "", true
	}
	for _, separator := range []string{"/", string(os.PathSeparator)} {
		if remainder, found := strings.CutPrefix(candidatePath, homeShortcutConstant+separator); found {
			return remainder, true
		}
	}
	return candidatePath, false
}
