package source

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/temirov/gitsource/internal/gitrepo"
)

const (
	configurationPathKeyConstant              = "path"
	configurationNameKeyConstant              = "name"
	configurationSubjectKeyConstant           = "subject"
	configurationRemoteKeyConstant            = "remote"
	configurationCloneURLKeyConstant          = "clone_url"
	configurationOptimizeDiskSpaceKeyConstant = "optimize_disk_space"
	configurationHeavySubmodulesKeyConstant   = "heavy_submodules"
	configurationLockDirectoryKeyConstant     = "lock_directory"
	configurationLockTimeoutKeyConstant       = "lock_timeout"
	defaultRepositoryPathConstant             = "."
	defaultLockTimeoutConstant                = 30 * time.Second
	applicationCacheDirectoryNameConstant     = "gitsource"
	lockDirectoryNameConstant                 = "locks"
)

// Configuration describes the checkout managed by the source commands.
type Configuration struct {
	Path              string        `mapstructure:"path"`
	Name              string        `mapstructure:"name"`
	Subject           string        `mapstructure:"subject"`
	Remote            string        `mapstructure:"remote"`
	CloneURL          string        `mapstructure:"clone_url"`
	OptimizeDiskSpace bool          `mapstructure:"optimize_disk_space"`
	HeavySubmodules   []string      `mapstructure:"heavy_submodules"`
	LockDirectory     string        `mapstructure:"lock_directory"`
	LockTimeout       time.Duration `mapstructure:"lock_timeout"`
}

// DefaultConfiguration returns the configuration used when nothing is configured.
func DefaultConfiguration() Configuration {
	return Configuration{
		Path:              defaultRepositoryPathConstant,
		Name:              gitrepo.DefaultRepositoryName,
		Subject:           gitrepo.DefaultRepositorySubject,
		Remote:            gitrepo.DefaultRemoteName,
		CloneURL:          "",
		OptimizeDiskSpace: true,
		HeavySubmodules:   gitrepo.DefaultHeavySubmodules(),
		LockDirectory:     "",
		LockTimeout:       defaultLockTimeoutConstant,
	}
}

// DefaultConfigurationValues produces Viper defaults for the source commands under rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		rootKey + "." + configurationPathKeyConstant:              defaults.Path,
		rootKey + "." + configurationNameKeyConstant:              defaults.Name,
		rootKey + "." + configurationSubjectKeyConstant:           defaults.Subject,
		rootKey + "." + configurationRemoteKeyConstant:            defaults.Remote,
		rootKey + "." + configurationCloneURLKeyConstant:          defaults.CloneURL,
		rootKey + "." + configurationOptimizeDiskSpaceKeyConstant: defaults.OptimizeDiskSpace,
		rootKey + "." + configurationHeavySubmodulesKeyConstant:   defaults.HeavySubmodules,
		rootKey + "." + configurationLockDirectoryKeyConstant:     defaults.LockDirectory,
		rootKey + "." + configurationLockTimeoutKeyConstant:       defaults.LockTimeout,
	}
}

// sanitize trims values, expands home shortcuts and fills blanks with defaults.
func (configuration Configuration) sanitize() Configuration {
	defaults := DefaultConfiguration()
	sanitized := configuration

	sanitized.Path = strings.TrimSpace(configuration.Path)
	if len(sanitized.Path) == 0 {
		sanitized.Path = defaults.Path
	}
	sanitized.Path = homeDirectoryExpander.Expand(sanitized.Path)

	sanitized.Name = valueOrDefault(configuration.Name, defaults.Name)
	sanitized.Subject = valueOrDefault(configuration.Subject, defaults.Subject)
	sanitized.Remote = valueOrDefault(configuration.Remote, defaults.Remote)
	sanitized.CloneURL = strings.TrimSpace(configuration.CloneURL)

	if configuration.HeavySubmodules == nil {
		sanitized.HeavySubmodules = defaults.HeavySubmodules
	} else {
		sanitized.HeavySubmodules = lo.Uniq(lo.FilterMap(configuration.HeavySubmodules, func(name string, _ int) (string, bool) {
			trimmedName := strings.TrimSpace(name)
			return trimmedName, len(trimmedName) > 0
		}))
	}

	sanitized.LockDirectory = strings.TrimSpace(configuration.LockDirectory)
	if len(sanitized.LockDirectory) == 0 {
		sanitized.LockDirectory = defaultLockDirectory()
	}
	sanitized.LockDirectory = homeDirectoryExpander.Expand(sanitized.LockDirectory)

	if sanitized.LockTimeout <= 0 {
		sanitized.LockTimeout = defaults.LockTimeout
	}

	return sanitized
}

func defaultLockDirectory() string {
	cacheDirectory, cacheDirectoryError := os.UserCacheDir()
	if cacheDirectoryError != nil || len(cacheDirectory) == 0 {
		cacheDirectory = os.TempDir()
	}
	return filepath.Join(cacheDirectory, applicationCacheDirectoryNameConstant, lockDirectoryNameConstant)
}

func valueOrDefault(value string, fallback string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return fallback
	}
	return trimmedValue
}
