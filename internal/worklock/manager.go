package worklock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

const (
	lockDirectoryPermissionsConstant     = 0o750
	pidFilePermissionsConstant           = 0o644
	lockFileExtensionConstant            = ".lock"
	pidFileExtensionConstant             = ".pid"
	defaultRetryDelayConstant            = 100 * time.Millisecond
	lockDirectoryRequiredMessageConstant = "lock directory must be provided"
	lockNameRequiredMessageConstant      = "lock name must be provided"
	lockedMessageConstant                = "working copy is locked by another process"
	lockHeldByTemplateConstant           = "%w: held by PID %d"
	lockFailureTemplateConstant          = "unable to acquire lock %s: %w"
	createDirectoryTemplateConstant      = "unable to create lock directory %s: %w"
	releaseFailureTemplateConstant       = "unable to release lock %s: %w"
	writePIDFailureTemplateConstant      = "unable to record lock owner %s: %w"
	lockNameReplacementConstant          = "_"
	lockNameTrimCharactersConstant       = "._"
)

// ErrLockDirectoryRequired indicates the manager was constructed without a directory.
var ErrLockDirectoryRequired = errors.New(lockDirectoryRequiredMessageConstant)

// ErrLockNameRequired indicates an empty lock name.
var ErrLockNameRequired = errors.New(lockNameRequiredMessageConstant)

// ErrLocked indicates another process holds the lock.
var ErrLocked = errors.New(lockedMessageConstant)

var unsafeLockNameCharacters = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Manager hands out named locks stored in a single directory.
type Manager struct {
	lockDirectory string
	retryDelay    time.Duration
}

// Lock is a held advisory lock.
type Lock struct {
	fileLock *flock.Flock
	pidPath  string
	name     string
}

// NewManager creates the lock directory when needed.
func NewManager(lockDirectory string) (*Manager, error) {
	trimmedDirectory := strings.TrimSpace(lockDirectory)
	if len(trimmedDirectory) == 0 {
		return nil, ErrLockDirectoryRequired
	}
	if creationError := os.MkdirAll(trimmedDirectory, lockDirectoryPermissionsConstant); creationError != nil {
		return nil, fmt.Errorf(createDirectoryTemplateConstant, trimmedDirectory, creationError)
	}
	return &Manager{lockDirectory: trimmedDirectory, retryDelay: defaultRetryDelayConstant}, nil
}

// Acquire waits for the named lock until the context ends. When the context expires
// while another process holds the lock, the error wraps ErrLocked.
func (manager *Manager) Acquire(executionContext context.Context, name string) (*Lock, error) {
	lockPath, pidPath, pathError := manager.paths(name)
	if pathError != nil {
		return nil, pathError
	}

	fileLock := flock.New(lockPath)
	locked, lockError := fileLock.TryLockContext(executionContext, manager.retryDelay)
	if lockError != nil && !errors.Is(lockError, context.DeadlineExceeded) && !errors.Is(lockError, context.Canceled) {
		return nil, fmt.Errorf(lockFailureTemplateConstant, name, lockError)
	}
	if !locked {
		if ownerPID, readError := readPIDFile(pidPath); readError == nil {
			return nil, fmt.Errorf(lockHeldByTemplateConstant, ErrLocked, ownerPID)
		}
		return nil, ErrLocked
	}

	if writeError := os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())), pidFilePermissionsConstant); writeError != nil {
		_ = fileLock.Unlock()
		return nil, fmt.Errorf(writePIDFailureTemplateConstant, name, writeError)
	}
	return &Lock{fileLock: fileLock, pidPath: pidPath, name: name}, nil
}

// IsLocked reports whether another holder currently owns the named lock.
func (manager *Manager) IsLocked(name string) (bool, error) {
	lockPath, _, pathError := manager.paths(name)
	if pathError != nil {
		return false, pathError
	}
	fileLock := flock.New(lockPath)
	locked, lockError := fileLock.TryLock()
	if lockError != nil {
		return false, fmt.Errorf(lockFailureTemplateConstant, name, lockError)
	}
	if locked {
		_ = fileLock.Unlock()
		return false, nil
	}
	return true, nil
}

func (manager *Manager) paths(name string) (string, string, error) {
	replacedName := unsafeLockNameCharacters.ReplaceAllString(strings.TrimSpace(name), lockNameReplacementConstant)
	sanitizedName := strings.Trim(replacedName, lockNameTrimCharactersConstant)
	if len(sanitizedName) == 0 {
		return "", "", ErrLockNameRequired
	}
	basePath := filepath.Join(manager.lockDirectory, sanitizedName)
	return basePath + lockFileExtensionConstant, basePath + pidFileExtensionConstant, nil
}

// Name returns the name the lock was acquired with.
func (lock *Lock) Name() string {
	return lock.name
}

// Release drops the lock and removes its owner record.
func (lock *Lock) Release() error {
	_ = os.Remove(lock.pidPath)
	if unlockError := lock.fileLock.Unlock(); unlockError != nil {
		return fmt.Errorf(releaseFailureTemplateConstant, lock.name, unlockError)
	}
	return nil
}

func readPIDFile(pidPath string) (int, error) {
	content, readError := os.ReadFile(pidPath)
	if readError != nil {
		return 0, readError
	}
	return strconv.Atoi(strings.TrimSpace(string(content)))
}
