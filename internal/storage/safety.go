package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/manav03panchal/brewlog/internal/errors"
)

const (
	// MinFreeSpace is the minimum free space required for write operations (10MB).
	MinFreeSpace = 10 * 1024 * 1024
	// MinFreeSpaceWarning is the threshold for warning about low disk space (50MB).
	MinFreeSpaceWarning = 50 * 1024 * 1024
)

// DiskSpaceInfo contains information about available disk space.
type DiskSpaceInfo struct {
	Path       string
	TotalBytes uint64
	FreeBytes  uint64
}

// CheckDiskSpace returns a SystemError wrapping ErrDiskFull when the volume
// holding path has less than MinFreeSpace available. Unknown space is allowed.
func CheckDiskSpace(path string) error {
	info, err := GetDiskSpace(path)
	if err != nil {
		return nil
	}

	if info.FreeBytes < MinFreeSpace {
		return errors.NewSystemError(
			fmt.Sprintf("Insufficient disk space: %d MB free, need at least %d MB",
				info.FreeBytes/(1024*1024), MinFreeSpace/(1024*1024)),
			errors.ErrDiskFull,
		)
	}
	return nil
}

// CheckDiskSpaceWarning returns a warning when space is low, or "".
func CheckDiskSpaceWarning(path string) string {
	info, err := GetDiskSpace(path)
	if err != nil || info.FreeBytes >= MinFreeSpaceWarning {
		return ""
	}
	return fmt.Sprintf("Low disk space (%d MB free)", info.FreeBytes/(1024*1024))
}

// existingAncestor walks up from path until it finds something that exists.
func existingAncestor(path string) string {
	for {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(path)
		if parent == path {
			return path
		}
		path = parent
	}
}

// SafeWrite writes data to path atomically: the bytes go to a temporary file
// in the same directory which is synced and then renamed over path.
func SafeWrite(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := CheckDiskSpace(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".brewlog-*.tmp")
	if err != nil {
		return writeError("create temp file", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return writeError("write", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return writeError("sync", err)
	}
	if err := tmp.Close(); err != nil {
		return writeError("close", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return writeError("chmod", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return writeError("rename", err)
	}
	return nil
}

func writeError(op string, err error) error {
	switch {
	case isDiskFullError(err):
		return errors.NewSystemErrorWithOp(op, "Disk full", errors.ErrDiskFull)
	case os.IsPermission(err):
		return errors.NewSystemErrorWithOp(op, "Permission denied", fmt.Errorf("%w: %w", errors.ErrPermissionDenied, err))
	}
	return errors.NewSystemErrorWithOp(op, "Failed to write file", err)
}

// EnsureDirectory creates a directory with safe permissions if it doesn't exist.
func EnsureDirectory(path string) error {
	if err := CheckDiskSpace(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.MkdirAll(path, 0700); err != nil {
		return writeError("mkdir", err)
	}
	return nil
}
