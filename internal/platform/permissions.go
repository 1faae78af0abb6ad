package platform

import (
	"os"
	"runtime"
)

// Chmod restricts a file such as the user settings file. Windows has no
// Unix permission bits, so it is a no-op there.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}
