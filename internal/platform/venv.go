package platform

import (
	"path/filepath"
	"runtime"
)

// VenvBinDir returns the directory holding executables inside the virtual
// environment rooted at venv.
func VenvBinDir(venv string) string {
	return venvBinDir(runtime.GOOS, venv)
}

// VenvExecutable returns the path of the named executable (e.g. "pip")
// inside the virtual environment rooted at venv.
func VenvExecutable(venv, name string) string {
	return venvExecutable(runtime.GOOS, venv, name)
}

func venvBinDir(goos, venv string) string {
	if goos == "windows" {
		return filepath.Join(venv, "Scripts")
	}
	return filepath.Join(venv, "bin")
}

func venvExecutable(goos, venv, name string) string {
	if goos == "windows" {
		name += ".exe"
	}
	return filepath.Join(venvBinDir(goos, venv), name)
}
