package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/ecoscript/pkg"
)

// baseConfig is the base name of the configuration files.
const baseConfig = "config"

// defaultDirMode is the permission mode of created directories.
const defaultDirMode os.FileMode = 0o700

// debugBinary matches the default output name of the dlv debugger.
var debugBinary = regexp.MustCompile(`^__debug_bin\d*$`)

// appName returns the name of the running executable without extension or
// leading dots. It names the configuration and cache directories, so that
// renamed binaries keep separate settings. Debugger builds use [pkg.Name].
var appName = sync.OnceValue(func() string {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}

	name := filepath.Base(exe)
	name = strings.TrimLeft(strings.TrimSuffix(name, filepath.Ext(name)), ".")

	if name == "" || debugBinary.MatchString(name) {
		return pkg.Name
	}

	return name
})

// userDir returns the application's subdirectory of the directory reported
// by base, falling back to home/dot, then to the working directory.
func userDir(base func() (string, error), dot string) string {
	dir, err := base()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, dot)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, appName())
}

// configDir returns the configuration directory path.
var configDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

// cacheDir returns the cache directory path used for history and profiles.
var cacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

// configPath joins elem to the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
