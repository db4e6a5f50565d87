package cli

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestUserDir(t *testing.T) {
	t.Setenv("HOME", "/home/eco")

	base := t.TempDir()

	got := userDir(func() (string, error) { return base, nil }, ".config")
	if got != filepath.Join(base, appName()) {
		t.Errorf("userDir() = %q", got)
	}

	got = userDir(func() (string, error) { return "", errors.New("unset") }, ".cache")
	if got != filepath.Join("/home/eco", ".cache", appName()) {
		t.Errorf("userDir() fallback = %q", got)
	}
}

func TestAppName(t *testing.T) {
	name := appName()
	if name == "" || strings.HasPrefix(name, ".") || filepath.Ext(name) != "" {
		t.Errorf("appName() = %q", name)
	}

	if debugBinary.MatchString(name) {
		t.Errorf("appName() kept debugger name %q", name)
	}
}

func TestConfigPath(t *testing.T) {
	if got, want := configPath(baseConfig), filepath.Join(configDir(), "config"); got != want {
		t.Errorf("configPath() = %q, want %q", got, want)
	}
}
